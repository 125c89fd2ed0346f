package relocate

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
)

// FixSymlinks converts absolute symlinks under the swept directories
// into relative links with the same resolution target, so no link
// escapes the tree once it is relocated. A link whose target does not
// exist inside the tree is reported and left untouched.
func FixSymlinks(ctx context.Context, env *Environment) error {
	log := logr.FromContextOrDiscard(ctx)
	for _, dir := range env.SymlinkDirs {
		root := filepath.Join(env.Root, dir)
		if _, err := os.Stat(root); err != nil {
			continue
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type()&os.ModeSymlink == 0 {
				return nil
			}
			linkTarget, err := os.Readlink(path)
			if err != nil || !strings.HasPrefix(linkTarget, "/") {
				return nil
			}
			resolved := filepath.Join(env.Root, strings.TrimPrefix(linkTarget, "/"))
			if _, err := os.Stat(resolved); err != nil {
				log.Info("symlink target not found inside tree", "link", path, "target", linkTarget)
				return nil
			}
			rel, err := filepath.Rel(filepath.Dir(path), resolved)
			if err != nil {
				return err
			}
			log.V(2).Info("relativizing symlink", "link", path, "target", rel)
			if err := os.Remove(path); err != nil {
				return err
			}
			return os.Symlink(rel, path)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
