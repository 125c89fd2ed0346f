package relocate

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
)

// FixAlternatives re-points symlinks that go through the
// update-alternatives machinery. The selector link cannot resolve
// inside the jail, so each such link is assumed to have a
// version-suffixed sibling and is rewritten to point at that sibling
// under the relocation target. A link whose sibling is missing is
// reported and left untouched.
func FixAlternatives(ctx context.Context, env *Environment) error {
	log := logr.FromContextOrDiscard(ctx)
	return filepath.WalkDir(env.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type()&os.ModeSymlink == 0 {
			return nil
		}
		linkTarget, err := os.Readlink(path)
		if err != nil || !strings.Contains(linkTarget, "alternatives") {
			return nil
		}
		sibling := path + env.AlternativesSuffix
		if _, err := os.Stat(sibling); err != nil {
			log.Info("alternative link target not found", "link", path, "sibling", sibling)
			return nil
		}
		rel, err := filepath.Rel(env.Root, sibling)
		if err != nil {
			return err
		}
		relocated := filepath.Join(env.Target, rel)
		log.V(2).Info("rewriting alternatives link", "link", path, "target", relocated)
		if err := os.Remove(path); err != nil {
			return err
		}
		return os.Symlink(relocated, path)
	})
}
