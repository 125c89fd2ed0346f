package relocate

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
)

// DirMode pairs a tree-relative directory with the mode it must have.
type DirMode struct {
	Path string
	Mode os.FileMode
}

// DefaultDirModes lists directories that commonly end up with wrong
// permissions. When a directory is not owned by any package, cpio
// creates it with the build user's umask, which on some hosts locks
// out group and world access entirely.
func DefaultDirModes() []DirMode {
	return []DirMode{
		{"etc", 0o755},
		{"etc/cron.daily", 0o755},
		{"etc/logrotate.d", 0o755},
		{"etc/modprobe.d", 0o755},
		{"etc/sudoers.d", 0o750},
		{"srv", 0o755},
		{"srv/www", 0o755},
		{"usr", 0o755},
		{"usr/share", 0o755},
		{"usr/share/doc", 0o755},
		{"usr/share/doc/packages", 0o755},
		{"usr/share/help", 0o755},
		{"usr/share/help/C", 0o755},
		{"usr/share/man", 0o755},
		{"usr/share/man/man1", 0o755},
		{"var", 0o755},
		{"var/cache", 0o755},
		{"var/lib", 0o755},
		{"var/log", 0o755},
	}
}

// FixPermissions forces the mode of every directory in the table that
// exists. Missing directories are skipped.
func FixPermissions(ctx context.Context, env *Environment) error {
	log := logr.FromContextOrDiscard(ctx)
	for _, dm := range env.DirModes {
		dir := filepath.Join(env.Root, dm.Path)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		log.V(3).Info("normalizing directory mode", "dir", dir, "mode", dm.Mode)
		if err := os.Chmod(dir, dm.Mode); err != nil {
			return err
		}
	}
	return nil
}
