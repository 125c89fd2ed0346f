package relocate

import (
	"context"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-logr/logr"
)

// UnitPrefix is prepended to patched unit files so they cannot
// collide with the host's own unit of the same base name.
const UnitPrefix = "venv-"

var (
	execStartExp    = regexp.MustCompile(`(?m)^ExecStart=(.*)$`)
	execStartPreExp = regexp.MustCompile(`(?m)^ExecStartPre=-(.*)$`)
)

// FixSystemdUnits prefixes ExecStart and ExecStartPre command paths
// with the relocation target. Unit files ship read-only, so the mode
// is lifted for the edit and restored afterwards, and each unit is
// renamed with the venv- prefix.
func FixSystemdUnits(ctx context.Context, env *Environment) error {
	log := logr.FromContextOrDiscard(ctx)
	for _, dir := range env.SystemdDirs {
		services, err := filepath.Glob(filepath.Join(env.Root, dir, "*.service"))
		if err != nil {
			return err
		}
		for _, service := range services {
			log.V(2).Info("patching unit", "path", service)
			if err := os.Chmod(service, 0o644); err != nil {
				return err
			}
			if err := replaceAll(service, execStartExp, "ExecStart="+env.Target+"$1"); err != nil {
				return err
			}
			if err := replaceAll(service, execStartPreExp, "ExecStartPre=-"+env.Target+"$1"); err != nil {
				return err
			}
			if err := os.Chmod(service, 0o444); err != nil {
				return err
			}
			renamed := filepath.Join(filepath.Dir(service), UnitPrefix+filepath.Base(service))
			if err := os.Rename(service, renamed); err != nil {
				return err
			}
		}
	}
	return nil
}
