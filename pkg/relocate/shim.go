package relocate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
)

// OriginalSuffix marks the renamed real interpreter binaries.
const OriginalSuffix = ".original"

const loaderTemplate = `#!/bin/sh

export VIRTUAL_ENV="%s"
export PATH="$VIRTUAL_ENV/bin:$PATH"
export LD_LIBRARY_PATH="$VIRTUAL_ENV/bin"
exec %s "$@"
`

// InstallShims replaces every python interpreter under bin/ with a
// wrapper that exports the environment and execs the renamed original
// at its relocated path. After this pass any process can invoke a
// former interpreter name without knowing about the environment.
func InstallShims(ctx context.Context, env *Environment) error {
	log := logr.FromContextOrDiscard(ctx)
	matches, err := filepath.Glob(filepath.Join(env.Root, "bin", "python*"))
	if err != nil {
		return err
	}
	for _, python := range matches {
		if strings.HasSuffix(python, OriginalSuffix) {
			continue
		}
		original := python + OriginalSuffix
		log.V(2).Info("installing interpreter shim", "interpreter", python)
		if err := os.Rename(python, original); err != nil {
			return err
		}
		relocated := filepath.Join(env.Target, "bin", filepath.Base(original))
		loader := fmt.Sprintf(loaderTemplate, env.Target, relocated)
		if err := os.WriteFile(python, []byte(loader), 0o755); err != nil {
			return err
		}
		if err := os.Chmod(python, 0o755); err != nil {
			return err
		}
	}
	return nil
}
