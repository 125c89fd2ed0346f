package venv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/go-logr/logr"
)

// Builder creates the python virtual environment skeleton that the
// package payloads are extracted over.
type Builder struct {
	// Python is the interpreter used to create the environment.
	// Defaults to python3.
	Python string
	// SystemSitePackages exposes the interpreter's global
	// site-packages inside the environment.
	SystemSitePackages bool
}

// Create runs the venv module and prepares the usr/ symlinks, so
// payloads installing into /usr land inside the environment's own
// bin and lib directories.
func (b *Builder) Create(ctx context.Context, destDir string) error {
	log := logr.FromContextOrDiscard(ctx)

	python := b.Python
	if python == "" {
		python = "python3"
	}
	args := []string{"-m", "venv"}
	if b.SystemSitePackages {
		args = append(args, "--system-site-packages")
	}
	args = append(args, "--without-pip", destDir)

	log.V(1).Info("creating virtual environment", "python", python, "dest", destDir)
	cmd := exec.CommandContext(ctx, python, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("creating venv: %w: %s", err, out)
	}

	usr := filepath.Join(destDir, "usr")
	if err := os.Mkdir(usr, 0o755); err != nil {
		return fmt.Errorf("creating usr: %w", err)
	}
	for _, link := range []struct {
		name   string
		target string
	}{
		{"bin", "../bin"},
		{"lib", "../lib"},
		{"lib64", "../lib"},
	} {
		if err := os.Symlink(link.target, filepath.Join(usr, link.name)); err != nil {
			return fmt.Errorf("linking usr/%s: %w", link.name, err)
		}
	}
	return nil
}
