package relocate

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/go-logr/logr"
)

// Activator describes the two edits applied to one shell dialect's
// activation script: re-pointing the VIRTUAL_ENV assignment and
// inserting the library path export.
type Activator struct {
	// Name of the script under bin/.
	Name string
	// ReplacePattern matches the VIRTUAL_ENV assignment line.
	ReplacePattern string
	// ReplaceLine is the replacement; %s receives the relocation
	// target.
	ReplaceLine string
	// InsertAfter is the anchor line the export is placed after.
	InsertAfter string
	// InsertLine is the inserted line; %s receives the library
	// directory.
	InsertLine string
}

// DefaultActivators covers the three dialects virtualenv ships.
func DefaultActivators() []Activator {
	return []Activator{
		{
			Name:           "activate",
			ReplacePattern: `VIRTUAL_ENV=".*"`,
			ReplaceLine:    `VIRTUAL_ENV="%s"`,
			InsertAfter:    "deactivate nondestructive",
			InsertLine:     `export LD_LIBRARY_PATH="%s"`,
		},
		{
			Name:           "activate.csh",
			ReplacePattern: `setenv VIRTUAL_ENV ".*"`,
			ReplaceLine:    `setenv VIRTUAL_ENV "%s"`,
			InsertAfter:    "deactivate nondestructive",
			InsertLine:     `setenv LD_LIBRARY_PATH "%s"`,
		},
		{
			Name:           "activate.fish",
			ReplacePattern: `set -gx VIRTUAL_ENV ".*"`,
			ReplaceLine:    `set -gx VIRTUAL_ENV "%s"`,
			InsertAfter:    "deactivate nondestructive",
			InsertLine:     `set -gx LD_LIBRARY_PATH "%s"`,
		},
	}
}

// FixActivators points each activation script at the relocated
// environment and exports the jail's library path. Any failure here
// is fatal: a broken activator poisons every later use of the
// environment.
func FixActivators(ctx context.Context, env *Environment) error {
	log := logr.FromContextOrDiscard(ctx)
	// lib rather than lib64, which stays invariant across
	// architectures
	libDir := filepath.Join(env.Target, "lib")
	for _, activator := range env.Activators {
		path := filepath.Join(env.Root, "bin", activator.Name)
		log.V(2).Info("patching activator", "path", path)
		pattern, err := regexp.Compile(activator.ReplacePattern)
		if err != nil {
			return fmt.Errorf("bad replace pattern for %s: %w", activator.Name, err)
		}
		if err := replaceAll(path, pattern, fmt.Sprintf(activator.ReplaceLine, env.Target)); err != nil {
			return fmt.Errorf("patching %s: %w", path, err)
		}
		if err := insertAfter(path, activator.InsertAfter, fmt.Sprintf(activator.InsertLine, libDir)); err != nil {
			return fmt.Errorf("patching %s: %w", path, err)
		}
	}
	return nil
}
