package relocate

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
)

// Environment describes the tree being turned into a relocatable
// virtual environment.
type Environment struct {
	// Root is the directory the packages were extracted into.
	Root string
	// Target is the absolute path the environment will live at after
	// deployment. Every absolute path written into the tree uses
	// Target, never Root.
	Target string
	// AlternativesSuffix is the version suffix assumed when resolving
	// update-alternatives indirections.
	AlternativesSuffix string
	// ShebangExclusions holds glob patterns for files whose shebang
	// must not be rewritten.
	ShebangExclusions []string
	// DirModes is the table of directories whose permissions are
	// normalized.
	DirModes []DirMode
	// Activators is the per-dialect activation script edit table.
	Activators []Activator
	// SymlinkDirs is the set of directories swept for absolute
	// symlinks.
	SymlinkDirs []string
	// SystemdDirs is the set of directories searched for unit files.
	SystemdDirs []string
}

// NewEnvironment returns an Environment with the standard tables.
func NewEnvironment(root, target string) *Environment {
	return &Environment{
		Root:               root,
		Target:             target,
		AlternativesSuffix: "-3.8",
		DirModes:           DefaultDirModes(),
		Activators:         DefaultActivators(),
		SymlinkDirs:        []string{"srv"},
		SystemdDirs:        []string{"lib/systemd/system", "usr/lib/systemd/system"},
	}
}

// Stage is one named fixup pass over the tree.
type Stage struct {
	Name string
	Run  func(ctx context.Context, env *Environment) error
}

// Stages returns the fixup passes in their required order. The order
// is load-bearing: symlink repair must precede anything reading
// through links, shebang rewriting must see plain scripts rather than
// shim wrappers, and activators must be valid before any consumer
// can source them.
func Stages() []Stage {
	return []Stage{
		{Name: "permissions", Run: FixPermissions},
		{Name: "alternatives", Run: FixAlternatives},
		{Name: "symlinks", Run: FixSymlinks},
		{Name: "shebangs", Run: FixShebangs},
		{Name: "activators", Run: FixActivators},
		{Name: "shims", Run: InstallShims},
		{Name: "systemd", Run: FixSystemdUnits},
	}
}

// Fix runs every stage in order, stopping at the first stage error.
// Per-file problems inside a stage are reported and skipped; a stage
// error means the tree cannot be made consistent.
func Fix(ctx context.Context, env *Environment) error {
	log := logr.FromContextOrDiscard(ctx)
	for _, stage := range Stages() {
		log.V(1).Info("running fixup stage", "stage", stage.Name)
		if err := stage.Run(ctx, env); err != nil {
			return fmt.Errorf("stage %s: %w", stage.Name, err)
		}
	}
	return nil
}
