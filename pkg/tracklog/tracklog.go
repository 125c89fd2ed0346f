package tracklog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/go-logr/logr"
	"github.com/openSUSE/venvjail/pkg/packages"
)

// WriteLog writes the package selection log: included and excluded
// package names, sorted, each group under its own header. The log is
// the operator's feedback loop for tuning the pattern files.
func WriteLog(path string, included, excluded []string) error {
	out := strings.Builder{}
	out.WriteString("# Included packages\n")
	for _, pkg := range sorted(included) {
		out.WriteString(pkg + "\n")
	}
	out.WriteString("\n\n# Excluded packages\n")
	for _, pkg := range sorted(excluded) {
		out.WriteString(pkg + "\n")
	}
	return os.WriteFile(path, []byte(out.String()), 0644)
}

// WriteTrack writes the maintenance track file: one seven-field
// metadata line per included package, queried from the package
// itself. Files of unknown kind get a line of placeholders.
func WriteTrack(ctx context.Context, path, repoDir string, included []string, managers map[string]packages.PackageManager) error {
	log := logr.FromContextOrDiscard(ctx)

	placeholders := make([]string, 7)
	for i := range placeholders {
		placeholders[i] = packages.TrackPlaceholder
	}

	out := strings.Builder{}
	for _, pkg := range sorted(included) {
		line := strings.Join(placeholders, "|")
		if manager, ok := managers[filepath.Ext(pkg)]; ok {
			info, err := manager.TrackInfo(ctx, filepath.Join(repoDir, pkg))
			if err != nil {
				return fmt.Errorf("querying %s: %w", pkg, err)
			}
			line = info
		} else {
			log.Info("no metadata support for package, writing placeholders", "pkg", pkg)
		}
		out.WriteString(line + "\n")
	}
	return os.WriteFile(path, []byte(out.String()), 0644)
}

func sorted(names []string) []string {
	out := slices.Clone(names)
	sort.Strings(out)
	return out
}
