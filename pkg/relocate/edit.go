package relocate

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
)

// ErrAnchorNotFound marks an insert edit whose anchor line is absent.
var ErrAnchorNotFound = errors.New("anchor line not found")

// replaceAll substitutes every match of pattern in the named file.
// The replacement may reference capturing groups ($1 and friends).
func replaceAll(path string, pattern *regexp.Regexp, repl string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, pattern.ReplaceAll(data, []byte(repl)), info.Mode().Perm())
}

// insertAfter places line immediately after the first exact
// occurrence of the anchor line. A missing anchor is an error:
// continuing would produce a silently broken file.
func insertAfter(path, anchor, line string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	lines := strings.Split(string(data), "\n")
	idx := slices.Index(lines, anchor)
	if idx < 0 {
		return fmt.Errorf("%w: %q in %s", ErrAnchorNotFound, anchor, path)
	}
	lines = slices.Insert(lines, idx+1, line)
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")), info.Mode().Perm())
}
