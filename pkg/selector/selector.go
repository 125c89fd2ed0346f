package selector

import (
	"github.com/openSUSE/venvjail/pkg/patternfile"
)

type Decision int

const (
	Included Decision = iota
	Excluded
)

func (d Decision) String() string {
	if d == Excluded {
		return "excluded"
	}
	return "included"
}

// Select decides whether a package belongs in the jail. The exclude
// list takes precedence: a name matched by both lists is excluded.
// A populated include list acts as an allow-list; an empty include
// list admits everything the exclude list does not reject.
//
// The same rule is applied to archive filenames during extraction and
// to bare dependency names when reporting what must be provided
// outside the jail.
func Select(name string, exclude, include *patternfile.List) Decision {
	if exclude.Matches(name) {
		return Excluded
	}
	if include.IsPopulated() && !include.Matches(name) {
		return Excluded
	}
	return Included
}
