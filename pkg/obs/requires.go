package obs

import (
	"regexp"
	"strings"
)

var requiresExp = regexp.MustCompile(`(?m)^Requires:\s*([-.\w]+)(.*)$`)

// Requirement is one Requires entry of a spec file.
type Requirement struct {
	Name string
	// Constraint holds the version constraint, if any, e.g.
	// ">= 2.0".
	Constraint string
}

// ParseRequires extracts the Requires entries from spec file text.
func ParseRequires(spec string) []Requirement {
	matches := requiresExp.FindAllStringSubmatch(spec, -1)
	requirements := make([]Requirement, 0, len(matches))
	for _, m := range matches {
		requirements = append(requirements, Requirement{
			Name:       m[1],
			Constraint: strings.TrimSpace(m[2]),
		})
	}
	return requirements
}
