package patternfile

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// List is an ordered collection of regular expressions read from a
// line-oriented pattern file.
type List struct {
	patterns []*regexp.Regexp
}

// Load reads a pattern file, skipping blank lines and lines starting
// with '#'. A missing or unreadable file yields an empty list rather
// than an error, so the include/exclude files are always optional.
// A line that fails to compile as a regular expression is an error,
// since silently dropping a pattern would change which packages end
// up in the jail.
func Load(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return &List{}, nil
	}
	defer f.Close()

	l := &List{}
	br := bufio.NewScanner(f)
	for br.Scan() {
		line := strings.TrimSpace(br.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pattern, err := regexp.Compile(line)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %q: %w", line, err)
		}
		l.patterns = append(l.patterns, pattern)
	}
	if err := br.Err(); err != nil {
		return &List{}, nil
	}
	return l, nil
}

// IsPopulated returns true if at least one pattern was loaded.
func (l *List) IsPopulated() bool {
	return len(l.patterns) > 0
}

// Matches returns true if any pattern matches s. Patterns are not
// anchored, so a pattern that should only match a prefix needs an
// explicit '^'.
func (l *List) Matches(s string) bool {
	for _, pattern := range l.patterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}
