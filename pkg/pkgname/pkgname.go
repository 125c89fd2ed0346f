package pkgname

import "regexp"

type Kind string

const (
	KindRPM Kind = "rpm"
	KindDeb Kind = "deb"
)

// Package names may contain hyphens, so the version and release of an
// RPM are taken from the last two hyphen-delimited fields. Debian
// filenames use underscores as field separators.
var fileExp = regexp.MustCompile(`(?:(.*)-([^-]+)-([^-]+)\.([^-.]+)\.rpm)|(?:(.*)_([^_]+)_([^_]+)\.deb)`)

// Parse derives the bare package name and archive kind from a binary
// package filename such as "python-nova-17.0.1-1.2.noarch.rpm" or
// "python-nova_17.0.1_all.deb".
func Parse(filename string) (string, Kind, bool) {
	m := fileExp.FindStringSubmatch(filename)
	if m == nil {
		return "", "", false
	}
	if m[1] != "" {
		return m[1], KindRPM, true
	}
	if m[5] != "" {
		return m[5], KindDeb, true
	}
	return "", "", false
}
