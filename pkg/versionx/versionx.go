// Package versionx compares release versions as semantic versions.
package versionx

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Canonical returns v in canonical "vMAJOR.MINOR.PATCH[-pre]" form, accepting
// an optional leading "v". It returns "" when v is not a semantic version.
func Canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if v[0] != 'v' {
		v = "v" + v
	}
	return semver.Canonical(v)
}

// Valid reports whether v parses as a semantic version.
func Valid(v string) bool { return Canonical(v) != "" }

// Newer reports whether candidate is strictly greater than current. Either
// side failing to parse yields false.
func Newer(candidate, current string) bool {
	a, b := Canonical(candidate), Canonical(current)
	if a == "" || b == "" {
		return false
	}
	return semver.Compare(a, b) > 0
}

// Compare orders two versions like semver.Compare. Unparseable versions
// sort below every valid one.
func Compare(a, b string) int {
	return semver.Compare(Canonical(a), Canonical(b))
}
