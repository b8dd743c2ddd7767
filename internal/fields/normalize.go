// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fields

import (
	"regexp"
	"strings"
)

var (
	spaceRe    = regexp.MustCompile(`\s+`)
	nonAlnumRe = regexp.MustCompile(`[^A-Z0-9]+`)
	unsafeRe   = regexp.MustCompile(`[/\\:*?"<>|]+`)
	isoRe      = regexp.MustCompile(`^([0-3]?\d)[-/]([01]?\d)[-/](\d{4})$`)
	plateRe    = regexp.MustCompile(`^[A-Z]{2}\d{3}[A-Z]{2}$`)
)

// Norm collapses whitespace runs to a single space and trims the result.
func Norm(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// Sanitize normalizes s and replaces characters that are unsafe in path
// segments with a hyphen.
func Sanitize(s string) string {
	return unsafeRe.ReplaceAllString(Norm(s), "-")
}

// NormalizePlate upper-cases s and drops every non-alphanumeric character.
func NormalizePlate(s string) string {
	return nonAlnumRe.ReplaceAllString(strings.ToUpper(s), "")
}

// IsMercosurPlate reports whether an already normalized plate has the
// two letters, three digits, two letters shape.
func IsMercosurPlate(p string) bool {
	return plateRe.MatchString(p)
}

// ToISO converts a DD-MM-YYYY (or DD/MM/YYYY) date into YYYY-MM-DD. It
// returns "" when s is not a day-month-year date with a four-digit year.
func ToISO(s string) string {
	m := isoRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[3] + "-" + pad2(m[2]) + "-" + pad2(m[1])
}

func pad2(s string) string {
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

// StripPolicy removes hyphens and spaces from a policy number.
func StripPolicy(s string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(s)
}
