// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plate decides whether a certificate block belongs to a target
// vehicle plate.
package plate

import (
	"regexp"
	"strings"

	"github.com/pdiddy/certsplit/internal/fields"
	"github.com/pdiddy/certsplit/pkg/types"
)

// Filter keeps the blocks that mention one target plate. A nil *Filter
// keeps everything.
type Filter struct {
	target  string
	matcher *regexp.Regexp
}

// NewFilter builds a filter for target. It returns nil when target is blank,
// meaning no filtering.
func NewFilter(target string) *Filter {
	if strings.TrimSpace(target) == "" {
		return nil
	}
	return &Filter{
		target:  fields.NormalizePlate(target),
		matcher: Matcher(target),
	}
}

// Target returns the normalized plate, or "" for a nil filter.
func (f *Filter) Target() string {
	if f == nil {
		return ""
	}
	return f.target
}

// Matcher compiles a case-insensitive pattern for plate. Plates with the
// AA999AA shape tolerate whitespace between every character, since some
// certificates render the plate spaced out. Any other input is matched as a
// literal.
func Matcher(plate string) *regexp.Regexp {
	p := fields.NormalizePlate(plate)
	if !fields.IsMercosurPlate(p) {
		return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(plate))
	}
	chars := strings.Split(p, "")
	return regexp.MustCompile(`(?i)` + strings.Join(chars, `\s*`))
}

// Keep reports whether the block passes the filter. A block is kept when its
// extracted plate equals the target, or the target appears in the block text
// or its first page. A kept record without a plate takes the target plate.
func (f *Filter) Keep(rec types.Record, blockText, firstPage string) (types.Record, bool) {
	if f == nil {
		return rec, true
	}
	keep := (rec.Plate != "" && fields.NormalizePlate(rec.Plate) == f.target) ||
		f.matcher.MatchString(blockText) ||
		f.matcher.MatchString(firstPage)
	if !keep {
		return rec, false
	}
	if rec.Plate == "" {
		rec.Plate = f.target
	}
	return rec, true
}
