// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment partitions the ordered page texts of a concatenated PDF
// into contiguous page ranges, one per coverage certificate.
//
// A certificate starts on a header page (both banner phrases present). Its
// span comes from an "X de Y" pagination marker on that page when one is
// plausible, otherwise from how many following pages repeat the banner.
package segment

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/certsplit/pkg/types"
)

// Banner phrases that mark a certificate page.
const (
	HeaderInsurance   = "SEGURO DE AUTOMOTORES"
	HeaderCertificate = "CERTIFICADO DE COBERTURA"
)

// paginationRe matches "1 de 3", "1 of 3" and "1/3".
var paginationRe = regexp.MustCompile(`(?i)\b(\d{1,3})\s*(?:de|of|/)\s*(\d{1,3})\b`)

// Pagination is one "current of total" reading found on a page.
type Pagination struct {
	Cur int
	Tot int
}

// IsHeader reports whether the page text carries both banner phrases.
func IsHeader(text string) bool {
	u := strings.ToUpper(text)
	return strings.Contains(u, HeaderInsurance) && strings.Contains(u, HeaderCertificate)
}

// Candidates returns every plausible pagination reading in text, in order
// of appearance. A reading is plausible when 1 <= cur <= tot <= maxTotal.
// Slash readings glued to another separator ("01/05/2025") are date
// fragments and are dropped.
func Candidates(text string, maxTotal int) []Pagination {
	var out []Pagination
	for _, loc := range paginationRe.FindAllStringSubmatchIndex(text, -1) {
		if dateFragment(text, loc[0], loc[1]) {
			continue
		}
		cur, err1 := strconv.Atoi(text[loc[2]:loc[3]])
		tot, err2 := strconv.Atoi(text[loc[4]:loc[5]])
		if err1 != nil || err2 != nil {
			continue
		}
		if cur < 1 || cur > tot || tot > maxTotal {
			continue
		}
		out = append(out, Pagination{Cur: cur, Tot: tot})
	}
	return out
}

func dateFragment(text string, lo, hi int) bool {
	if !strings.Contains(text[lo:hi], "/") {
		return false
	}
	if lo > 0 && (text[lo-1] == '/' || text[lo-1] == '-') {
		return true
	}
	return hi < len(text) && (text[hi] == '/' || text[hi] == '-')
}

// Best picks the reading that anchors the block: a "1 de N" reading first,
// then the largest total. It panics on an empty slice.
func Best(cands []Pagination) Pagination {
	sorted := append([]Pagination(nil), cands...)
	sort.SliceStable(sorted, func(i, j int) bool {
		fi, fj := sorted[i].Cur == 1, sorted[j].Cur == 1
		if fi != fj {
			return fi
		}
		return sorted[i].Tot > sorted[j].Tot
	})
	return sorted[0]
}

// Segment scans pages left to right and returns the detected blocks in
// page order. Every block lies within [0, len(pages)-1], blocks never
// overlap, and pages outside any detected certificate are left uncovered.
func Segment(pages []string, cfg types.SegmentConfig) []types.Block {
	cfg = cfg.WithDefaults()
	n := len(pages)
	claimed := make([]bool, n)

	var blocks []types.Block
	for i := 0; i < n; i++ {
		if claimed[i] || !IsHeader(pages[i]) {
			continue
		}

		start, end := i, i
		if cands := Candidates(pages[i], cfg.MaxPagination); len(cands) > 0 {
			best := Best(cands)
			start = i - (best.Cur - 1)
			end = start + best.Tot - 1
		} else {
			for j := i + 1; j < n && j <= i+cfg.Lookahead; j++ {
				if !IsHeader(pages[j]) {
					break
				}
				end = j
			}
		}

		// A "2 de 2" page right after another certificate must not reach
		// back into pages that block already owns.
		start = max(start, 0)
		for start < i && claimed[start] {
			start++
		}
		end = min(end, n-1)

		for k := start; k <= end; k++ {
			claimed[k] = true
		}
		blocks = append(blocks, types.Block{Start: start, End: end})
	}
	return blocks
}
