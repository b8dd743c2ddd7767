// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/certsplit/pkg/types"
)

const banner = "SEGURO DE AUTOMOTORES CERTIFICADO DE COBERTURA"

func header(extra string) string {
	return banner + " " + extra
}

func TestIsHeader(t *testing.T) {
	assert.True(t, IsHeader("seguro de automotores ... certificado de cobertura"))
	assert.False(t, IsHeader("SEGURO DE AUTOMOTORES solamente"))
	assert.False(t, IsHeader(""))
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Pagination
	}{
		{
			name: "de connector",
			text: "Hoja 1 de 3",
			want: []Pagination{{1, 3}},
		},
		{
			name: "slash and of connectors",
			text: "page 2/4 and 1 of 2",
			want: []Pagination{{2, 4}, {1, 2}},
		},
		{
			name: "rejects cur above tot and totals over ceiling",
			text: "5 de 3 and 1 de 40",
			want: nil,
		},
		{
			name: "rejects zero current page",
			text: "0 de 2",
			want: nil,
		},
		{
			name: "ignores date fragments",
			text: "desde 01/05/2025 hasta 01/05/2026",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Candidates(tt.text, types.DefaultMaxPagination))
		})
	}
}

func TestBest(t *testing.T) {
	assert.Equal(t, Pagination{1, 2}, Best([]Pagination{{2, 5}, {1, 2}}))
	assert.Equal(t, Pagination{1, 4}, Best([]Pagination{{1, 2}, {1, 4}, {3, 4}}))
	assert.Equal(t, Pagination{2, 6}, Best([]Pagination{{2, 3}, {2, 6}}))
}

func TestSegment(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  []types.Block
	}{
		{
			name:  "two page certificate marked 1 de 2",
			pages: []string{header("Página 1 de 2"), "continuación del certificado"},
			want:  []types.Block{{Start: 0, End: 1}},
		},
		{
			name: "two independent two page certificates",
			pages: []string{
				header("1 de 2"), "2 de 2",
				header("1 de 2"), "2 de 2",
			},
			want: []types.Block{{Start: 0, End: 1}, {Start: 2, End: 3}},
		},
		{
			name:  "header without pagination and no repeated banner",
			pages: []string{header(""), "otro documento"},
			want:  []types.Block{{Start: 0, End: 0}},
		},
		{
			name:  "banner repetition fallback",
			pages: []string{"portada", header(""), header(""), header(""), "anexo"},
			want:  []types.Block{{Start: 1, End: 3}},
		},
		{
			name:  "pagination overshoot is clamped",
			pages: []string{header("1 de 9"), "x", "y"},
			want:  []types.Block{{Start: 0, End: 2}},
		},
		{
			name:  "mid certificate anchor reaches back",
			pages: []string{"primera hoja sin banner", header("2 de 3"), "tercera"},
			want:  []types.Block{{Start: 0, End: 2}},
		},
		{
			name:  "backward reach never steals claimed pages",
			pages: []string{header("1 de 2"), "2 de 2", header("3 de 3")},
			want:  []types.Block{{Start: 0, End: 1}, {Start: 2, End: 2}},
		},
		{
			name:  "prefers 1 de N over other numeric pairs",
			pages: []string{header("item 3 de 5 - hoja 1 de 2"), "cont", header("1 de 1")},
			want:  []types.Block{{Start: 0, End: 1}, {Start: 2, End: 2}},
		},
		{
			name:  "no certificates",
			pages: []string{"factura", "recibo"},
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segment(tt.pages, types.SegmentConfig{})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSegment_LookaheadBound(t *testing.T) {
	pages := make([]string, 15)
	for i := range pages {
		pages[i] = header("")
	}
	got := Segment(pages, types.SegmentConfig{Lookahead: 3})
	require.Len(t, got, 4)
	assert.Equal(t, types.Block{Start: 0, End: 3}, got[0])
	assert.Equal(t, types.Block{Start: 12, End: 14}, got[3])
}

// Every page carries a marker, so blocks must tile the document exactly.
func TestSegment_PaginatedTiling(t *testing.T) {
	totals := []int{3, 1, 4, 2, 5}
	var pages []string
	for _, tot := range totals {
		for cur := 1; cur <= tot; cur++ {
			pages = append(pages, header(fmt.Sprintf("Hoja %d de %d", cur, tot)))
		}
	}

	got := Segment(pages, types.SegmentConfig{})
	require.Len(t, got, len(totals))

	next := 0
	for i, b := range got {
		assert.Equal(t, next, b.Start, "block %d starts right after the previous one", i)
		assert.Equal(t, totals[i], b.Len())
		next = b.End + 1
	}
	assert.Equal(t, len(pages), next)
}
