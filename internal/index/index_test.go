// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/certsplit/internal/sink"
	"github.com/pdiddy/certsplit/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.IndexConfig{
		Path: filepath.Join(t.TempDir(), "db", "certsplit.db"),
	})
	require.NoError(t, err)
	store.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { store.Close() })
	return store
}

func artifact(holder, plate, policy string, start, end int) types.Artifact {
	rec := types.Record{
		Holder:       holder,
		Brand:        "FORD",
		Plate:        plate,
		PolicyNumber: policy,
		CoverageFrom: "01-03-2025",
	}
	layout := sink.Layout{Root: "out"}
	paths := layout.Paths(rec, "")
	b := types.Block{Start: start, End: end}
	return types.Artifact{
		Dir:      paths.Dir,
		PDFPath:  paths.PDF,
		JSONPath: paths.JSON,
		Block:    b,
		Meta:     sink.NewMetadata(rec, paths.Plate, b, paths.PDF),
	}
}

func seed(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Record(ctx, "run-1", "lote-marzo.pdf", artifact("ACME S.A.", "AG552FA", "1234-567890-01", 0, 1)))
	require.NoError(t, s.Record(ctx, "run-1", "lote-marzo.pdf", artifact("ACME S.A.", "AB123CD", "1234-567890-02", 2, 2)))
	require.NoError(t, s.Record(ctx, "run-2", "lote-abril.pdf", artifact("MARIA_GOMEZ", "AC001AA", "", 0, 0)))
}

// --- tests ---

func TestNewStore_RequiresPath(t *testing.T) {
	_, err := NewStore(types.IndexConfig{})
	assert.Error(t, err)
}

func TestNewStore_ReopensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "certsplit.db")
	s, err := NewStore(types.IndexConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), "run-1", "a.pdf", artifact("X", "AG552FA", "", 0, 0)))
	require.NoError(t, s.Close())

	s, err = NewStore(types.IndexConfig{Path: path})
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Query(context.Background(), QueryOptions{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestQuery(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	tests := []struct {
		name   string
		opts   QueryOptions
		plates []string
	}{
		{name: "no filter", opts: QueryOptions{}, plates: []string{"AB123CD", "AG552FA", "AC001AA"}},
		{name: "plate is normalized", opts: QueryOptions{Plate: "ag 552 fa"}, plates: []string{"AG552FA"}},
		{name: "policy ignores hyphens", opts: QueryOptions{Policy: "1234567890 02"}, plates: []string{"AB123CD"}},
		{name: "holder substring", opts: QueryOptions{Holder: "acme"}, plates: []string{"AB123CD", "AG552FA"}},
		{name: "holder underscore is literal", opts: QueryOptions{Holder: "S_A"}, plates: nil},
		{name: "run", opts: QueryOptions{RunID: "run-2"}, plates: []string{"AC001AA"}},
		{name: "limit", opts: QueryOptions{MaxResults: 1}, plates: []string{"AB123CD"}},
		{name: "no match", opts: QueryOptions{Plate: "ZZ999ZZ"}, plates: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Query(context.Background(), tt.opts)
			require.NoError(t, err)
			var plates []string
			for _, e := range got {
				plates = append(plates, e.Plate)
			}
			assert.Equal(t, tt.plates, plates)
		})
	}
}

func TestQuery_EntryFields(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	got, err := s.Query(context.Background(), QueryOptions{Plate: "AG552FA"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	e := got[0]
	assert.Equal(t, "ACME S.A.", e.Holder)
	assert.Equal(t, "1234-567890-01", e.PolicyNumber)
	assert.Equal(t, "2025-03-01", e.CoverageFrom)
	assert.Empty(t, e.CoverageTo)
	assert.Equal(t, "1-2", e.PageRange)
	assert.Equal(t, "run-1", e.RunID)
	assert.Equal(t, "lote-marzo.pdf", e.Source)
	assert.Equal(t, filepath.Join("out", "ACME S.A.", "FORD", "Tipo Año", "AG552FA", "poliza_AG552FA.json"), e.JSONPath)
}

func TestRecord_ReplacesSamePath(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, "run-1", "a.pdf", artifact("ACME S.A.", "AG552FA", "1-2", 0, 0)))
	require.NoError(t, s.Record(ctx, "run-2", "b.pdf", artifact("ACME S.A.", "AG552FA", "3-4", 4, 5)))

	got, err := s.Query(ctx, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "run-2", got[0].RunID)
	assert.Equal(t, "3-4", got[0].PolicyNumber)
	assert.Equal(t, "5-6", got[0].PageRange)
}

func TestExportJSON(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	var buf bytes.Buffer
	require.NoError(t, s.ExportJSON(context.Background(), &buf, QueryOptions{RunID: "run-1"}))

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "AB123CD", entries[0]["patente"])
	assert.Equal(t, "lote-marzo.pdf", entries[0]["origen"])
}

func TestExportYAML(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	var buf bytes.Buffer
	require.NoError(t, s.ExportYAML(context.Background(), &buf, QueryOptions{}))

	var entries []Entry
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, "MARIA_GOMEZ", entries[2].Holder)
	assert.Empty(t, entries[2].PolicyNumber)
}

func TestExport_EmptyIndex(t *testing.T) {
	s := testStore(t)

	var buf bytes.Buffer
	require.NoError(t, s.ExportJSON(context.Background(), &buf, QueryOptions{}))
	assert.Equal(t, "[]\n", buf.String())
}
