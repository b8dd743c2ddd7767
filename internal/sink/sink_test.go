// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/certsplit/pkg/types"
)

func sampleRecord() types.Record {
	return types.Record{
		Holder:       "ACME / S.A.",
		Brand:        "FORD",
		VehicleType:  "RANGER",
		Year:         "2019",
		Plate:        "AG552FA",
		CoverageFrom: "1-3-2025",
		CoverageTo:   "01-03-2026",
		PolicyNumber: "1234-567890-01",
		Engine:       "SA2Q1",
		Chassis:      "8AF",
	}
}

func TestLayout_Paths(t *testing.T) {
	l := Layout{Root: "out"}

	p := l.Paths(sampleRecord(), "")
	assert.Equal(t, filepath.Join("out", "ACME - S.A.", "FORD", "RANGER 2019", "AG552FA"), p.Dir)
	assert.Equal(t, filepath.Join(p.Dir, "poliza_AG552FA.pdf"), p.PDF)
	assert.Equal(t, filepath.Join(p.Dir, "poliza_AG552FA.json"), p.JSON)

	empty := l.Paths(types.Record{}, "_2")
	assert.Equal(t, filepath.Join("out", UnknownHolder, UnknownBrand, "Tipo Año", "PATENTE_DESC_2"), empty.Dir)
	assert.Equal(t, "PATENTE_DESC", empty.Plate)
}

func TestLayout_PathsDotSegments(t *testing.T) {
	root := "out"
	tests := []struct {
		name string
		rec  types.Record
		want string
	}{
		{name: "parent brand", rec: types.Record{Holder: "ACME", Brand: ".."}, want: filepath.Join(root, "ACME", UnknownBrand)},
		{name: "current holder", rec: types.Record{Holder: ".", Brand: "FORD"}, want: filepath.Join(root, UnknownHolder, "FORD")},
		{name: "dots and spaces", rec: types.Record{Holder: " ... ", Brand: "FORD"}, want: filepath.Join(root, UnknownHolder, "FORD")},
		{name: "dotted name kept", rec: types.Record{Holder: "S.R.L.", Brand: "FORD"}, want: filepath.Join(root, "S.R.L.", "FORD")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Layout{Root: root}.Paths(tt.rec, "")
			assert.True(t, strings.HasPrefix(p.Dir, tt.want+string(filepath.Separator)), "dir %s", p.Dir)

			rel, err := filepath.Rel(root, p.Dir)
			require.NoError(t, err)
			assert.Len(t, strings.Split(rel, string(filepath.Separator)), 4, "holder/brand/type year/plate")
		})
	}
}

func TestNewMetadata(t *testing.T) {
	rec := sampleRecord()
	m := NewMetadata(rec, "AG552FA", types.Block{Start: 2, End: 4}, "x.pdf")

	require.NotNil(t, m.FromISO)
	assert.Equal(t, "2025-03-01", *m.FromISO)
	require.NotNil(t, m.PolicyDigits)
	assert.Equal(t, "123456789001", *m.PolicyDigits)
	assert.Equal(t, "3 páginas", m.Pages)
	assert.Equal(t, "3-5", m.PageRange)

	rec.PolicyNumber = ""
	rec.CoverageTo = "31-12-26"
	m = NewMetadata(rec, "AG552FA", types.Block{}, "x.pdf")
	assert.Nil(t, m.PolicyNumber)
	assert.Nil(t, m.PolicyDigits)
	assert.Nil(t, m.ToISO, "two-digit year has no ISO form")
	require.NotNil(t, m.CoverageTo)
}

func TestNewMetadata_PolicyWithoutDigits(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	rec := sampleRecord()
	rec.PolicyNumber = "--------"
	m := NewMetadata(rec, "AG552FA", types.Block{}, "x.pdf")
	require.NotNil(t, m.PolicyNumber)
	require.NotNil(t, m.PolicyDigits, "digits follow the policy number, not its digit count")
	assert.Equal(t, "", *m.PolicyDigits)

	assert.NoError(t, s.WriteRecord(filepath.Join(t.TempDir(), "poliza_AG552FA.json"), m))
}

func TestWriteRecord(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "a", "b", "poliza_AG552FA.json")
	meta := NewMetadata(types.Record{Plate: "AG552FA"}, "AG552FA", types.Block{}, "poliza_AG552FA.pdf")
	require.NoError(t, s.WriteRecord(path, meta))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \""), "two-space indentation")

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Nil(t, got["tomador"])
	assert.Contains(t, got, "tomador", "missing fields are explicit nulls")
	assert.Equal(t, "AG552FA", got["patente"])
	assert.Equal(t, "1-1", got["rango_paginas_1based"])
}

func TestValidate_RejectsInconsistentPolicy(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	meta := NewMetadata(sampleRecord(), "AG552FA", types.Block{}, "x.pdf")
	meta.PolicyDigits = nil
	data, err := json.Marshal(meta)
	require.NoError(t, err)

	assert.Error(t, s.Validate(data))
}

func TestWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "f.pdf")
	require.NoError(t, WriteFile(path, []byte("one")))
	require.NoError(t, WriteFile(path, []byte("two")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}
