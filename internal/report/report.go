// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders the outcome of a split run as an XLSX workbook:
// one row per exported certificate, the run summary, and the parse warnings.
package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/certsplit/internal/sink"
	"github.com/pdiddy/certsplit/internal/split"
)

// Sheet names.
const (
	SheetCertificates = "Certificados"
	SheetSummary      = "Resumen"
	SheetWarnings     = "Avisos"
)

var certificateHeaders = []string{
	"Patente",
	"Tomador",
	"Marca",
	"Tipo",
	"Año",
	"Póliza",
	"Vigencia desde",
	"Vigencia hasta",
	"Páginas",
	"Archivo PDF",
}

// Workbook returns the XLSX bytes for res.
func Workbook(res split.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetCertificates); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	for _, name := range []string{SheetSummary, SheetWarnings} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	writeRow(f, SheetCertificates, 1, toAny(certificateHeaders)...)
	for i, a := range res.Artifacts {
		m := a.Meta
		writeRow(f, SheetCertificates, i+2,
			m.Plate, deref(m.Holder), deref(m.Brand), deref(m.VehicleType), deref(m.Year),
			deref(m.PolicyNumber), deref(m.FromISO), deref(m.ToISO), m.PageRange, m.PDFPath,
		)
	}
	_ = f.SetColWidth(SheetCertificates, "A", "A", 12)
	_ = f.SetColWidth(SheetCertificates, "B", "B", 36)
	_ = f.SetColWidth(SheetCertificates, "C", "E", 16)
	_ = f.SetColWidth(SheetCertificates, "F", "H", 18)
	_ = f.SetColWidth(SheetCertificates, "I", "I", 10)
	_ = f.SetColWidth(SheetCertificates, "J", "J", 80)

	s := res.Summary
	summary := [][2]any{
		{"Ejecución", res.RunID},
		{"Origen", res.Source},
		{"Patente", res.Plate},
		{"Bloques detectados", s.Blocks},
		{"Exportados", s.Exported},
		{"Filtrados", s.Filtered},
		{"Con error", s.Failed},
		{"Avisos", len(s.Warnings)},
	}
	for i, kv := range summary {
		writeRow(f, SheetSummary, i+1, kv[0], kv[1])
	}
	_ = f.SetColWidth(SheetSummary, "A", "A", 22)
	_ = f.SetColWidth(SheetSummary, "B", "B", 60)

	writeRow(f, SheetWarnings, 1, "Páginas", "Aviso", "Campos faltantes")
	for i, w := range s.Warnings {
		pages := ""
		if len(w.Missing) > 0 {
			pages = w.Block.Range1Based()
		}
		missing := make([]string, len(w.Missing))
		for j, m := range w.Missing {
			missing[j] = string(m)
		}
		writeRow(f, SheetWarnings, i+2, pages, w.Message, strings.Join(missing, ", "))
	}
	_ = f.SetColWidth(SheetWarnings, "B", "C", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the workbook for res to path.
func Save(path string, res split.Result) error {
	data, err := Workbook(res)
	if err != nil {
		return err
	}
	if err := sink.WriteFile(path, data); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
