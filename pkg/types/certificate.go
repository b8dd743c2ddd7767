// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Block is an inclusive, zero-based page range believed to contain exactly
// one certificate. Blocks are created by the segmenter and never mutated.
type Block struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Len returns the number of pages covered by the block.
func (b Block) Len() int {
	return b.End - b.Start + 1
}

// Range1Based renders the block as a human "first-last" page range.
func (b Block) Range1Based() string {
	return fmt.Sprintf("%d-%d", b.Start+1, b.End+1)
}

func (b Block) String() string {
	return fmt.Sprintf("block %s", b.Range1Based())
}

// Record holds the fields extracted from one certificate. An empty string
// means no rule matched the field; it is persisted as null.
type Record struct {
	// Holder is the policyholder ("tomador").
	Holder string

	// Brand is the vehicle make ("marca").
	Brand string

	// VehicleType is the vehicle model/type ("tipo").
	VehicleType string

	// Year is the four-digit manufacture year.
	Year string

	// Plate is the normalized registration plate (upper-case alphanumerics).
	Plate string

	// CoverageFrom and CoverageTo are DD-MM-YYYY dates with hyphen separators.
	CoverageFrom string
	CoverageTo   string

	// CoverageFromISO and CoverageToISO are the YYYY-MM-DD forms.
	CoverageFromISO string
	CoverageToISO   string

	// PolicyNumber is the raw policy number and PolicyDigits the same value
	// with hyphens and spaces removed.
	PolicyNumber string
	PolicyDigits string

	Engine  string
	Chassis string
}

// Slots returns pointers to every field in declaration order. It lets
// callers fold over a record without naming each field.
func (r *Record) Slots() []*string {
	return []*string{
		&r.Holder, &r.Brand, &r.VehicleType, &r.Year, &r.Plate,
		&r.CoverageFrom, &r.CoverageTo, &r.CoverageFromISO, &r.CoverageToISO,
		&r.PolicyNumber, &r.PolicyDigits, &r.Engine, &r.Chassis,
	}
}

// Metadata is the persisted, per-certificate document. Nil pointers are
// written as JSON null.
type Metadata struct {
	Holder       *string `json:"tomador" yaml:"tomador"`
	Brand        *string `json:"marca" yaml:"marca"`
	VehicleType  *string `json:"tipo" yaml:"tipo"`
	Year         *string `json:"anio_fabricacion" yaml:"anio_fabricacion"`
	Plate        string  `json:"patente" yaml:"patente"`
	CoverageFrom *string `json:"vigencia_desde" yaml:"vigencia_desde"`
	CoverageTo   *string `json:"vigencia_hasta" yaml:"vigencia_hasta"`
	FromISO      *string `json:"vigencia_desde_iso" yaml:"vigencia_desde_iso"`
	ToISO        *string `json:"vigencia_hasta_iso" yaml:"vigencia_hasta_iso"`
	PolicyNumber *string `json:"poliza_numero" yaml:"poliza_numero"`
	PolicyDigits *string `json:"poliza_numero_sin_guiones" yaml:"poliza_numero_sin_guiones"`
	Engine       *string `json:"motor" yaml:"motor"`
	Chassis      *string `json:"chasis" yaml:"chasis"`
	PDFPath      string  `json:"archivo_pdf" yaml:"archivo_pdf"`
	Pages        string  `json:"paginas" yaml:"paginas"`
	PageRange    string  `json:"rango_paginas_1based" yaml:"rango_paginas_1based"`
}

// Artifact is one exported certificate: its output directory, the sliced
// PDF, the metadata file, and the metadata itself.
type Artifact struct {
	Dir      string   `json:"dir" yaml:"dir"`
	PDFPath  string   `json:"pdf" yaml:"pdf"`
	JSONPath string   `json:"json" yaml:"json"`
	Block    Block    `json:"block" yaml:"block"`
	Meta     Metadata `json:"meta" yaml:"meta"`
}
