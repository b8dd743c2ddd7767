// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdiddy/certsplit/internal/fields"
	"github.com/pdiddy/certsplit/pkg/types"
)

// Placeholders used in the directory tree when a field is unknown.
const (
	UnknownHolder = "Tomador_Desconocido"
	UnknownBrand  = "Marca_Desconocida"
	UnknownType   = "Tipo"
	UnknownYear   = "Año"
	UnknownPlate  = "PATENTE_DESC"
)

// Paths are the output locations derived for one certificate.
type Paths struct {
	Dir   string
	PDF   string
	JSON  string
	Plate string
}

// Layout derives <root>/<holder>/<brand>/<type year>/<PLATE>/poliza_<PLATE>.*
// from a record. Records with identical derived fields map to the same
// directory.
type Layout struct {
	Root string
}

// Paths returns the output locations for rec. A non-empty suffix is
// appended to the plate directory, used to keep colliding blocks apart.
func (l Layout) Paths(rec types.Record, suffix string) Paths {
	plate := strings.ToUpper(orDefault(rec.Plate, UnknownPlate))
	typeYear := fmt.Sprintf("%s %s", orDefault(rec.VehicleType, UnknownType), orDefault(rec.Year, UnknownYear))

	dir := filepath.Join(
		l.Root,
		segment(rec.Holder, UnknownHolder),
		segment(rec.Brand, UnknownBrand),
		segment(typeYear, UnknownType+" "+UnknownYear),
		segment(plate, UnknownPlate)+suffix,
	)
	base := "poliza_" + plate
	return Paths{
		Dir:   dir,
		PDF:   filepath.Join(dir, base+".pdf"),
		JSON:  filepath.Join(dir, base+".json"),
		Plate: plate,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// segment sanitizes v for use as one directory name. Values that would
// name the current or parent directory fall back to def.
func segment(v, def string) string {
	s := fields.Sanitize(v)
	if strings.Trim(s, ".") == "" {
		return def
	}
	return s
}

// NewMetadata builds the persisted document for rec. ISO dates and the
// digits-only policy number are derived from the final raw values. ISO dates
// are null when their source is missing or malformed; the policy digits are
// null exactly when the policy number is, even if no digits remain.
func NewMetadata(rec types.Record, plate string, b types.Block, pdfPath string) types.Metadata {
	return types.Metadata{
		Holder:       nullable(rec.Holder),
		Brand:        nullable(rec.Brand),
		VehicleType:  nullable(rec.VehicleType),
		Year:         nullable(rec.Year),
		Plate:        plate,
		CoverageFrom: nullable(rec.CoverageFrom),
		CoverageTo:   nullable(rec.CoverageTo),
		FromISO:      nullable(fields.ToISO(rec.CoverageFrom)),
		ToISO:        nullable(fields.ToISO(rec.CoverageTo)),
		PolicyNumber: nullable(rec.PolicyNumber),
		PolicyDigits: policyDigits(rec.PolicyNumber),
		Engine:       nullable(rec.Engine),
		Chassis:      nullable(rec.Chassis),
		PDFPath:      pdfPath,
		Pages:        fmt.Sprintf("%d páginas", b.Len()),
		PageRange:    b.Range1Based(),
	}
}

func policyDigits(policy string) *string {
	if policy == "" {
		return nil
	}
	d := fields.StripPolicy(policy)
	return &d
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
