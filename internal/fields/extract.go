// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fields reads the structured data of an automobile coverage
// certificate out of its running text.
//
// Each field has an ordered chain of independent rules; the first rule that
// matches wins. Text is split on label keywords before matching, which turns
// the run-on output of PDF text extraction into label-anchored lines.
package fields

import (
	"strings"

	"github.com/pdiddy/certsplit/pkg/types"
)

// RequiredField names a field on the two-pass checklist.
type RequiredField string

const (
	FieldHolder       RequiredField = "tomador"
	FieldVehicleType  RequiredField = "tipo"
	FieldYear         RequiredField = "anio"
	FieldPlate        RequiredField = "patente"
	FieldPolicyNumber RequiredField = "poliza_numero"
	FieldCoverageFrom RequiredField = "vigencia_desde"
	FieldEngine       RequiredField = "motor"
	FieldChassis      RequiredField = "chasis"
)

// Extract runs every field rule over text. plateHint, when non-empty, lets
// the plate scan pick the matching candidate among several plate-shaped
// substrings. Fields no rule could read are left empty.
func Extract(text, plateHint string) types.Record {
	text = splitLabels(text)

	var r types.Record
	r.Holder = firstOf(text, holderRules)
	r.Brand = firstOf(text, []Rule{capture(brandRe)})
	r.VehicleType = firstOf(text, []Rule{capture(typeRe)})
	r.Year = firstOf(text, []Rule{capture(yearRe)})
	r.Plate = firstOf(text, plateRules(plateHint))

	if m := coverageRe.FindStringSubmatch(text); m != nil {
		r.CoverageFrom = hyphenate(m[1])
		r.CoverageTo = hyphenate(m[2])
		r.CoverageFromISO = ToISO(r.CoverageFrom)
		r.CoverageToISO = ToISO(r.CoverageTo)
	}

	r.PolicyNumber = firstOf(text, policyRules)
	if r.PolicyNumber != "" {
		r.PolicyDigits = StripPolicy(r.PolicyNumber)
	}

	r.Engine = firstOf(text, []Rule{upper(capture(engineRe))})
	r.Chassis = firstOf(text, []Rule{upper(capture(chassisRe))})
	return r
}

func hyphenate(date string) string {
	return strings.ReplaceAll(date, "/", "-")
}

// Missing lists the checklist fields still empty in r, in checklist order.
func Missing(r types.Record) []RequiredField {
	checks := []struct {
		name  RequiredField
		value string
	}{
		{FieldHolder, r.Holder},
		{FieldVehicleType, r.VehicleType},
		{FieldYear, r.Year},
		{FieldPlate, r.Plate},
		{FieldPolicyNumber, r.PolicyNumber},
		{FieldCoverageFrom, r.CoverageFrom},
		{FieldEngine, r.Engine},
		{FieldChassis, r.Chassis},
	}
	var out []RequiredField
	for _, c := range checks {
		if c.value == "" {
			out = append(out, c.name)
		}
	}
	return out
}

// Merge returns a new record holding every non-empty field of a, with the
// gaps filled from b. Neither input is modified.
func Merge(a, b types.Record) types.Record {
	out := a
	dst, src := out.Slots(), b.Slots()
	for i := range dst {
		if *dst[i] == "" {
			*dst[i] = *src[i]
		}
	}
	return out
}

// ExtractBlock extracts from the full block text and, when any checklist
// field is still empty, fills the gaps from the block's first page alone.
func ExtractBlock(blockText, firstPage, plateHint string) types.Record {
	r := Extract(blockText, plateHint)
	if len(Missing(r)) == 0 {
		return r
	}
	return Merge(r, Extract(firstPage, plateHint))
}
