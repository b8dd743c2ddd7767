// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fields

import (
	"regexp"
	"strings"
)

// Rule tries to read one value out of label-split certificate text.
type Rule func(text string) (string, bool)

// firstOf runs rules in order and returns the first value found.
func firstOf(text string, rules []Rule) string {
	for _, r := range rules {
		if v, ok := r(text); ok {
			return v
		}
	}
	return ""
}

// capture builds a rule returning the normalized first group of re.
func capture(re *regexp.Regexp) Rule {
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		v := Norm(m[1])
		return v, v != ""
	}
}

// Shared fragments. Go regexps have no lookahead, so label terminators are
// consumed as part of the match and only group 1 is kept.
const (
	dateExpr  = `[0-3]?\d[-/][01]?\d[-/]\d{4}`
	hourExpr  = `(?:\d+\s*hs?\.\s*del\s+)?`
	nameChars = `A-ZÁÉÍÓÚÜÑ0-9 .,&\-/`
)

var labelRe = regexp.MustCompile(`(?i)(TOMADOR|P[ÓO]LIZA|MARCA|TIPO|AÑO|PATENTE|MOTOR|CHASIS|VIGENCIA|DESDE|HASTA)`)

// splitLabels puts every recognized label at the start of its own line so a
// run-on page reads as label-anchored pseudo-lines.
func splitLabels(text string) string {
	return labelRe.ReplaceAllString(text, "\n${1}")
}

var (
	holderAfterEndRe = regexp.MustCompile(`(?i)hasta\s+` + hourExpr + dateExpr +
		`\s+([A-ZÁÉÍÓÚÜÑ][` + nameChars + `]{2,60}?)\s+(?:RUTA|DOMICILIO|CUIT|CT\s)`)
	holderEntityRe = regexp.MustCompile(`(?i)\d{4}\s+([A-ZÁÉÍÓÚÜÑ][` + nameChars +
		`]{2,60}?\s+(?:S\.?R\.?L\.?|S\.?A\.?))\s+RUTA`)
	holderRouteRe = regexp.MustCompile(`(?i)([A-Z][A-Z0-9 .,&\-/]{3,50}?)\s+RUTA\s+NAC`)

	brandRe = regexp.MustCompile(`(?i)MARCA\s*[:\-]?\s*([` + nameChars + `]+?)\s+(?:TIPO|AÑO|PATENTE)\b`)
	typeRe  = regexp.MustCompile(`(?i)TIPO\s*[:\-]?\s*([` + nameChars + `]+?)\s+(?:AÑO|PATENTE)\b`)
	yearRe  = regexp.MustCompile(`(?i)AÑO\s*(?:DE\s*)?FABRICACI[ÓO]N\s*[:\-]?\s*(\d{4})`)

	policyLabelRe = regexp.MustCompile(`(?i)P[ÓO]LIZA\s*(?:N[º°]|NUMERO|NUM|#)?\s*[:\-]?\s*([0-9\-]{7,})`)
	policyShapeRe = regexp.MustCompile(`\b(\d{4,}-\d{6,}-\d{2,})\b`)

	coverageRe = regexp.MustCompile(`(?is)desde\s+` + hourExpr + `(` + dateExpr + `)[\s\S]{0,100}?hasta\s+` +
		hourExpr + `(` + dateExpr + `)`)

	plateLabelRe = regexp.MustCompile(`(?i)PATENTE\s*[:\-]?\s*([A-Z0-9\-\s]{5,15}?)\s+(?:MOTOR|CHASIS|USO)\b`)
	plateShapeRe = regexp.MustCompile(`(?i)([A-Z]{2})[\s\-]*([0-9]{3})[\s\-]*([A-Z]{2})`)

	engineRe  = regexp.MustCompile(`(?i)MOTOR\s*[:\-]?\s*([A-Z0-9\-]+)(?:\s+(?:CHASIS|USO|SUMA)\b|\s*$)`)
	chassisRe = regexp.MustCompile(`(?i)CHASIS\s*[:\-]?\s*([A-Z0-9\-]+)`)
)

// holderExcluded lists fragments that show up before "RUTA NAC" without
// being the policyholder: the insurer's own name and the date connector.
var holderExcluded = []string{"CAJA", "SEGUROS", "HASTA"}

func holderBeforeRoute(text string) (string, bool) {
	v, ok := capture(holderRouteRe)(text)
	if !ok {
		return "", false
	}
	u := strings.ToUpper(v)
	for _, x := range holderExcluded {
		if strings.Contains(u, x) {
			return "", false
		}
	}
	return v, true
}

// holderRules is tried in order; the first hit wins.
var holderRules = []Rule{
	capture(holderAfterEndRe),
	capture(holderEntityRe),
	holderBeforeRoute,
}

var policyRules = []Rule{
	withDigit(capture(policyLabelRe)),
	capture(policyShapeRe),
}

// withDigit rejects a hit with no digit in it, such as a blank field ruled
// out with hyphens, so the next rule gets a chance.
func withDigit(r Rule) Rule {
	return func(text string) (string, bool) {
		v, ok := r(text)
		if !ok || !strings.ContainsAny(v, "0123456789") {
			return "", false
		}
		return v, true
	}
}

// plateRules returns the plate chain. The shape scan prefers the candidate
// equal to hint, falling back to the first one seen.
func plateRules(hint string) []Rule {
	want := NormalizePlate(hint)
	labelled := func(text string) (string, bool) {
		m := plateLabelRe.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		p := NormalizePlate(m[1])
		return p, p != ""
	}
	shaped := func(text string) (string, bool) {
		first := ""
		for _, m := range plateShapeRe.FindAllStringSubmatch(text, -1) {
			cand := strings.ToUpper(m[1] + m[2] + m[3])
			if want != "" && cand == want {
				return cand, true
			}
			if first == "" {
				first = cand
			}
		}
		return first, first != ""
	}
	return []Rule{labelled, shaped}
}

func upper(r Rule) Rule {
	return func(text string) (string, bool) {
		v, ok := r(text)
		return strings.ToUpper(v), ok
	}
}
