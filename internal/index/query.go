// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pdiddy/certsplit/internal/fields"
)

// QueryOptions holds the manifest filters. Empty fields do not filter.
type QueryOptions struct {
	// Plate matches the normalized plate exactly.
	Plate string

	// Policy matches the policy number ignoring hyphens and spaces.
	Policy string

	// Holder is a case-insensitive substring of the policyholder.
	Holder string

	// RunID restricts results to one run.
	RunID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Plate == "" && q.Policy == "" && q.Holder == "" && q.RunID == ""
}

// Entry is one indexed certificate.
type Entry struct {
	Plate        string `json:"patente" yaml:"patente"`
	Holder       string `json:"tomador,omitempty" yaml:"tomador,omitempty"`
	Brand        string `json:"marca,omitempty" yaml:"marca,omitempty"`
	VehicleType  string `json:"tipo,omitempty" yaml:"tipo,omitempty"`
	Year         string `json:"anio_fabricacion,omitempty" yaml:"anio_fabricacion,omitempty"`
	PolicyNumber string `json:"poliza_numero,omitempty" yaml:"poliza_numero,omitempty"`
	CoverageFrom string `json:"vigencia_desde_iso,omitempty" yaml:"vigencia_desde_iso,omitempty"`
	CoverageTo   string `json:"vigencia_hasta_iso,omitempty" yaml:"vigencia_hasta_iso,omitempty"`
	PageRange    string `json:"rango_paginas_1based" yaml:"rango_paginas_1based"`
	PDFPath      string `json:"archivo_pdf" yaml:"archivo_pdf"`
	JSONPath     string `json:"archivo_json" yaml:"archivo_json"`
	RunID        string `json:"run_id" yaml:"run_id"`
	Source       string `json:"origen" yaml:"origen"`
}

// Query returns the indexed certificates matching opts, ordered by holder,
// plate, and metadata path.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT c.plate, c.holder, c.brand, c.vehicle_type, c.year, c.policy_number,
			c.coverage_from, c.coverage_to, c.page_start, c.page_end,
			c.pdf_path, c.json_path, c.run_id, r.source
		FROM certificates c
		JOIN runs r ON r.id = c.run_id
		WHERE 1=1`)

	if opts.Plate != "" {
		qb.WriteString(` AND c.plate = ?`)
		args = append(args, fields.NormalizePlate(opts.Plate))
	}
	if opts.Policy != "" {
		qb.WriteString(` AND c.policy_digits = ?`)
		args = append(args, fields.StripPolicy(opts.Policy))
	}
	if opts.Holder != "" {
		qb.WriteString(` AND c.holder LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(opts.Holder)+"%")
	}
	if opts.RunID != "" {
		qb.WriteString(` AND c.run_id = ?`)
		args = append(args, opts.RunID)
	}

	qb.WriteString(` ORDER BY c.holder, c.plate, c.json_path LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                      Entry
			holder, brand, vtype   sql.NullString
			year, policy, from, to sql.NullString
			start, end             int
		)
		if err := rows.Scan(
			&e.Plate, &holder, &brand, &vtype, &year, &policy,
			&from, &to, &start, &end,
			&e.PDFPath, &e.JSONPath, &e.RunID, &e.Source,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.Holder = holder.String
		e.Brand = brand.String
		e.VehicleType = vtype.String
		e.Year = year.String
		e.PolicyNumber = policy.String
		e.CoverageFrom = from.String
		e.CoverageTo = to.String
		e.PageRange = fmt.Sprintf("%d-%d", start+1, end+1)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
