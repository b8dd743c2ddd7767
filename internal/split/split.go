// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package split drives one run over a concatenated certificates PDF:
// segmentation, field extraction, plate filtering, and slicing each kept
// block into its own PDF plus metadata document.
//
// Blocks are processed one at a time in detection order. A failure while
// exporting a block aborts the run unless SplitConfig.KeepGoing is set.
package split

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/certsplit/internal/fields"
	"github.com/pdiddy/certsplit/internal/pdfdoc"
	"github.com/pdiddy/certsplit/internal/plate"
	"github.com/pdiddy/certsplit/internal/segment"
	"github.com/pdiddy/certsplit/internal/sink"
	"github.com/pdiddy/certsplit/pkg/types"
)

var (
	// ErrInput reports a missing, unreadable, or non-PDF source file.
	ErrInput = errors.New("input error")

	// ErrSlice reports a block whose pages could not be copied or written.
	ErrSlice = errors.New("slice failure")
)

// TextExtractor supplies the plain text of every page of a document.
type TextExtractor interface {
	ExtractPages(data []byte) ([]string, error)
}

// PageCopier produces a standalone document from a page range.
type PageCopier interface {
	CopyPageRange(data []byte, start, end int) ([]byte, error)
}

// Writer persists the per-certificate outputs.
type Writer interface {
	WritePDF(path string, data []byte) error
	WriteRecord(path string, meta types.Metadata) error
}

// Recorder receives every exported artifact, e.g. a manifest index.
type Recorder interface {
	Record(ctx context.Context, runID, source string, a types.Artifact) error
}

// Splitter wires the collaborators of a run. Index and Logger are optional.
type Splitter struct {
	Text   TextExtractor
	Copier PageCopier
	Sink   Writer
	Index  Recorder
	Logger *slog.Logger
}

// Warning is a non-fatal parse problem: a block whose checklist fields
// stayed empty after both extraction passes, or a document with no blocks.
type Warning struct {
	Block   types.Block
	Missing []fields.RequiredField
	Message string
}

// Summary holds the counts of one run.
type Summary struct {
	Blocks   int
	Exported int
	Filtered int
	Failed   int
	Warnings []Warning
}

// HasFailures reports whether any block failed to export.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Result is the outcome of a run.
type Result struct {
	RunID     string
	Source    string
	Plate     string
	Artifacts []types.Artifact
	Summary   Summary
}

func (s *Splitter) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}

// Run reads the PDF at inputPath, extracts its page texts, and processes it.
// Problems with the input itself are reported as ErrInput before any output
// is written.
func (s *Splitter) Run(ctx context.Context, inputPath string, cfg types.SplitConfig, w io.Writer) (Result, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{}, fmt.Errorf("%w: no such file %s", ErrInput, inputPath)
		}
		return Result{}, fmt.Errorf("%w: reading %s: %w", ErrInput, inputPath, err)
	}
	if err := pdfdoc.CheckSignature(data); err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrInput, inputPath, err)
	}
	s.logger().Info("source loaded", "path", inputPath, "bytes", len(data))

	pages, err := s.Text.ExtractPages(data)
	if err != nil {
		return Result{}, fmt.Errorf("%w: extracting text from %s: %w", ErrInput, inputPath, err)
	}
	s.logger().Info("page text extracted", "path", inputPath, "pages", len(pages))

	return s.Process(ctx, inputPath, data, pages, cfg, w)
}

// Process splits an already loaded document. src is the raw PDF and pages
// its per-page text. Progress lines are written to w.
func (s *Splitter) Process(ctx context.Context, source string, src []byte, pages []string, cfg types.SplitConfig, w io.Writer) (Result, error) {
	log := s.logger()
	filter := plate.NewFilter(cfg.Plate)
	res := Result{
		RunID:  uuid.NewString(),
		Source: source,
		Plate:  filter.Target(),
	}

	blocks := segment.Segment(pages, cfg.SegmentConfig)
	res.Summary.Blocks = len(blocks)
	if len(blocks) == 0 {
		msg := "no certificate blocks detected"
		log.Warn(msg, "source", source, "pages", len(pages))
		res.Summary.Warnings = append(res.Summary.Warnings, Warning{Message: msg})
	}

	ex := exporter{
		Splitter: s,
		layout:   sink.Layout{Root: cfg.OutDir},
		used:     make(map[string]bool),
		cfg:      cfg,
	}

	for i, b := range blocks {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		blockText := strings.Join(pages[b.Start:b.End+1], "\n")
		firstPage := pages[b.Start]

		rec := fields.ExtractBlock(blockText, firstPage, filter.Target())
		rec, keep := filter.Keep(rec, blockText, firstPage)
		if !keep {
			fmt.Fprintf(w, "skipped: %s (plate filter)\n", b)
			res.Summary.Filtered++
			continue
		}

		if missing := fields.Missing(rec); len(missing) > 0 {
			log.Warn("fields not found", "block", b.Range1Based(), "missing", missing)
			res.Summary.Warnings = append(res.Summary.Warnings, Warning{
				Block:   b,
				Missing: missing,
				Message: "fields not found",
			})
		}
		log.Debug("fields extracted", "block", b.Range1Based(), "record", rec)

		art, err := ex.export(ctx, i, b, rec, src, res)
		if err != nil {
			if !cfg.KeepGoing {
				return res, err
			}
			log.Error("block export failed", "block", b.Range1Based(), "error", err)
			fmt.Fprintf(w, "failed:  %s (%v)\n", b, err)
			res.Summary.Failed++
			continue
		}

		fmt.Fprintf(w, "exported: %s -> %s\n", art.Meta.Plate, art.PDFPath)
		res.Artifacts = append(res.Artifacts, art)
		res.Summary.Exported++
	}

	return res, nil
}

type exporter struct {
	*Splitter
	layout sink.Layout
	used   map[string]bool
	cfg    types.SplitConfig
}

func (e exporter) export(ctx context.Context, i int, b types.Block, rec types.Record, src []byte, res Result) (types.Artifact, error) {
	paths := e.layout.Paths(rec, "")
	if e.used[paths.Dir] {
		if e.cfg.Disambiguate {
			paths = e.layout.Paths(rec, fmt.Sprintf("_%d", i+1))
		} else {
			e.logger().Warn("output directory already used by an earlier block, overwriting",
				"block", b.Range1Based(), "dir", paths.Dir)
		}
	}
	e.used[paths.Dir] = true

	data, err := e.Copier.CopyPageRange(src, b.Start, b.End)
	if err != nil {
		return types.Artifact{}, fmt.Errorf("%w: %s pages %s: %w", ErrSlice, res.Source, b.Range1Based(), err)
	}
	if err := e.Sink.WritePDF(paths.PDF, data); err != nil {
		return types.Artifact{}, fmt.Errorf("%w: %s pages %s: %w", ErrSlice, res.Source, b.Range1Based(), err)
	}

	meta := sink.NewMetadata(rec, paths.Plate, b, paths.PDF)
	if err := e.Sink.WriteRecord(paths.JSON, meta); err != nil {
		e.discard(paths.PDF)
		return types.Artifact{}, fmt.Errorf("writing metadata for pages %s: %w", b.Range1Based(), err)
	}

	art := types.Artifact{
		Dir:      paths.Dir,
		PDFPath:  paths.PDF,
		JSONPath: paths.JSON,
		Block:    b,
		Meta:     meta,
	}
	if e.Index != nil {
		if err := e.Index.Record(ctx, res.RunID, res.Source, art); err != nil {
			e.discard(paths.PDF, paths.JSON)
			return types.Artifact{}, fmt.Errorf("indexing %s: %w", paths.JSON, err)
		}
	}
	return art, nil
}

// discard removes the files of a block whose export failed part way, so no
// PDF is left without its metadata or index entry.
func (e exporter) discard(paths ...string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			e.logger().Warn("removing partial output", "path", p, "error", err)
		}
	}
}

// Report prints the closing lines of a run: one line per artifact and the
// total, or the zero-result message.
func Report(w io.Writer, res Result) {
	if len(res.Artifacts) == 0 {
		if res.Plate != "" {
			fmt.Fprintf(w, "No se encontró certificado de cobertura para la patente %s.\n", res.Plate)
		} else {
			fmt.Fprintln(w, "No se detectaron certificados de cobertura en el PDF.")
		}
		return
	}

	fmt.Fprintln(w, "\nProcesamiento finalizado:")
	for _, a := range res.Artifacts {
		fmt.Fprintf(w, "- %s -> %s\n", a.Meta.Plate, a.PDFPath)
	}
	fmt.Fprintf(w, "Total certificados exportados: %d\n", len(res.Artifacts))
	if res.Summary.Failed > 0 {
		fmt.Fprintf(w, "Bloques con error: %d\n", res.Summary.Failed)
	}
}
