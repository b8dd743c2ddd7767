// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink persists split certificates: the per-certificate directory
// layout, atomic file writes, and the JSON metadata document.
package sink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pdiddy/certsplit/pkg/types"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Sink writes metadata documents and PDF bytes below the output root.
type Sink struct {
	schema *jsonschema.Schema
}

// New compiles the metadata schema and returns a ready Sink.
func New() (*Sink, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader([]byte(metadataSchema))); err != nil {
		return nil, fmt.Errorf("add metadata schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile metadata schema: %w", err)
	}
	return &Sink{schema: schema}, nil
}

// WriteRecord validates meta against the metadata schema and writes it to
// path as two-space indented JSON. Parent directories are created.
func (s *Sink) WriteRecord(path string, meta types.Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	if err := s.Validate(data); err != nil {
		return fmt.Errorf("metadata for %s: %w", path, err)
	}
	return WriteFile(path, append(data, '\n'))
}

// WritePDF writes the sliced document bytes to path.
func (s *Sink) WritePDF(path string, data []byte) error {
	return WriteFile(path, data)
}

// Validate checks a JSON metadata document against the schema.
func (s *Sink) Validate(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal metadata: %w", err)
	}
	if err := s.schema.Validate(v); err != nil {
		return fmt.Errorf("metadata does not match schema: %w", err)
	}
	return nil
}

// WriteFile writes data to path through a temporary file in the same
// directory and a rename, so readers never observe a partial file.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, filePerm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}
