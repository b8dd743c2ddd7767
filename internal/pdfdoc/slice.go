// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Copier copies page ranges out of a source PDF with pdfcpu.
type Copier struct {
	conf *model.Configuration
}

// NewCopier returns a Copier using a relaxed pdfcpu configuration that never
// touches the user's pdfcpu config directory.
func NewCopier() *Copier {
	api.DisableConfigDir()
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Copier{conf: conf}
}

// PageCount returns the number of pages in data.
func (c *Copier) PageCount(data []byte) (int, error) {
	if err := CheckSignature(data); err != nil {
		return 0, err
	}
	n, err := api.PageCount(bytes.NewReader(data), c.conf)
	if err != nil {
		return 0, parseError("counting pages", err)
	}
	return n, nil
}

// CopyPageRange returns a new PDF holding pages start..end (zero-based,
// inclusive) of data in their original order. An end past the last page is
// clamped to it.
func (c *Copier) CopyPageRange(data []byte, start, end int) ([]byte, error) {
	n, err := c.PageCount(data)
	if err != nil {
		return nil, err
	}
	start = max(start, 0)
	end = min(end, n-1)
	if start > end {
		return nil, fmt.Errorf("page range %d-%d outside document of %d pages", start+1, end+1, n)
	}

	var out bytes.Buffer
	sel := []string{fmt.Sprintf("%d-%d", start+1, end+1)}
	if err := api.Trim(bytes.NewReader(data), &out, sel, c.conf); err != nil {
		return nil, fmt.Errorf("copying pages %d-%d: %w", start+1, end+1, err)
	}
	return out.Bytes(), nil
}
