// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// TextReader extracts plain text page by page.
type TextReader struct{}

// ExtractPages returns the text of every page in order; index i holds page
// i+1. Pages without a content stream yield "".
func (TextReader) ExtractPages(data []byte) (pages []string, err error) {
	if err := CheckSignature(data); err != nil {
		return nil, err
	}

	// The reader panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, parseError("reading text", fmt.Errorf("%v", r))
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, parseError("opening", err)
	}

	n := r.NumPage()
	pages = make([]string, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, parseError(fmt.Sprintf("page %d", i), err)
		}
		pages[i-1] = text
	}
	return pages, nil
}
