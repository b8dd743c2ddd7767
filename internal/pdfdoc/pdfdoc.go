// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfdoc wraps the PDF libraries behind the two primitives the
// splitter needs: per-page plain text and page-range copying.
package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
)

// Signature is the byte prefix every PDF starts with.
const Signature = "%PDF"

// ErrDocumentParse reports input that is not a readable PDF.
var ErrDocumentParse = errors.New("document parse error")

// CheckSignature fails with ErrDocumentParse when data does not start with
// the PDF signature.
func CheckSignature(data []byte) error {
	if bytes.HasPrefix(data, []byte(Signature)) {
		return nil
	}
	head := data
	if len(head) > 5 {
		head = head[:5]
	}
	return fmt.Errorf("%w: missing %s header (found %q)", ErrDocumentParse, Signature, head)
}

func parseError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDocumentParse, op, err)
}
