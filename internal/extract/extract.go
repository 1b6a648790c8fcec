// Package extract turns uploaded PDF documents into plain text, either via
// the external extraction service or a local decoder when the service is not
// configured.
package extract

import (
	"bytes"
	"context"
	"io"

	"github.com/ledongthuc/pdf"
)

// MinTextLength is the minimum extracted-text length treated as a usable
// extraction. Shorter output means the service returned garbage.
const MinTextLength = 50

// Client extracts text from a PDF document.
type Client interface {
	Extract(ctx context.Context, document []byte) (string, error)
}

// Local extracts text in-process. Used when no external service is configured.
type Local struct{}

func (Local) Extract(ctx context.Context, document []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	reader := bytes.NewReader(document)
	pdfReader, err := pdf.NewReader(reader, int64(len(document)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
