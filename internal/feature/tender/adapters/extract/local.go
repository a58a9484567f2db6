package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// PDF reads the text layer of a PDF with github.com/ledongthuc/pdf.
// Scanned documents without a text layer yield ErrNoText; use the vision engine for those.
type PDF struct{}

func (PDF) Extract(ctx context.Context, data []byte) (text string, err error) {
	// the reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	if len(data) == 0 {
		return "", errors.New("empty PDF")
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}
	return string(b), nil
}

// Text accepts UTF-8 text files. A leading byte order mark is dropped.
type Text struct{}

func (Text) Extract(_ context.Context, data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", errors.New("text file is not valid UTF-8")
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return "", errors.New("text file contains binary data")
	}
	return string(data), nil
}
