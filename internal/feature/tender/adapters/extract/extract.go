// Package extract turns uploaded tender documents into plain text.
//
// A Router picks an Engine by file extension. Engines return raw text; the Router
// normalises whitespace, classifies failures as extraction errors and records metrics.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"tender_backend/internal/feature/tender/usecase"
	"tender_backend/internal/platform/apperr"
	"tender_backend/internal/platform/metrics"
)

const (
	EngineLocal  = "local"
	EngineVision = "vision"
)

// ErrNoText is returned when a document parsed but contained no text.
var ErrNoText = errors.New("document contains no extractable text")

// Engine extracts text from one document format.
type Engine interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// Router dispatches by extension.
type Router struct {
	name    string
	engines map[string]Engine
}

var _ usecase.TextExtractor = (*Router)(nil)

// NewRouter creates a Router. name labels metrics; engines maps lower-case extensions such as ".pdf".
func NewRouter(name string, engines map[string]Engine) *Router {
	return &Router{name: name, engines: engines}
}

// NewLocal extracts PDFs with the pure-Go reader and reads text files as is.
func NewLocal() *Router {
	return NewRouter(EngineLocal, map[string]Engine{
		".pdf": PDF{},
		".txt": Text{},
	})
}

// Extract returns the normalised text of the document named filename.
func (r *Router) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	text, err := r.extract(ctx, filename, data)
	metrics.ObserveExtraction(r.name, err)
	if err != nil {
		return "", apperr.Wrap(apperr.KindExtraction, "document text could not be extracted", err)
	}
	return text, nil
}

func (r *Router) extract(ctx context.Context, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	engine, ok := r.engines[ext]
	if !ok {
		return "", fmt.Errorf("no extractor for %q files", ext)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := engine.Extract(ctx, data)
	if err != nil {
		return "", err
	}
	text := Normalize(raw)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// Normalize collapses runs of spaces and tabs, trims every line and keeps at most one blank line
// between paragraphs.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var b strings.Builder
	blank := 0
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blank++
			continue
		}
		if b.Len() > 0 {
			if blank > 0 {
				b.WriteString("\n\n")
			} else {
				b.WriteByte('\n')
			}
		}
		blank = 0
		b.WriteString(line)
	}
	return b.String()
}
