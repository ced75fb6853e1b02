// Package ocr provides the text-extraction fallback used when the layout
// recognizer's output for a document is too short to be usable.
package ocr

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/prairie-data/wellscan/internal/config"
)

// Extractor extracts text content from PDF files.
type Extractor interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.OCRConfig) (Extractor, error) {
	switch cfg.Provider {
	case "local", "":
		return NewPdfToText(cfg.PdfToTextPath, time.Duration(cfg.TimeoutSecs)*time.Second), nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
}
