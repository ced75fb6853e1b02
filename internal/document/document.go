// Package document loads layout-recognizer output files and applies the
// optional OCR fallback for documents that came back nearly empty.
package document

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/prairie-data/wellscan/internal/config"
	"github.com/prairie-data/wellscan/internal/model"
	"github.com/prairie-data/wellscan/internal/ocr"
)

// Loader reads per-document JSON files produced by the layout recognizer.
type Loader struct {
	cfg config.OCRConfig
	ocr ocr.Extractor
}

// NewLoader creates a Loader. The extractor may be nil when the OCR fallback
// is disabled.
func NewLoader(cfg config.OCRConfig, extractor ocr.Extractor) *Loader {
	return &Loader{cfg: cfg, ocr: extractor}
}

// List returns the JSON document paths under dir, sorted by name.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "document: read dir %s", dir)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Load reads one recognizer output file. When the file carries no source
// name, it is derived from the filename: W12345.json becomes W12345.pdf.
func Load(path string) (*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "document: read %s", path)
	}

	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "document: parse %s", path)
	}

	if doc.Source == "" {
		base := filepath.Base(path)
		doc.Source = strings.TrimSuffix(base, filepath.Ext(base)) + ".pdf"
	}

	return &doc, nil
}

// LoadWithFallback loads the document and, when the fallback is enabled and
// the recognizer text is shorter than the configured threshold, runs OCR on
// the companion PDF and prepends its text as an extra page. A fallback
// failure is logged and the recognizer output is returned as-is.
func (l *Loader) LoadWithFallback(ctx context.Context, path string) (*model.Document, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}

	if !l.cfg.Fallback || l.ocr == nil || textLength(doc) >= l.cfg.MinChars {
		return doc, nil
	}

	pdfPath := filepath.Join(l.cfg.PDFDir, doc.Source)
	text, err := l.ocr.ExtractText(ctx, pdfPath)
	if err != nil {
		zap.L().Warn("ocr fallback failed",
			zap.String("source", doc.Source),
			zap.Error(err))
		return doc, nil
	}

	doc.Pages = append([]model.Page{{Text: text}}, doc.Pages...)
	return doc, nil
}

func textLength(doc *model.Document) int {
	n := 0
	for _, p := range doc.Pages {
		n += len(p.Text)
	}
	return n
}
