package ocr

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// PdfToText recovers text from a scanned well file by running the poppler
// pdftotext binary in layout mode. Layout mode keeps the column alignment of
// completion-report form fields and stimulation tables, which the extraction
// regexes depend on.
type PdfToText struct {
	binPath string
	timeout time.Duration
}

// NewPdfToText creates a PdfToText runner. An empty binPath falls back to
// "pdftotext" on PATH. A zero timeout disables the per-document deadline.
func NewPdfToText(binPath string, timeout time.Duration) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath, timeout: timeout}
}

// ExtractText converts one PDF to text. A document that converts to nothing
// but whitespace is reported as an error, since handing empty text back to
// the fallback path would replace a short recognizer result with a worse one.
func (p *PdfToText) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, p.binPath, "-layout", pdfPath, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "ocr: pdftotext failed for %s: %s", pdfPath, stderr.String())
	}

	text := stdout.String()
	if strings.TrimSpace(text) == "" {
		return "", eris.Errorf("ocr: pdftotext produced no text for %s", pdfPath)
	}
	return text, nil
}
