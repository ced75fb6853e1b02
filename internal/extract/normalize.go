// Package extract recovers structured well and stimulation records from the
// OCR'd text and tables of regulatory completion filings. Every field is
// best-effort: extractors try an ordered list of pattern strategies and fall
// back to "not found" rather than guessing.
package extract

import (
	"regexp"
	"strings"
)

// Glyph variants produced by OCR for degree/minute/second marks.
var (
	degreeVariantRe = regexp.MustCompile("[º˚·˙]")
	minuteVariantRe = regexp.MustCompile("[′’ʼʹ`´]")
	secondVariantRe = regexp.MustCompile("[″”ʺ]")
)

// NormalizeDMS folds degree/minute/second glyph variants to the three
// canonical marks (° ' ") and strips tilde noise so coordinate patterns can
// match. Idempotent: canonical text passes through unchanged.
func NormalizeDMS(text string) string {
	text = degreeVariantRe.ReplaceAllString(text, "°")
	text = minuteVariantRe.ReplaceAllString(text, "'")
	text = secondVariantRe.ReplaceAllString(text, `"`)
	return strings.ReplaceAll(text, "~", "")
}
