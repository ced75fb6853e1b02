// Package preprocess re-normalizes stored well rows: stray markup, control
// characters, inconsistent date and identifier formats, and out-of-region
// coordinates left behind by earlier extraction runs.
package preprocess

import (
	"context"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/prairie-data/wellscan/internal/config"
	"github.com/prairie-data/wellscan/internal/model"
	"github.com/prairie-data/wellscan/internal/store"
)

var (
	htmlTagRe     = regexp.MustCompile(`<[^>]+>`)
	controlRe     = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f-\x9f]`)
	unicodeSpaces = regexp.MustCompile("[  -​  　]")
	multiSpaceRe  = regexp.MustCompile(` {2,}`)

	isoDateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	apiShapeRe = regexp.MustCompile(`^\d{2}-\d{3}-\d{5}$`)
	nonDigitRe = regexp.MustCompile(`\D`)
	// OCR artifacts that stand in for date separators.
	dateQuoteRe = regexp.MustCompile("['’′″“]")
)

var missingSpellings = map[string]bool{
	"": true, "n/a": true, "na": true, "null": true,
	"none": true, "-": true, "--": true,
}

// Normalizer cleans individual field values. The coordinate bounds come from
// the extraction config.
type Normalizer struct {
	cfg config.ExtractConfig
}

// New creates a Normalizer.
func New(cfg config.ExtractConfig) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// CleanText strips HTML tags, control characters, and irregular whitespace,
// then canonicalizes missing spellings to "N/A".
func CleanText(s string) string {
	s = htmlTagRe.ReplaceAllString(s, "")
	s = controlRe.ReplaceAllString(s, "")
	s = unicodeSpaces.ReplaceAllString(s, " ")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if missingSpellings[strings.ToLower(s)] {
		return "N/A"
	}
	return s
}

var dateLayouts = []string{"1/2/2006", "1-2-2006", "1/2/06", "1-2-06"}

// NormalizeDate converts common date spellings to ISO. Unparseable values
// pass through unchanged; missing spellings become "N/A".
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if missingSpellings[strings.ToLower(s)] {
		return "N/A"
	}
	if isoDateRe.MatchString(s) {
		return s
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}

	// Quote-like OCR glyphs sometimes replace slashes.
	if cleaned := dateQuoteRe.ReplaceAllString(s, "/"); cleaned != s {
		for _, layout := range []string{"1/2/2006", "1/2/06"} {
			if t, err := time.Parse(layout, cleaned); err == nil {
				return t.Format("2006-01-02")
			}
		}
	}

	if t, err := time.Parse("January 2, 2006", s); err == nil {
		return t.Format("2006-01-02")
	}

	return s
}

// NormalizeAPINumber reformats a well identifier to NN-NNN-NNNNN when its
// digits allow it. Missing spellings return "".
func NormalizeAPINumber(s string) string {
	s = strings.TrimSpace(s)
	if missingSpellings[strings.ToLower(s)] {
		return ""
	}
	if apiShapeRe.MatchString(s) {
		return s
	}

	digits := nonDigitRe.ReplaceAllString(s, "")
	if len(digits) == 10 || len(digits) == 11 {
		return digits[:2] + "-" + digits[2:5] + "-" + digits[5:10]
	}
	return s
}

// ValidateLatitude folds the value into the northern hemisphere and clears
// it when it falls outside the configured regional box.
func (n *Normalizer) ValidateLatitude(lat *float64) *float64 {
	if lat == nil || *lat == 0 {
		return nil
	}
	v := math.Abs(*lat)
	if v < n.cfg.LatMin || v > n.cfg.LatMax {
		return nil
	}
	v = math.Round(v*1e6) / 1e6
	return &v
}

// ValidateLongitude forces the value into the western hemisphere and clears
// it when it falls outside the configured regional box.
func (n *Normalizer) ValidateLongitude(lon *float64) *float64 {
	if lon == nil || *lon == 0 {
		return nil
	}
	v := -math.Abs(*lon)
	if v < n.cfg.LonMin || v > n.cfg.LonMax {
		return nil
	}
	v = math.Round(v*1e6) / 1e6
	return &v
}

// NormalizeWell cleans one record in place and reports whether anything
// changed.
func (n *Normalizer) NormalizeWell(rec *model.WellRecord) bool {
	orig := *rec

	for _, f := range []*string{
		&rec.WellName, &rec.Address, &rec.County, &rec.Field,
		&rec.Operator, &rec.PermitNumber, &rec.TotalDepth,
		&rec.Formation, &rec.StimulationNotes,
	} {
		*f = CleanText(*f)
	}
	rec.PermitDate = NormalizeDate(CleanText(rec.PermitDate))
	rec.APINumber = NormalizeAPINumber(rec.APINumber)
	rec.Latitude = n.ValidateLatitude(rec.Latitude)
	rec.Longitude = n.ValidateLongitude(rec.Longitude)

	return orig.WellName != rec.WellName ||
		orig.Address != rec.Address ||
		orig.County != rec.County ||
		orig.Field != rec.Field ||
		orig.Operator != rec.Operator ||
		orig.PermitNumber != rec.PermitNumber ||
		orig.PermitDate != rec.PermitDate ||
		orig.TotalDepth != rec.TotalDepth ||
		orig.Formation != rec.Formation ||
		orig.StimulationNotes != rec.StimulationNotes ||
		orig.APINumber != rec.APINumber ||
		!floatPtrEqual(orig.Latitude, rec.Latitude) ||
		!floatPtrEqual(orig.Longitude, rec.Longitude)
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Run cleans every stored well and writes back the ones that changed.
// Returns the number of updated rows.
func Run(ctx context.Context, st store.Store, n *Normalizer) (int, error) {
	wells, err := st.ListWells(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "preprocess: list wells")
	}

	updated := 0
	for i := range wells {
		rec := &wells[i]
		if !n.NormalizeWell(rec) {
			continue
		}
		if err := st.UpdateWellFields(ctx, rec); err != nil {
			zap.L().Warn("preprocess update failed",
				zap.Int64("well_id", rec.ID),
				zap.Error(err))
			continue
		}
		updated++
	}

	zap.L().Info("preprocess complete",
		zap.Int("wells", len(wells)),
		zap.Int("updated", updated))
	return updated, nil
}
