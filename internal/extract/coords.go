package extract

import (
	"fmt"
	"regexp"
	"strconv"
)

// Latitude DMS patterns, most specific first. Each captures degrees, minutes,
// seconds.
var latDMSPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Well\s+Coordinates[^(]*\(\s*(\d+)\s*°\s*(\d+)\s*'?\s*([\d.]+)\s*"?\s*N\s*[,)]`),
	regexp.MustCompile(`(?i)Latitude\s+of\s+Well\s+Head[^\d]*(\d+)\s*°\s*(\d+)\s*'?\s*([\d.]+)\s*"?`),
	regexp.MustCompile(`(?i)(?:Site\s+Position|Well\s+Position)[^\d]*Latitude\s*[:\s]\s*(\d+)\s*°\s*(\d+)\s*'?\s*([\d.]+)\s*"?\s*N`),
	regexp.MustCompile(`(?i)Lat(?:itude|ittude)?\s*[:\s]\s*(\d{2})\s*°\s*(\d{1,2})\s*'?\s*([\d.]+)\s*"?\s*N`),
	regexp.MustCompile(`(?i)(\d{2})\s*°\s*(\d{1,2})\s*'\s*([\d.]+)\s*"?\s*N\b`),
	regexp.MustCompile(`(?i)Lat(?:itude|ittude)?\s*[:\s]\s*(\d{2})\s+(\d{1,2})\s+([\d.]+)\s*N\b`),
}

// Labelled decimal-degree latitude patterns. All matches are collected, not
// just the first.
var latDecimalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Survey\s+)?Lat(?:itude|ittude)?\s*[:\s]\s*(\d{2}\.\d{2,6})\s*(?:deg\.?\s*[NS]?)?`),
	regexp.MustCompile(`(?i)\bLat(?:itude|ittude)?\b[^\d\n]{0,20}(\d{2}\.\d{2,6})`),
	regexp.MustCompile(`(?i)Lat(?:itude|ittude)?\s*[:\s]+\s*(\d{2}\.\d{2,6})\s*[°N]?`),
}

// latSurveyWindowRe catches an unlabelled decimal within reach of a
// survey-section header.
var latSurveyWindowRe = regexp.MustCompile(
	`(?i)(?:Well\s+Coord|Survey|APPLICATION\s+FOR\s+PERMIT|Well\s+Completion)[^\d]{0,600}(\d{1,2}\.\d{2,6})`)

// Longitude DMS patterns. West-hemisphere forms; a few tolerate the degree
// mark OCR'd as a double quote.
var lonDMSPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Well\s+Coordinates[^)]*N\s*[,)]\s*(\d+)\s*°\s*(\d+)\s*'?\s*([\d.]+)\s*"?\s*W`),
	regexp.MustCompile(`(?i)Longitude\s+of\s+Well\s+Head[^\d]*(-?\d+)\s*°\s*(\d+)\s*'?\s*([\d.]+)\s*"?\s*W?`),
	regexp.MustCompile(`(?i)(?:Site\s+Position|Well\s+Position)[^\d]*Longitude\s*[:\s]\s*(\d+)\s*°\s*(\d+)\s*'?\s*([\d.]+)\s*"?\s*W`),
	regexp.MustCompile(`(?i)Long(?:itude)?\s*[:\s]\s*(\d{2,3})\s*°\s*(\d{1,2})\s*'?\s*([\d.]+)\s*"?\s*W`),
	regexp.MustCompile(`(?i)Long(?:itude)?\s*[:\s]\s*(-?\d{2,3})\s*["\x{201C}]\s*(\d{1,2})\s*'?\s*([\d.]+)\s*"?\s*W`),
	regexp.MustCompile(`(?i)(\d{2,3})\s*°\s*(\d{1,2})\s*'\s*([\d.]+)\s*"?\s*W\b`),
	regexp.MustCompile(`(?i)Long(?:itude)?\s*[:\s]\s*(\d{2,3})\s+(\d{1,2})\s+([\d.]+)\s*W\b`),
}

var lonDecimalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Survey\s+)?\bLong(?:itude)?\b\s*[:\s]\s*(-?\d{2,3}\.\d{2,6})\s*(?:deg\.?\s*[WE]?)?`),
	regexp.MustCompile(`(?i)\bLong(?:itude)?\b[^\d\n]{0,20}(-?\d{2,3}\.\d{2,6})`),
	regexp.MustCompile(`(?i)Long(?:itude)?\s*[:\s]+\s*(-?\d{2,3}\.\d{2,6})\s*[°W]?`),
}

var lonSurveyWindowRe = regexp.MustCompile(
	`(?i)(?:Well\s+Coord|Survey|APPLICATION\s+FOR\s+PERMIT|Well\s+Completion)[^\d]{0,800}(\d{2,3}\.\d{2,6})`)

// ExtractLatitude collects every latitude candidate (labelled DMS, labelled
// decimal, survey window), admits those within ±90, and prefers the first one
// inside the regional plausibility box. When none is plausible the first
// admitted candidate is returned unmodified.
func (e *Extractor) ExtractLatitude(text string) (float64, bool) {
	norm := NormalizeDMS(text)
	var candidates []float64

	for _, re := range latDMSPatterns {
		m := re.FindStringSubmatch(norm)
		if m == nil {
			continue
		}
		dms := fmt.Sprintf(`%s° %s' %s" N`, m[1], m[2], m[3])
		if dec, ok := DMSToDecimal(dms); ok && dec >= -90 && dec <= 90 {
			candidates = append(candidates, dec)
		}
	}

	for _, re := range latDecimalPatterns {
		for _, m := range re.FindAllStringSubmatch(norm, -1) {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && v >= -90 && v <= 90 {
				candidates = append(candidates, round6(v))
			}
		}
	}

	if m := latSurveyWindowRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v >= -90 && v <= 90 {
			candidates = append(candidates, round6(v))
		}
	}

	for _, v := range candidates {
		if v >= e.cfg.LatMin && v <= e.cfg.LatMax {
			return v, true
		}
	}
	if len(candidates) > 0 {
		return candidates[0], true
	}
	return 0, false
}

// ExtractLongitude works like ExtractLatitude with the ±180 range and the
// Western-hemisphere assumption: positive candidates are forced negative
// when the sign is ambiguous.
func (e *Extractor) ExtractLongitude(text string) (float64, bool) {
	norm := NormalizeDMS(text)
	var candidates []float64

	for _, re := range lonDMSPatterns {
		m := re.FindStringSubmatch(norm)
		if m == nil {
			continue
		}
		deg := m[1]
		if deg != "" && deg[0] == '-' {
			deg = deg[1:]
		}
		dms := fmt.Sprintf(`-%s° %s' %s" W`, deg, m[2], m[3])
		dec, ok := DMSToDecimal(dms)
		if !ok {
			continue
		}
		if dec > 0 {
			dec = -dec
		}
		if dec >= -180 && dec <= 180 {
			candidates = append(candidates, dec)
		}
	}

	for _, re := range lonDecimalPatterns {
		for _, m := range re.FindAllStringSubmatch(norm, -1) {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			if v > 0 {
				v = -v
			}
			if v >= -180 && v <= 180 {
				candidates = append(candidates, round6(v))
			}
		}
	}

	if m := lonSurveyWindowRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v >= 0 && v <= 180 {
			candidates = append(candidates, round6(-v))
		}
	}

	for _, v := range candidates {
		if v >= e.cfg.LonMin && v <= e.cfg.LonMax {
			return v, true
		}
	}
	if len(candidates) > 0 {
		return candidates[0], true
	}
	return 0, false
}
