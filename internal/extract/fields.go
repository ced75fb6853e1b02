package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	wellFileFilenameRe = regexp.MustCompile(`(?i)^W(\d+)\.pdf$`)
	wellFileTextRe     = regexp.MustCompile(`(?i)Well\s*File\s*(?:#|Number)?[:\s]*(\d{4,6})`)
	fileHashRe         = regexp.MustCompile(`(?i)File\s*#\s*(\d{4,6})`)

	permitNumberRe = regexp.MustCompile(`(?i)Permit\s*(?:#|Number)?[:\s]*(\d[\d\-A-Za-z]*)`)
	permitDateRes  = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Permit\s*Date[:\s]*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
		regexp.MustCompile(`(?i)Date\s+of\s+Permit[:\s]*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	}

	totalDepthRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Total\s+Depth\s+Drilled\s*[:\s]\s*(\d[\d,]*\.?\d*)\s*['\x{2032}]`),
		regexp.MustCompile(`(?i)Total\s+(?:Well\s+)?Depth[^\d]*(\d[\d,]*\.?\d*)\s*(ft|feet)?`),
		regexp.MustCompile(`(?i)Total\s*Depth[^\d]*(\d[\d,]*\.?\d*)\s*(ft|feet)?`),
	}

	formationRe      = regexp.MustCompile(`(?i)\bFormation\s*[:\s]*([A-Za-z0-9\s\-.]+?)(?:\n|$|\s{2,})`)
	formationLegalRe = regexp.MustCompile(`(?i)\b(Director|contact|undersigned|required|please|would allow|information|the contract)\b`)
)

// ExtractWellFileFromFilename pulls the file number out of a WNNNNN.pdf name.
func ExtractWellFileFromFilename(filename string) string {
	if m := wellFileFilenameRe.FindStringSubmatch(filename); m != nil {
		return m[1]
	}
	return ""
}

// ExtractWellFileFromText finds the well file number in the document body.
func ExtractWellFileFromText(text string) string {
	if m := wellFileTextRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := fileHashRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// ExtractPermitNumber finds the drilling permit number.
func ExtractPermitNumber(text string) string {
	if m := permitNumberRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// ExtractPermitDate finds the permit issue date, raw as written.
func ExtractPermitDate(text string) string {
	for _, re := range permitDateRes {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// ExtractTotalDepth finds the total drilled depth and reports it with a unit
// suffix. Matches below the configured minimum are skipped.
func (e *Extractor) ExtractTotalDepth(text string) string {
	for _, re := range totalDepthRes {
		if m := re.FindStringSubmatch(text); m != nil {
			raw := strings.ReplaceAll(m[1], ",", "")
			if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= e.cfg.MinDepthFt {
				return raw + " ft"
			}
		}
	}
	return ""
}

// ExtractFormation finds the target formation name, rejecting captures that
// ran into legal boilerplate.
func (e *Extractor) ExtractFormation(text string) string {
	m := formationRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	cand := strings.TrimSpace(squashSpaceRe.ReplaceAllString(strings.TrimSpace(m[1]), " "))
	if cand == "" {
		return ""
	}
	if e.cfg.FormationMaxLen > 0 && len(cand) > e.cfg.FormationMaxLen {
		return ""
	}
	if formationLegalRe.MatchString(cand) {
		return ""
	}
	return cand
}
