package extract

import "regexp"

// apiSurveyWindowRe bounds the preferred search region: a window of lines
// following a survey/permit section header. Identifiers elsewhere in the
// document (offset-well lists, commingling tables) are only consulted when
// the window yields nothing.
var apiSurveyWindowRe = regexp.MustCompile(
	`(?i)(?:Directional\s+Survey|Survey\s+(?:Report|Certification)|` +
		`Well\s+Completion|APPLICATION\s+FOR\s+PERMIT)[^\n]*(?:.*\n){0,20}`)

// apiPatterns are tried in order; first match wins. The first five capture
// the three identifier groups, the last captures a raw 10-11 digit run.
var apiPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)API\s*[#:\s]*(\d{2})-(\d{3})-(\d{5})(?:-\d{2}-\d{2})?`),
	regexp.MustCompile(`(?i)API\s*[:#]?\s*(\d{2})\s*-\s*(\d{3})\s*-\s*(\d{5})`),
	regexp.MustCompile(`(?i)API\s*[:#]?\s*(\d{2})\s*-?\s*(\d{3})\s*-?\s*(\d{5})`),
	regexp.MustCompile(`(?i)API\s+(?:No\.?|Number|JOB\s*#?)\s*[:\s]*(\d{2})-(\d{3})-(\d{5})`),
	regexp.MustCompile(`(?i)API\s+(?:No\.?|Number|JOB\s*#?)\s*[:\s]*(\d{2})\s+(\d{3})\s+(\d{5})\b`),
	regexp.MustCompile(`(?i)API\s*[:#]?\s*(\d{10,11})\b`),
}

var (
	// Space-separated form with the known state prefix, e.g. "33 053 06755".
	apiSpacedRe = regexp.MustCompile(`\b(33)\s+(\d{3})\s+(\d{5})\b`)
	// Bare dashed form anywhere in the text, last resort.
	apiBareRe   = regexp.MustCompile(`(\d{2})-(\d{3})-(\d{5})\b`)
	apiDigitsRe = regexp.MustCompile(`\D`)
)

// ExtractAPI finds the well identifier and returns it formatted as
// NN-NNN-NNNNN, or "" when no pattern matches.
func ExtractAPI(text string) string {
	var regions []string
	if window := apiSurveyWindowRe.FindString(text); window != "" {
		regions = append(regions, window)
	}
	regions = append(regions, text)

	for _, region := range regions {
		for _, re := range apiPatterns {
			m := re.FindStringSubmatch(region)
			if m == nil {
				continue
			}
			if len(m) == 4 {
				return m[1] + "-" + m[2] + "-" + m[3]
			}
			return formatRawAPI(m[1])
		}
	}

	if m := apiSpacedRe.FindStringSubmatch(text); m != nil {
		return m[1] + "-" + m[2] + "-" + m[3]
	}
	if m := apiBareRe.FindStringSubmatch(text); m != nil {
		return m[1] + "-" + m[2] + "-" + m[3]
	}
	return ""
}

// formatRawAPI reformats an undelimited digit run into NN-NNN-NNNNN. An
// 11-digit run with the known "33" state prefix carries a stray third digit
// from OCR; the prefix is kept and the run is re-split after it.
func formatRawAPI(raw string) string {
	switch {
	case len(raw) == 10:
		return raw[:2] + "-" + raw[2:5] + "-" + raw[5:10]
	case len(raw) == 11 && raw[:2] == "33":
		return "33-" + raw[3:6] + "-" + raw[6:11]
	case len(raw) >= 10:
		return raw[:2] + "-" + raw[2:5] + "-" + raw[5:10]
	}
	return raw
}

// FormatAPINumber canonicalizes an identifier from any raw shape. Already
// well-formed values pass through; otherwise the digits are extracted and
// reformatted when they count 10 or 11. Anything else is returned unchanged.
func FormatAPINumber(api string) string {
	if apiCanonicalRe.MatchString(api) {
		return api
	}
	digits := apiDigitsRe.ReplaceAllString(api, "")
	if len(digits) == 10 || len(digits) == 11 {
		return digits[:2] + "-" + digits[2:5] + "-" + digits[5:10]
	}
	return api
}

// apiCanonicalRe is the canonical identifier shape.
var apiCanonicalRe = regexp.MustCompile(`^\d{2}-\d{3}-\d{5}$`)
