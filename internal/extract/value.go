package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	numLiteralRe   = regexp.MustCompile(`-?\d+\.?\d*`)
	numSepRe       = regexp.MustCompile(`[,\s]`)
	htmlTagRe      = regexp.MustCompile(`<[^>]+>`)
	controlCharRe  = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f-\x9f]`)
	dmsMarkRe      = regexp.MustCompile("[°′″’]")
	dateSepCleanRe = regexp.MustCompile(`[^\d/\-]`)
	isoDateRe      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// missingSpellings are the case-insensitive spellings treated as no value.
var missingSpellings = map[string]bool{
	"": true, "n/a": true, "na": true, "null": true, "none": true,
	"-": true, "--": true,
}

// ParseNum returns the first signed decimal literal in s after stripping
// thousands separators and whitespace. ok is false when nothing parses.
func ParseNum(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	cleaned := numSepRe.ReplaceAllString(strings.TrimSpace(s), "")
	m := numLiteralRe.FindString(cleaned)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// CleanValue canonicalizes a text field: HTML tags and control characters are
// stripped, and any missing-value spelling collapses to the "N/A" sentinel.
func CleanValue(val string) string {
	val = htmlTagRe.ReplaceAllString(val, "")
	val = controlCharRe.ReplaceAllString(val, "")
	val = strings.TrimSpace(val)
	if missingSpellings[strings.ToLower(val)] {
		return "N/A"
	}
	return val
}

// DMSToDecimal converts a degrees/minutes/seconds string to signed decimal
// degrees rounded to 6 places. It requires at least three numeric components
// and rejects minutes or seconds >= 60. The result is negated when the
// degrees are negative or the string carries a W/S hemisphere marker.
func DMSToDecimal(dms string) (float64, bool) {
	if strings.TrimSpace(dms) == "" {
		return 0, false
	}
	s := dmsMarkRe.ReplaceAllString(dms, " ")
	s = strings.ReplaceAll(s, `"`, " ")
	parts := numLiteralRe.FindAllString(s, -1)
	if len(parts) < 3 {
		return 0, false
	}
	deg, err1 := strconv.ParseFloat(parts[0], 64)
	mins, err2 := strconv.ParseFloat(parts[1], 64)
	secs, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}
	if mins >= 60 || secs >= 60 {
		return 0, false
	}
	dec := abs(deg) + mins/60 + secs/3600
	upper := strings.ToUpper(dms)
	if deg < 0 || strings.Contains(upper, "W") || strings.Contains(upper, "S") {
		dec = -dec
	}
	return round6(dec), true
}

// ParseDate normalizes a slash- or dash-separated date to the given output
// layout. Month/day order is tried before day/month; the first calendar-valid
// interpretation wins. Two-digit years below cutoff land in 2000s, the rest
// in 1900s. ok is false when no interpretation is calendar-valid.
func ParseDate(dateStr string, cutoff int, layout string) (string, bool) {
	trimmed := strings.TrimSpace(dateStr)
	if isoDateRe.MatchString(trimmed) {
		return trimmed, true
	}
	s := dateSepCleanRe.ReplaceAllString(trimmed, "/")
	var parts []string
	for _, p := range strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '-' }) {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	if len(parts) != 3 {
		return "", false
	}
	a, err1 := strconv.Atoi(parts[0])
	b, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return "", false
	}
	if year < 100 {
		if year < cutoff {
			year += 2000
		} else {
			year += 1900
		}
	}
	for _, order := range [][2]int{{a, b}, {b, a}} {
		mo, day := order[0], order[1]
		if mo < 1 || mo > 12 || day < 1 || day > 31 {
			continue
		}
		dt := time.Date(year, time.Month(mo), day, 0, 0, 0, 0, time.UTC)
		if dt.Day() != day || dt.Month() != time.Month(mo) {
			continue // day overflowed the month
		}
		return dt.Format(layout), true
	}
	return "", false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func round6(v float64) float64 {
	if v < 0 {
		return -round6(-v)
	}
	return float64(int64(v*1e6+0.5)) / 1e6
}
