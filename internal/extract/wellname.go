package extract

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	truncatedNameRe = regexp.MustCompile(`\d\s*[-\x{2010}\x{2013}\x{2014}]\s*$`)
	squashSpaceRe   = regexp.MustCompile(`\s+`)

	garbledPunctRe = regexp.MustCompile(`[~=.:;]\s*`)
	garbledPairRe  = regexp.MustCompile(`[~=]\s*[A-Z]?\s*[~=]`)

	sanitizePunctRe   = regexp.MustCompile(`[~=.:;]+`)
	sanitizeCharsetRe = regexp.MustCompile(`[^\w\s\-&'#]`)

	// Known contamination suffixes on a recovered name: county-name leakage,
	// lot/section fragments, spacing-unit digit triples, underscore runs.
	sanitizeSuffixRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s+Wiltiams\s*.*$`),
		regexp.MustCompile(`(?i)\s+Williams\s*$`),
		regexp.MustCompile(`(?i)\s+McKenzie\s*$`),
		regexp.MustCompile(`(?i)\s+LOT\d*\s*$`),
		regexp.MustCompile(`(?i)\s+Sec\s+\d`),
		regexp.MustCompile(`(?i)\s+\d{2,3}\s+\d{2,3}\s+\d+\s*$`),
		regexp.MustCompile(`(?i)\s+_{2,}.*$`),
	}

	nameSameLineRe      = regexp.MustCompile(`(?i)Well\s+Name\s+&?\s*No\.?\s*[:\s]+([A-Za-z][A-Za-z0-9\s\-.&]+?)(?:\n|$)`)
	nameHeaderNextRe    = regexp.MustCompile(`(?i)Well\s+Name\s+(?:and|an[·.]?d)\s+Number[^\n]*\n([^\n]+)`)
	nameLineSplitRe     = regexp.MustCompile(`(?i)\s+(?:Before\b|After\b|(?:I\s+){2,}|Sec\s+\d|Spacing\b|T\d{3}N)`)
	namePlainLabelRe    = regexp.MustCompile(`(?i)Well\s+Name\s*:\s*([A-Za-z][A-Za-z0-9\s\-.&]+?)(?:\n|$)`)
	nameLabelScanRe     = regexp.MustCompile(`(?i)Well\s+Name\s*:\s*([A-Za-z][A-Za-z0-9\s\-.&']+?)(?:\s*API\s*#?|$|\n)`)
	nameFileAnchorStart = `(?i)(?:Well\s+)?File\s*#?\s*:?\s*`
	nameFileAnchorTail  = `\s+([A-Za-z][A-Za-z0-9\s\-.&'~=.:;#]+?)` +
		`(?:\s+(?:LOT\d?|[SN][EW][SN][EW]|Sec\b|API\b|\d+\s*F\s*[NSEW]\s*L|\d+-\d+[NSEW]))`

	// Legal-description and place-name fragments trimmed off a next-line
	// capture before validation.
	nameNextLineTrimRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s+\d+\s+\d+\s+[NSEW]\s+\d+\s*[NSEW]?\s*$`),
		regexp.MustCompile(`(?i)\s+(?:[SN][EW][SN][EW]|LOT\d?|Sec\.?\s*\d+)\s+.*$`),
		regexp.MustCompile(`(?i)\s+\d{2,3}\s*[NnSs]\s+\d{2,3}\s*[WwEe].*$`),
		regexp.MustCompile(`(?i)\s+\d{2,3}\s+[wW]\s+.*$`),
		regexp.MustCompile(`(?i)\s+-+\.+.*$`),
		regexp.MustCompile(`(?i)\s+(?:McKenzie|Williams|Mountrail|Dunn|Stark)\s*$`),
		regexp.MustCompile(`(?i)\s+All\s+of\s+Sect.*$`),
		regexp.MustCompile(`(?i)\s+Sec\.\s+\d.*$`),
		regexp.MustCompile(`(?i)\s+~.*$`),
	}
)

// isTruncatedWellName reports names that end in a digit-dash, the shape left
// when OCR cut the name at a line wrap.
func isTruncatedWellName(name string) bool {
	if len(name) < 4 {
		return false
	}
	return truncatedNameRe.MatchString(name)
}

// isRejectedWellName filters truncated names, compass-only tokens, and
// anything on the configured reject list.
func (e *Extractor) isRejectedWellName(name string) bool {
	if name == "" {
		return false
	}
	if isTruncatedWellName(name) {
		return true
	}
	squashed := squashSpaceRe.ReplaceAllString(strings.ToLower(name), "")
	if e.nameReject != nil && e.nameReject.MatchString(squashed) {
		return true
	}
	return e.nameRejectList[squashed]
}

// isGarbledWellName spots long captures with the punctuation-fragment
// texture of OCR noise.
func isGarbledWellName(name string) bool {
	if len(name) < 20 {
		return false
	}
	if len(garbledPunctRe.FindAllString(name, -1)) >= 3 {
		return true
	}
	return garbledPairRe.MatchString(name)
}

// sanitizeGarbledWellName repairs an OCR-fragmented name: punctuation runs
// become spaces, stray single characters are merged back into words, known
// junk suffixes are trimmed, and the result is re-validated.
func (e *Extractor) sanitizeGarbledWellName(name string) string {
	s := sanitizePunctRe.ReplaceAllString(name, " ")
	s = squashSpaceRe.ReplaceAllString(s, " ")
	s = sanitizeCharsetRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(squashSpaceRe.ReplaceAllString(s, " "))

	const maxSingleRun = 6
	parts := strings.Fields(s)
	var merged []string
	for i := 0; i < len(parts); {
		if isSingleAlnum(parts[i]) {
			var run []string
			for i < len(parts) && isSingleAlnum(parts[i]) && len(run) < maxSingleRun {
				run = append(run, parts[i])
				i++
			}
			word := strings.Join(run, "")
			if len(word) > 1 && isAlphaWord(word) {
				word = capitalize(word)
			}
			merged = append(merged, word)
		} else {
			merged = append(merged, parts[i])
			i++
		}
	}

	// Fold a trailing two-letter uppercase fragment onto the previous word
	// when that word ends lowercase ("Colum" + "BU" -> "Columbu").
	var out []string
	for _, p := range merged {
		if len(out) > 0 && len(p) == 2 && isAlphaWord(p) && p == strings.ToUpper(p) {
			prev := out[len(out)-1]
			if isAlphaWord(prev) && unicode.IsLower(rune(prev[len(prev)-1])) {
				out[len(out)-1] = prev + strings.ToLower(p)
				continue
			}
		}
		out = append(out, p)
	}
	s = strings.Join(out, " ")

	for _, re := range sanitizeSuffixRes {
		s = strings.TrimSpace(re.ReplaceAllString(s, ""))
	}
	if len(s) > 3 && len(s) < 120 && !e.isRejectedWellName(s) {
		return s
	}
	return ""
}

// ExtractWellName tries four strategies in priority order: anchored to the
// file number, same-line "Name & No." label, "Name and Number" header with
// next-line capture, plain "Well Name:" label.
func (e *Extractor) ExtractWellName(text, wellFileNo string) string {
	if wellFileNo != "" {
		re, err := regexp.Compile(nameFileAnchorStart + regexp.QuoteMeta(wellFileNo) + nameFileAnchorTail)
		if err == nil {
			if m := re.FindStringSubmatch(text); m != nil {
				name := strings.TrimSpace(squashSpaceRe.ReplaceAllString(m[1], " "))
				if isGarbledWellName(name) {
					name = e.sanitizeGarbledWellName(name)
				}
				if name != "" && len(name) > 3 && len(name) < 200 &&
					!e.isRejectedWellName(name) &&
					!strings.Contains(name, "__") &&
					!strings.Contains(strings.ToLower(name), "wiltiams") {
					return name
				}
			}
		}
	}

	// Same-line label preferred over next-line forms: a wrapped next line
	// truncates the name.
	if m := nameSameLineRe.FindStringSubmatch(text); m != nil {
		name := strings.TrimSpace(squashSpaceRe.ReplaceAllString(m[1], " "))
		if len(name) > 3 && len(name) < 200 && !e.isRejectedWellName(name) {
			return name
		}
	}

	for _, m := range nameHeaderNextRe.FindAllStringSubmatch(text, -1) {
		line := strings.TrimSpace(m[1])
		if line == "" || strings.HasPrefix(line, "(") {
			continue
		}
		name := line
		if loc := nameLineSplitRe.FindStringIndex(name); loc != nil {
			name = strings.TrimSpace(name[:loc[0]])
		}
		for _, re := range nameNextLineTrimRes {
			name = strings.TrimSpace(re.ReplaceAllString(name, ""))
		}
		name = squashSpaceRe.ReplaceAllString(name, " ")
		if isGarbledWellName(name) {
			name = e.sanitizeGarbledWellName(name)
		}
		if name != "" && len(name) > 3 && len(name) < 200 && !e.isRejectedWellName(name) {
			return name
		}
	}

	if m := namePlainLabelRe.FindStringSubmatch(text); m != nil {
		name := strings.TrimSpace(squashSpaceRe.ReplaceAllString(m[1], " "))
		if len(name) > 3 && len(name) < 200 && !e.isRejectedWellName(name) {
			return name
		}
	}

	for _, m := range nameLabelScanRe.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(squashSpaceRe.ReplaceAllString(m[1], " "))
		if len(name) > 3 && len(name) < 120 && !e.isRejectedWellName(name) && !isGarbledWellName(name) {
			return name
		}
	}
	return ""
}

func isSingleAlnum(s string) bool {
	if len(s) != 1 {
		return false
	}
	r := rune(s[0])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isAlphaWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
