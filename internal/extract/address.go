package extract

import (
	"regexp"
	"strings"
)

var (
	addressStopRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Name\s+of\s+Surface\s+Owner`),
		regexp.MustCompile(`(?i)Surface\s+Owner\s+or\s+Tenant`),
	}
	addressHeaderRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Field\s+Address[^\n]*\n([A-Z0-9][A-Z0-9\s,#\-.]+[A-Z]{2}\s+\d{5})`),
		regexp.MustCompile(`(?i)Address\s+City\s+State\s+Zip\s*Code[^\n]*\n([A-Z0-9][A-Z0-9\s,#\-.]+[A-Z]{2}\s+\d{5})`),
	}

	addrLeadingCoRe   = regexp.MustCompile(`(?i)^\s*co\s+`)
	addrCommaRe       = regexp.MustCompile(`\s*,\s*`)
	addrPOBoxRe       = regexp.MustCompile(`P\s*\.\s*0\s*\.`)
	addrCommaCapRe    = regexp.MustCompile(`,\s*([A-Z])`)
	addrDigitWordRe   = regexp.MustCompile(`(\d)([A-Z][a-z]+)`)
	addrCaseBreakRe   = regexp.MustCompile(`([a-z])([A-Z][a-z]+)`)
	addrSuiteBoxRe    = regexp.MustCompile(`(?i)(Suite|Box)(\d)`)
	addrPOFollowRe    = regexp.MustCompile(`(P\.O\.)([A-Z])`)
)

// NormalizeAddressSpacing repairs OCR-collapsed spacing: comma gaps, P.O.
// boxes, digit-word and case-change boundaries, plus the configured street
// word list.
func (e *Extractor) NormalizeAddressSpacing(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return addr
	}
	addr = addrLeadingCoRe.ReplaceAllString(addr, "")
	addr = addrCommaRe.ReplaceAllString(addr, ", ")
	addr = addrPOBoxRe.ReplaceAllString(addr, "P.O.")
	addr = addrCommaCapRe.ReplaceAllString(addr, ", $1")
	addr = addrDigitWordRe.ReplaceAllString(addr, "$1 $2")
	addr = addrCaseBreakRe.ReplaceAllString(addr, "$1 $2")
	for _, w := range e.spacingWords {
		re, err := regexp.Compile(`(?i)([a-z0-9])(` + regexp.QuoteMeta(w) + `)(\d|\s|,|$)`)
		if err != nil {
			continue
		}
		addr = re.ReplaceAllString(addr, "$1 $2$3")
	}
	addr = addrSuiteBoxRe.ReplaceAllString(addr, "$1 $2")
	addr = addrPOFollowRe.ReplaceAllString(addr, "$1 $2")
	return strings.TrimSpace(squashSpaceRe.ReplaceAllString(addr, " "))
}

// ExtractAddress captures the street-through-zip run under an address header.
// Text after the surface-owner label is ignored so the owner's address is not
// picked up instead.
func (e *Extractor) ExtractAddress(text string) string {
	for _, sep := range addressStopRes {
		if loc := sep.FindStringIndex(text); loc != nil {
			text = text[:loc[0]]
		}
	}
	for _, re := range addressHeaderRes {
		if m := re.FindStringSubmatch(text); m != nil {
			raw := strings.TrimSpace(squashSpaceRe.ReplaceAllString(m[1], " "))
			return e.NormalizeAddressSpacing(applyFixes(raw, e.addrFixes))
		}
	}
	return ""
}
