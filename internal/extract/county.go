package extract

import (
	"regexp"
	"strings"
)

// Form labels that regex capture can mistake for a county name.
var nonCountyTokens = map[string]bool{
	"range": true, "township": true, "section": true, "field": true,
	"pool": true, "state": true, "code": true, "baker": true,
	"bakken": true, "forks": true, "address": true, "city": true,
}

var (
	countyWordRe       = regexp.MustCompile(`^[A-Za-z]+(?:\s+[A-Za-z]+)?$`)
	countyStateRe      = regexp.MustCompile(`([A-Z][a-zA-Z]+)\s+County,?\s+(?:North\s+Dakota|ND|N\.\s*Dakota)\b`)
	countyHeaderLineRe = regexp.MustCompile(`(?i)(?:Field|Pool)[^\n]*\bCounty\b[^\n]*\n([^\n]+)`)
	countyNextLineRe   = regexp.MustCompile(`(?i)\bCounty\s*[,:]?\s*\n\s*([A-Za-z]{3,}(?:\s+[A-Za-z]{3,})?)\s*(?:\n|$)`)
	countyLabelRe      = regexp.MustCompile(`County\s*[,:]\s*([A-Z][a-zA-Z]+)`)
	countyPrefixRe     = regexp.MustCompile(`\b([A-Z][a-zA-Z]{2,})\s+County\b`)
	alphaWord3Re       = regexp.MustCompile(`^[A-Za-z]{3,}$`)
)

func countyOK(name string) bool {
	return countyWordRe.MatchString(name) &&
		len(name) > 2 && len(name) < 50 &&
		!nonCountyTokens[strings.ToLower(name)]
}

// ExtractCounty finds the county name, preferring the fully qualified
// "X County, North Dakota" form over bare prefixes.
func ExtractCounty(text string) string {
	if m := countyStateRe.FindStringSubmatch(text); m != nil && countyOK(m[1]) {
		return strings.TrimSpace(m[1])
	}

	if m := countyHeaderLineRe.FindStringSubmatch(text); m != nil {
		var words []string
		for _, w := range strings.Fields(strings.TrimSpace(m[1])) {
			if alphaWord3Re.MatchString(w) {
				words = append(words, w)
			}
		}
		for i := len(words) - 1; i >= 0; i-- {
			if countyOK(words[i]) {
				return words[i]
			}
		}
	}

	if m := countyNextLineRe.FindStringSubmatch(text); m != nil {
		if name := strings.TrimSpace(m[1]); countyOK(name) {
			return name
		}
	}

	if m := countyLabelRe.FindStringSubmatch(text); m != nil && countyOK(m[1]) {
		return strings.TrimSpace(m[1])
	}

	if m := countyPrefixRe.FindStringSubmatch(text); m != nil && countyOK(m[1]) {
		return strings.TrimSpace(m[1])
	}
	return ""
}
