package extract

import (
	"regexp"
	"strings"
)

// Tokens never accepted as a field name, and also pruned from the pool and
// county cross-reference sets.
var badFieldTokens = map[string]bool{
	"county": true, "pool": true, "field": true, "address": true,
	"city": true, "state": true, "name": true, "range": true,
	"township": true, "section": true, "wildcat": true,
	"development": true, "extension": true,
}

var (
	poolNextLineRe   = regexp.MustCompile(`(?i)\bPool\s*\n([^\n]+)`)
	poolSameLineRe   = regexp.MustCompile(`(?i)\bPool\s{2,}([A-Za-z]{3,})`)
	countySuffixRe   = regexp.MustCompile(`(?i)([A-Za-z]{3,})\s+County`)
	countyLeadRe     = regexp.MustCompile(`(?i)\bCounty\s*[,:\n]\s*([A-Za-z]{3,})`)
	fieldHeaderRe    = regexp.MustCompile(`(?i)Field\s+(?:I\s+)?(?:Pool|Name)[^\n]*County[^\n]*\n\s*([^\n]+)`)
	fieldBeforePool  = regexp.MustCompile(`(?i)\bField\s*\n([^\n]+)\n\s*Pool\b`)
	fieldNextLineRe  = regexp.MustCompile(`(?i)\bField\s*\n([^\n]+)`)
	fieldLabelRe     = regexp.MustCompile(`(?i)\bField\s*:\s*([A-Za-z]{3,})`)
	fieldNameLabelRe = regexp.MustCompile(`Field\s+Name\s*:\s*([A-Z][A-Za-z\s]{2,30})`)
	phoneRe          = regexp.MustCompile(`\(?\d{3}\)?[\-\s]?\d{3}[\-\s]\d{4}`)
)

// PoolWords collects pool names near "Pool" labels, used to keep a pool name
// from being reported as the field.
func PoolWords(text string) map[string]bool {
	pools := make(map[string]bool)
	for _, m := range poolNextLineRe.FindAllStringSubmatch(text, -1) {
		for _, w := range strings.Fields(strings.TrimSpace(m[1])) {
			if alphaWord3Re.MatchString(w) {
				pools[strings.ToLower(w)] = true
			}
		}
	}
	for _, m := range poolSameLineRe.FindAllStringSubmatch(text, -1) {
		pools[strings.ToLower(strings.TrimSpace(m[1]))] = true
	}
	for w := range badFieldTokens {
		delete(pools, w)
	}
	return pools
}

// ExtractField finds the producing field name, rejecting pool names, county
// names, and form labels.
func ExtractField(text string) string {
	pools := PoolWords(text)

	counties := make(map[string]bool)
	for _, m := range countySuffixRe.FindAllStringSubmatch(text, -1) {
		counties[strings.ToLower(strings.TrimSpace(m[1]))] = true
	}
	for _, m := range countyLeadRe.FindAllStringSubmatch(text, -1) {
		counties[strings.ToLower(strings.TrimSpace(m[1]))] = true
	}
	for w := range badFieldTokens {
		delete(counties, w)
	}

	valid := func(word string) bool {
		lw := strings.ToLower(word)
		return alphaWord3Re.MatchString(word) &&
			!badFieldTokens[lw] && !pools[lw] && !counties[lw]
	}

	if m := fieldHeaderRe.FindStringSubmatch(text); m != nil {
		for _, w := range strings.Fields(strings.TrimSpace(m[1])) {
			if valid(w) {
				return w
			}
		}
	}

	if m := fieldBeforePool.FindStringSubmatch(text); m != nil {
		words := strings.Fields(strings.TrimSpace(m[1]))
		for i := len(words) - 1; i >= 0; i-- {
			if valid(words[i]) {
				return words[i]
			}
		}
	}

	// Contact lines put the field name after the phone number.
	for _, m := range fieldNextLineRe.FindAllStringSubmatch(text, -1) {
		line := strings.TrimSpace(m[1])
		parts := phoneRe.Split(line, -1)
		if len(parts) > 1 {
			for _, w := range strings.Fields(strings.TrimSpace(parts[len(parts)-1])) {
				if valid(w) {
					return w
				}
			}
		}
	}

	if m := fieldLabelRe.FindStringSubmatch(text); m != nil && valid(m[1]) {
		return strings.TrimSpace(m[1])
	}

	if m := fieldNameLabelRe.FindStringSubmatch(text); m != nil {
		if words := strings.Fields(strings.TrimSpace(m[1])); len(words) > 0 && valid(words[0]) {
			return words[0]
		}
	}
	return ""
}
