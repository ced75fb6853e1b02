package extract

import (
	"regexp"
	"strings"
)

var (
	operatorLabelRe    = regexp.MustCompile(`(?i)Operator\s*:\s*([A-Za-z][A-Za-z0-9\s\-.&,'()]+?)(?:\s+Well\s+Name|\s+Enseco|\n)`)
	operatorLineRe     = regexp.MustCompile(`(?i)(?:^|\n)\s*Operator\b([^\n]*)`)
	operatorPhoneRe    = regexp.MustCompile(`\(?\d{3}\)?[\-\s]\d{3}[\-\s]\d{4}`)
	operatorNamePartRe = regexp.MustCompile(`^[\s:]+([A-Za-z][A-Za-z0-9\s\-.&,']+?)\s+\(?\d{3}`)
	companyNextLineRe  = regexp.MustCompile(`(?i)Company\s*\n\s*([A-Za-z][A-Za-z0-9\s\-.&,']+?)\s*\n`)
	nextLineRe         = regexp.MustCompile(`\n([^\n]+)`)

	operatorJunkRe = regexp.MustCompile(`(?i)\s+(?:TIGHT|YES|NO\b|HOLE|CONFIDENTIAL|Company\s+man|Well[\-\s]*site|Geologist).*$`)
	letterStartRe  = regexp.MustCompile(`^[A-Za-z]`)
)

var operatorSkipPrefixes = []string{"address", "company man", "well-site", "wellsite", "geologist"}

// CleanOperator strips checkbox captions and confidentiality markers that
// trail the operator name on the form line.
func CleanOperator(cand string) string {
	cand = strings.TrimSpace(squashSpaceRe.ReplaceAllString(cand, " "))
	cand = strings.TrimRight(strings.TrimSpace(operatorJunkRe.ReplaceAllString(cand, "")), ":")
	lower := strings.ToLower(cand)
	for _, p := range operatorSkipPrefixes {
		if strings.HasPrefix(lower, p) {
			return ""
		}
	}
	if letterStartRe.MatchString(cand) && len(cand) >= 2 && len(cand) <= 120 {
		return cand
	}
	return ""
}

// ExtractOperator finds the operating company: labelled value first, then
// phone-bearing operator lines, then a "Company" header with the name on the
// next line.
func ExtractOperator(text string) string {
	if m := operatorLabelRe.FindStringSubmatch(text); m != nil {
		if c := CleanOperator(m[1]); c != "" {
			return c
		}
	}

	for _, loc := range operatorLineRe.FindAllStringSubmatchIndex(text, -1) {
		rest := text[loc[2]:loc[3]]
		if operatorPhoneRe.MatchString(rest) {
			if nm := operatorNamePartRe.FindStringSubmatch(rest); nm != nil {
				if c := CleanOperator(nm[1]); c != "" {
					return c
				}
			}
		} else if nl := nextLineRe.FindStringSubmatch(text[loc[1]:]); nl != nil {
			raw := strings.TrimSpace(nl[1])
			if pm := operatorPhoneRe.FindStringIndex(raw); pm != nil {
				raw = strings.TrimSpace(raw[:pm[0]])
			}
			if c := CleanOperator(raw); c != "" {
				return c
			}
		}
	}

	if m := companyNextLineRe.FindStringSubmatch(text); m != nil {
		if c := CleanOperator(m[1]); c != "" {
			return c
		}
	}
	return ""
}
