package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/prairie-data/wellscan/internal/model"
)

// Quote-like characters OCR substitutes for date separators.
const dateSepClass = `[/\-\x{2032}\x{2019}'\x{2033}\x{2035}\x{00B4}\x{0060}\x{2018}\x{201C}\x{2032}]`

var (
	// stimSplitRe matches the "Date Stimulated" header in its many OCR
	// corruptions, splitting the report into per-treatment blocks.
	stimSplitRe = regexp.MustCompile(
		`(?i)(?:Date\s+S(?:[tl]i?mu\s*l?\s*a?\s*t?\s*e?\s*d|\s*t\s*i?\s*m\s*u\s*l\s*a\s*t\s*e\s*d)|` +
			`Stimulation\s+Date|Date\s+of\s+Stimulation)`)

	stimFormHeaderRe = regexp.MustCompile(`(?i)Stimulated\s+Form|Slimulaled\s+Form|Form(?:ation|alon|alion)|Formalion`)

	stimDateStartRe = regexp.MustCompile(`^\d{1,2}[/\-]`)
	stimNumTokenRe  = regexp.MustCompile(`[\d,]+\.?\d*`)
	stimFracLineRe  = regexp.MustCompile(`(?i)Sand\s*Frac|Acid\s*Frac|Frac\b`)
	stimBigNumRe    = regexp.MustCompile(`\d{6,}`)

	stimDateRe     = regexp.MustCompile(`^(\d{1,2}` + dateSepClass + `\d{1,2}` + dateSepClass + `\d{2,4})`)
	stimDateCleanRe = regexp.MustCompile(`[^\d/\-]`)

	stimFormationRe = regexp.MustCompile(
		`(?:\d{1,2}[/\-\x{2032}\x{2019}]\d{1,2}[/\-\x{2032}\x{2019}]\d{2,4})\s+([A-Za-z][A-Za-z\s]{2,25}?)\s+\d{3,}`)
	stimFormationFallbackRe = regexp.MustCompile(`(?:\d{2,4})\s+([A-Za-z][A-Za-z\s]{2,20}?)\s+\d{3,}`)

	// Digit-before-number OCR fixes: "ll" and "l"/"I" read for "11"/"1".
	ocrElevenRe = regexp.MustCompile(`(^|[^0-9A-Za-z_])ll(\d{2,})`)
	ocrOneRe    = regexp.MustCompile(`(^|[^0-9A-Za-z_])[lI](\d{3,})`)

	volumeUnitsRe = regexp.MustCompile(`(?i)\b(Barrels|BBL[Ss]?|Gallons?|GAL[Ss]?)\b`)

	treatHeaderRe = regexp.MustCompile(`(?i)Type\s+Treat\s*ment`)
	treatEndRe    = regexp.MustCompile(`(?i)^(?:Details?|Date\s+S)`)
	treatBreakRe  = regexp.MustCompile(`(?i)Mesh|White|Ceramic|Resin|CRC`)
	treatTypeRe   = regexp.MustCompile(`(?i)(Sand\s*Frac|Acid\s*Frac|Frac|Acid)\b`)

	acidLabelRe  = regexp.MustCompile(`(?i)(?:Acid|HCl)\s*[:%]?\s*(\d{1,3}(?:\.\d+)?)\s*%`)
	acidSuffixRe = regexp.MustCompile(`(?i)(\d{1,3}(?:\.\d+)?)\s*%\s*(?:Acid|HCl)`)
	acidLeadRe   = regexp.MustCompile(`(?i)^\s*Acid\b`)
	acidBareRe   = regexp.MustCompile(`(?i)\bAcid\s+(\d{1,3}(?:\.\d+)?)\b`)

	detailsStartRe = regexp.MustCompile(`(?i)^Details?`)
	detailsTrimRe  = regexp.MustCompile(`(?i)^Details?\s*`)
	detailsEndRe   = regexp.MustCompile(`(?i)^(?:Date\s+S|ADDITIONAL|I hereby|Type\s+Treatment)`)
	detailsSkipRe  = regexp.MustCompile(
		`(?i)Stimulated\s+Formation|Volume\s+Units|Maximum\s+Treatment|Lbs\s+Proppant|Stimulation\s+Stages|Top\s*\(Ft\)|Bottom\s*\(Ft\)`)
	digitRe = regexp.MustCompile(`\d`)

	stimTableRowRe = regexp.MustCompile(`(?i)(Sand\s*Frac|Acid\s*Frac|Frac|Acid)\s+([\d,\s]+)`)
)

// ExtractStimulations splits the report on the "Date Stimulated" header and
// parses each block into one treatment row. A block is accepted only when it
// yields at least one of proppant, volume, or formation.
func (e *Extractor) ExtractStimulations(text string) []model.StimulationRecord {
	var rows []model.StimulationRecord

	parts := stimSplitRe.Split(text, -1)
	var blocks []string
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			blocks = append(blocks, s)
		}
	}
	if len(blocks) > 0 {
		blocks = blocks[1:]
	}

	for _, block := range blocks {
		var lines []string
		for _, l := range strings.Split(block, "\n") {
			if s := strings.TrimSpace(l); s != "" {
				lines = append(lines, s)
			}
		}
		if len(lines) < 2 {
			continue
		}
		formOK := false
		for _, l := range lines[:min(5, len(lines))] {
			if stimFormHeaderRe.MatchString(l) {
				formOK = true
				break
			}
		}
		if !formOK {
			continue
		}

		dataLine := findDataLine(lines)
		if dataLine == "" {
			continue
		}

		var dateStim string
		if m := stimDateRe.FindStringSubmatch(dataLine); m != nil {
			raw := stimDateCleanRe.ReplaceAllString(m[1], "/")
			if iso, ok := e.NormalizeDate(raw); ok {
				dateStim = iso
			} else {
				dateStim = raw
			}
		}

		var formation string
		if m := stimFormationRe.FindStringSubmatch(dataLine); m != nil {
			formation = strings.TrimSpace(m[1])
		} else if m := stimFormationFallbackRe.FindStringSubmatch(dataLine); m != nil {
			formation = strings.TrimSpace(m[1])
		}

		after := dataLine
		if formation != "" {
			if idx := strings.Index(strings.ToLower(dataLine), strings.ToLower(formation)); idx >= 0 {
				after = dataLine[idx+len(formation):]
			}
		}
		after = ocrElevenRe.ReplaceAllString(after, "${1}11${2}")
		after = ocrOneRe.ReplaceAllString(after, "${1}1${2}")
		nums := parseNums(after)

		// Leading years and small counts are not the top depth.
		i := 0
		for i < len(nums) && (nums[i] < 100 || (nums[i] >= 1990 && nums[i] <= 2100)) {
			i++
		}
		var topFt, bottomFt, volume *float64
		var stages *int
		if i < len(nums) && nums[i] > 100 {
			topFt = ptr(nums[i])
		}
		if i+1 < len(nums) && nums[i+1] > 100 {
			bottomFt = ptr(nums[i+1])
		}
		if i+2 < len(nums) && nums[i+2] < 200 {
			s := int(nums[i+2])
			stages = &s
		}
		if i+3 < len(nums) {
			volume = ptr(nums[i+3])
		}

		var volumeUnits string
		if m := volumeUnitsRe.FindStringSubmatch(block); m != nil {
			volumeUnits = m[1]
		}

		treatLines := collectTreatLines(lines)
		typeTreatment, acidPct := parseTreatLines(treatLines)

		treatVals := parseNums(strings.Join(treatLines, " "))
		if acidPct != "" {
			if av, err := strconv.ParseFloat(acidPct, 64); err == nil {
				for j, v := range treatVals {
					if v == av {
						treatVals = append(treatVals[:j], treatVals[j+1:]...)
						break
					}
				}
			}
		}

		var lbsProppant, maxPressure, maxRate *float64
		for _, v := range treatVals {
			if v > 100000 {
				lbsProppant = ptr(v)
				break
			}
		}
		for _, v := range treatVals {
			if lbsProppant != nil && v == *lbsProppant {
				continue
			}
			if v > 1000 && v < 20000 && maxPressure == nil {
				maxPressure = ptr(v)
			} else if v > 0 && v < 200 && maxRate == nil {
				maxRate = ptr(v)
			}
		}

		if acidPct == "" {
			acidPct = findAcidPct(block)
		}

		details := collectDetails(lines)

		if lbsProppant == nil && volume == nil && formation == "" {
			continue
		}

		rows = append(rows, model.StimulationRecord{
			DateStimulated: dateStim,
			Formation:      formation,
			TopFt:          topFt,
			BottomFt:       bottomFt,
			Stages:         stages,
			Volume:         volume,
			VolumeUnits:    volumeUnits,
			TypeTreatment:  typeTreatment,
			AcidPct:        acidPct,
			LbsProppant:    lbsProppant,
			MaxPressurePSI: maxPressure,
			MaxRate:        maxRate,
			Details:        details,
		})
	}

	rows = append(rows, e.stimsFromTableRows(text, rows)...)
	return rows
}

// findDataLine picks the line carrying the treatment numbers: date-led first,
// then any numeric-dense line, then a frac line with a proppant-sized figure.
func findDataLine(lines []string) string {
	for _, l := range lines {
		if stimDateStartRe.MatchString(l) {
			return l
		}
	}
	for _, l := range lines[1:min(8, len(lines))] {
		if len(stimNumTokenRe.FindAllString(l, -1)) >= 4 {
			return l
		}
	}
	for _, l := range lines[1:min(8, len(lines))] {
		if stimFracLineRe.MatchString(l) && stimBigNumRe.MatchString(l) {
			return l
		}
	}
	return ""
}

func collectTreatLines(lines []string) []string {
	var treat []string
	inTreat := false
	for _, l := range lines {
		if treatHeaderRe.MatchString(l) {
			inTreat = true
			continue
		}
		if !inTreat {
			continue
		}
		if treatEndRe.MatchString(l) || treatBreakRe.MatchString(l) {
			break
		}
		treat = append(treat, l)
	}
	return treat
}

func parseTreatLines(treatLines []string) (typeTreatment, acidPct string) {
	for _, l := range treatLines {
		if typeTreatment == "" {
			if m := treatTypeRe.FindStringSubmatch(l); m != nil {
				typeTreatment = strings.TrimSpace(m[1])
			}
		}
		if acidPct == "" {
			am := acidLabelRe.FindStringSubmatch(l)
			if am == nil {
				am = acidSuffixRe.FindStringSubmatch(l)
			}
			if am == nil && acidLeadRe.MatchString(l) {
				am = acidBareRe.FindStringSubmatch(l)
			}
			if am != nil {
				if v, err := strconv.ParseFloat(am[1], 64); err == nil && v > 0 && v <= 100 {
					acidPct = am[1]
				}
			}
		}
	}
	return typeTreatment, acidPct
}

func findAcidPct(block string) string {
	am := acidLabelRe.FindStringSubmatch(block)
	if am == nil {
		am = acidSuffixRe.FindStringSubmatch(block)
	}
	if am == nil {
		am = acidBareRe.FindStringSubmatch(block)
	}
	if am == nil {
		return ""
	}
	if v, err := strconv.ParseFloat(am[1], 64); err == nil && v > 0 && v <= 100 {
		return am[1]
	}
	return ""
}

func collectDetails(lines []string) string {
	var detail []string
	inDetails := false
	for _, l := range lines {
		if detailsStartRe.MatchString(l) {
			inDetails = true
			rest := strings.TrimSpace(detailsTrimRe.ReplaceAllString(l, ""))
			if rest != "" && digitRe.MatchString(rest) {
				detail = append(detail, rest)
			}
			continue
		}
		if !inDetails {
			continue
		}
		if detailsEndRe.MatchString(l) {
			break
		}
		if detailsSkipRe.MatchString(l) {
			continue
		}
		if digitRe.MatchString(l) {
			detail = append(detail, l)
		}
	}
	return strings.Join(detail, "; ")
}

// stimsFromTableRows recovers rows laid out as "Sand Frac 1234567 ..." where
// the numbers precede the header, deduplicating on the proppant figure.
func (e *Extractor) stimsFromTableRows(text string, existing []model.StimulationRecord) []model.StimulationRecord {
	seen := make(map[float64]bool)
	for _, r := range existing {
		if r.LbsProppant != nil {
			seen[*r.LbsProppant] = true
		}
	}
	var rows []model.StimulationRecord
	for _, m := range stimTableRowRe.FindAllStringSubmatch(text, -1) {
		var nums []float64
		for _, v := range parseNums(m[2]) {
			if v > 100000 {
				nums = append(nums, v)
			}
		}
		if len(nums) == 0 || seen[nums[0]] {
			continue
		}
		seen[nums[0]] = true
		row := model.StimulationRecord{
			TypeTreatment: strings.TrimSpace(m[1]),
			LbsProppant:   ptr(nums[0]),
		}
		if len(nums) > 1 && nums[1] > 1000 && nums[1] < 20000 {
			row.MaxPressurePSI = ptr(nums[1])
		}
		if len(nums) > 2 && nums[2] > 0 && nums[2] < 200 {
			row.MaxRate = ptr(nums[2])
		}
		rows = append(rows, row)
	}
	return rows
}

func parseNums(s string) []float64 {
	var nums []float64
	for _, tok := range stimNumTokenRe.FindAllString(s, -1) {
		if v, ok := ParseNum(tok); ok {
			nums = append(nums, v)
		}
	}
	return nums
}

func ptr(v float64) *float64 { return &v }
