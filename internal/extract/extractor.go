package extract

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/prairie-data/wellscan/internal/config"
	"github.com/prairie-data/wellscan/internal/model"
)

// Extractor carries the compiled tunables shared by the per-field
// extraction methods.
type Extractor struct {
	cfg config.ExtractConfig

	nameFixes      [][2]string
	addrFixes      [][2]string
	nameReject     *regexp.Regexp
	nameRejectList map[string]bool
	spacingWords   []string

	titleCaser cases.Caser
}

// New builds an Extractor from config. A malformed reject regex is ignored
// rather than failing the whole run.
func New(cfg config.ExtractConfig) *Extractor {
	e := &Extractor{
		cfg:            cfg,
		nameFixes:      parseFixes(cfg.NameFixes),
		addrFixes:      parseFixes(cfg.AddressFixes),
		nameRejectList: make(map[string]bool),
		spacingWords:   splitList(cfg.AddressSpacingWords),
		titleCaser:     cases.Title(language.English),
	}
	if cfg.NameRejectRegex != "" {
		if re, err := regexp.Compile(cfg.NameRejectRegex); err == nil {
			e.nameReject = re
		}
	}
	for _, w := range splitList(cfg.NameRejectList) {
		e.nameRejectList[strings.ToLower(w)] = true
	}
	return e
}

// parseFixes splits comma-separated typo:fix pairs.
func parseFixes(s string) [][2]string {
	var fixes [][2]string
	for _, part := range strings.Split(s, ",") {
		typo, fix, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		typo, fix = strings.TrimSpace(typo), strings.TrimSpace(fix)
		if typo != "" {
			fixes = append(fixes, [2]string{typo, fix})
		}
	}
	return fixes
}

func applyFixes(val string, fixes [][2]string) string {
	for _, f := range fixes {
		val = strings.ReplaceAll(val, f[0], f[1])
	}
	return val
}

func splitList(s string) []string {
	var out []string
	for _, w := range strings.Split(s, ",") {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// NormalizeDate converts a raw date to the configured output layout,
// pivoting two-digit years on the configured cutoff.
func (e *Extractor) NormalizeDate(raw string) (string, bool) {
	return ParseDate(raw, e.cfg.YearCutoff, e.cfg.DateFormat)
}

var degreeMarkRe = regexp.MustCompile(`[°\x{00B0}]`)

// Extract runs the full field cascade over one document and returns the
// structured record. Table values only backfill fields the text pass missed,
// never override them.
func (e *Extractor) Extract(doc model.Document) *model.WellRecord {
	source := filepath.Base(doc.Source)
	rec := &model.WellRecord{
		PDFSource:  source,
		WellFileNo: ExtractWellFileFromFilename(source),
	}

	var sb strings.Builder
	var tableLines []string
	kv := make(map[string]string)
	for _, page := range doc.Pages {
		if page.Text != "" {
			sb.WriteString("\n")
			sb.WriteString(page.Text)
		}
		lines, pageKV := ExtractFromTables(page.Tables)
		tableLines = append(tableLines, lines...)
		for k, v := range pageKV {
			if _, seen := kv[k]; !seen {
				kv[k] = v
			}
		}
	}
	fullText := sb.String()
	if len(tableLines) > 0 {
		fullText += "\n" + strings.Join(tableLines, "\n")
	}
	if strings.TrimSpace(fullText) == "" {
		e.finalize(rec)
		return rec
	}

	rec.RawExtract = fullText
	rec.APINumber = ExtractAPI(fullText)
	if rec.WellFileNo == "" {
		rec.WellFileNo = ExtractWellFileFromText(fullText)
	}
	rec.WellName = applyFixes(e.ExtractWellName(fullText, rec.WellFileNo), e.nameFixes)
	if lat, ok := e.ExtractLatitude(fullText); ok {
		rec.Latitude = ptr(lat)
	}
	if lon, ok := e.ExtractLongitude(fullText); ok {
		rec.Longitude = ptr(lon)
	}
	rec.Address = e.ExtractAddress(fullText)
	rec.County = ExtractCounty(fullText)
	rec.Field = ExtractField(fullText)
	rec.Operator = ExtractOperator(fullText)
	rec.PermitNumber = ExtractPermitNumber(fullText)
	rec.PermitDate = ExtractPermitDate(fullText)
	rec.TotalDepth = e.ExtractTotalDepth(fullText)
	rec.Formation = e.ExtractFormation(fullText)
	rec.Stimulations = e.ExtractStimulations(fullText)
	rec.StimulationNotes = stimulationNotes(rec.Stimulations)

	e.backfillFromTables(rec, kv)
	e.finalize(rec)
	return rec
}

// stimulationNotes renders a one-line summary of the treatment rows.
func stimulationNotes(rows []model.StimulationRecord) string {
	var parts []string
	for _, sr := range rows {
		var bits []string
		if sr.Formation != "" {
			bits = append(bits, sr.Formation)
		}
		if sr.LbsProppant != nil {
			bits = append(bits, strconv.FormatFloat(*sr.LbsProppant, 'f', 0, 64)+" lbs proppant")
		}
		if sr.TypeTreatment != "" {
			bits = append(bits, sr.TypeTreatment)
		}
		if len(bits) > 0 {
			parts = append(parts, strings.Join(bits, ", "))
		}
	}
	return strings.Join(parts, "; ")
}

func (e *Extractor) backfillFromTables(rec *model.WellRecord, kv map[string]string) {
	set := func(dst *string, key string, fix func(string) string) {
		if *dst != "" {
			return
		}
		val := strings.TrimSpace(kv[key])
		if val == "" {
			return
		}
		if fix != nil {
			val = fix(val)
		}
		*dst = val
	}

	set(&rec.APINumber, "api_number", nil)
	set(&rec.WellName, "well_name", func(v string) string { return applyFixes(v, e.nameFixes) })
	set(&rec.Address, "address", func(v string) string {
		return e.NormalizeAddressSpacing(applyFixes(v, e.addrFixes))
	})
	set(&rec.County, "county", nil)
	set(&rec.Field, "field", nil)
	set(&rec.Operator, "operator", nil)
	set(&rec.PermitNumber, "permit_number", nil)
	set(&rec.PermitDate, "permit_date", nil)
	set(&rec.TotalDepth, "total_depth", nil)
	set(&rec.Formation, "formation", nil)

	if rec.Latitude == nil {
		if raw := strings.TrimSpace(kv["latitude_raw"]); raw != "" {
			if lat, ok := parseTableCoord(raw, "N", "S", false); ok && lat >= -90 && lat <= 90 {
				rec.Latitude = ptr(round6(lat))
			}
		}
	}
	if rec.Longitude == nil {
		if raw := strings.TrimSpace(kv["longitude_raw"]); raw != "" {
			if lon, ok := parseTableCoord(raw, "W", "E", true); ok && lon >= -180 && lon <= 180 {
				rec.Longitude = ptr(round6(lon))
			}
		}
	}
}

// parseTableCoord reads a table coordinate cell: DMS when a degree mark is
// present, plain decimal otherwise. negate forces west-hemisphere sign on
// positive decimals.
func parseTableCoord(raw, hemi, otherHemi string, negate bool) (float64, bool) {
	if degreeMarkRe.MatchString(raw) {
		up := strings.ToUpper(raw)
		if !strings.Contains(up, hemi) && !strings.Contains(up, otherHemi) {
			raw += " " + hemi
		}
		return DMSToDecimal(raw)
	}
	v, ok := ParseNum(raw)
	if !ok {
		return 0, false
	}
	if negate && v > 0 {
		v = -v
	}
	return v, true
}

// finalize applies the persistence-facing cleanup: the field/pool conflict
// rule, N/A substitution for missing text fields, and title-casing the field
// name.
func (e *Extractor) finalize(rec *model.WellRecord) {
	if rec.Field != "" {
		rec.Field = strings.TrimSpace(strings.SplitN(rec.Field, "\n", 2)[0])
		pools := PoolWords(rec.RawExtract)
		if words := strings.Fields(strings.ToLower(rec.Field)); len(words) > 0 && pools[words[0]] {
			rec.Field = ""
		}
	}

	for _, f := range []*string{
		&rec.WellName, &rec.Address, &rec.County, &rec.Field, &rec.Operator,
		&rec.PermitNumber, &rec.PermitDate, &rec.TotalDepth, &rec.Formation,
		&rec.StimulationNotes,
	} {
		*f = CleanValue(*f)
	}

	if rec.Field != "N/A" {
		rec.Field = e.titleCaser.String(strings.ToLower(rec.Field))
	}

	rec.APINumber = CleanValue(rec.APINumber)
	if rec.APINumber == "N/A" {
		rec.APINumber = ""
	}
}
