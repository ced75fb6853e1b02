package extract

import (
	"fmt"
	"strings"

	"github.com/prairie-data/wellscan/internal/model"
)

// tableLabel pairs a header spelling with the well field it feeds. Order
// matters: the first label that overlaps the cell text wins.
type tableLabel struct {
	label string
	key   string
}

var tableLabels = []tableLabel{
	{"api", "api_number"}, {"api number", "api_number"}, {"api #", "api_number"},
	{"well name", "well_name"},
	{"latitude", "latitude_raw"}, {"lat", "latitude_raw"},
	{"longitude", "longitude_raw"}, {"long", "longitude_raw"},
	{"address", "address"}, {"field address", "address"},
	{"county", "county"}, {"field", "field"}, {"field/pool", "field"},
	{"operator", "operator"},
	{"permit number", "permit_number"}, {"permit #", "permit_number"},
	{"permit date", "permit_date"},
	{"total depth", "total_depth"}, {"depth", "total_depth"},
	{"formation", "formation"},
}

// ExtractFromTables turns layout tables into text lines for the regex pass
// and, for two-column tables, a label-to-value map. The first value seen for
// a key is kept.
func ExtractFromTables(tables []model.Table) ([]string, map[string]string) {
	var textLines []string
	kv := make(map[string]string)

	for _, table := range tables {
		if len(table) < 2 {
			continue
		}
		if len(table[0]) == 2 {
			for _, row := range table {
				if len(row) < 2 || row[0] == nil || row[1] == nil {
					continue
				}
				label := strings.ToLower(strings.TrimSpace(squashSpaceRe.ReplaceAllString(*row[0], " ")))
				val := strings.TrimSpace(*row[1])
				if val == "" {
					continue
				}
				textLines = append(textLines, fmt.Sprintf("%s %s", *row[0], val))
				for _, tl := range tableLabels {
					if strings.Contains(label, tl.label) || strings.Contains(tl.label, label) {
						if _, seen := kv[tl.key]; !seen {
							kv[tl.key] = val
						}
						break
					}
				}
			}
		} else {
			for _, row := range table {
				var cells []string
				for _, c := range row {
					if c != nil && strings.TrimSpace(*c) != "" {
						cells = append(cells, strings.TrimSpace(*c))
					}
				}
				textLines = append(textLines, strings.Join(cells, " "))
			}
		}
	}
	return textLines, kv
}
