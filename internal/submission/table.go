package submission

import (
	"strconv"
	"strings"

	"github.com/poglesbyg/nanopore-tracking-app/internal/pdftext"
)

// tableColumn maps a record field to the header substrings that
// identify its column. Matching is case-insensitive substring search,
// first candidate hit wins.
type tableColumn struct {
	field      string
	candidates []string
}

var tableColumns = []tableColumn{
	{"sample_name", []string{"sample name", "sample id", "sample", "name", "id"}},
	{"volume", []string{"volume", "vol", "µl", "ul"}},
	{"qubit_conc", []string{"qubit conc", "qubit (ng/µl)", "qubit"}},
	{"nanodrop_conc", []string{"nanodrop conc", "nanodrop (ng/µl)", "nd conc", "nd (ng/µl)", "nanodrop"}},
	{"a260_280", []string{"a260/280", "260/280", "a260-280", "ratio 260/280", "260-280"}},
	{"a260_230", []string{"a260/230", "260/230", "a260-230", "ratio 260/230", "260-230"}},
}

// Repeated header text sometimes bleeds into data rows; rows whose
// name cell is one of these are dropped.
var headerBleedNames = map[string]bool{
	"sample":      true,
	"sample name": true,
	"name":        true,
	"id":          true,
}

// ExtractTableRows scans candidate tables for a sample measurement
// table and converts its data rows. Tables whose header does not yield
// a sample name column are ignored. Row indices restart at 1 for each
// table.
func ExtractTableRows(tables []pdftext.Table) []SampleTableRow {
	var rows []SampleTableRow
	for _, t := range tables {
		rows = append(rows, extractTable(t)...)
	}
	return rows
}

func extractTable(t pdftext.Table) []SampleTableRow {
	headerIdx, columns := findHeader(t.Rows)
	if headerIdx < 0 {
		return nil
	}

	var rows []SampleTableRow
	for _, cells := range t.Rows[headerIdx+1:] {
		var name string
		if nameCol := columns["sample_name"]; nameCol < len(cells) {
			name = strings.TrimSpace(cells[nameCol])
		}

		row := SampleTableRow{SampleName: name}
		if col, ok := columns["volume"]; ok {
			row.Volume = cellNumber(cells, col)
		}
		if col, ok := columns["qubit_conc"]; ok {
			row.QubitConc = cellNumber(cells, col)
		}
		if col, ok := columns["nanodrop_conc"]; ok {
			row.NanodropConc = cellNumber(cells, col)
		}
		if col, ok := columns["a260_280"]; ok {
			row.A260280 = cellNumber(cells, col)
		}
		if col, ok := columns["a260_230"]; ok {
			row.A260230 = cellNumber(cells, col)
		}

		// Rows without a usable name survive only when they carry
		// measurements; otherwise they are blanks or header bleed.
		if name == "" || headerBleedNames[strings.ToLower(name)] {
			if !rowHasMeasurements(row) {
				continue
			}
		}
		row.SampleIndex = len(rows) + 1
		rows = append(rows, row)
	}
	return rows
}

func rowHasMeasurements(r SampleTableRow) bool {
	return r.Volume != nil || r.QubitConc != nil || r.NanodropConc != nil ||
		r.A260280 != nil || r.A260230 != nil
}

// findHeader locates the first row that maps a sample name column plus
// at least one measurement column, and returns the field-to-column
// mapping it produces.
func findHeader(rows [][]string) (int, map[string]int) {
	for i, cells := range rows {
		columns := mapColumns(cells)
		if _, ok := columns["sample_name"]; ok && len(columns) >= 2 {
			return i, columns
		}
	}
	return -1, nil
}

func mapColumns(cells []string) map[string]int {
	columns := map[string]int{}
	used := map[int]bool{}
	for _, tc := range tableColumns {
		for _, cand := range tc.candidates {
			found := -1
			for i, cell := range cells {
				if used[i] {
					continue
				}
				if strings.Contains(strings.ToLower(cell), cand) {
					found = i
					break
				}
			}
			if found >= 0 {
				columns[tc.field] = found
				used[found] = true
				break
			}
		}
	}
	return columns
}

func cellNumber(cells []string, col int) *float64 {
	if col >= len(cells) {
		return nil
	}
	if v, ok := parseNumber(cells[col]); ok {
		return &v
	}
	return nil
}

// parseNumber strips measurement units and thousands separators before
// parsing. Unparseable cells yield false rather than zero values.
func parseNumber(raw string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, unit := range []string{"ng/µl", "ng/μl", "ng/ul", "µl", "μl", "ul"} {
		s = strings.ReplaceAll(s, unit, "")
	}
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
