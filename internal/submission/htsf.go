package submission

import (
	"strconv"
	"strings"
)

// Headings that mark the end of a flattened sample listing.
var htsfStopWords = []string{"service", "total", "summary", "notes", "comments", "promethion"}

// ExtractHTSFRows handles quote forms whose sample table flattens into
// one value per line during text extraction: sample number, volume,
// qubit concentration, nanodrop concentration, then the A260/280 and
// A260/230 ratios, repeating for each sample. Scanning stops at the
// first summary heading after sample data has started.
func ExtractHTSFRows(text string) []SampleTableRow {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	var rows []SampleTableRow
	for i := 0; i < len(lines); i++ {
		if len(rows) > 0 && isHTSFStop(lines[i]) {
			break
		}
		group, ok := htsfGroup(lines, i)
		if !ok {
			continue
		}
		group.SampleIndex = len(rows) + 1
		rows = append(rows, group)
		i += 5
	}
	return rows
}

// htsfGroup tries to read a six-line sample group starting at i: an
// integer sample number followed by five numeric measurements.
func htsfGroup(lines []string, i int) (SampleTableRow, bool) {
	if i+5 >= len(lines) {
		return SampleTableRow{}, false
	}
	if _, err := strconv.Atoi(lines[i]); err != nil {
		return SampleTableRow{}, false
	}

	values := make([]float64, 5)
	for j := 0; j < 5; j++ {
		tok := lines[i+1+j]
		if len(strings.Fields(tok)) != 1 {
			return SampleTableRow{}, false
		}
		v, ok := parseNumber(tok)
		if !ok {
			return SampleTableRow{}, false
		}
		values[j] = v
	}

	return SampleTableRow{
		SampleName:   "Sample " + lines[i],
		Volume:       &values[0],
		QubitConc:    &values[1],
		NanodropConc: &values[2],
		A260280:      &values[3],
		A260230:      &values[4],
	}, true
}

func isHTSFStop(line string) bool {
	lower := strings.ToLower(line)
	for _, w := range htsfStopWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
