package submission

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
)

// errNoColumns is document-fatal: without a single recognizable
// column no row could ever produce a record.
var errNoColumns = errors.New("No recognizable columns found in CSV")

var csvColumns = []tableColumn{
	{"sample_name", []string{"sample_name", "sample", "name", "id"}},
	{"submitter_name", []string{"submitter_name", "submitter", "contact"}},
	{"submitter_email", []string{"email", "submitter_email", "contact_email"}},
	{"concentration", []string{"concentration", "conc"}},
	{"volume", []string{"volume", "vol"}},
	{"organism", []string{"organism", "species"}},
	{"buffer", []string{"buffer", "solution"}},
}

type csvOutcome struct {
	samples       []SampleData
	errors        []string
	totalRows     int
	columnsMapped int
}

// processCSV maps header columns to record fields and streams data
// rows in chunks of chunkSize. Malformed rows are recorded with their
// 1-based row number and skipped; only an unreadable header or a
// header with zero recognizable columns is fatal.
func processCSV(r io.Reader, chunkSize int) (*csvOutcome, error) {
	if chunkSize <= 0 {
		chunkSize = 100
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := mapCSVColumns(header)
	if len(columns) == 0 {
		return nil, errNoColumns
	}

	out := &csvOutcome{columnsMapped: len(columns)}

	chunk := make([][]string, 0, chunkSize)
	flush := func() {
		for _, record := range chunk {
			if sample, ok := buildCSVSample(record, columns); ok {
				out.samples = append(out.samples, sample)
			}
		}
		chunk = chunk[:0]
	}

	for {
		record, rerr := reader.Read()
		if rerr == io.EOF {
			break
		}
		out.totalRows++
		if rerr != nil {
			out.errors = append(out.errors, fmt.Sprintf("row %d: %v", out.totalRows, rerr))
			continue
		}
		chunk = append(chunk, record)
		if len(chunk) >= chunkSize {
			flush()
		}
	}
	flush()
	return out, nil
}

// mapCSVColumns assigns each record field the first header column that
// contains one of its candidate substrings. Columns are not reused
// across fields.
func mapCSVColumns(header []string) map[string]int {
	columns := map[string]int{}
	used := map[int]bool{}
	for _, tc := range csvColumns {
		for _, cand := range tc.candidates {
			found := -1
			for i, cell := range header {
				if used[i] {
					continue
				}
				if strings.Contains(strings.ToLower(strings.TrimSpace(cell)), cand) {
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

// buildCSVSample converts one data row. A row is accepted when it has
// a sample name or a submitter name; identity defaults fill the rest.
func buildCSVSample(record []string, columns map[string]int) (SampleData, bool) {
	get := func(field string) string {
		col, ok := columns[field]
		if !ok || col >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[col])
	}

	name := get("sample_name")
	submitter := get("submitter_name")
	if name == "" && submitter == "" {
		return SampleData{}, false
	}

	sample := SampleData{
		SampleName:     name,
		SubmitterName:  submitter,
		SubmitterEmail: get("submitter_email"),
		Organism:       get("organism"),
		Buffer:         get("buffer"),
	}
	applyIdentityDefaults(&sample)

	for field, dst := range map[string]**float64{
		"concentration": &sample.Concentration,
		"volume":        &sample.Volume,
	} {
		raw := get(field)
		if raw == "" {
			continue
		}
		if v, ok := parseNumber(raw); ok {
			*dst = &v
		} else {
			log.Printf("skipping non-numeric %s value %q for sample %s", field, raw, sample.SampleName)
		}
	}
	return sample, true
}
