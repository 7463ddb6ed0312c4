// Package export writes extracted sample records to JSON, CSV, or
// XLSX for downstream lab tooling.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/poglesbyg/nanopore-tracking-app/internal/submission"
)

// Format identifies a supported output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const sheetName = "Samples"

var headers = []string{
	"sample_name",
	"sample_index",
	"submitter_name",
	"submitter_email",
	"concentration",
	"volume",
	"qubit_conc",
	"nanodrop_conc",
	"a260_280",
	"a260_230",
	"organism",
	"buffer",
	"sample_type",
	"flow_cell_type",
	"device_type",
	"lab_name",
	"quote_identifier",
}

// Service renders sample records in tabular and JSON forms.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// Write renders samples to w in the requested format.
func (s *Service) Write(w io.Writer, format Format, samples []submission.SampleData) error {
	switch format {
	case FormatJSON:
		return s.writeJSON(w, samples)
	case FormatCSV:
		return s.writeCSV(w, samples)
	case FormatXLSX:
		return s.writeXLSX(w, samples)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

func (s *Service) writeJSON(w io.Writer, samples []submission.SampleData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(samples); err != nil {
		return fmt.Errorf("failed to encode samples: %w", err)
	}
	s.logger.Info("export.write", "format", FormatJSON, "samples", len(samples))
	return nil
}

func (s *Service) writeCSV(w io.Writer, samples []submission.SampleData) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	rows := 0
	for _, cells := range flatten(samples) {
		record := make([]string, len(cells))
		for i, c := range cells {
			record[i] = cellString(c)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
		rows++
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	s.logger.Info("export.write", "format", FormatCSV, "samples", len(samples), "rows", rows)
	return nil
}

func (s *Service) writeXLSX(w io.Writer, samples []submission.SampleData) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.GetSheetIndex("Sheet1")
	if err == nil && idx >= 0 {
		if err := f.SetSheetName("Sheet1", sheetName); err != nil {
			return fmt.Errorf("failed to rename sheet: %w", err)
		}
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	rows := 0
	for rowIdx, cells := range flatten(samples) {
		for col, c := range cells {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("failed to compute cell name: %w", err)
			}
			if c == nil {
				continue
			}
			if err := f.SetCellValue(sheetName, cell, c); err != nil {
				return fmt.Errorf("failed to write cell: %w", err)
			}
		}
		rows++
	}

	if err := f.SetColWidth(sheetName, "A", "Q", 18); err != nil {
		return fmt.Errorf("failed to set column widths: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("failed to render workbook: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	s.logger.Info("export.write", "format", FormatXLSX, "samples", len(samples), "rows", rows)
	return nil
}

// flatten produces one output row per table row for samples with a
// sample table, repeating the submission-level fields, and one row for
// samples without.
func flatten(samples []submission.SampleData) [][]any {
	var out [][]any
	for _, s := range samples {
		if len(s.SampleTable) == 0 {
			out = append(out, flatRow(s, nil))
			continue
		}
		for i := range s.SampleTable {
			out = append(out, flatRow(s, &s.SampleTable[i]))
		}
	}
	return out
}

func flatRow(s submission.SampleData, t *submission.SampleTableRow) []any {
	name := s.SampleName
	var index, volume, qubit, nanodrop, r280, r230 any
	volume = floatCell(s.Volume)
	if t != nil {
		name = t.SampleName
		index = t.SampleIndex
		volume = floatCell(t.Volume)
		qubit = floatCell(t.QubitConc)
		nanodrop = floatCell(t.NanodropConc)
		r280 = floatCell(t.A260280)
		r230 = floatCell(t.A260230)
	}
	return []any{
		name,
		index,
		s.SubmitterName,
		s.SubmitterEmail,
		floatCell(s.Concentration),
		volume,
		qubit,
		nanodrop,
		r280,
		r230,
		s.Organism,
		s.Buffer,
		s.SampleType,
		s.FlowCellType,
		s.DeviceType,
		s.LabName,
		s.QuoteID,
	}
}

func floatCell(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func cellString(c any) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
