package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/poglesbyg/nanopore-tracking-app/internal/submission"
)

func testService() *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func f(v float64) *float64 { return &v }

func testSamples() []submission.SampleData {
	return []submission.SampleData{
		{
			SampleName:     "EC-001",
			SubmitterName:  "Morgan Reyes",
			SubmitterEmail: "morgan@unc.edu",
			Concentration:  f(25.5),
			Volume:         f(50),
			Organism:       "E. coli",
			LabName:        "Genomics Core",
		},
		{
			SampleName:     "HTSF--ABC-1234",
			SubmitterName:  "Unknown",
			SubmitterEmail: "unknown@example.com",
			QuoteID:        "HTSF--ABC-1234",
			SampleTable: []submission.SampleTableRow{
				{SampleName: "S1", SampleIndex: 1, Volume: f(50), QubitConc: f(25.5)},
				{SampleName: "S2", SampleIndex: 2, Volume: f(45)},
			},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testService().Write(&buf, FormatJSON, testSamples()))

	var decoded []submission.SampleData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "EC-001", decoded[0].SampleName)
	assert.Len(t, decoded[1].SampleTable, 2)
}

func TestWriteCSVFlattensTableRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testService().Write(&buf, FormatCSV, testSamples()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	// header + 1 plain sample + 2 table rows
	require.Len(t, records, 4)
	assert.Equal(t, headers, records[0])
	assert.Equal(t, "EC-001", records[1][0])
	assert.Equal(t, "25.5", records[1][4])
	assert.Equal(t, "S1", records[2][0])
	assert.Equal(t, "1", records[2][1])
	// Submission fields repeat on every table row.
	assert.Equal(t, "Unknown", records[2][2])
	assert.Equal(t, "S2", records[3][0])
	assert.Equal(t, "", records[3][6], "missing qubit stays empty")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testService().Write(&buf, FormatXLSX, testSamples()))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	got, err := wb.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "sample_name", got)

	got, err = wb.GetCellValue(sheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "EC-001", got)

	got, err = wb.GetCellValue(sheetName, "A4")
	require.NoError(t, err)
	assert.Equal(t, "S2", got)
}

func TestWriteUnsupportedFormat(t *testing.T) {
	err := testService().Write(io.Discard, Format("yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}

func TestWriteEmptySamples(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testService().Write(&buf, FormatCSV, nil))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header only")
}
