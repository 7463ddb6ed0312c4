package submission

import (
	"testing"

	"github.com/poglesbyg/nanopore-tracking-app/internal/pdftext"
)

func TestExtractTableRows(t *testing.T) {
	tables := []pdftext.Table{{
		Page: 1,
		Rows: [][]string{
			{"Sample Name", "Volume (µL)", "Qubit (ng/µl)", "Nanodrop (ng/µl)", "A260/280", "A260/230"},
			{"EC-001", "50", "25.5", "30.1", "1.85", "2.10"},
			{"EC-002", "45 µl", "1,020.5", "980 ng/ul", "1.90", "2.05"},
		},
	}}

	rows := ExtractTableRows(tables)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	first := rows[0]
	if first.SampleName != "EC-001" || first.SampleIndex != 1 {
		t.Errorf("first row = %q index %d, want EC-001 index 1", first.SampleName, first.SampleIndex)
	}
	if first.Volume == nil || *first.Volume != 50 {
		t.Errorf("first volume = %v, want 50", first.Volume)
	}
	if first.QubitConc == nil || *first.QubitConc != 25.5 {
		t.Errorf("first qubit = %v, want 25.5", first.QubitConc)
	}
	if first.A260280 == nil || *first.A260280 != 1.85 {
		t.Errorf("first a260/280 = %v, want 1.85", first.A260280)
	}

	// Units and thousands separators are stripped before parsing.
	second := rows[1]
	if second.SampleIndex != 2 {
		t.Errorf("second index = %d, want 2", second.SampleIndex)
	}
	if second.Volume == nil || *second.Volume != 45 {
		t.Errorf("second volume = %v, want 45", second.Volume)
	}
	if second.QubitConc == nil || *second.QubitConc != 1020.5 {
		t.Errorf("second qubit = %v, want 1020.5", second.QubitConc)
	}
	if second.NanodropConc == nil || *second.NanodropConc != 980 {
		t.Errorf("second nanodrop = %v, want 980", second.NanodropConc)
	}
}

func TestExtractTableRowsSkipsHeaderBleed(t *testing.T) {
	tables := []pdftext.Table{{
		Rows: [][]string{
			{"Sample", "Volume"},
			{"Sample Name", "Volume"},
			{"S1", "10"},
		},
	}}
	rows := ExtractTableRows(tables)
	if len(rows) != 1 || rows[0].SampleName != "S1" {
		t.Fatalf("got %v, want single row S1", rows)
	}
	if rows[0].SampleIndex != 1 {
		t.Errorf("index = %d, want 1 (bleed rows do not consume indices)", rows[0].SampleIndex)
	}
}

func TestExtractTableRowsKeepsUnnamedRowWithMeasurements(t *testing.T) {
	tables := []pdftext.Table{{
		Rows: [][]string{
			{"Sample Name", "Volume", "Qubit"},
			{"", "50", "150.5"},
			{"", "", ""},
		},
	}}
	rows := ExtractTableRows(tables)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.SampleName != "" || row.SampleIndex != 1 {
		t.Errorf("row = %q index %d, want empty name index 1", row.SampleName, row.SampleIndex)
	}
	if row.Volume == nil || *row.Volume != 50 {
		t.Errorf("volume = %v, want 50", row.Volume)
	}
	if row.QubitConc == nil || *row.QubitConc != 150.5 {
		t.Errorf("qubit = %v, want 150.5", row.QubitConc)
	}
}

func TestExtractTableRowsIgnoresUnrelatedTable(t *testing.T) {
	tables := []pdftext.Table{{
		Rows: [][]string{
			{"Service", "Price"},
			{"Sequencing", "$500"},
		},
	}}
	if rows := ExtractTableRows(tables); rows != nil {
		t.Errorf("got %v, want nil for a table without a sample name column", rows)
	}
}

func TestExtractTableRowsIgnoresNameOnlyTable(t *testing.T) {
	// A name column alone is not enough; contact blocks and label runs
	// would otherwise qualify as sample tables.
	tables := []pdftext.Table{{
		Rows: [][]string{
			{"Name", "Institution"},
			{"Jordan Blake", "UNC Chapel Hill"},
		},
	}}
	if rows := ExtractTableRows(tables); rows != nil {
		t.Errorf("got %v, want nil for a table without measurement columns", rows)
	}
}

func TestExtractTableRowsIndexRestartsPerTable(t *testing.T) {
	table := pdftext.Table{
		Rows: [][]string{
			{"Sample Name", "Volume"},
			{"A", "1"},
			{"B", "2"},
		},
	}
	rows := ExtractTableRows([]pdftext.Table{table, table})
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	if rows[2].SampleIndex != 1 {
		t.Errorf("first row of second table has index %d, want 1", rows[2].SampleIndex)
	}
}

func TestExtractTableRowsUnparseableCellIsNil(t *testing.T) {
	tables := []pdftext.Table{{
		Rows: [][]string{
			{"Sample Name", "Qubit"},
			{"S1", "pending"},
		},
	}}
	rows := ExtractTableRows(tables)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].QubitConc != nil {
		t.Errorf("qubit = %v, want nil for unparseable cell", *rows[0].QubitConc)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"25.5", 25.5, true},
		{"25.5 ng/µl", 25.5, true},
		{"1,020.5", 1020.5, true},
		{"50 ul", 50, true},
		{"", 0, false},
		{"n/a", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseNumber(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("parseNumber(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
