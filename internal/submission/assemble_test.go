package submission

import "testing"

func TestBuildSampleDefaults(t *testing.T) {
	fields := Fields{"lab": "Genomics Core"}
	sample, ok := BuildSample(fields, nil, nil)
	if !ok {
		t.Fatal("a lab name alone should be enough to accept the record")
	}
	if sample.SampleName != "Unknown" {
		t.Errorf("sample name = %q, want Unknown", sample.SampleName)
	}
	if sample.SubmitterName != "Unknown" {
		t.Errorf("submitter name = %q, want Unknown", sample.SubmitterName)
	}
	if sample.SubmitterEmail != "unknown@example.com" {
		t.Errorf("submitter email = %q, want unknown@example.com", sample.SubmitterEmail)
	}
	if sample.LabName != "Genomics Core" {
		t.Errorf("lab name = %q", sample.LabName)
	}
}

func TestBuildSampleRejectsEmpty(t *testing.T) {
	if sample, ok := BuildSample(Fields{}, nil, nil); ok {
		t.Fatalf("empty extraction produced %+v, want rejection", sample)
	}
	// Non-identifying fields alone are not enough either.
	if _, ok := BuildSample(Fields{"organism": "E. coli"}, nil, nil); ok {
		t.Fatal("organism alone should not be enough to accept the record")
	}
}

func TestBuildSampleQuoteIDNamesSample(t *testing.T) {
	fields := Fields{"quote_identifier": "HTSF--ABC-1234"}
	sample, ok := BuildSample(fields, nil, nil)
	if !ok {
		t.Fatal("quote identifier alone should be enough to accept the record")
	}
	if sample.SampleName != "HTSF--ABC-1234" {
		t.Errorf("sample name = %q, want the quote identifier", sample.SampleName)
	}
	if sample.QuoteID != "HTSF--ABC-1234" {
		t.Errorf("quote id = %q", sample.QuoteID)
	}
}

func TestBuildSampleTableOnly(t *testing.T) {
	rows := []SampleTableRow{{SampleName: "S1", SampleIndex: 1}}
	sample, ok := BuildSample(Fields{}, nil, rows)
	if !ok {
		t.Fatal("table rows alone should be enough to accept the record")
	}
	if len(sample.SampleTable) != 1 {
		t.Fatalf("sample table lost: %+v", sample.SampleTable)
	}
	if sample.SampleName != "Unknown" {
		t.Errorf("sample name = %q, want Unknown", sample.SampleName)
	}
}

func TestBuildSampleMetadataFields(t *testing.T) {
	fields := Fields{
		"sample_name": "S1",
		"phone":       "919-555-0142",
		"coverage":    "30x",
		"flow_cell":   "R10.4.1",
	}
	meta := map[string]string{"pi": "Dr. Nguyen"}

	sample, ok := BuildSample(fields, meta, nil)
	if !ok {
		t.Fatal("record rejected")
	}
	if sample.FlowCellType != "R10.4.1" {
		t.Errorf("flow cell = %q, want R10.4.1 (from the pattern field)", sample.FlowCellType)
	}
	if sample.Metadata["phone"] != "919-555-0142" {
		t.Errorf("phone metadata = %q", sample.Metadata["phone"])
	}
	if sample.Metadata["coverage"] != "30x" {
		t.Errorf("coverage metadata = %q", sample.Metadata["coverage"])
	}
	if sample.Metadata["pi"] != "Dr. Nguyen" {
		t.Errorf("pi metadata = %q", sample.Metadata["pi"])
	}
}
