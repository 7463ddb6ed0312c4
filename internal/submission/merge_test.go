package submission

import "testing"

// End-to-end over the text heuristics: patterns first, then the line
// scanner fills whatever the patterns missed.
func TestMergedExtractionFromLabelText(t *testing.T) {
	text := "Sample Name: SAMPLE-001\nConcentration: 150 ng/ul\nVolume: 50 ul\n" +
		"Contact: Dr. Jane Smith\nEmail: jane.smith@university.edu"

	fields := ExtractFields(text)
	scanned, _ := ScanSections(text)
	fields.Merge(scanned)

	if got := fields.Str("sample_name"); got != "SAMPLE-001" {
		t.Errorf("sample_name = %q", got)
	}
	if got := fields.Num("concentration"); got == nil || *got != 150 {
		t.Errorf("concentration = %v, want 150", got)
	}
	if got := fields.Num("volume"); got == nil || *got != 50 {
		t.Errorf("volume = %v, want 50", got)
	}
	if got := fields.Str("submitter_name"); got != "Dr. Jane Smith" {
		t.Errorf("submitter_name = %q", got)
	}
	if got := fields.Str("submitter_email"); got != "jane.smith@university.edu" {
		t.Errorf("submitter_email = %q", got)
	}

	sample, ok := BuildSample(fields, nil, nil)
	if !ok {
		t.Fatal("record rejected")
	}
	if sample.SampleName != "SAMPLE-001" || sample.SubmitterName != "Dr. Jane Smith" {
		t.Errorf("assembled sample = %q/%q", sample.SampleName, sample.SubmitterName)
	}
}

func TestMergePrecedence(t *testing.T) {
	dst := Fields{"sample_name": "from-patterns"}
	dst.Merge(Fields{"sample_name": "from-scanner", "organism": "E. coli"})

	if got := dst.Str("sample_name"); got != "from-patterns" {
		t.Errorf("sample_name = %q, earlier source must win", got)
	}
	if got := dst.Str("organism"); got != "E. coli" {
		t.Errorf("organism = %q, missing fields fill in", got)
	}
}
