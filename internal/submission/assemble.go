package submission

const (
	defaultName  = "Unknown"
	defaultEmail = "unknown@example.com"
)

// Canonical fields without a dedicated record column; their values
// travel in the metadata map.
var metadataFields = []string{
	"phone",
	"genome_size",
	"coverage",
	"cost",
	"basecalling",
	"file_format",
	"service_requested",
	"sequencing_type",
}

// BuildSample assembles one record from merged field values, free-form
// metadata, and any table rows. It returns false when nothing
// identifying was extracted: a record needs a sample name, submitter
// name, quote identifier, lab name, or at least one table row.
func BuildSample(fields Fields, meta map[string]string, table []SampleTableRow) (*SampleData, bool) {
	identified := fields.Str("sample_name") != "" ||
		fields.Str("submitter_name") != "" ||
		fields.Str("quote_identifier") != "" ||
		fields.Str("lab") != ""
	if !identified && len(table) == 0 {
		return nil, false
	}

	sample := &SampleData{
		SampleName:     fields.Str("sample_name"),
		SubmitterName:  fields.Str("submitter_name"),
		SubmitterEmail: fields.Str("submitter_email"),
		Concentration:  fields.Num("concentration"),
		Volume:         fields.Num("volume"),
		Organism:       fields.Str("organism"),
		Buffer:         fields.Str("buffer"),
		SampleType:     fields.Str("sample_type"),
		DeviceType:     fields.Str("device_type"),
		LabName:        fields.Str("lab"),
		QuoteID:        fields.Str("quote_identifier"),
		SampleTable:    table,
	}

	sample.FlowCellType = fields.Str("flow_cell_type")
	if sample.FlowCellType == "" {
		sample.FlowCellType = fields.Str("flow_cell")
	}

	// A quote identifier is the best available name for a form that
	// never names its samples.
	if sample.SampleName == "" {
		sample.SampleName = sample.QuoteID
	}
	applyIdentityDefaults(sample)

	for _, name := range metadataFields {
		if v := fields.Str(name); v != "" {
			if meta == nil {
				meta = map[string]string{}
			}
			if _, ok := meta[name]; !ok {
				meta[name] = v
			}
		}
	}
	if len(meta) > 0 {
		sample.Metadata = meta
	}
	return sample, true
}

// applyIdentityDefaults fills the required identity fields so every
// accepted record is well-formed even when extraction was partial.
func applyIdentityDefaults(sample *SampleData) {
	if sample.SampleName == "" {
		sample.SampleName = defaultName
	}
	if sample.SubmitterName == "" {
		sample.SubmitterName = defaultName
	}
	if sample.SubmitterEmail == "" {
		sample.SubmitterEmail = defaultEmail
	}
}
