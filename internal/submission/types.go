package submission

// ProcessingStatus reports whether a document was handled end to end.
type ProcessingStatus string

const (
	StatusCompleted ProcessingStatus = "completed"
	StatusFailed    ProcessingStatus = "failed"
)

// Profile selects which extraction heuristics run against a document.
type Profile int

const (
	// ProfileGenericPattern applies the regex pattern library, the
	// section scanner, and geometric table detection.
	ProfileGenericPattern Profile = iota

	// ProfileHTSFSixColumn additionally recognizes quote forms whose
	// sample tables flatten into one value per line, six values per
	// sample.
	ProfileHTSFSixColumn
)

// SampleTableRow is a single measured sample lifted from a tabular
// region of a quote form. Numeric fields are nil when the cell was
// empty or not parseable as a number.
type SampleTableRow struct {
	SampleName   string   `json:"sample_name"`
	Volume       *float64 `json:"volume,omitempty"`
	QubitConc    *float64 `json:"qubit_conc,omitempty"`
	NanodropConc *float64 `json:"nanodrop_conc,omitempty"`
	A260280      *float64 `json:"a260_280,omitempty"`
	A260230      *float64 `json:"a260_230,omitempty"`
	// SampleIndex is 1-based within the table the row came from.
	SampleIndex int `json:"sample_index"`
}

// SampleData is one validated submission record. Fields that have no
// dedicated column land in Metadata keyed by their canonical name.
type SampleData struct {
	SampleName     string            `json:"sample_name"`
	SubmitterName  string            `json:"submitter_name"`
	SubmitterEmail string            `json:"submitter_email"`
	Concentration  *float64          `json:"concentration,omitempty"`
	Volume         *float64          `json:"volume,omitempty"`
	Organism       string            `json:"organism,omitempty"`
	Buffer         string            `json:"buffer,omitempty"`
	SampleType     string            `json:"sample_type,omitempty"`
	FlowCellType   string            `json:"flow_cell_type,omitempty"`
	DeviceType     string            `json:"device_type,omitempty"`
	LabName        string            `json:"lab_name,omitempty"`
	QuoteID        string            `json:"quote_identifier,omitempty"`
	SampleTable    []SampleTableRow  `json:"sample_table,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// ProcessingResult is the envelope returned for every document.
// Status is failed only for document-fatal conditions; per-row and
// per-field problems surface in Errors and Warnings instead.
type ProcessingResult struct {
	Status         ProcessingStatus `json:"status"`
	Message        string           `json:"message"`
	Data           []SampleData     `json:"data"`
	Errors         []string         `json:"errors,omitempty"`
	Warnings       []string         `json:"warnings,omitempty"`
	ProcessingTime float64          `json:"processing_time"`
	Metadata       map[string]any   `json:"metadata,omitempty"`
}

// Fields holds extracted field values keyed by canonical field name.
// String fields hold string values; concentration and volume hold
// float64 once coerced.
type Fields map[string]any

// Str returns the string value for name, or "" when absent or not a
// string.
func (f Fields) Str(name string) string {
	if v, ok := f[name].(string); ok {
		return v
	}
	return ""
}

// Num returns the numeric value for name, or nil when absent.
func (f Fields) Num(name string) *float64 {
	if v, ok := f[name].(float64); ok {
		return &v
	}
	return nil
}

// Merge copies entries from src that are not already set in f. Callers
// establish precedence by merge order: earlier sources win.
func (f Fields) Merge(src Fields) {
	for k, v := range src {
		if _, ok := f[k]; !ok {
			f[k] = v
		}
	}
}
