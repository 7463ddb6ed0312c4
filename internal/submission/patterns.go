package submission

import (
	"log"
	"regexp"
	"strconv"
	"strings"
)

// fieldPattern ties a canonical field name to the single regex that
// recognizes it. Each regex carries exactly one capture group; numeric
// fields are coerced to float64 after matching.
type fieldPattern struct {
	name    string
	re      *regexp.Regexp
	numeric bool
}

var fieldPatterns = []fieldPattern{
	{"sample_name", regexp.MustCompile(`(?i)Sample\s*(?:Name|ID)[:\s]*([^\n]+)`), false},
	{"submitter_name", regexp.MustCompile(`(?i)(?:Submitter|Contact)\s*Name[:\s]*([^\n]+)`), false},
	{"submitter_email", regexp.MustCompile(`(?i)(?:E-?mail)[:\s]*([^\s@]+@[^\s@]+\.[^\s@]+)`), false},
	{"concentration", regexp.MustCompile(`(?i)Concentration[:\s]*(\d+\.?\d*)\s*(?:ng/[μu]l)`), true},
	{"volume", regexp.MustCompile(`(?i)Volume[:\s]*(\d+\.?\d*)\s*(?:[μu]l)`), true},
	{"organism", regexp.MustCompile(`(?i)(?:Source\s*)?Organism[:\s]*([^\n]+)`), false},
	{"buffer", regexp.MustCompile(`(?i)Buffer[:\s]*([^\n]+)`), false},
	{"quote_identifier", regexp.MustCompile(`(?i)Identifier[:\s]*([A-Za-z0-9_-]+)`), false},
	{"lab", regexp.MustCompile(`(?i)Lab[:\s]*([^\n]+)`), false},
	{"phone", regexp.MustCompile(`(?i)Phone[:\s]*([\d()+.\s-]+)`), false},
	{"sample_type", regexp.MustCompile(`(?i)Type\s*of\s*Sample[:\s]*([^\n]+)`), false},
	{"flow_cell", regexp.MustCompile(`(?i)Flow\s*Cell(?:\s*Selection)?[:\s]*([^\n]+)`), false},
	{"genome_size", regexp.MustCompile(`(?i)Genome\s*Size[:\s]*([^\n]+)`), false},
	{"coverage", regexp.MustCompile(`(?i)(?:Approx\.?\s*)?Coverage[:\s]*([^\n]+)`), false},
	{"cost", regexp.MustCompile(`(?i)(?:Projected\s*Cost|Cost)[:\s]*\$?([\d,]+\.?\d*)`), false},
	{"basecalling", regexp.MustCompile(`(?i)Basecall(?:ing|ed)[:\s]*([^\n]+)`), false},
	{"file_format", regexp.MustCompile(`(?i)File\s*Format[:\s]*([^\n]+)`), false},
	{"service_requested", regexp.MustCompile(`(?i)Service\s*Requested[:\s]*([^\n]+)`), false},
	{"sequencing_type", regexp.MustCompile(`(?i)Sequencing\s*Type[:\s]*([^\n]+)`), false},
}

var metadataPatterns = []fieldPattern{
	{"pi", regexp.MustCompile(`(?i)\bPIs?\b\s*:\s*([^\n]+)`), false},
	{"billing_address", regexp.MustCompile(`(?i)Billing\s*Address[:\s]*([^\n]+)`), false},
	{"comments", regexp.MustCompile(`(?i)(?:Additional\s*)?Comments?[:\s]*([^\n]+)`), false},
	{"data_delivery_email", regexp.MustCompile(`(?i)Data\s*Delivery(?:\s*E-?mail)?[:\s]*([^\s@]+@[^\s@]+\.[^\s@]+)`), false},
}

// FieldNames lists every canonical field the pattern library knows,
// in library order.
func FieldNames() []string {
	names := make([]string, len(fieldPatterns))
	for i, p := range fieldPatterns {
		names[i] = p.name
	}
	return names
}

// ExtractFields applies the pattern library to the document text,
// keeping the first match per field. Numeric fields that fail to parse
// are discarded rather than stored as text.
func ExtractFields(text string) Fields {
	out := Fields{}
	for _, p := range fieldPatterns {
		name, value, ok := matchPattern(p, text)
		if !ok {
			continue
		}
		if name == "organism" && !informativeValue(value.(string)) {
			continue
		}
		out[name] = value
	}
	return out
}

// Forms leave blank answers as filler text rather than empty cells.
var fillerValues = map[string]bool{
	"na":   true,
	"n/a":  true,
	"none": true,
}

func informativeValue(s string) bool {
	return !fillerValues[strings.ToLower(strings.TrimSpace(s))]
}

// ExtractMetadata pulls free-form fields that have no dedicated record
// column.
func ExtractMetadata(text string) map[string]string {
	out := map[string]string{}
	for _, p := range metadataPatterns {
		name, value, ok := matchPattern(p, text)
		if ok {
			out[name] = value.(string)
		}
	}
	return out
}

func matchPattern(p fieldPattern, text string) (string, any, bool) {
	m := p.re.FindStringSubmatch(text)
	if m == nil {
		return p.name, nil, false
	}
	raw := strings.TrimSpace(m[1])
	if raw == "" {
		return p.name, nil, false
	}
	if !p.numeric {
		return p.name, raw, true
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		log.Printf("discarding non-numeric value for %s: %q", p.name, raw)
		return p.name, nil, false
	}
	return p.name, f, true
}
