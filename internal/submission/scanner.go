package submission

import (
	"regexp"
	"strings"
)

// Quote form sections the line scanner tracks. Form layouts put the
// interesting values on the lines after each heading, so the scanner
// keeps a current-section state while walking the text.
type section int

const (
	sectionNone section = iota
	sectionSampleInfo
	sectionFlowCell
	sectionOrganism
	sectionSampleType
)

var (
	costRe     = regexp.MustCompile(`\$\s*([\d,]+\.?\d*)`)
	htsfRe     = regexp.MustCompile(`(HTSF--[A-Z]+-\d+)`)
	dateRe     = regexp.MustCompile(`(?i)(?:Submission\s*)?Date[:\s]*([0-9]{1,4}[/-][0-9]{1,2}[/-][0-9]{1,4})`)
	checkedRe  = regexp.MustCompile(`[☑☒]`)
	flowCellRe = regexp.MustCompile(`R\d+\.\d+\.\d+`)
)

var deviceNames = []string{"PromethION", "GridION", "MinION"}

// ScanSections walks the text line by line, switching section state at
// known headings and pulling values from the lines beneath them.
// It returns dedicated fields plus free-form metadata.
func ScanSections(text string) (Fields, map[string]string) {
	fields := Fields{}
	meta := map[string]string{}

	state := sectionNone
	expectSampleRow := false

	setOnce := func(name, value string) {
		if value == "" {
			return
		}
		if _, ok := fields[name]; !ok {
			fields[name] = value
		}
	}
	metaOnce := func(name, value string) {
		if value == "" {
			return
		}
		if _, ok := meta[name]; !ok {
			meta[name] = value
		}
	}

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if next, ok := sectionFor(line); ok {
			state = next
			expectSampleRow = false
			continue
		}

		// Labels that appear regardless of section.
		if v, ok := labelValue(line, "Contact:"); ok {
			setOnce("submitter_name", v)
		}
		if v, ok := labelValue(line, "Email:"); ok {
			setOnce("submitter_email", v)
		}
		if v, ok := labelValue(line, "PI:"); ok {
			metaOnce("pi", v)
		}
		if v, ok := labelValue(line, "Department:"); ok {
			metaOnce("department", v)
		}
		if m := costRe.FindStringSubmatch(line); m != nil {
			metaOnce("estimated_cost", m[1])
		}
		if m := htsfRe.FindStringSubmatch(line); m != nil {
			setOnce("quote_identifier", m[1])
		}
		if m := dateRe.FindStringSubmatch(line); m != nil {
			metaOnce("submission_date", m[1])
		}

		switch state {
		case sectionSampleInfo:
			if strings.Contains(line, "Sample Name") && strings.Contains(line, "Concentration") {
				expectSampleRow = true
				continue
			}
			if expectSampleRow {
				scanSampleRow(line, fields)
				expectSampleRow = false
			}

		case sectionFlowCell:
			// Device names identify hardware whether or not the line
			// carries a checkbox.
			for _, d := range deviceNames {
				if strings.Contains(line, d) {
					setOnce("device_type", d)
				}
			}
			// A checked box only names a flow cell when it carries a
			// chemistry version, not for "Other (specify below)".
			if checkedRe.MatchString(line) && flowCellRe.MatchString(line) {
				setOnce("flow_cell_type", checkedValue(line))
			}

		case sectionOrganism:
			if informativeValue(line) {
				setOnce("organism", line)
			}
			state = sectionNone

		case sectionSampleType:
			if !checkedRe.MatchString(line) {
				continue
			}
			label := checkedValue(line)
			switch {
			case strings.Contains(label, "RNA"):
				setOnce("sample_type", "RNA")
			case strings.Contains(label, "DNA"):
				setOnce("sample_type", "DNA")
				metaOnce("dna_type", label)
			default:
				setOnce("sample_type", label)
			}
		}
	}
	return fields, meta
}

func sectionFor(line string) (section, bool) {
	switch {
	case strings.Contains(line, "Sample Information"):
		return sectionSampleInfo, true
	case strings.Contains(line, "Flow Cell Selection"):
		return sectionFlowCell, true
	case strings.Contains(line, "Source Organism"):
		return sectionOrganism, true
	case strings.Contains(line, "Type of Sample"):
		return sectionSampleType, true
	}
	return sectionNone, false
}

// scanSampleRow parses a whitespace-separated data row under a
// "Sample Name ... Concentration ..." header: first token is the name,
// the token before a "ng/..." unit is the concentration, the token
// before a volume unit is the volume.
func scanSampleRow(line string, fields Fields) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return
	}
	if _, ok := fields["sample_name"]; !ok {
		fields["sample_name"] = tokens[0]
	}
	for i := 1; i < len(tokens); i++ {
		lower := strings.ToLower(tokens[i])
		switch {
		case strings.HasPrefix(lower, "ng/"):
			if v, ok := parseNumber(tokens[i-1]); ok {
				if _, set := fields["concentration"]; !set {
					fields["concentration"] = v
				}
			}
		case lower == "μl" || lower == "µl" || lower == "ul":
			if v, ok := parseNumber(tokens[i-1]); ok {
				if _, set := fields["volume"]; !set {
					fields["volume"] = v
				}
			}
		}
	}
}

// checkedValue returns the label following a checkbox marker.
func checkedValue(line string) string {
	loc := checkedRe.FindStringIndex(line)
	if loc == nil {
		return ""
	}
	return strings.TrimSpace(line[loc[1]:])
}

func labelValue(line, label string) (string, bool) {
	idx := strings.Index(line, label)
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(line[idx+len(label):]), true
}
