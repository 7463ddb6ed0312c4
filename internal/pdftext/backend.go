package pdftext

// Table is a rectangular block of cell text reconstructed from one
// page. Rows are top-to-bottom, cells left-to-right.
type Table struct {
	Page int        `json:"page"`
	Rows [][]string `json:"rows"`
}

// Page holds everything a backend recovered from one PDF page. Err is
// set for pages a tolerant backend skipped; the extractor reports it
// as a page-indexed warning.
type Page struct {
	Number int     `json:"number"`
	Text   string  `json:"text"`
	Tables []Table `json:"tables,omitempty"`
	Err    error   `json:"-"`
}

// Document is the extraction result handed to the parsing layers.
type Document struct {
	// Text is the page texts joined with blank-line separators.
	Text   string
	Pages  []Page
	Tables []Table

	// PageTotal is the page count of the source document, which may
	// exceed len(Pages) when the extractor truncated.
	PageTotal int
	Truncated bool
	Backend   string
	Warnings  []string
}

// Backend extracts text for pages 1..maxPages of an in-memory PDF.
// A maxPages of 0 means no limit.
type Backend interface {
	Name() string
	ExtractPages(content []byte, maxPages int) ([]Page, error)
}
