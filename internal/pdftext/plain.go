package pdftext

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PlainBackend extracts plain text in reading order without positional
// analysis. It tolerates per-page failures, which makes it the
// fallback of choice for documents the layout backend rejects.
type PlainBackend struct{}

func (PlainBackend) Name() string { return "plain" }

func (b PlainBackend) ExtractPages(content []byte, maxPages int) (pages []Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("plain extraction panicked: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	limit := reader.NumPage()
	if maxPages > 0 && maxPages < limit {
		limit = maxPages
	}

	for i := 1; i <= limit; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, Page{Number: i})
			continue
		}
		text, perr := page.GetPlainText(nil)
		if perr != nil {
			// Skip unreadable pages rather than losing the document.
			pages = append(pages, Page{Number: i, Err: perr})
			continue
		}
		pages = append(pages, Page{Number: i, Text: text})
	}
	return pages, nil
}
