package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Extractor runs the primary layout backend with a plain-text
// fallback, enforces the page limit, and stitches page texts into a
// single document string.
type Extractor struct {
	maxPages  int
	primary   Backend
	fallback  Backend
	pageCount func([]byte) (int, error)
}

// NewExtractor returns an Extractor limited to maxPages pages per
// document. A maxPages of 0 disables the limit.
func NewExtractor(maxPages int) *Extractor {
	return &Extractor{
		maxPages:  maxPages,
		primary:   LayoutBackend{},
		fallback:  PlainBackend{},
		pageCount: PageCount,
	}
}

// PageCount validates the document structure and reports the total
// page count, independent of any text extraction.
func PageCount(content []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(content), conf)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF structure: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("failed to determine page count: %w", err)
	}
	return ctx.PageCount, nil
}

// Extract pulls text and candidate tables out of an in-memory PDF.
// The fallback backend runs when the primary one errors or yields no
// text at all; an error is returned only when both backends fail.
func (e *Extractor) Extract(content []byte) (*Document, error) {
	doc := &Document{Backend: e.primary.Name()}

	total, err := e.pageCount(content)
	if err != nil {
		doc.Warnings = append(doc.Warnings, "PDF structure validation failed: "+err.Error())
	} else {
		doc.PageTotal = total
		if e.maxPages > 0 && total > e.maxPages {
			doc.Truncated = true
			doc.Warnings = append(doc.Warnings,
				fmt.Sprintf("PDF has %d pages, processing first %d only", total, e.maxPages))
		}
	}

	pages, primaryErr := e.primary.ExtractPages(content, e.maxPages)
	if primaryErr != nil || allBlank(pages) {
		fallbackPages, fallbackErr := e.fallback.ExtractPages(content, e.maxPages)
		switch {
		case fallbackErr == nil && (primaryErr != nil || !allBlank(fallbackPages)):
			if primaryErr != nil {
				doc.Warnings = append(doc.Warnings,
					fmt.Sprintf("%s backend failed (%v), fell back to %s backend",
						e.primary.Name(), primaryErr, e.fallback.Name()))
			}
			pages = fallbackPages
			doc.Backend = e.fallback.Name()
		case fallbackErr != nil && primaryErr != nil:
			return nil, fmt.Errorf("text extraction failed: %s: %v; %s: %v",
				e.primary.Name(), primaryErr, e.fallback.Name(), fallbackErr)
		}
	}

	doc.Pages = pages
	if doc.PageTotal == 0 {
		doc.PageTotal = len(pages)
	}

	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		parts = append(parts, p.Text)
		doc.Tables = append(doc.Tables, p.Tables...)
		if p.Err != nil {
			doc.Warnings = append(doc.Warnings, fmt.Sprintf("page %d skipped: %v", p.Number, p.Err))
		}
	}
	doc.Text = strings.Join(parts, "\n\n")
	return doc, nil
}

func allBlank(pages []Page) bool {
	for _, p := range pages {
		if strings.TrimSpace(p.Text) != "" {
			return false
		}
	}
	return true
}
