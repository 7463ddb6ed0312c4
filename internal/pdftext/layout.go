package pdftext

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// lineTolerance is the max vertical distance (in points) between
	// glyph baselines that still counts as the same line.
	lineTolerance = 2.0

	// cellGap is the min horizontal whitespace (in points) that splits
	// a line into separate table cells.
	cellGap = 12.0
)

// LayoutBackend reconstructs lines and tabular cell boundaries from
// positioned text elements. It is the primary backend: column-aware,
// but stricter about malformed content streams than PlainBackend.
type LayoutBackend struct{}

func (LayoutBackend) Name() string { return "layout" }

// ExtractPages extracts positioned text page by page. Any page-level
// failure abandons the whole document so the caller can fall back to
// a more tolerant backend.
func (b LayoutBackend) ExtractPages(content []byte, maxPages int) (pages []Page, err error) {
	// The underlying parser panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("layout extraction panicked: %v", r)
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
		lines := groupLines(page.Content().Text)
		pages = append(pages, Page{
			Number: i,
			Text:   renderLines(lines),
			Tables: detectTables(i, lines),
		})
	}
	return pages, nil
}

type textLine struct {
	y     float64
	words []pdf.Text
}

// groupLines buckets positioned text into baseline groups, ordered
// top-to-bottom with words left-to-right.
func groupLines(texts []pdf.Text) []textLine {
	var lines []textLine
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		placed := false
		for i := range lines {
			if math.Abs(lines[i].y-t.Y) <= lineTolerance {
				lines[i].words = append(lines[i].words, t)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, textLine{y: t.Y, words: []pdf.Text{t}})
		}
	}

	// PDF coordinates grow upward, so larger Y comes first.
	sort.Slice(lines, func(i, j int) bool { return lines[i].y > lines[j].y })
	for i := range lines {
		words := lines[i].words
		sort.Slice(words, func(a, b int) bool { return words[a].X < words[b].X })
	}
	return lines
}

// lineCells joins a line's words into cell strings, splitting wherever
// the horizontal gap exceeds cellGap.
func lineCells(l textLine) []string {
	var cells []string
	var cur strings.Builder

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			cells = append(cells, s)
		}
		cur.Reset()
	}

	var prev *pdf.Text
	for i := range l.words {
		w := &l.words[i]
		if prev != nil {
			gap := w.X - (prev.X + prev.W)
			switch {
			case gap > cellGap:
				flush()
			case gap > wordGap(prev):
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(w.S)
		prev = w
	}
	flush()
	return cells
}

// wordGap is the whitespace threshold between glyph runs that implies
// a word boundary within the same cell.
func wordGap(t *pdf.Text) float64 {
	if t.FontSize > 0 {
		return t.FontSize * 0.25
	}
	return 1.5
}

func renderLines(lines []textLine) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(lineCells(l), "  "))
	}
	return b.String()
}

// detectTables treats every run of two or more consecutive multi-cell
// lines as a candidate table. Header matching happens downstream.
func detectTables(pageNum int, lines []textLine) []Table {
	var tables []Table
	var rows [][]string

	flush := func() {
		if len(rows) >= 2 {
			tables = append(tables, Table{Page: pageNum, Rows: rows})
		}
		rows = nil
	}

	for _, l := range lines {
		if cells := lineCells(l); len(cells) >= 2 {
			rows = append(rows, cells)
		} else {
			flush()
		}
	}
	flush()
	return tables
}
