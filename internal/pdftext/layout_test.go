package pdftext

import (
	"testing"

	"github.com/ledongthuc/pdf"
)

func word(s string, x, y, w float64) pdf.Text {
	return pdf.Text{S: s, X: x, Y: y, W: w, FontSize: 10}
}

func TestGroupLinesOrdersTopToBottom(t *testing.T) {
	texts := []pdf.Text{
		word("bottom", 10, 100, 30),
		word("top", 10, 700, 20),
		word("middle", 10, 400, 30),
	}
	lines := groupLines(texts)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0].words[0].S != "top" || lines[2].words[0].S != "bottom" {
		t.Errorf("lines out of order: %v %v", lines[0].words[0].S, lines[2].words[0].S)
	}
}

func TestGroupLinesBucketsNearbyBaselines(t *testing.T) {
	texts := []pdf.Text{
		word("right", 200, 500.5, 30),
		word("left", 10, 500, 20),
	}
	lines := groupLines(texts)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 within baseline tolerance", len(lines))
	}
	if lines[0].words[0].S != "left" {
		t.Errorf("words not sorted by X: %v", lines[0].words[0].S)
	}
}

func TestLineCellsSplitsOnWideGaps(t *testing.T) {
	l := textLine{y: 500, words: []pdf.Text{
		word("Sample", 10, 500, 35),
		word("Name", 48, 500, 28), // 3pt gap: same cell, new word
		word("25.5", 200, 500, 22), // wide gap: new cell
	}}
	cells := lineCells(l)
	if len(cells) != 2 {
		t.Fatalf("got %d cells, want 2: %v", len(cells), cells)
	}
	if cells[0] != "Sample Name" {
		t.Errorf("first cell = %q, want %q", cells[0], "Sample Name")
	}
	if cells[1] != "25.5" {
		t.Errorf("second cell = %q, want %q", cells[1], "25.5")
	}
}

func TestLineCellsJoinsAdjacentRuns(t *testing.T) {
	l := textLine{y: 500, words: []pdf.Text{
		word("Con", 10, 500, 18),
		word("centration", 28, 500, 50), // touching runs stay one word
	}}
	cells := lineCells(l)
	if len(cells) != 1 || cells[0] != "Concentration" {
		t.Fatalf("got %v, want single cell Concentration", cells)
	}
}

func TestDetectTables(t *testing.T) {
	mkLine := func(y float64, cells ...string) textLine {
		l := textLine{y: y}
		x := 10.0
		for _, c := range cells {
			l.words = append(l.words, word(c, x, y, float64(len(c))*6))
			x += 150
		}
		return l
	}
	lines := []textLine{
		mkLine(700, "Quote Form"),
		mkLine(680, "Sample Name", "Volume"),
		mkLine(660, "S1", "50"),
		mkLine(640, "S2", "45"),
		mkLine(620, "Notes"),
		mkLine(600, "solo", "pair"), // single multi-cell line: not a table
		mkLine(580, "trailing text"),
	}

	tables := detectTables(3, lines)
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	if tables[0].Page != 3 {
		t.Errorf("page = %d, want 3", tables[0].Page)
	}
	if len(tables[0].Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(tables[0].Rows))
	}
	if tables[0].Rows[0][0] != "Sample Name" || tables[0].Rows[2][1] != "45" {
		t.Errorf("unexpected rows: %v", tables[0].Rows)
	}
}

func TestRenderLines(t *testing.T) {
	lines := []textLine{
		{y: 700, words: []pdf.Text{word("header", 10, 700, 30)}},
		{y: 680, words: []pdf.Text{word("left", 10, 680, 20), word("right", 300, 680, 25)}},
	}
	got := renderLines(lines)
	want := "header\nleft  right"
	if got != want {
		t.Errorf("renderLines = %q, want %q", got, want)
	}
}
