package checker

import "strings"

// Document is the spreadsheet abstraction the engine mutates in place.
type Document interface {
	// SheetNames returns sheet names in file order.
	SheetNames() []string
	Sheet(name string) (Sheet, error)
}

// Sheet exposes the cells and layout metadata of one worksheet.
// Rows and columns are 1-based.
type Sheet interface {
	Name() string
	// Rows returns the text of every cell, row by row. Trailing empty cells may be
	// omitted from a row.
	Rows() ([][]string, error)
	// SetWrappedText writes plain text and turns on wrap-text for the cell.
	SetWrappedText(col Column, row int, text string) error
	// SetRuns replaces the cell value with a styled run sequence.
	SetRuns(col Column, row int, runs Runs) error
	ColumnWidth(col Column) (float64, error)
	SetColumnWidth(col Column, width float64) error
	// RowHeight returns 0 when the row has no explicit height.
	RowHeight(row int) (float64, error)
	SetRowHeight(row int, height float64) error
}

// Style is the inline style of a run. Color is an RGB hex string without '#'.
type Style struct {
	Color string
}

// HighlightStyle marks confusable characters.
var HighlightStyle = &Style{Color: "FF0000"}

// Run is a segment of cell text with an optional style.
type Run struct {
	Text  string
	Style *Style
}

// Runs is an ordered styled-run sequence.
type Runs []Run

// Text concatenates the run texts.
func (r Runs) Text() string {
	var sb strings.Builder
	for _, run := range r {
		sb.WriteString(run.Text)
	}
	return sb.String()
}

// HighlightRunes splits text into runs where every occurrence of a marked
// character carries style. Adjacent characters with the same style share a run.
func HighlightRunes(text string, marked map[rune]struct{}, style *Style) Runs {
	var (
		runs    Runs
		sb      strings.Builder
		current *Style
		started bool
	)
	flush := func() {
		if sb.Len() > 0 {
			runs = append(runs, Run{Text: sb.String(), Style: current})
			sb.Reset()
		}
	}
	for _, ch := range text {
		var s *Style
		if _, ok := marked[ch]; ok {
			s = style
		}
		if started && s != current {
			flush()
		}
		current = s
		started = true
		sb.WriteRune(ch)
	}
	flush()
	return runs
}
