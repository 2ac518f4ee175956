package checker

import "fmt"

// MemoryDocument is an in-memory Document, useful for callers that already hold
// cell text and for tests.
type MemoryDocument struct {
	sheets []*MemorySheet
}

// NewMemoryDocument returns an empty document.
func NewMemoryDocument() *MemoryDocument {
	return &MemoryDocument{}
}

// AddSheet appends a sheet holding a copy of rows.
func (d *MemoryDocument) AddSheet(name string, rows [][]string) *MemorySheet {
	sh := &MemorySheet{
		name:    name,
		rows:    copyRows(rows),
		runs:    make(map[cellRef]Runs),
		wrapped: make(map[cellRef]bool),
		widths:  make(map[Column]float64),
		heights: make(map[int]float64),
	}
	d.sheets = append(d.sheets, sh)
	return sh
}

func (d *MemoryDocument) SheetNames() []string {
	names := make([]string, len(d.sheets))
	for i, sh := range d.sheets {
		names[i] = sh.name
	}
	return names
}

func (d *MemoryDocument) Sheet(name string) (Sheet, error) {
	for _, sh := range d.sheets {
		if sh.name == name {
			return sh, nil
		}
	}
	return nil, fmt.Errorf("sheet %q does not exist", name)
}

type cellRef struct {
	col Column
	row int
}

// MemorySheet implements Sheet over a string grid.
type MemorySheet struct {
	name    string
	rows    [][]string
	runs    map[cellRef]Runs
	wrapped map[cellRef]bool
	widths  map[Column]float64
	heights map[int]float64
}

func (s *MemorySheet) Name() string { return s.name }

func (s *MemorySheet) Rows() ([][]string, error) {
	return copyRows(s.rows), nil
}

// Cell returns the text of a cell, or "" when it is absent.
func (s *MemorySheet) Cell(col Column, row int) string {
	if row < 1 || row > len(s.rows) {
		return ""
	}
	cells := s.rows[row-1]
	if int(col) < 1 || int(col) > len(cells) {
		return ""
	}
	return cells[col-1]
}

// CellRuns returns the styled runs written into a cell, if any.
func (s *MemorySheet) CellRuns(col Column, row int) Runs {
	return s.runs[cellRef{col, row}]
}

// IsWrapped reports whether wrap-text was applied to a cell.
func (s *MemorySheet) IsWrapped(col Column, row int) bool {
	return s.wrapped[cellRef{col, row}]
}

func (s *MemorySheet) SetWrappedText(col Column, row int, text string) error {
	if err := s.set(col, row, text); err != nil {
		return err
	}
	s.wrapped[cellRef{col, row}] = true
	delete(s.runs, cellRef{col, row})
	return nil
}

func (s *MemorySheet) SetRuns(col Column, row int, runs Runs) error {
	if err := s.set(col, row, runs.Text()); err != nil {
		return err
	}
	s.runs[cellRef{col, row}] = append(Runs(nil), runs...)
	return nil
}

func (s *MemorySheet) ColumnWidth(col Column) (float64, error) {
	return s.widths[col], nil
}

func (s *MemorySheet) SetColumnWidth(col Column, width float64) error {
	s.widths[col] = width
	return nil
}

func (s *MemorySheet) RowHeight(row int) (float64, error) {
	return s.heights[row], nil
}

func (s *MemorySheet) SetRowHeight(row int, height float64) error {
	s.heights[row] = height
	return nil
}

func (s *MemorySheet) set(col Column, row int, text string) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("invalid cell %s%d", col, row)
	}
	for len(s.rows) < row {
		s.rows = append(s.rows, nil)
	}
	cells := s.rows[row-1]
	for len(cells) < int(col) {
		cells = append(cells, "")
	}
	cells[col-1] = text
	s.rows[row-1] = cells
	return nil
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
