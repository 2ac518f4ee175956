package xlsxdoc

import (
	"github.com/locvowork/transtool/pkg/checker"
	"github.com/xuri/excelize/v2"
)

// Sheet implements checker.Sheet for one worksheet of a Document.
type Sheet struct {
	doc  *Document
	name string
}

func (s *Sheet) Name() string { return s.name }

// Rows returns raw cell values so numbers are not reformatted.
func (s *Sheet) Rows() ([][]string, error) {
	return s.doc.file.GetRows(s.name, excelize.Options{RawCellValue: true})
}

func (s *Sheet) SetWrappedText(col checker.Column, row int, text string) error {
	cell, err := excelize.CoordinatesToCellName(int(col), row)
	if err != nil {
		return err
	}
	f := s.doc.file
	if err := f.SetCellStr(s.name, cell, text); err != nil {
		return err
	}
	base, err := f.GetCellStyle(s.name, cell)
	if err != nil {
		return err
	}
	styleID, err := s.doc.wrapStyle(base)
	if err != nil {
		return err
	}
	return f.SetCellStyle(s.name, cell, cell, styleID)
}

func (s *Sheet) SetRuns(col checker.Column, row int, runs checker.Runs) error {
	cell, err := excelize.CoordinatesToCellName(int(col), row)
	if err != nil {
		return err
	}
	return s.doc.file.SetCellRichText(s.name, cell, RenderRuns(runs))
}

func (s *Sheet) ColumnWidth(col checker.Column) (float64, error) {
	name, err := excelize.ColumnNumberToName(int(col))
	if err != nil {
		return 0, err
	}
	return s.doc.file.GetColWidth(s.name, name)
}

// SetColumnWidth clamps to the largest width Excel accepts.
func (s *Sheet) SetColumnWidth(col checker.Column, width float64) error {
	name, err := excelize.ColumnNumberToName(int(col))
	if err != nil {
		return err
	}
	if width > excelize.MaxColumnWidth {
		width = excelize.MaxColumnWidth
	}
	return s.doc.file.SetColWidth(s.name, name, name, width)
}

func (s *Sheet) RowHeight(row int) (float64, error) {
	h, err := s.doc.file.GetRowHeight(s.name, row)
	if err != nil {
		return 0, err
	}
	if h == defaultRowHeight {
		return 0, nil
	}
	return h, nil
}

// SetRowHeight clamps to the largest height Excel accepts.
func (s *Sheet) SetRowHeight(row int, height float64) error {
	if height > excelize.MaxRowHeight {
		height = excelize.MaxRowHeight
	}
	return s.doc.file.SetRowHeight(s.name, row, height)
}

// RenderRuns converts a styled-run sequence to excelize rich text. Unstyled runs
// carry no font so they inherit the cell style.
func RenderRuns(runs checker.Runs) []excelize.RichTextRun {
	out := make([]excelize.RichTextRun, 0, len(runs))
	for _, run := range runs {
		rt := excelize.RichTextRun{Text: run.Text}
		if run.Style != nil {
			rt.Font = &excelize.Font{Color: run.Style.Color}
		}
		out = append(out, rt)
	}
	return out
}
