// Package checker annotates translated spreadsheet cells with error, warning and
// terminology hints.
package checker

import (
	"fmt"
	"strings"
)

// Engine runs checks against one dictionary bundle. It holds no per-document
// state, so one Engine may serve concurrent checks on distinct documents.
type Engine struct {
	bundle *Bundle

	// derived from bundle.Terminology
	cleanedSources []string
	termSources    map[string]struct{}
}

// NewEngine prepares an engine for the given bundle. A nil bundle checks nothing.
func NewEngine(bundle *Bundle) *Engine {
	if bundle == nil {
		bundle = &Bundle{}
	}
	e := &Engine{
		bundle:         bundle,
		cleanedSources: make([]string, len(bundle.Terminology)),
		termSources:    make(map[string]struct{}, len(bundle.Terminology)),
	}
	for i, entry := range bundle.Terminology {
		e.cleanedSources[i] = CleanText(entry.Source)
		e.termSources[entry.Source] = struct{}{}
	}
	return e
}

// Report summarises one pass over a document.
type Report struct {
	Sheets        []string `json:"sheets"`
	RowsScanned   int      `json:"rowsScanned"`
	RowsAnnotated int      `json:"rowsAnnotated"`
	Hints         int      `json:"hints"`
}

func (r *Report) add(rowHints int) {
	r.RowsScanned++
	if rowHints > 0 {
		r.RowsAnnotated++
		r.Hints += rowHints
	}
}

// Process validates cfg, selects the sheets and runs the configured mode once.
func (e *Engine) Process(doc Document, cfg Config) (*Report, error) {
	cols, err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	sheets, err := SelectSheets(doc, cfg.CheckAllSheets)
	if err != nil {
		return nil, err
	}

	switch cfg.Mode {
	case ModeCommon:
		return e.CheckCommonErrors(doc, sheets, cols.Input, cols.Output1, cols.Output2)
	case ModeSpec:
		return e.CheckTerminology(doc, sheets, cols.Input, cols.Output1, cfg.IncludeMistranslationHints)
	}
	return nil, configError("unknown mode %q", cfg.Mode)
}

// SelectSheets returns every sheet when all is set, otherwise only the first one.
func SelectSheets(doc Document, all bool) ([]string, error) {
	names := doc.SheetNames()
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedDocument)
	}
	if all {
		return names, nil
	}
	return names[:1], nil
}

// CheckCommonErrors writes error hints into errCol and warning hints into warnCol,
// and highlights confusable characters of the input cell.
func (e *Engine) CheckCommonErrors(doc Document, sheets []string, input, errCol, warnCol Column) (*Report, error) {
	report := &Report{}
	err := e.eachRow(doc, sheets, input, report, func(sh Sheet, row int, text string) (int, error) {
		res := e.CheckCommon(text)

		if err := writeHints(sh, errCol, row, res.Errors); err != nil {
			return 0, err
		}
		if err := writeHints(sh, warnCol, row, res.Warnings); err != nil {
			return 0, err
		}
		if err := growRow(sh, row, EstimateHeight(res.Errors), EstimateHeight(res.Warnings)); err != nil {
			return 0, err
		}

		if len(res.Marked) > 0 {
			if err := sh.SetRuns(input, row, HighlightRunes(text, res.Marked, HighlightStyle)); err != nil {
				return 0, err
			}
		}
		return len(res.Errors) + len(res.Warnings), nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// CheckTerminology writes terminology hints (and optionally mistranslation hints)
// into warnCol.
func (e *Engine) CheckTerminology(doc Document, sheets []string, input, warnCol Column, includeHints bool) (*Report, error) {
	report := &Report{}
	err := e.eachRow(doc, sheets, input, report, func(sh Sheet, row int, text string) (int, error) {
		hints := e.CheckTerms(text, includeHints)

		if err := writeHints(sh, warnCol, row, hints); err != nil {
			return 0, err
		}
		if err := growRow(sh, row, EstimateHeight(hints)); err != nil {
			return 0, err
		}
		return len(hints), nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

type rowFunc func(sh Sheet, row int, text string) (int, error)

// eachRow calls fn for every non-header row whose input cell has text.
func (e *Engine) eachRow(doc Document, sheets []string, input Column, report *Report, fn rowFunc) error {
	for _, name := range sheets {
		sh, err := doc.Sheet(name)
		if err != nil {
			return newSheetError(name, "open", err)
		}
		rows, err := sh.Rows()
		if err != nil {
			return newSheetError(name, "read", err)
		}
		report.Sheets = append(report.Sheets, name)

		idx := int(input) - 1
		for i, cells := range rows {
			if i == 0 {
				continue
			}
			if len(cells) <= idx || cells[idx] == "" {
				continue
			}
			n, err := fn(sh, i+1, cells[idx])
			if err != nil {
				return newSheetError(name, "write", fmt.Errorf("row %d: %w", i+1, err))
			}
			report.add(n)
		}
	}
	return nil
}

func writeHints(sh Sheet, col Column, row int, hints []string) error {
	if err := sh.SetWrappedText(col, row, strings.Join(hints, HintSeparator)); err != nil {
		return err
	}
	return growColumn(sh, col, EstimateWidth(hints))
}

// growColumn never shrinks the column.
func growColumn(sh Sheet, col Column, width float64) error {
	current, err := sh.ColumnWidth(col)
	if err != nil {
		return err
	}
	if width <= current {
		return nil
	}
	return sh.SetColumnWidth(col, width)
}

// growRow never shrinks the row; rows without an explicit height start at 20.
func growRow(sh Sheet, row int, heights ...float64) error {
	current, err := sh.RowHeight(row)
	if err != nil {
		return err
	}
	height := current
	if height <= 0 {
		height = defaultRowHeight
	}
	for _, h := range heights {
		if h > height {
			height = h
		}
	}
	if height == current {
		return nil
	}
	return sh.SetRowHeight(row, height)
}
