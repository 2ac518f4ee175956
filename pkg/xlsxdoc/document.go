// Package xlsxdoc adapts excelize workbooks to the checker Document interface.
package xlsxdoc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/locvowork/transtool/pkg/checker"
	"github.com/xuri/excelize/v2"
)

// excelize reports this height for rows without an explicit height.
const defaultRowHeight = 15

// Document wraps an *excelize.File. It is not safe for concurrent use.
type Document struct {
	file *excelize.File

	// wrapStyles maps a cell's base style ID to the same style with wrap text on.
	wrapStyles map[int]int
}

// New wraps an already opened workbook.
func New(f *excelize.File) *Document {
	return &Document{
		file:       f,
		wrapStyles: make(map[int]int),
	}
}

// Open reads a workbook from r.
func Open(r io.Reader) (*Document, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return New(f), nil
}

// OpenFile reads a workbook from disk.
func OpenFile(path string) (*Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return New(f), nil
}

// File exposes the underlying workbook.
func (d *Document) File() *excelize.File {
	return d.file
}

func (d *Document) SheetNames() []string {
	return d.file.GetSheetList()
}

func (d *Document) Sheet(name string) (checker.Sheet, error) {
	idx, err := d.file.GetSheetIndex(name)
	if err != nil {
		return nil, err
	}
	if idx == -1 {
		return nil, fmt.Errorf("sheet %q does not exist", name)
	}
	return &Sheet{doc: d, name: name}, nil
}

// ToBytes serialises the workbook.
func (d *Document) ToBytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	if _, err := d.file.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToWriter writes the workbook to w.
func (d *Document) ToWriter(w io.Writer) error {
	return d.file.Write(w)
}

// SaveAs writes the workbook to path.
func (d *Document) SaveAs(path string) error {
	return d.file.SaveAs(path)
}

func (d *Document) Close() error {
	return d.file.Close()
}

// wrapStyle returns a style equal to base with wrap text enabled, so fonts,
// fills and borders already on the cell survive.
func (d *Document) wrapStyle(base int) (int, error) {
	if id, ok := d.wrapStyles[base]; ok {
		return id, nil
	}

	style := &excelize.Style{}
	if base != 0 {
		existing, err := d.file.GetStyle(base)
		if err != nil {
			return 0, fmt.Errorf("read style %d: %w", base, err)
		}
		style = existing
	}
	if style.Alignment == nil {
		style.Alignment = &excelize.Alignment{}
	} else {
		alignment := *style.Alignment
		style.Alignment = &alignment
	}
	style.Alignment.WrapText = true

	id, err := d.file.NewStyle(style)
	if err != nil {
		return 0, err
	}
	d.wrapStyles[base] = id
	return id, nil
}
