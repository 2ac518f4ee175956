package checker

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration indicates an unknown mode or a missing/out-of-range column.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ErrMalformedDocument indicates a selected sheet is missing or cannot be read.
var ErrMalformedDocument = errors.New("malformed document")

// SheetError reports a failure while processing a single sheet.
type SheetError struct {
	Sheet string
	Op    string // "open", "read", "write"
	Err   error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q (%s): %v", e.Sheet, e.Op, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

// Is reports open/read failures as ErrMalformedDocument.
func (e *SheetError) Is(target error) bool {
	return target == ErrMalformedDocument && e.Op != "write"
}

func newSheetError(sheet, op string, err error) *SheetError {
	return &SheetError{Sheet: sheet, Op: op, Err: err}
}

func configError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
