package workorder

import (
	"errors"
	"fmt"
)

// FormatError reports malformed upstream data. It fails the whole file.
type FormatError struct {
	Row    int
	Column int
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := e.Reason
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.Column >= 0 && e.Field != "" {
		msg = fmt.Sprintf("column %d %s", e.Column, msg)
	}
	if e.Row > 0 {
		msg = fmt.Sprintf("row %d %s", e.Row, msg)
	}
	if e.Value != "" {
		msg = fmt.Sprintf("%s (value %q)", msg, e.Value)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return "format error: " + msg
}

func (e *FormatError) Unwrap() error { return e.Err }

func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// at fills in the location of a FormatError raised by a cell-level helper.
func at(err error, row, column int, field string) error {
	var fe *FormatError
	if !errors.As(err, &fe) {
		return &FormatError{Row: row, Column: column, Field: field, Reason: "invalid value", Err: err}
	}
	located := *fe
	located.Row = row
	located.Column = column
	located.Field = field
	return &located
}
