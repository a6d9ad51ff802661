package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("parse error")
	// ErrUnknownColumn indicates a column name absent from the header.
	ErrUnknownColumn = errors.New("unknown column")
)

// ParseError indicates text that could not be tokenized into a table.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrParse) match any ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

func unknownColumn(ds *Dataset, name string) error {
	return fmt.Errorf("%w %q (available: %s)", ErrUnknownColumn, name, strings.Join(ds.Columns, ", "))
}
