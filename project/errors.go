package project

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errFieldCount       = errors.New("unexpected number of fields")
	errPrecountToken    = errors.New("trailing token must be \"x\"")
	errSettingsNotFirst = errors.New("settings must be the first line")
)

// ParseError identifies a project line that could not be parsed and the field that failed.
type ParseError struct {
	// Line is the 1-based line number in the input.
	Line int

	// Field names the offending field, e.g. "bpm" or "settings".
	Field string

	// Text is the raw line.
	Text string

	Err error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("line %d: bad %s", e.Line, e.Field)
	}
	return fmt.Sprintf("line %d: bad %s: %v", e.Line, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseErrors collects every line skipped while parsing a project.
type ParseErrors []*ParseError

func (e ParseErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d malformed project line(s): %s", len(e), strings.Join(msgs, "; "))
}
