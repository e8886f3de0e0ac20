package rhythm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIndexOutOfRange is returned by timeline mutations addressing a missing section or comment.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrPrecountNotFirst is returned when the precount flag is set on any section but the first.
	ErrPrecountNotFirst = errors.New("only the first section can be excluded from the bar count")
)

// InvalidSectionError lists the section fields that failed validation.
type InvalidSectionError struct {
	Fields  []string
	Section Section
}

func (e *InvalidSectionError) Error() string {
	return fmt.Sprintf("invalid section: bad %s", strings.Join(e.Fields, ", "))
}

// InvalidCommentError lists the comment fields that failed validation.
type InvalidCommentError struct {
	Fields  []string
	Comment Comment
}

func (e *InvalidCommentError) Error() string {
	return fmt.Sprintf("invalid comment: bad %s", strings.Join(e.Fields, ", "))
}
