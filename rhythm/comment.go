package rhythm

import "strconv"

// CommentToken starts every comment line in a project file.
const CommentToken = "c"

// Comment is a text marker anchored to a counted bar and a sub-beat within it.
type Comment struct {
	// Bar is the 1-based counted bar number. Precount bars are never numbered.
	Bar int

	// SubBeat is the 1-based sub-beat within the bar.
	SubBeat int

	// Message is displayed verbatim and may be empty.
	Message string
}

// NewComment creates a Comment and validates its position.
func NewComment(bar, subBeat int, message string) (Comment, error) {
	c := Comment{Bar: bar, SubBeat: subBeat, Message: message}
	if err := c.Validate(); err != nil {
		return Comment{}, err
	}
	return c, nil
}

// DefaultComment returns the comment used when authoring a new marker.
func DefaultComment() Comment {
	return Comment{Bar: 2, SubBeat: 1}
}

// Validate reports every field that breaks the comment invariants.
func (c Comment) Validate() error {
	var fields []string
	if c.Bar < 1 {
		fields = append(fields, "bar")
	}
	if c.SubBeat < 1 {
		fields = append(fields, "subBeat")
	}
	if len(fields) > 0 {
		return &InvalidCommentError{Fields: fields, Comment: c}
	}
	return nil
}

// String serializes the comment as a project line: "c <bar> <subBeat> <message>".
func (c Comment) String() string {
	return CommentToken + " " + strconv.Itoa(c.Bar) + " " + strconv.Itoa(c.SubBeat) + " " + c.Message
}
