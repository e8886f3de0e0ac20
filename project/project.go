package project

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/robmorgan/metronizer/rhythm"
)

const (
	// SettingsToken starts the optional settings line.
	SettingsToken = "settings"

	// CRLF is the line separator written by default.
	CRLF = "\r\n"

	// LF is the bare newline separator, also accepted on input.
	LF = "\n"
)

// Example is the project loaded when nothing else is given.
const Example = "1 110 4/4 x\r\n2 120 4/4\r\n3 130 4/4\r\n4 140 3/4\r\nc 1 1 Test comment"

// Project is the parsed content of a project file.
type Project struct {
	Sections []rhythm.Section
	Comments []rhythm.Comment

	// Settings is the raw JSON object of the settings line, nil when there is none. It is passed through
	// untouched so unknown keys survive a load and save.
	Settings json.RawMessage
}

// Timeline builds a Timeline over the project's sections and comments.
func (p Project) Timeline() (*rhythm.Timeline, error) {
	return rhythm.NewTimeline(p.Sections, p.Comments)
}

// FromTimeline captures the current content of a timeline, keeping the given settings.
func FromTimeline(tl *rhythm.Timeline, settings json.RawMessage) Project {
	return Project{Sections: tl.Sections(), Comments: tl.Comments(), Settings: settings}
}

// Parse reads a project from its text form. Parsing is best effort: malformed lines are skipped and
// reported together as ParseErrors next to whatever could be read. Both CRLF and LF line endings are
// accepted and blank lines are ignored.
func Parse(input string) (Project, error) {
	var p Project
	var errs ParseErrors
	seenContent := false

	for i, line := range strings.Split(input, LF) {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lineNo := i + 1

		switch firstToken(line) {
		case SettingsToken:
			if seenContent || p.Settings != nil {
				errs = append(errs, &ParseError{Line: lineNo, Field: "settings", Text: line, Err: errSettingsNotFirst})
				break
			}
			raw, err := parseSettings(line)
			if err != nil {
				errs = append(errs, &ParseError{Line: lineNo, Field: "settings", Text: line, Err: err})
				break
			}
			p.Settings = raw
		case rhythm.CommentToken:
			c, perr := parseComment(line)
			if perr != nil {
				perr.Line, perr.Text = lineNo, line
				errs = append(errs, perr)
				break
			}
			p.Comments = append(p.Comments, c)
		default:
			s, perr := parseSection(line)
			if perr != nil {
				perr.Line, perr.Text = lineNo, line
				errs = append(errs, perr)
				break
			}
			p.Sections = append(p.Sections, s)
		}
		seenContent = true
	}

	if len(errs) > 0 {
		return p, errs
	}
	return p, nil
}

// Format writes a project in its text form with CRLF line endings: the settings line first, then every
// section, then every comment.
func Format(p Project) string {
	return FormatWith(p, CRLF)
}

// FormatWith writes a project like Format but joins lines with sep.
func FormatWith(p Project, sep string) string {
	lines := make([]string, 0, len(p.Sections)+len(p.Comments)+1)
	if len(p.Settings) > 0 {
		lines = append(lines, SettingsToken+" "+string(p.Settings))
	}
	for _, s := range p.Sections {
		lines = append(lines, s.String())
	}
	for _, c := range p.Comments {
		lines = append(lines, c.String())
	}
	return strings.Join(lines, sep)
}

func firstToken(line string) string {
	if i := strings.IndexByte(line, ' '); i >= 0 {
		return line[:i]
	}
	return line
}

func parseSettings(line string) (json.RawMessage, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(line, SettingsToken))
	var probe map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// parseSection reads "<bars> <bpm> <num>/<den> [x]".
func parseSection(line string) (rhythm.Section, *ParseError) {
	fields := strings.Fields(line)
	if len(fields) < 3 || len(fields) > 4 {
		return rhythm.Section{}, &ParseError{Field: "section", Err: errFieldCount}
	}

	bars, err := strconv.Atoi(fields[0])
	if err != nil {
		return rhythm.Section{}, &ParseError{Field: "barCount", Err: err}
	}
	bpm, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return rhythm.Section{}, &ParseError{Field: "bpm", Err: err}
	}
	num, den, err := rhythm.ParseSignature(fields[2])
	if err != nil {
		return rhythm.Section{}, &ParseError{Field: "timeSignature", Err: err}
	}
	excluded := false
	if len(fields) == 4 {
		if fields[3] != rhythm.PrecountToken {
			return rhythm.Section{}, &ParseError{Field: "excludedFromCount", Err: errPrecountToken}
		}
		excluded = true
	}

	s, err := rhythm.NewSection(bars, bpm, num, den, excluded)
	if err != nil {
		return rhythm.Section{}, &ParseError{Field: invalidField(err), Err: err}
	}
	return s, nil
}

// parseComment reads "c <bar> <subBeat> <message>". The message is everything after the third space and
// is kept verbatim.
func parseComment(line string) (rhythm.Comment, *ParseError) {
	parts := strings.SplitN(line, " ", 4)
	if len(parts) < 3 {
		return rhythm.Comment{}, &ParseError{Field: "comment", Err: errFieldCount}
	}

	bar, err := strconv.Atoi(parts[1])
	if err != nil {
		return rhythm.Comment{}, &ParseError{Field: "bar", Err: err}
	}
	sub, err := strconv.Atoi(parts[2])
	if err != nil {
		return rhythm.Comment{}, &ParseError{Field: "subBeat", Err: err}
	}
	message := ""
	if len(parts) == 4 {
		message = parts[3]
	}

	c, err := rhythm.NewComment(bar, sub, message)
	if err != nil {
		return rhythm.Comment{}, &ParseError{Field: invalidField(err), Err: err}
	}
	return c, nil
}

func invalidField(err error) string {
	switch e := err.(type) {
	case *rhythm.InvalidSectionError:
		return strings.Join(e.Fields, ",")
	case *rhythm.InvalidCommentError:
		return strings.Join(e.Fields, ",")
	default:
		return "value"
	}
}
