package rhythm

import (
	"golang.org/x/exp/slices"
)

// Timeline owns the ordered sections and comments of one project. Mutations keep the precount flag on the
// first section only and notify change listeners, which reset any transport built on top of it.
//
// A Timeline is driven from a single tick loop and is not safe for concurrent use.
type Timeline struct {
	sections []Section
	comments []Comment

	// cumulative section starts, rebuilt lazily after every mutation
	starts []float64

	version   uint64
	listeners []func()
}

// NewTimeline validates the given sections and comments and builds a Timeline over copies of them. The
// precount flag is cleared on every section but the first.
func NewTimeline(sections []Section, comments []Comment) (*Timeline, error) {
	t := &Timeline{}
	if err := t.set(sections, comments); err != nil {
		return nil, err
	}
	return t, nil
}

// OnChange registers a listener called after every mutation.
func (t *Timeline) OnChange(fn func()) {
	t.listeners = append(t.listeners, fn)
}

// Version increments on every mutation.
func (t *Timeline) Version() uint64 {
	return t.version
}

// Sections returns a copy of the ordered sections.
func (t *Timeline) Sections() []Section {
	return slices.Clone(t.sections)
}

// Comments returns a copy of the ordered comments.
func (t *Timeline) Comments() []Comment {
	return slices.Clone(t.comments)
}

// Section returns the section at index i.
func (t *Timeline) Section(i int) (Section, bool) {
	if i < 0 || i >= len(t.sections) {
		return Section{}, false
	}
	return t.sections[i], true
}

// Len returns the number of sections.
func (t *Timeline) Len() int {
	return len(t.sections)
}

// Replace swaps the whole content of the timeline, e.g. after loading a project file.
func (t *Timeline) Replace(sections []Section, comments []Comment) error {
	if err := t.set(sections, comments); err != nil {
		return err
	}
	t.changed()
	return nil
}

func (t *Timeline) set(sections []Section, comments []Comment) error {
	for _, s := range sections {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	for _, c := range comments {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	t.sections = slices.Clone(sections)
	t.comments = slices.Clone(comments)
	t.normalizePrecount()
	t.starts = nil
	return nil
}

// AddSection appends a section. Only an empty timeline accepts a precount section.
func (t *Timeline) AddSection(s Section) error {
	return t.InsertSection(len(t.sections), s)
}

// AddSectionFromLast appends a copy of the last section's bars, tempo and signature, or the default section
// when the timeline is empty. The copy is never a precount.
func (t *Timeline) AddSectionFromLast() Section {
	s := DefaultSection()
	if n := len(t.sections); n > 0 {
		s = t.sections[n-1]
		s.ExcludedFromCount = false
	}
	t.sections = append(t.sections, s)
	t.changed()
	return s
}

// InsertSection inserts a section at index i. Inserting at 0 moves any existing precount away from the
// front, which clears its flag.
func (t *Timeline) InsertSection(i int, s Section) error {
	if i < 0 || i > len(t.sections) {
		return ErrIndexOutOfRange
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if s.ExcludedFromCount && i > 0 {
		return ErrPrecountNotFirst
	}
	t.sections = slices.Insert(t.sections, i, s)
	t.normalizePrecount()
	t.changed()
	return nil
}

// UpdateSection replaces the section at index i in place.
func (t *Timeline) UpdateSection(i int, s Section) error {
	if i < 0 || i >= len(t.sections) {
		return ErrIndexOutOfRange
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if s.ExcludedFromCount && i > 0 {
		return ErrPrecountNotFirst
	}
	t.sections[i] = s
	t.changed()
	return nil
}

// RemoveSection deletes the section at index i.
func (t *Timeline) RemoveSection(i int) error {
	if i < 0 || i >= len(t.sections) {
		return ErrIndexOutOfRange
	}
	t.sections = slices.Delete(t.sections, i, i+1)
	t.changed()
	return nil
}

// MoveSection moves the section at index from to index to. Any section that ends up past index 0 loses
// its precount flag.
func (t *Timeline) MoveSection(from, to int) error {
	if err := moveItem(t.sections, from, to); err != nil {
		return err
	}
	t.normalizePrecount()
	t.changed()
	return nil
}

// SetExcludedFromCount toggles the precount flag. Only the first section accepts it.
func (t *Timeline) SetExcludedFromCount(i int, excluded bool) error {
	if i < 0 || i >= len(t.sections) {
		return ErrIndexOutOfRange
	}
	if excluded && i != 0 {
		return ErrPrecountNotFirst
	}
	t.sections[i].ExcludedFromCount = excluded
	t.changed()
	return nil
}

// AddComment appends a comment.
func (t *Timeline) AddComment(c Comment) error {
	if err := c.Validate(); err != nil {
		return err
	}
	t.comments = append(t.comments, c)
	t.changed()
	return nil
}

// UpdateComment replaces the comment at index i in place.
func (t *Timeline) UpdateComment(i int, c Comment) error {
	if i < 0 || i >= len(t.comments) {
		return ErrIndexOutOfRange
	}
	if err := c.Validate(); err != nil {
		return err
	}
	t.comments[i] = c
	t.changed()
	return nil
}

// RemoveComment deletes the comment at index i.
func (t *Timeline) RemoveComment(i int) error {
	if i < 0 || i >= len(t.comments) {
		return ErrIndexOutOfRange
	}
	t.comments = slices.Delete(t.comments, i, i+1)
	t.changed()
	return nil
}

// MoveComment changes the display order of comments. Positions are untouched.
func (t *Timeline) MoveComment(from, to int) error {
	if err := moveItem(t.comments, from, to); err != nil {
		return err
	}
	t.changed()
	return nil
}

// TotalDuration returns the total duration of the timeline in milliseconds.
func (t *Timeline) TotalDuration() float64 {
	starts := t.sectionStarts()
	return starts[len(starts)-1]
}

// CountedBars returns the number of numbered bars.
func (t *Timeline) CountedBars() int {
	return CountedBars(t.sections)
}

// Locate resolves an elapsed time against the timeline. See Locate.
func (t *Timeline) Locate(elapsedMs float64) (Position, bool) {
	if len(t.sections) == 0 {
		return Position{ElapsedMs: elapsedMs}, false
	}
	return locate(t.sections, t.sectionStarts(), elapsedMs), true
}

// TimeOfBar returns the start of a counted bar. See TimeOfBar.
func (t *Timeline) TimeOfBar(barNumber int) (float64, bool) {
	return TimeOfBar(t.sections, barNumber)
}

func (t *Timeline) sectionStarts() []float64 {
	if t.starts == nil {
		t.starts = sectionStarts(t.sections)
	}
	return t.starts
}

func (t *Timeline) normalizePrecount() {
	for i := 1; i < len(t.sections); i++ {
		t.sections[i].ExcludedFromCount = false
	}
}

func (t *Timeline) changed() {
	t.starts = nil
	t.version++
	for _, fn := range t.listeners {
		fn()
	}
}

func moveItem[T any](items []T, from, to int) error {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return ErrIndexOutOfRange
	}
	if from == to {
		return nil
	}
	moved := items[from]
	if from < to {
		copy(items[from:to], items[from+1:to+1])
	} else {
		copy(items[to+1:from+1], items[to:from])
	}
	items[to] = moved
	return nil
}
