package rhythm

import "fmt"

// Status describes where an elapsed time falls relative to the piece.
type Status int

const (
	// StatusBeforeStart is any time before the first section begins.
	StatusBeforeStart Status = iota

	// StatusInSection is any time inside a section.
	StatusInSection

	// StatusEnded is any time at or after the end of the last section.
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusBeforeStart:
		return "before-start"
	case StatusInSection:
		return "in-section"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Position is the musical position resolved for one elapsed playback time.
//
// Outside of the piece (before start or after the end) the position reports the first section, a SubBeat of
// 0 and the bar count reached so far, so renderers can show a distinct bar-start or END state.
type Position struct {
	// ElapsedMs is the playback time the position was resolved for.
	ElapsedMs float64

	// Status tells whether the time lies before, inside or after the piece.
	Status Status

	// SectionIndex is the index of the current section in the ordered sequence.
	SectionIndex int

	// Section is a copy of the current section.
	Section Section

	// SectionStartMs is the cumulative start time of the current section.
	SectionStartMs float64

	// BarNumber is the counted bar number. Precount bars never advance it, so it reads 0 during a leading
	// precount and 1 on the first counted bar.
	BarNumber int

	// BarInSection is the 0-based bar index inside the current section.
	BarInSection int

	// BeatInSection is the 0-based sub-beat index inside the current section.
	BeatInSection int

	// SubBeat cycles 1..Numerator inside a bar. It is 0 when no beat is resolved.
	SubBeat int

	// TimeIntoSection is the time elapsed since the current section started.
	TimeIntoSection float64
}

// HasBeat reports whether a sub-beat is resolved at this position.
func (p Position) HasBeat() bool {
	return p.Status == StatusInSection && p.SubBeat > 0
}

// IsDownBeat checks whether the position lies on the first sub-beat of its bar.
func (p Position) IsDownBeat() bool {
	return p.SubBeat == 1
}

// IsCounted reports whether the current bar takes part in the bar numbering.
func (p Position) IsCounted() bool {
	return p.HasBeat() && !p.Section.ExcludedFromCount
}

// Progress returns the number of sub-beats elapsed since the section started, including the fraction of
// the current one. It drives the ball oscillation.
func (p Position) Progress() float64 {
	if p.Status != StatusInSection {
		return 0
	}
	return (p.TimeIntoSection / p.Section.BarDurationMs()) * float64(p.Section.Numerator)
}

// BeatPhase gets the fractional position within the current sub-beat.
func (p Position) BeatPhase() float64 {
	if p.Status != StatusInSection {
		return 0
	}
	return markerPhase(p.TimeIntoSection, p.Section.BeatDurationMs())
}

// Marker returns the position as "bar.subBeat".
func (p Position) Marker() string {
	return fmt.Sprintf("%d.%d", p.BarNumber, p.SubBeat)
}
