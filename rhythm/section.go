package rhythm

import (
	"fmt"
	"strconv"
	"strings"
)

// PrecountToken marks a section line as excluded from the bar count.
const PrecountToken = "x"

// Section is a run of bars sharing one tempo and time signature.
type Section struct {
	// BarCount is the number of bars in the section.
	BarCount int

	// BPM is the tempo in beats per minute. Fractional tempos are allowed.
	BPM float64

	// Numerator is the number of sub-beats in one bar.
	Numerator int

	// Denominator is carried for display and serialization only. It does not affect timing.
	Denominator int

	// ExcludedFromCount marks a precount section. Its bars consume playback time but are never numbered.
	ExcludedFromCount bool
}

// NewSection creates a Section and validates every numeric field.
func NewSection(barCount int, bpm float64, numerator, denominator int, excluded bool) (Section, error) {
	s := Section{
		BarCount:          barCount,
		BPM:               bpm,
		Numerator:         numerator,
		Denominator:       denominator,
		ExcludedFromCount: excluded,
	}
	if err := s.Validate(); err != nil {
		return Section{}, err
	}
	return s, nil
}

// DefaultSection returns the section used when authoring starts from nothing: 1 bar at 60 BPM in 4/4.
func DefaultSection() Section {
	return Section{BarCount: 1, BPM: 60, Numerator: 4, Denominator: 4}
}

// Validate reports every field that breaks the section invariants.
func (s Section) Validate() error {
	var fields []string
	if s.BarCount < 1 {
		fields = append(fields, "barCount")
	}
	if !(s.BPM > 0) || isInf(s.BPM) {
		fields = append(fields, "bpm")
	}
	if s.Numerator < 1 {
		fields = append(fields, "timeSignatureNumerator")
	}
	if s.Denominator < 1 {
		fields = append(fields, "timeSignatureDenominator")
	}
	if len(fields) > 0 {
		return &InvalidSectionError{Fields: fields, Section: s}
	}
	return nil
}

// BeatDurationMs returns the length of one sub-beat in milliseconds.
func (s Section) BeatDurationMs() float64 {
	return beatsToMilliseconds(1, s.BPM)
}

// BarDurationMs returns the length of one bar, i.e. Numerator sub-beats, in milliseconds.
func (s Section) BarDurationMs() float64 {
	return (60.0 / s.BPM) * float64(s.Numerator) * 1000.0
}

// TotalDurationMs returns the length of the whole section in milliseconds.
func (s Section) TotalDurationMs() float64 {
	return float64(s.BarCount) * s.BarDurationMs()
}

// Signature returns the time signature as "numerator/denominator".
func (s Section) Signature() string {
	return fmt.Sprintf("%d/%d", s.Numerator, s.Denominator)
}

// String serializes the section as a project line: "<bars> <bpm> <num>/<den> [x]".
func (s Section) String() string {
	line := strconv.Itoa(s.BarCount) + " " + FormatBPM(s.BPM) + " " + s.Signature()
	if s.ExcludedFromCount {
		line += " " + PrecountToken
	}
	return line
}

// FormatBPM renders a tempo with the fewest digits that parse back to the same value.
func FormatBPM(bpm float64) string {
	return strconv.FormatFloat(bpm, 'f', -1, 64)
}

// ParseSignature splits a "numerator/denominator" string. Both parts must be positive integers.
func ParseSignature(sig string) (numerator, denominator int, err error) {
	parts := strings.Split(sig, "/")
	if len(parts) != 2 {
		return 0, 0, &InvalidSectionError{Fields: []string{"timeSignature"}}
	}

	var fields []string
	numerator, err = strconv.Atoi(parts[0])
	if err != nil || numerator < 1 {
		fields = append(fields, "timeSignatureNumerator")
	}
	denominator, err = strconv.Atoi(parts[1])
	if err != nil || denominator < 1 {
		fields = append(fields, "timeSignatureDenominator")
	}
	if len(fields) > 0 {
		return 0, 0, &InvalidSectionError{Fields: fields}
	}
	return numerator, denominator, nil
}
