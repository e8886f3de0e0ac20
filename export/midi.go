package export

import (
	"fmt"
	"io"
	"math"

	goerrors "github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/metronizer/rhythm"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	// TicksPerQuarter is the resolution of the click track.
	TicksPerQuarter = 960

	// percussionChannel is the General MIDI drum channel (10, zero based).
	percussionChannel = 9

	// hiWoodBlock and lowWoodBlock are the General MIDI percussion keys of the accent and regular clicks.
	hiWoodBlock  = 76
	lowWoodBlock = 77

	accentVelocity = 127
	beatVelocity   = 90

	// maxDenominator keeps every sub-beat at least two ticks long.
	maxDenominator = TicksPerQuarter * 2

	// maxMeterDenominator is the largest denominator the time signature byte of MetaMeter round trips.
	maxMeterDenominator = 128
)

// UnsupportedMeterError is returned for a section whose signature a standard MIDI file cannot carry.
type UnsupportedMeterError struct {
	Index   int
	Section rhythm.Section
	Reason  string
}

func (e *UnsupportedMeterError) Error() string {
	return fmt.Sprintf("section %d (%s): %s", e.Index+1, e.Section.Signature(), e.Reason)
}

// ClickTrack builds a standard MIDI file with one click per sub-beat of the piece, mirroring its tempo and
// meter changes. Bar starts use the accent key.
//
// Click positions are rounded from the exact position in quarters, so sub-beats that are not a whole
// number of ticks never accumulate drift. The time signature event is only written for power of two
// denominators, the only ones the file format encodes.
func ClickTrack(sections []rhythm.Section) (*smf.SMF, error) {
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	var track smf.Track
	var last uint32
	add := func(at uint32, msg []byte) {
		track.Add(at-last, msg)
		last = at
	}

	quarters := 0.0
	for i, s := range sections {
		if err := checkMeter(i, s); err != nil {
			return nil, err
		}
		// a sub-beat of denominator d lasts 4/d quarters
		beatQuarters := 4 / float64(s.Denominator)

		at := tickAt(quarters)
		if i == 0 || s.BPM != sections[i-1].BPM || s.Denominator != sections[i-1].Denominator {
			add(at, smf.MetaTempo(quarterTempo(s)))
		}
		if isPowerOfTwo(s.Denominator) && (i == 0 || s.Signature() != sections[i-1].Signature()) {
			add(at, smf.MetaMeter(uint8(s.Numerator), uint8(s.Denominator)))
		}

		for bar := 0; bar < s.BarCount; bar++ {
			for sub := 1; sub <= s.Numerator; sub++ {
				key, velocity := uint8(lowWoodBlock), uint8(beatVelocity)
				if sub == 1 {
					key, velocity = hiWoodBlock, accentVelocity
				}
				on := tickAt(quarters)
				off := tickAt(quarters + beatQuarters/2)
				if off <= on {
					off = on + 1
				}
				add(on, midi.NoteOn(percussionChannel, key, velocity))
				add(off, midi.NoteOff(percussionChannel, key))
				quarters += beatQuarters
			}
		}
	}
	end := tickAt(quarters)
	if end < last {
		end = last
	}
	track.Close(end - last)

	if err := sm.Add(track); err != nil {
		return nil, goerrors.WithStackTrace(err)
	}
	return sm, nil
}

// checkMeter rejects signatures the track cannot represent: numerators beyond a byte and sub-beats
// shorter than two ticks.
func checkMeter(index int, s rhythm.Section) error {
	if s.Numerator > math.MaxUint8 {
		return &UnsupportedMeterError{Index: index, Section: s, Reason: "numerator above 255"}
	}
	if s.Denominator > maxDenominator {
		return &UnsupportedMeterError{Index: index, Section: s, Reason: fmt.Sprintf("denominator above %d", maxDenominator)}
	}
	return nil
}

func tickAt(quarters float64) uint32 {
	return uint32(math.Round(quarters * TicksPerQuarter))
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n <= maxMeterDenominator && n&(n-1) == 0
}

// quarterTempo converts a sub-beat tempo to quarter notes per minute.
func quarterTempo(s rhythm.Section) float64 {
	return s.BPM * 4 / float64(s.Denominator)
}

// WriteClickTrack writes the click track of sections to w.
func WriteClickTrack(w io.Writer, sections []rhythm.Section) error {
	sm, err := ClickTrack(sections)
	if err != nil {
		return err
	}
	if _, err := sm.WriteTo(w); err != nil {
		return goerrors.WithStackTrace(err)
	}
	return nil
}

// WriteClickTrackFile writes the click track of sections to path.
func WriteClickTrackFile(path string, sections []rhythm.Section) error {
	sm, err := ClickTrack(sections)
	if err != nil {
		return err
	}
	if err := sm.WriteFile(path); err != nil {
		return goerrors.WithStackTrace(err)
	}
	return nil
}
