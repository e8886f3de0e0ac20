package rhythm

// BeatKind distinguishes the first sub-beat of a bar from the others.
type BeatKind int

const (
	// BeatKindBeat is any sub-beat but the first of a bar.
	BeatKindBeat BeatKind = iota

	// BeatKindBarStart is the first sub-beat of a bar.
	BeatKindBarStart
)

func (k BeatKind) String() string {
	if k == BeatKindBarStart {
		return "bar-start"
	}
	return "beat"
}

// Beat is a single sub-beat boundary on the timeline.
type Beat struct {
	// TimeMs is the elapsed playback time at which the sub-beat starts.
	TimeMs float64

	// SectionIndex is the section the sub-beat belongs to.
	SectionIndex int

	// BarNumber is the counted bar number, 0 inside a leading precount.
	BarNumber int

	// SubBeat is the 1-based sub-beat within the bar.
	SubBeat int

	// Numerator is the number of sub-beats in the bar.
	Numerator int

	// Counted is false for sub-beats of a precount section.
	Counted bool
}

// Kind reports whether the beat starts a bar.
func (b Beat) Kind() BeatKind {
	if b.SubBeat == 1 {
		return BeatKindBarStart
	}
	return BeatKindBeat
}

// BeatsBetween returns every sub-beat boundary b with fromMs < b <= toMs, in order. Boundaries are only
// reported inside the piece, so the end of the last section never produces a beat.
func BeatsBetween(sections []Section, fromMs, toMs float64) []Beat {
	if len(sections) == 0 || toMs <= fromMs {
		return nil
	}

	var beats []Beat
	starts := sectionStarts(sections)
	counted := 0
	for i, s := range sections {
		if starts[i] > toMs+boundaryEpsilonMs {
			break
		}

		interval := s.BeatDurationMs()
		last := s.BarCount*s.Numerator - 1
		first := 0
		if fromMs+boundaryEpsilonMs >= starts[i] {
			first = markerIndex(fromMs-starts[i], interval) + 1
		}
		end := markerIndex(toMs-starts[i], interval)
		if end > last {
			end = last
		}

		for k := first; k <= end; k++ {
			bar := k / s.Numerator
			b := Beat{
				TimeMs:       starts[i] + float64(k)*interval,
				SectionIndex: i,
				BarNumber:    counted,
				SubBeat:      k%s.Numerator + 1,
				Numerator:    s.Numerator,
				Counted:      !s.ExcludedFromCount,
			}
			if b.Counted {
				b.BarNumber += bar + 1
			}
			beats = append(beats, b)
		}

		if !s.ExcludedFromCount {
			counted += s.BarCount
		}
	}
	return beats
}
