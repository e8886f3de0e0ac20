package rhythm

// TotalDuration returns the summed duration of every section in milliseconds. An empty sequence lasts 0 ms.
func TotalDuration(sections []Section) float64 {
	total := 0.0
	for _, s := range sections {
		total += s.TotalDurationMs()
	}
	return total
}

// CountedBars returns the number of numbered bars, i.e. the bars of every section that is not a precount.
func CountedBars(sections []Section) int {
	count := 0
	for _, s := range sections {
		if !s.ExcludedFromCount {
			count += s.BarCount
		}
	}
	return count
}

// Locate resolves an elapsed playback time to a musical position. It returns false when there are no
// sections to resolve against.
//
// Every bar and section covers the half-open interval [start, start+duration), so a time exactly on a
// boundary belongs to the bar or section that begins there.
func Locate(sections []Section, elapsedMs float64) (Position, bool) {
	if len(sections) == 0 {
		return Position{ElapsedMs: elapsedMs}, false
	}
	return locate(sections, sectionStarts(sections), elapsedMs), true
}

func locate(sections []Section, starts []float64, elapsedMs float64) Position {
	pos := Position{
		ElapsedMs:       elapsedMs,
		Section:         sections[0],
		TimeIntoSection: elapsedMs,
	}

	total := starts[len(sections)]
	if elapsedMs+boundaryEpsilonMs < 0 {
		pos.Status = StatusBeforeStart
		return pos
	}
	if elapsedMs+boundaryEpsilonMs >= total {
		pos.Status = StatusEnded
		pos.BarNumber = CountedBars(sections)
		return pos
	}

	counted := 0
	for i, s := range sections {
		if elapsedMs+boundaryEpsilonMs >= starts[i+1] {
			if !s.ExcludedFromCount {
				counted += s.BarCount
			}
			continue
		}

		into := elapsedMs - starts[i]
		beat := clampInt(markerIndex(into, s.BeatDurationMs()), 0, s.BarCount*s.Numerator-1)
		bar := beat / s.Numerator

		pos.Status = StatusInSection
		pos.SectionIndex = i
		pos.Section = s
		pos.SectionStartMs = starts[i]
		pos.TimeIntoSection = into
		pos.BarInSection = bar
		pos.BeatInSection = beat
		pos.SubBeat = beat%s.Numerator + 1
		pos.BarNumber = counted
		if !s.ExcludedFromCount {
			pos.BarNumber += bar + 1
		}
		return pos
	}

	// unreachable for well-formed sections: elapsed is below the total so some section contains it
	pos.Status = StatusEnded
	pos.BarNumber = counted
	return pos
}

// TimeOfBar returns the start time of a counted bar, skipping precount sections exactly as Locate does.
// It returns false when the bar number is outside 1..CountedBars.
func TimeOfBar(sections []Section, barNumber int) (float64, bool) {
	_, start, ok := barLocation(sections, barNumber)
	return start, ok
}

// TimeOfPosition returns the time of a sub-beat within a counted bar. Sub-beats past the bar's numerator are
// clamped to its last sub-beat.
func TimeOfPosition(sections []Section, barNumber, subBeat int) (float64, bool) {
	idx, start, ok := barLocation(sections, barNumber)
	if !ok {
		return 0, false
	}
	s := sections[idx]
	offset := clampInt(subBeat-1, 0, s.Numerator-1)
	return start + float64(offset)*s.BeatDurationMs(), true
}

// barLocation finds the section holding a counted bar and the bar's start time.
func barLocation(sections []Section, barNumber int) (int, float64, bool) {
	if barNumber < 1 {
		return 0, 0, false
	}

	counted := 0
	start := 0.0
	for i, s := range sections {
		if s.ExcludedFromCount {
			start += s.TotalDurationMs()
			continue
		}
		if counted+s.BarCount >= barNumber {
			beat := (barNumber - counted - 1) * s.Numerator
			return i, start + float64(beat)*s.BeatDurationMs(), true
		}
		counted += s.BarCount
		start += s.TotalDurationMs()
	}
	return 0, 0, false
}

// BarStartTimes lists the start of every bar, precount bars included, followed by the end of the piece.
func BarStartTimes(sections []Section) []float64 {
	times := make([]float64, 0, 1)
	starts := sectionStarts(sections)
	for i, s := range sections {
		for bar := 0; bar < s.BarCount; bar++ {
			times = append(times, starts[i]+float64(bar*s.Numerator)*s.BeatDurationMs())
		}
	}
	return append(times, starts[len(sections)])
}

// TimeToEnd returns how long ago the final sub-beat of the piece started. It is negative while that beat is
// still ahead and 0 for an empty sequence.
func TimeToEnd(sections []Section, elapsedMs float64) float64 {
	if len(sections) == 0 {
		return 0
	}
	last := sections[len(sections)-1]
	return elapsedMs - (TotalDuration(sections) - last.BeatDurationMs())
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
