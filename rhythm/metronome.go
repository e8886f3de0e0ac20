package rhythm

import "math"

// boundaryEpsilonMs absorbs float rounding when a time is computed as start + k*interval, so that an exact
// boundary always resolves to the interval that begins there.
const boundaryEpsilonMs = 1e-6

// beatsToMilliseconds calculates milliseconds for given beats and tempo
func beatsToMilliseconds(beats int, tempo float64) float64 {
	return (60000.0 / tempo) * float64(beats)
}

// markerIndex returns the 0-based index of the interval containing elapsed. Intervals are half-open, so a
// time exactly on a boundary belongs to the later interval.
func markerIndex(elapsed, interval float64) int {
	return int(math.Floor(elapsed/interval + boundaryEpsilonMs/interval))
}

// markerPhase calculates the fractional position of elapsed within its interval.
func markerPhase(elapsed, interval float64) float64 {
	ratio := elapsed / interval
	return ratio - math.Floor(ratio)
}

// sectionStarts returns the cumulative start time of every section followed by the total duration.
func sectionStarts(sections []Section) []float64 {
	starts := make([]float64, len(sections)+1)
	for i, s := range sections {
		starts[i+1] = starts[i] + s.TotalDurationMs()
	}
	return starts
}

func isInf(f float64) bool {
	return math.IsInf(f, 0) || math.IsNaN(f)
}
