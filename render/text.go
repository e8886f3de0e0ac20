package render

import (
	"fmt"
	"math"

	"github.com/robmorgan/metronizer/rhythm"
)

// FormatTime renders milliseconds as MM:SS.cc. Minutes wrap every hour and negative times read as zero.
func FormatTime(ms float64) string {
	if ms < 0 || math.IsNaN(ms) {
		ms = 0
	}
	total := int64(ms)
	mm := (total % 3600000) / 60000
	ss := (total % 60000) / 1000
	cc := (total % 1000) / 10
	return fmt.Sprintf("%02d:%02d.%02d", mm, ss, cc)
}

// CounterText returns the big bar counter: "<bar> | <subBeat>/<numerator>" while a beat is resolved, "END"
// once the final beat has passed and "0 | 0/<numerator>" before anything plays.
func CounterText(pos rhythm.Position, timeToEnd float64) string {
	if pos.SubBeat > 0 {
		return fmt.Sprintf("%d | %d/%d", pos.BarNumber, pos.SubBeat, pos.Section.Numerator)
	}
	if timeToEnd > 0 {
		return "END"
	}
	return fmt.Sprintf("0 | 0/%d", pos.Section.Numerator)
}
