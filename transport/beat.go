package transport

import "github.com/robmorgan/metronizer/rhythm"

// rewindMarginMs keeps a rewound tracker just before the target. It must stay well above the boundary
// epsilon of the rhythm package so the beat at the target is reported.
const rewindMarginMs = 1e-3

// BeatTracker turns successive elapsed-time samples into beat-crossing events. Every sub-beat boundary
// passed since the previous sample is reported once, however far apart the samples are.
type BeatTracker struct {
	lastMs float64
}

// NewBeatTracker creates a tracker that reports the beat at time 0 on its first observation.
func NewBeatTracker() *BeatTracker {
	b := &BeatTracker{}
	b.Reset()
	return b
}

// Observe reports the beats crossed on the way from the previous sample to nowMs. A sample behind the
// previous one moves the tracker back without firing anything.
func (b *BeatTracker) Observe(sections []rhythm.Section, nowMs float64) []rhythm.Beat {
	if nowMs < b.lastMs {
		b.lastMs = nowMs
		return nil
	}
	beats := rhythm.BeatsBetween(sections, b.lastMs, nowMs)
	b.lastMs = nowMs
	return beats
}

// Rewind places the tracker just before ms, so that a beat exactly at ms fires on the next observation.
func (b *BeatTracker) Rewind(ms float64) {
	b.lastMs = ms - rewindMarginMs
}

// Reset rewinds the tracker to the start of the piece.
func (b *BeatTracker) Reset() {
	b.Rewind(0)
}
