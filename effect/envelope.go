package effect

import (
	"time"

	"github.com/fogleman/ease"
)

// Envelope is a one-shot decay from 1 to 0 over Duration, shaped by an easing function. Flash outputs use
// it to fade a beat out after it fires.
type Envelope struct {
	EasingFunc ease.Function
	Duration   time.Duration
}

// NewEnvelope creates an Envelope. A nil easing function decays linearly.
func NewEnvelope(easingFunc ease.Function, duration time.Duration) Envelope {
	if easingFunc == nil {
		easingFunc = ease.Linear
	}
	return Envelope{EasingFunc: easingFunc, Duration: duration}
}

// Value returns the envelope level the given time after it was triggered.
func (e Envelope) Value(since time.Duration) float64 {
	if since < 0 || e.Duration <= 0 || since >= e.Duration {
		return 0
	}
	t := float64(since) / float64(e.Duration)
	return clamp(1-e.EasingFunc(t), 0, 1)
}

// Done reports whether the envelope has fully decayed.
func (e Envelope) Done(since time.Duration) bool {
	return since >= e.Duration
}
