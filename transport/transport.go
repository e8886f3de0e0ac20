package transport

import (
	"time"

	"github.com/robmorgan/metronizer/logger"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// State is the play state of a Transport.
type State int

const (
	// StateReset is the initial state: elapsed time is 0 and nothing is playing.
	StateReset State = iota

	// StatePlaying advances elapsed time with the clock.
	StatePlaying

	// StatePaused freezes elapsed time.
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateReset:
		return "reset"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// IsPlaying reports whether elapsed time is advancing in this state.
func (s State) IsPlaying() bool {
	return s == StatePlaying
}

// StateListener observes state changes, e.g. to toggle a play/pause icon.
type StateListener func(State)

// Transport turns a wall clock into elapsed playback time, honoring pause, resume and seek.
//
// While playing, elapsed = now - accumulatedPause - origin. While paused or reset the same formula is
// evaluated at the instant the pause began, so the value stays frozen regardless of the clock.
type Transport struct {
	clock clock.PassiveClock
	state State

	origin           time.Time
	accumulatedPause time.Duration
	pauseStartedAt   time.Time

	listeners []StateListener
}

// New creates a Transport in the reset state reading time from clk.
func New(clk clock.PassiveClock) *Transport {
	now := clk.Now()
	return &Transport{
		clock:          clk,
		state:          StateReset,
		origin:         now,
		pauseStartedAt: now,
	}
}

// OnStateChange registers a listener called after every state change and after every reset.
func (t *Transport) OnStateChange(fn StateListener) {
	t.listeners = append(t.listeners, fn)
}

// State returns the current state.
func (t *Transport) State() State {
	return t.state
}

// IsPlaying reports whether the transport is playing.
func (t *Transport) IsPlaying() bool {
	return t.state.IsPlaying()
}

// Play starts or resumes playback. A resume adds the pause that just ended to the pause accounting.
func (t *Transport) Play() {
	now := t.clock.Now()
	switch t.state {
	case StatePlaying:
		return
	case StatePaused:
		t.accumulatedPause += now.Sub(t.pauseStartedAt)
	case StateReset:
		t.origin = now
		t.accumulatedPause = 0
	}
	t.setState(StatePlaying)
}

// Pause freezes elapsed time. It does nothing unless the transport is playing.
func (t *Transport) Pause() {
	if t.state != StatePlaying {
		return
	}
	t.pauseStartedAt = t.clock.Now()
	t.setState(StatePaused)
}

// Toggle switches between playing and paused, starting playback from the reset state.
func (t *Transport) Toggle() {
	if t.state == StatePlaying {
		t.Pause()
		return
	}
	t.Play()
}

// Reset zeroes elapsed time and clears the pause accounting. Listeners are notified even when the
// transport was already reset.
func (t *Transport) Reset() {
	now := t.clock.Now()
	t.origin = now
	t.pauseStartedAt = now
	t.accumulatedPause = 0
	t.state = StateReset
	t.notify()
}

// Seek rebases the transport so that elapsed time equals targetMs right now. Playing and paused states are
// kept; seeking from the reset state parks the transport paused at the target.
func (t *Transport) Seek(targetMs float64) {
	now := t.clock.Now()
	target := fromMillis(targetMs)

	t.accumulatedPause = 0
	t.origin = now.Add(-target)
	if t.state != StatePlaying {
		t.pauseStartedAt = now
	}

	logger.GetProjectLogger().WithFields(logrus.Fields{"target_ms": targetMs, "state": t.state}).Debug("Seek")
	if t.state == StateReset {
		t.setState(StatePaused)
	}
}

// ElapsedAt returns the elapsed playback time in milliseconds for the given wall-clock instant. While
// paused or reset the result does not depend on now.
func (t *Transport) ElapsedAt(now time.Time) float64 {
	if t.state != StatePlaying {
		now = t.pauseStartedAt
	}
	return toMillis(now.Sub(t.origin) - t.accumulatedPause)
}

// Elapsed returns the elapsed playback time in milliseconds at the clock's current instant.
func (t *Transport) Elapsed() float64 {
	return t.ElapsedAt(t.clock.Now())
}

func (t *Transport) setState(s State) {
	if t.state == s {
		return
	}
	t.state = s
	t.notify()
}

func (t *Transport) notify() {
	logger.GetProjectLogger().WithFields(logrus.Fields{"state": t.state}).Debug("Transport state changed")
	for _, fn := range t.listeners {
		fn(t.state)
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func fromMillis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
