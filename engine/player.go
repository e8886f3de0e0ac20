package engine

import (
	"math"

	"github.com/robmorgan/metronizer/logger"
	"github.com/robmorgan/metronizer/render"
	"github.com/robmorgan/metronizer/rhythm"
	"github.com/robmorgan/metronizer/transport"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

const (
	// DefaultTailGraceMs keeps playback running after the piece so the ball can roll off.
	DefaultTailGraceMs = 8000.0

	// previousBarThresholdMs skips back past the current bar start unless it is at least this far behind.
	previousBarThresholdMs = 500.0

	// nextBarThresholdMs ignores a bar start that is about to be reached anyway.
	nextBarThresholdMs = 100.0
)

// BeatSink receives every beat crossed during playback, e.g. to play a click.
type BeatSink interface {
	OnBeat(beat rhythm.Beat)
}

// Tick is the outcome of one step of the player.
type Tick struct {
	ElapsedMs float64
	Position  rhythm.Position
	State     transport.State

	// Beats lists every beat crossed since the previous tick.
	Beats []rhythm.Beat

	// AutoReset is set when the tick parked the transport after the tail grace ran out.
	AutoReset bool
}

// Player owns one playback session: the timeline, the transport over it and the beat tracker feeding the
// beat sinks. It is driven from a single goroutine.
type Player struct {
	timeline    *rhythm.Timeline
	transport   *transport.Transport
	tracker     *transport.BeatTracker
	tailGraceMs float64
	sinks       []BeatSink
}

// NewPlayer creates a Player over tl reading time from clk. Every timeline mutation resets the transport.
func NewPlayer(tl *rhythm.Timeline, clk clock.PassiveClock, tailGraceMs float64) *Player {
	p := &Player{
		timeline:    tl,
		transport:   transport.New(clk),
		tracker:     transport.NewBeatTracker(),
		tailGraceMs: tailGraceMs,
	}
	p.transport.OnStateChange(func(s transport.State) {
		if s == transport.StateReset {
			p.tracker.Reset()
		}
	})
	tl.OnChange(func() {
		logger.GetProjectLogger().WithFields(logrus.Fields{
			"sections":    tl.Len(),
			"total_ms":    tl.TotalDuration(),
			"counted_bar": tl.CountedBars(),
		}).Debug("Timeline changed, resetting transport")
		p.transport.Reset()
	})
	return p
}

// AddBeatSink registers a sink for beat-crossing events.
func (p *Player) AddBeatSink(sink BeatSink) {
	p.sinks = append(p.sinks, sink)
}

// OnStateChange registers a listener for transport state changes.
func (p *Player) OnStateChange(fn transport.StateListener) {
	p.transport.OnStateChange(fn)
}

// Timeline returns the timeline the player runs over.
func (p *Player) Timeline() *rhythm.Timeline {
	return p.timeline
}

// Transport returns the transport of the session.
func (p *Player) Transport() *transport.Transport {
	return p.transport
}

// Tick advances the session to the clock's current instant. Beats crossed since the previous tick are
// delivered to the sinks, and the transport is reset once playback runs past the tail grace.
func (p *Player) Tick() Tick {
	elapsed := p.transport.Elapsed()
	t := Tick{ElapsedMs: elapsed}

	total := p.timeline.TotalDuration()
	if p.transport.State() != transport.StateReset && elapsed > total+p.tailGraceMs {
		logger.GetProjectLogger().WithFields(logrus.Fields{
			"elapsed_ms": elapsed,
			"total_ms":   total,
		}).Info("Playback passed the end, resetting")
		p.transport.Reset()
		t.AutoReset = true
		t.ElapsedMs = 0
	}

	if p.transport.IsPlaying() {
		t.Beats = p.tracker.Observe(p.timeline.Sections(), t.ElapsedMs)
		for _, b := range t.Beats {
			for _, sink := range p.sinks {
				sink.OnBeat(b)
			}
		}
	}

	t.Position, _ = p.timeline.Locate(t.ElapsedMs)
	t.State = p.transport.State()
	return t
}

// Scene builds the render input for the current session.
func (p *Player) Scene(style render.Style) render.Scene {
	return render.Scene{
		Sections: p.timeline.Sections(),
		Comments: p.timeline.Comments(),
		Style:    style,
		Playing:  p.transport.IsPlaying(),
	}
}

// Frame composes the frame for the current instant.
func (p *Player) Frame(style render.Style) render.Frame {
	return p.FrameAt(style, p.transport.Elapsed())
}

// FrameAt composes the frame at elapsedMs, usually the ElapsedMs of the Tick being drawn.
func (p *Player) FrameAt(style render.Style, elapsedMs float64) render.Frame {
	return render.Compose(p.Scene(style), elapsedMs)
}

// PlayPause toggles playback.
func (p *Player) PlayPause() {
	p.transport.Toggle()
}

// Play starts or resumes playback.
func (p *Player) Play() {
	p.transport.Play()
}

// Pause freezes playback.
func (p *Player) Pause() {
	p.transport.Pause()
}

// Reset parks the session at the start.
func (p *Player) Reset() {
	p.transport.Reset()
}

// Seek jumps to targetMs. The beat exactly at the target fires on the next playing tick.
func (p *Player) Seek(targetMs float64) {
	p.transport.Seek(targetMs)
	p.tracker.Rewind(targetMs)
}

// SeekToBar jumps to the start of a counted bar. It returns false for a bar outside the piece.
func (p *Player) SeekToBar(barNumber int) bool {
	start, ok := p.timeline.TimeOfBar(barNumber)
	if !ok {
		return false
	}
	p.Seek(start)
	return true
}

// SeekPreviousBar jumps to the latest bar start more than 500 ms behind the current time, or to the start.
func (p *Player) SeekPreviousBar() {
	now := p.transport.Elapsed()
	target := 0.0
	for _, start := range rhythm.BarStartTimes(p.timeline.Sections()) {
		if start < now-previousBarThresholdMs {
			target = start
		}
	}
	p.Seek(target)
}

// SeekNextBar jumps to the first bar start more than 100 ms ahead of the current time, or to the end.
func (p *Player) SeekNextBar() {
	now := p.transport.Elapsed()
	target := p.timeline.TotalDuration()
	for _, start := range rhythm.BarStartTimes(p.timeline.Sections()) {
		if start > now+nextBarThresholdMs {
			target = start
			break
		}
	}
	p.Seek(target)
}

// SeekFraction jumps to a fraction of the total duration, clamped to [0,1].
func (p *Player) SeekFraction(f float64) {
	f = math.Max(0, math.Min(1, f))
	p.Seek(f * p.timeline.TotalDuration())
}

// Progress returns the elapsed fraction of the piece in [0,1].
func (p *Player) Progress() float64 {
	total := p.timeline.TotalDuration()
	if total <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, p.transport.Elapsed()/total))
}
