package trigger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/robmorgan/metronizer/config"
	"github.com/robmorgan/metronizer/effect"
	"github.com/robmorgan/metronizer/logger"
	"github.com/robmorgan/metronizer/profile"
	"github.com/robmorgan/metronizer/rhythm"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// UniverseSize is the number of channels in a DMX512 universe.
const UniverseSize = 512

// DMXState holds the DMX512 values for each channel
type DMXState struct {
	universes map[int][]byte
	lock      sync.Mutex
}

type dmxOperation struct {
	universe, channel, value int
}

// NewDMXState creates an empty state.
func NewDMXState() *DMXState {
	return &DMXState{universes: make(map[int][]byte)}
}

// Value returns the current value of a channel.
func (s *DMXState) Value(universe, channel int) int {
	s.lock.Lock()
	defer s.lock.Unlock()
	if channel < 1 || channel > UniverseSize || s.universes[universe] == nil {
		return 0
	}
	return int(s.universes[universe][channel-1])
}

func (s *DMXState) set(ops ...dmxOperation) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, op := range ops {
		if op.channel < 1 || op.channel > UniverseSize {
			return fmt.Errorf("dmx channel (%d) not in range, op=%v", op.channel, op)
		}

		s.initializeUniverse(op.universe)
		s.universes[op.universe][op.channel-1] = byte(op.value)
	}

	return nil
}

func (s *DMXState) initializeUniverse(universe int) {
	if s.universes[universe] == nil {
		s.universes[universe] = make([]byte, UniverseSize)
	}
}

// snapshot copies every universe so it can be sent without holding the lock.
func (s *DMXState) snapshot() map[int][]byte {
	s.lock.Lock()
	defer s.lock.Unlock()
	out := make(map[int][]byte, len(s.universes))
	for k, v := range s.universes {
		out[k] = append([]byte(nil), v...)
	}
	return out
}

// OLAClient is the interface for communicating with OLA
type OLAClient interface {
	SendDmx(universe int, values []byte) (status bool, err error)
	Close()
}

type flashLight struct {
	patch   config.PatchedLight
	profile profile.Profile
	color   colorful.Color
	firedAt time.Time
	fired   bool
}

// DMXFlasher flashes patched lights on beats and decays them with an envelope. OnBeat is called from the
// playback loop while Render runs in the DMX worker.
type DMXFlasher struct {
	clock    clock.PassiveClock
	envelope effect.Envelope
	state    *DMXState
	lights   []*flashLight
	lock     sync.Mutex
}

// NewDMXFlasher patches the configured lights. Lights with an unknown profile are rejected.
func NewDMXFlasher(clk clock.PassiveClock, cfg config.MetronizerConfig, envelope effect.Envelope) (*DMXFlasher, error) {
	d := &DMXFlasher{
		clock:    clk,
		envelope: envelope,
		state:    NewDMXState(),
	}
	for _, patch := range cfg.PatchedLights {
		p, ok := cfg.LightProfiles[patch.Profile]
		if !ok {
			return nil, fmt.Errorf("light %q uses unknown profile %q", patch.Name, patch.Profile)
		}

		color := cfg.Foreground
		if patch.Trigger == config.TriggerBarStart {
			color = cfg.Accent
		}
		if patch.Color != "" {
			c, err := colorful.Hex(patch.Color)
			if err != nil {
				return nil, fmt.Errorf("light %q: invalid color %q: %w", patch.Name, patch.Color, err)
			}
			color = c
		}
		d.lights = append(d.lights, &flashLight{patch: patch, profile: p, color: color})
	}
	return d, nil
}

// State returns the DMX state the flasher renders into.
func (d *DMXFlasher) State() *DMXState {
	return d.state
}

// OnBeat retriggers every light patched for the beat's kind.
func (d *DMXFlasher) OnBeat(beat rhythm.Beat) {
	barStart := beat.Kind() == rhythm.BeatKindBarStart
	now := d.clock.Now()

	d.lock.Lock()
	defer d.lock.Unlock()
	for _, l := range d.lights {
		if l.patch.Fires(barStart) {
			l.firedAt = now
			l.fired = true
		}
	}
}

// Render writes the current envelope level of every light into the DMX state.
func (d *DMXFlasher) Render() error {
	now := d.clock.Now()

	d.lock.Lock()
	var ops []dmxOperation
	for _, l := range d.lights {
		level := 0.0
		if l.fired {
			since := now.Sub(l.firedAt)
			level = d.envelope.Value(since)
			if d.envelope.Done(since) {
				l.fired = false
			}
		}
		ops = append(ops, l.operations(level)...)
	}
	d.lock.Unlock()

	return d.state.set(ops...)
}

func (l *flashLight) operations(level float64) []dmxOperation {
	var ops []dmxOperation
	add := func(channelType string, value float64) {
		if ch, ok := l.profile.Channel(channelType, l.patch.Address); ok {
			ops = append(ops, dmxOperation{universe: l.patch.Universe, channel: ch, value: toByte(value)})
		}
	}

	if l.profile.HasColor() {
		r, g, b := l.color.Clamped().RGB255()
		add(profile.ChannelTypeRed, float64(r)/255)
		add(profile.ChannelTypeGreen, float64(g)/255)
		add(profile.ChannelTypeBlue, float64(b)/255)
	}
	add(profile.ChannelTypeIntensity, level)
	return ops
}

func toByte(v float64) int {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return int(v*255 + 0.5)
}

// SendDMXWorker renders the flasher and sends OLA the current dmxState across all universes
func SendDMXWorker(ctx context.Context, client OLAClient, clk clock.Clock, tick time.Duration, flasher *DMXFlasher, wg *sync.WaitGroup) error {
	defer wg.Done()
	defer client.Close()

	log := logger.GetProjectLogger()
	t := clk.NewTimer(tick)
	defer t.Stop()
	log.WithFields(logrus.Fields{"tick": tick}).Info("DMX worker started")

	for {
		select {
		case <-ctx.Done():
			log.Info("SendDMXWorker shutdown")
			return ctx.Err()
		case <-t.C():
			if err := flasher.Render(); err != nil {
				log.Errorf("could not render flash state: %v", err)
			}
			for k, v := range flasher.State().snapshot() {
				if _, err := client.SendDmx(k, v); err != nil {
					log.WithFields(logrus.Fields{"universe": k}).Warnf("could not send DMX: %v", err)
				}
			}
			t.Reset(tick)
		}
	}
}
