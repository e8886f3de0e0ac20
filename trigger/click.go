package trigger

import (
	"math"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	goerrors "github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/metronizer/logger"
	"github.com/robmorgan/metronizer/rhythm"
	"github.com/sirupsen/logrus"
)

// ClickFormat is the format of the generated clicks and the speaker.
var ClickFormat = beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}

// Built-in click tones.
const (
	hiClickHz       = 1760.0
	loClickHz       = 880.0
	hiClickDuration = 40 * time.Millisecond
	loClickDuration = 30 * time.Millisecond
)

// Player starts playback of a streamer without blocking.
type Player func(s beep.Streamer)

// ClickSink plays an accented click on bar starts and a regular click on the other beats.
type ClickSink struct {
	hi   *beep.Buffer
	lo   *beep.Buffer
	play Player
}

// NewClickSink creates a sink from two buffers in the same format.
func NewClickSink(hi, lo *beep.Buffer, play Player) *ClickSink {
	return &ClickSink{hi: hi, lo: lo, play: play}
}

// NewSpeakerClickSink initializes the speaker and loads the click sounds. Empty paths use the built-in
// tones.
func NewSpeakerClickSink(hiPath, loPath string) (*ClickSink, error) {
	hi, err := loadClick(hiPath, hiClickHz, hiClickDuration)
	if err != nil {
		return nil, err
	}
	lo, err := loadClick(loPath, loClickHz, loClickDuration)
	if err != nil {
		return nil, err
	}

	if err := speaker.Init(ClickFormat.SampleRate, ClickFormat.SampleRate.N(time.Second/20)); err != nil {
		return nil, goerrors.WithStackTrace(err)
	}
	return NewClickSink(hi, lo, func(s beep.Streamer) { speaker.Play(s) }), nil
}

func (c *ClickSink) OnBeat(beat rhythm.Beat) {
	buf := c.lo
	if beat.Kind() == rhythm.BeatKindBarStart {
		buf = c.hi
	}
	c.play(buf.Streamer(0, buf.Len()))
}

func loadClick(path string, freq float64, duration time.Duration) (*beep.Buffer, error) {
	if path == "" {
		return ToneBuffer(freq, duration), nil
	}
	return LoadWAV(path)
}

// LoadWAV decodes a WAV file into a buffer in ClickFormat, resampling when needed.
func LoadWAV(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerrors.WithStackTrace(err)
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, goerrors.WithStackTrace(err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != ClickFormat.SampleRate {
		s = beep.Resample(4, format.SampleRate, ClickFormat.SampleRate, streamer)
	}

	buf := beep.NewBuffer(ClickFormat)
	buf.Append(s)
	logger.GetProjectLogger().WithFields(logrus.Fields{
		"path":    path,
		"samples": buf.Len(),
	}).Debug("Loaded click sound")
	return buf, nil
}

// ToneBuffer synthesizes a short decaying sine click.
func ToneBuffer(freq float64, duration time.Duration) *beep.Buffer {
	sr := ClickFormat.SampleRate
	total := sr.N(duration)
	pos := 0
	tone := beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i := range samples {
			if pos >= total {
				return i, i > 0
			}
			t := float64(pos) / float64(sr)
			decay := 1 - float64(pos)/float64(total)
			v := math.Sin(2*math.Pi*freq*t) * decay * 0.8
			samples[i][0], samples[i][1] = v, v
			pos++
		}
		return len(samples), true
	})

	buf := beep.NewBuffer(ClickFormat)
	buf.Append(tone)
	return buf
}
