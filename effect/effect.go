package effect

import (
	"fmt"
	"math"
	"sort"

	"github.com/fogleman/ease"
	"github.com/robmorgan/metronizer/rhythm"
)

// Waveform selects the shape of the ball oscillation.
type Waveform string

const (
	// WaveformBounce is the absolute sine: the ball lands on every sub-beat.
	WaveformBounce Waveform = "bounce"

	// WaveformTriangle rises and falls linearly.
	WaveformTriangle Waveform = "triangle"

	// WaveformSawtooth jumps up on the beat and falls gradually.
	WaveformSawtooth Waveform = "sawtooth"

	// WaveformSawtoothInverse rises gradually and drops on the beat.
	WaveformSawtoothInverse Waveform = "sawtooth_inv"
)

// Waveforms lists every supported waveform.
var Waveforms = []Waveform{WaveformBounce, WaveformTriangle, WaveformSawtooth, WaveformSawtoothInverse}

// ParseWaveform looks up a waveform by name. An empty name selects the bounce.
func ParseWaveform(name string) (Waveform, error) {
	if name == "" {
		return WaveformBounce, nil
	}
	for _, w := range Waveforms {
		if string(w) == name {
			return w, nil
		}
	}
	return "", fmt.Errorf("unknown animation type %q", name)
}

// ShapeFn maps the fractional phase of a sub-beat to a height in [0,1].
type ShapeFn func(phase float64) float64

// ShapeFn returns the shape function of the waveform. Unknown waveforms bounce.
func (w Waveform) ShapeFn() ShapeFn {
	switch w {
	case WaveformTriangle:
		return triangleShape
	case WaveformSawtooth:
		return BuildFixedSawtoothShapeFn(true)
	case WaveformSawtoothInverse:
		return BuildFixedSawtoothShapeFn(false)
	default:
		return bounceShape
	}
}

// BuildFixedSawtoothShapeFn returns the shape function for a sawtooth wave in a fixed direction.
func BuildFixedSawtoothShapeFn(down bool) ShapeFn {
	if down {
		return func(phase float64) float64 {
			return 1.0 - phase
		}
	}
	return func(phase float64) float64 {
		return phase
	}
}

func bounceShape(phase float64) float64 {
	return math.Abs(math.Sin(phase * math.Pi))
}

func triangleShape(phase float64) float64 {
	if phase < 0.5 {
		return phase * 2
	}
	return 2 - phase*2
}

// Oscillator drives the ball from a musical position: a waveform followed by an easing curve.
type Oscillator struct {
	Waveform Waveform

	// EasingFunc reshapes the waveform output. Nil means linear.
	EasingFunc ease.Function
}

// NewOscillator creates an Oscillator for the named waveform and easing curve.
func NewOscillator(waveform, easing string) (Oscillator, error) {
	w, err := ParseWaveform(waveform)
	if err != nil {
		return Oscillator{}, err
	}
	fn, err := ParseEasing(easing)
	if err != nil {
		return Oscillator{}, err
	}
	return Oscillator{Waveform: w, EasingFunc: fn}, nil
}

// Phase returns the eased ball height in [0,1] for pos.
func (o Oscillator) Phase(pos rhythm.Position) float64 {
	v := BallPhase(pos, o.Waveform)
	if o.EasingFunc != nil {
		v = o.EasingFunc(v)
	}
	return clamp(v, 0, 1)
}

// BallPhase returns where in its oscillation cycle the ball sits at pos, as a value in [0,1]. The cycle
// restarts on every sub-beat; outside of the piece the ball rests at 0.
func BallPhase(pos rhythm.Position, waveform Waveform) float64 {
	if pos.Status != rhythm.StatusInSection {
		return 0
	}
	progress := pos.Progress()
	return clamp(waveform.ShapeFn()(progress-math.Floor(progress)), 0, 1)
}

var easings = map[string]ease.Function{
	"linear":       ease.Linear,
	"inQuad":       ease.InQuad,
	"outQuad":      ease.OutQuad,
	"inOutQuad":    ease.InOutQuad,
	"inCubic":      ease.InCubic,
	"outCubic":     ease.OutCubic,
	"inOutCubic":   ease.InOutCubic,
	"inQuart":      ease.InQuart,
	"outQuart":     ease.OutQuart,
	"inOutQuart":   ease.InOutQuart,
	"inSine":       ease.InSine,
	"outSine":      ease.OutSine,
	"inOutSine":    ease.InOutSine,
	"inExpo":       ease.InExpo,
	"outExpo":      ease.OutExpo,
	"inOutExpo":    ease.InOutExpo,
	"outBounce":    ease.OutBounce,
	"inOutElastic": ease.InOutElastic,
}

// ParseEasing looks up an easing curve by name. An empty name selects linear.
func ParseEasing(name string) (ease.Function, error) {
	if name == "" {
		return ease.Linear, nil
	}
	fn, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q", name)
	}
	return fn, nil
}

// EasingNames lists the supported easing curves in alphabetical order.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func clamp(t, minVal, maxVal float64) float64 {
	minVal, maxVal = math.Min(minVal, maxVal), math.Max(minVal, maxVal)
	return math.Max(math.Min(t, maxVal), minVal)
}
