package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gruntwork-io/go-commons/files"
	"github.com/joho/godotenv"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/robmorgan/metronizer/effect"
	"github.com/robmorgan/metronizer/logger"
	"github.com/robmorgan/metronizer/profile"
	"github.com/sirupsen/logrus"
)

// Environment variables read on top of the defaults.
const (
	EnvFPS             = "METRONIZER_FPS"
	EnvPixelsPerSecond = "METRONIZER_PIXELS_PER_SECOND"
	EnvTailGraceMs     = "METRONIZER_TAIL_GRACE_MS"
	EnvOLAAddress      = "METRONIZER_OLA_ADDRESS"
)

// DefaultEnvFile is loaded when present in the working directory.
const DefaultEnvFile = ".env"

// MetronizerConfig represents options that configure the global behavior of the program
type MetronizerConfig struct {
	// Project logger
	Logger *logrus.Logger

	// PixelsPerSecond is the horizontal density of the scrolling timeline.
	PixelsPerSecond float64

	// PlayheadFraction anchors the current instant at this fraction of the canvas width.
	PlayheadFraction float64

	// TailGraceMs is how long playback continues after the piece ends before the transport resets.
	TailGraceMs float64

	CanvasWidth  float64
	CanvasHeight float64

	// FPS is the export frame rate and the live tick rate.
	FPS int

	BallRadius float64

	// BarPronunciation boosts the bounce on the last beat of every bar, in percent.
	BarPronunciation float64

	Waveform effect.Waveform
	Easing   string

	Background colorful.Color
	Foreground colorful.Color
	Accent     colorful.Color

	Title             string
	ShowTimeRemaining bool
	ShowHeaderBoxes   bool
	PlaySound         bool

	// OLAAddress is where the DMX flash output connects to.
	OLAAddress string

	// LightProfiles are the channel layouts of the flash fixtures.
	LightProfiles map[string]profile.Profile

	// PatchedLights stores all of the patched flash fixtures
	PatchedLights []PatchedLight
}

// NewMetronizerConfig creates a MetronizerConfig with reasonable defaults for real usage, then applies the
// envFile and METRONIZER_* environment overrides.
func NewMetronizerConfig(envFile string) (MetronizerConfig, error) {
	cfg := DefaultConfig()
	if err := LoadEnvFile(envFile); err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DefaultConfig returns the built-in defaults without reading the environment.
func DefaultConfig() MetronizerConfig {
	return MetronizerConfig{
		Logger:            logger.GetProjectLogger(),
		PixelsPerSecond:   200,
		PlayheadFraction:  1.0 / 3.0,
		TailGraceMs:       8000,
		CanvasWidth:       1920,
		CanvasHeight:      1080,
		FPS:               60,
		BallRadius:        100,
		BarPronunciation:  0,
		Waveform:          effect.WaveformBounce,
		Easing:            "linear",
		Background:        mustHex("#000000"),
		Foreground:        mustHex("#ffffff"),
		Accent:            mustHex("#ff0000"),
		PlaySound:         true,
		OLAAddress:        "localhost:9010",
		LightProfiles:     initializeLightProfiles(),
		PatchedLights:     PatchLights(),
		ShowTimeRemaining: false,
	}
}

// PlayheadX returns the pixel column of the playhead on the canvas.
func (c MetronizerConfig) PlayheadX() float64 {
	return c.CanvasWidth * c.PlayheadFraction
}

// LoadEnvFile loads variables from path into the environment when the file exists. Variables already set
// in the environment win.
func LoadEnvFile(path string) error {
	if !files.FileExists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays the METRONIZER_* environment variables.
func (c *MetronizerConfig) ApplyEnv() error {
	if raw := os.Getenv(EnvFPS); raw != "" {
		fps, err := strconv.Atoi(raw)
		if err != nil || fps < 1 {
			return fmt.Errorf("%s must be a positive integer, got %q", EnvFPS, raw)
		}
		c.FPS = fps
	}
	if raw := os.Getenv(EnvPixelsPerSecond); raw != "" {
		pps, err := strconv.ParseFloat(raw, 64)
		if err != nil || pps <= 0 {
			return fmt.Errorf("%s must be a positive number, got %q", EnvPixelsPerSecond, raw)
		}
		c.PixelsPerSecond = pps
	}
	if raw := os.Getenv(EnvTailGraceMs); raw != "" {
		grace, err := strconv.ParseFloat(raw, 64)
		if err != nil || grace < 0 {
			return fmt.Errorf("%s must be a non-negative number, got %q", EnvTailGraceMs, raw)
		}
		c.TailGraceMs = grace
	}
	if raw := os.Getenv(EnvOLAAddress); raw != "" {
		c.OLAAddress = raw
	}
	return nil
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
