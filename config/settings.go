package config

import (
	"encoding/json"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/robmorgan/metronizer/effect"
)

// Settings is the presentation configuration stored on the settings line of a project file. Every field is
// optional; only the ones present override the config.
type Settings struct {
	ColorBackground   *string  `json:"colorBackground,omitempty"`
	ColorForeground   *string  `json:"colorForeground,omitempty"`
	ColorAccent       *string  `json:"colorAccent,omitempty"`
	PixelPerSecond    *float64 `json:"pixelPerSecond,omitempty"`
	BarPronounciation *float64 `json:"barPronounciation,omitempty"`
	CircleRadius      *float64 `json:"circleRadius,omitempty"`
	Title             *string  `json:"title,omitempty"`
	ShowTimeRemaining *bool    `json:"showTimeRemaining,omitempty"`
	ShowHeaderBoxes   *bool    `json:"showHeaderBoxes,omitempty"`
	AnimationType     *string  `json:"animationType,omitempty"`
	Easing            *string  `json:"easing,omitempty"`
	PlaySound         *bool    `json:"playSound,omitempty"`
}

// ParseSettings decodes a settings JSON object. Empty input yields empty settings.
func ParseSettings(raw []byte) (Settings, error) {
	var s Settings
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	return s, nil
}

// Apply overlays the settings on a copy of the config. Invalid values leave the config untouched and are
// reported.
func (s Settings) Apply(cfg MetronizerConfig) (MetronizerConfig, error) {
	out := cfg

	colors := []struct {
		raw *string
		dst *colorful.Color
		key string
	}{
		{s.ColorBackground, &out.Background, "colorBackground"},
		{s.ColorForeground, &out.Foreground, "colorForeground"},
		{s.ColorAccent, &out.Accent, "colorAccent"},
	}
	for _, c := range colors {
		if c.raw == nil {
			continue
		}
		parsed, err := colorful.Hex(*c.raw)
		if err != nil {
			return cfg, fmt.Errorf("settings %s: %w", c.key, err)
		}
		*c.dst = parsed
	}

	if s.PixelPerSecond != nil {
		if *s.PixelPerSecond <= 0 {
			return cfg, fmt.Errorf("settings pixelPerSecond must be positive, got %v", *s.PixelPerSecond)
		}
		out.PixelsPerSecond = *s.PixelPerSecond
	}
	if s.BarPronounciation != nil {
		out.BarPronunciation = *s.BarPronounciation
	}
	if s.CircleRadius != nil {
		out.BallRadius = *s.CircleRadius
	}
	if s.Title != nil {
		out.Title = *s.Title
	}
	if s.ShowTimeRemaining != nil {
		out.ShowTimeRemaining = *s.ShowTimeRemaining
	}
	if s.ShowHeaderBoxes != nil {
		out.ShowHeaderBoxes = *s.ShowHeaderBoxes
	}
	if s.AnimationType != nil {
		w, err := effect.ParseWaveform(*s.AnimationType)
		if err != nil {
			return cfg, fmt.Errorf("settings animationType: %w", err)
		}
		out.Waveform = w
	}
	if s.Easing != nil {
		if _, err := effect.ParseEasing(*s.Easing); err != nil {
			return cfg, fmt.Errorf("settings easing: %w", err)
		}
		out.Easing = *s.Easing
	}
	if s.PlaySound != nil {
		out.PlaySound = *s.PlaySound
	}
	return out, nil
}
