package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/robmorgan/metronizer/effect"
	"github.com/robmorgan/metronizer/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.Equal(t, 200.0, cfg.PixelsPerSecond)
	assert.Equal(t, 8000.0, cfg.TailGraceMs)
	assert.Equal(t, 60, cfg.FPS)
	assert.Equal(t, 640.0, cfg.PlayheadX())
	assert.Equal(t, effect.WaveformBounce, cfg.Waveform)
	assert.Equal(t, "#ff0000", cfg.Accent.Hex())
	assert.True(t, cfg.PlaySound)
	assert.NotNil(t, cfg.Logger)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvFPS, "24")
	t.Setenv(EnvPixelsPerSecond, "120.5")
	t.Setenv(EnvTailGraceMs, "0")
	t.Setenv(EnvOLAAddress, "10.0.0.2:9010")

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, 24, cfg.FPS)
	assert.Equal(t, 120.5, cfg.PixelsPerSecond)
	assert.Equal(t, 0.0, cfg.TailGraceMs)
	assert.Equal(t, "10.0.0.2:9010", cfg.OLAAddress)
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	t.Setenv(EnvFPS, "zero")

	cfg := DefaultConfig()
	assert.Error(t, cfg.ApplyEnv())
}

func TestLoadEnvFile(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("METRONIZER_TEST_ONLY=42\n"), 0o644))
	t.Setenv("METRONIZER_TEST_ONLY", "")
	require.NoError(t, os.Unsetenv("METRONIZER_TEST_ONLY"))

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "42", os.Getenv("METRONIZER_TEST_ONLY"))
}

func TestSettingsApply(t *testing.T) {
	t.Parallel()

	s, err := ParseSettings([]byte(`{"colorAccent":"#00ff00","pixelPerSecond":300,"title":"Live","animationType":"triangle","easing":"inQuad","unknown":true}`))
	require.NoError(t, err)

	cfg, err := s.Apply(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "#00ff00", cfg.Accent.Hex())
	assert.Equal(t, "#ffffff", cfg.Foreground.Hex())
	assert.Equal(t, 300.0, cfg.PixelsPerSecond)
	assert.Equal(t, "Live", cfg.Title)
	assert.Equal(t, effect.WaveformTriangle, cfg.Waveform)
	assert.Equal(t, "inQuad", cfg.Easing)
}

func TestSettingsApplyRejectsBadValues(t *testing.T) {
	t.Parallel()

	testCases := []string{
		`{"colorBackground":"black"}`,
		`{"pixelPerSecond":-1}`,
		`{"animationType":"square"}`,
		`{"easing":"wobble"}`,
	}

	for _, testCase := range testCases {
		s, err := ParseSettings([]byte(testCase))
		require.NoError(t, err)

		base := DefaultConfig()
		cfg, err := s.Apply(base)
		assert.Error(t, err, testCase)
		assert.Equal(t, base.PixelsPerSecond, cfg.PixelsPerSecond)
	}

	_, err := ParseSettings([]byte(`{`))
	assert.Error(t, err)
}

func TestNewMetronizerConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("METRONIZER_FPS=30\n"), 0o644))
	t.Setenv(EnvFPS, "")
	require.NoError(t, os.Unsetenv(EnvFPS))

	cfg, err := NewMetronizerConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, 200.0, cfg.PixelsPerSecond)

	// variables already in the environment win over the file
	t.Setenv(EnvFPS, "abc")
	_, err = NewMetronizerConfig(path)
	assert.Error(t, err)
}

func TestPatchLights(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	for _, light := range cfg.PatchedLights {
		_, ok := cfg.LightProfiles[light.Profile]
		assert.True(t, ok, "profile for %s", light.Name)
	}

	downbeat := cfg.PatchedLights[0]
	assert.True(t, downbeat.Fires(true))
	assert.False(t, downbeat.Fires(false))
	assert.True(t, PatchedLight{Trigger: TriggerAll}.Fires(false))

	par := cfg.LightProfiles["shehds-par"]
	assert.True(t, par.HasColor())
	ch, ok := par.Channel(profile.ChannelTypeRed, 10)
	require.True(t, ok)
	assert.Equal(t, 11, ch)
	assert.False(t, cfg.LightProfiles["generic-dimmer"].HasColor())
}
