package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	rc := cfg.RoundConfig()
	assert.Equal(t, 60, rc.Seconds)
	assert.Equal(t, 28.0, rc.HitRadius)
	assert.Equal(t, 1280.0, rc.Field.Width)
	assert.Equal(t, 720.0, rc.Field.Height)
	assert.Equal(t, 40.0, rc.Field.CullMargin)
	assert.Equal(t, time.Second, rc.Spawn.Interval)
	assert.Equal(t, 0.6, rc.Content.PenaltyWeight)
	assert.Equal(t, 5, rc.Scoring.Penalty)
	assert.Equal(t, 10, rc.Scoring.Reward)
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	path := writeFile(t, "game.yaml", `
round:
  seconds: 30
  spawn:
    interval: 1500ms
    jitter: 250ms
  content:
    reward: ["龍"]
tracker:
  mirror: false
window:
  width: 800
`)

	cfg := Default()
	require.NoError(t, cfg.LoadFile(path))

	assert.Equal(t, 30, cfg.Round.Seconds)
	assert.Equal(t, 1500*time.Millisecond, cfg.Round.Spawn.Interval)
	assert.Equal(t, 250*time.Millisecond, cfg.Round.Spawn.Jitter)
	assert.Equal(t, 4.0, cfg.Round.Spawn.MaxSpeed, "unset keys keep defaults")
	assert.Equal(t, []string{"龍"}, cfg.Round.Content.Reward)
	assert.NotEmpty(t, cfg.Round.Content.Penalty)
	assert.False(t, cfg.Tracker.Mirror)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
}

func TestLoadFileErrors(t *testing.T) {
	cfg := Default()
	err := cfg.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := writeFile(t, "bad.yaml", "round: [unclosed")
	assert.Error(t, cfg.LoadFile(bad))
}

func TestLoadEnv(t *testing.T) {
	dotenv := writeFile(t, ".env", "DRAGONBUBBLES_INPUT=Tracker\nDRAGONBUBBLES_ROUND_SECONDS=45\n")
	t.Setenv(EnvTrackerAddr, "0.0.0.0:9000")
	t.Setenv(EnvMirror, "false")
	t.Setenv(EnvRoundSeconds, "20")
	t.Setenv(EnvInput, "")
	os.Unsetenv(EnvInput)
	t.Setenv(EnvAssets, "")
	os.Unsetenv(EnvAssets)

	cfg := Default()
	require.NoError(t, cfg.LoadEnv(dotenv, filepath.Join(t.TempDir(), "absent.env")))

	assert.Equal(t, "0.0.0.0:9000", cfg.Tracker.Addr)
	assert.False(t, cfg.Tracker.Mirror)
	assert.Equal(t, InputTracker, cfg.Input)
	assert.Equal(t, 20, cfg.Round.Seconds, "process env wins over .env")
}

func TestLoadEnvRejectsBadValues(t *testing.T) {
	t.Setenv(EnvMirror, "sideways")
	assert.Error(t, Default().LoadEnv())
}

func TestBind(t *testing.T) {
	cfg := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Bind(fs)

	require.NoError(t, fs.Parse([]string{"-input", "fixed", "-mirror=false", "-seconds", "10", "-debug"}))

	assert.Equal(t, InputFixed, cfg.Input)
	assert.False(t, cfg.Tracker.Mirror)
	assert.Equal(t, 10, cfg.Round.Seconds)
	assert.True(t, cfg.Debug)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"unknown input", func(c *Config) { c.Input = "joystick" }},
		{"no seconds", func(c *Config) { c.Round.Seconds = 0 }},
		{"speed range", func(c *Config) { c.Round.Spawn.MinSpeed = 5 }},
		{"zero speeds", func(c *Config) { c.Round.Spawn.MinSpeed, c.Round.Spawn.MaxSpeed = 0, 0 }},
		{"negative min speed", func(c *Config) { c.Round.Spawn.MinSpeed = -1 }},
		{"zero radius", func(c *Config) { c.Round.Spawn.Radius = 0 }},
		{"negative hit radius", func(c *Config) { c.Round.HitRadius = -1 }},
		{"negative max steps", func(c *Config) { c.Round.MaxSteps = -1 }},
		{"negative penalty", func(c *Config) { c.Round.Scoring.Penalty = -5 }},
		{"negative reward", func(c *Config) { c.Round.Scoring.Reward = -10 }},
		{"weight", func(c *Config) { c.Round.Content.PenaltyWeight = 1.5 }},
		{"empty glyphs", func(c *Config) { c.Round.Content.Reward = nil }},
		{"interval", func(c *Config) { c.Round.Spawn.Interval = 0 }},
		{"negative jitter", func(c *Config) { c.Round.Spawn.Jitter = -time.Second }},
		{"margin", func(c *Config) { c.Round.MarginX = 700 }},
		{"visibility", func(c *Config) { c.Tracker.MinVisibility = -1 }},
		{"volume", func(c *Config) { c.Audio.SoundVolume = 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadLayers(t *testing.T) {
	path := writeFile(t, "game.yaml", "round:\n  seconds: 30\ninput: fixed\n")
	t.Setenv(EnvRoundSeconds, "40")

	settings := &Settings{MusicVolume: 0.2, SoundVolume: 0.3, Mirror: false, Input: InputTracker}

	cfg, err := Load("dragonbubbles", []string{"-config", path, "-width", "1024"}, settings)
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Round.Seconds, "env over file")
	assert.Equal(t, InputTracker, cfg.Input, "settings over file")
	assert.Equal(t, 0.2, cfg.Audio.MusicVolume)
	assert.Equal(t, 1024, cfg.Window.Width)

	cfg, err = Load("dragonbubbles", []string{"--config=" + path, "-input", "mouse"}, settings)
	require.NoError(t, err)
	assert.Equal(t, InputMouse, cfg.Input, "flags win")

	_, err = Load("dragonbubbles", []string{"-seconds", "-3"}, nil)
	assert.Error(t, err)

	_, err = Load("dragonbubbles", []string{"-no-such-flag"}, nil)
	assert.Error(t, err)
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "a.yaml", configPath([]string{"-config", "a.yaml"}))
	assert.Equal(t, "b.yaml", configPath([]string{"-debug", "--config=b.yaml"}))
	assert.Equal(t, "", configPath([]string{"-debug"}))
	assert.Equal(t, "", configPath([]string{"--", "-config", "c.yaml"}))
}

func TestLoadBindsExtraFlags(t *testing.T) {
	var rounds int
	cfg, err := Load("bubble-sim", []string{"-rounds", "25", "-seconds", "10"}, nil, func(fs *flag.FlagSet) {
		fs.IntVar(&rounds, "rounds", 1, "rounds to play")
	})
	require.NoError(t, err)
	assert.Equal(t, 25, rounds)
	assert.Equal(t, 10, cfg.Round.Seconds)
}
