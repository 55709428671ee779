// Package config loads the game configuration from defaults, an optional
// YAML file, the environment and command-line flags, in that order.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/plus3/dragonbubbles/avatar"
	"github.com/plus3/dragonbubbles/bubble"
	"github.com/plus3/dragonbubbles/round"
)

// Input modes.
const (
	InputMouse   = "mouse"
	InputFixed   = "fixed"
	InputTracker = "tracker"
)

// Environment variables read by LoadEnv.
const (
	EnvTrackerAddr  = "DRAGONBUBBLES_TRACKER_ADDR"
	EnvMirror       = "DRAGONBUBBLES_MIRROR"
	EnvInput        = "DRAGONBUBBLES_INPUT"
	EnvRoundSeconds = "DRAGONBUBBLES_ROUND_SECONDS"
	EnvAssets       = "DRAGONBUBBLES_ASSETS"
)

type Config struct {
	Window  Window  `yaml:"window"`
	Round   Round   `yaml:"round"`
	Input   string  `yaml:"input"`
	Tracker Tracker `yaml:"tracker"`
	Audio   Audio   `yaml:"audio"`
	Render  Render  `yaml:"render"`
	Debug   bool    `yaml:"debug"`
}

type Window struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	TPS        int    `yaml:"tps"`
	Fullscreen bool   `yaml:"fullscreen"`
}

type Round struct {
	Seconds    int                `yaml:"seconds"`
	HitRadius  float64            `yaml:"hit_radius"`
	MaxSteps   float64            `yaml:"max_steps"`
	CullMargin float64            `yaml:"cull_margin"`
	MarginX    float64            `yaml:"margin_x"`
	SpawnY     float64            `yaml:"spawn_y"`
	Spawn      bubble.SpawnConfig `yaml:"spawn"`
	Content    bubble.Content     `yaml:"content"`
	Scoring    bubble.Scoring     `yaml:"scoring"`
}

type Tracker struct {
	Addr          string        `yaml:"addr"`
	Mirror        bool          `yaml:"mirror"`
	Clamp         bool          `yaml:"clamp"`
	MinVisibility float64       `yaml:"min_visibility"`
	WaitTimeout   time.Duration `yaml:"wait_timeout"`
}

type Audio struct {
	Assets      string  `yaml:"assets"`
	MusicVolume float64 `yaml:"music_volume"`
	SoundVolume float64 `yaml:"sound_volume"`
	Mute        bool    `yaml:"mute"`
}

type Render struct {
	Font        string  `yaml:"font"`
	Background  string  `yaml:"background"`
	AvatarScale float64 `yaml:"avatar_scale"`
}

// Default returns the stock configuration.
func Default() *Config {
	rc := round.DefaultConfig(1280, 720)
	return &Config{
		Window: Window{
			Width:  1280,
			Height: 720,
			Title:  "Dragon Bubbles",
			TPS:    60,
		},
		Round: Round{
			Seconds:    rc.Seconds,
			HitRadius:  rc.HitRadius,
			MaxSteps:   rc.MaxSteps,
			CullMargin: rc.Field.CullMargin,
			MarginX:    rc.Field.MarginX,
			SpawnY:     rc.Field.SpawnY,
			Spawn:      rc.Spawn,
			Content:    rc.Content,
			Scoring:    rc.Scoring,
		},
		Input: InputMouse,
		Tracker: Tracker{
			Addr:          "127.0.0.1:8765",
			Mirror:        true,
			Clamp:         true,
			MinVisibility: 0.5,
			WaitTimeout:   10 * time.Second,
		},
		Audio: Audio{
			MusicVolume: 0.7,
			SoundVolume: 0.8,
		},
		Render: Render{
			AvatarScale: 0.7,
		},
	}
}

// LoadFile merges the YAML file at path over c. Keys missing from the file
// keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// LoadEnv loads the given dotenv files, if they exist, into the process
// environment without overriding variables that are already set, and then
// applies the DRAGONBUBBLES_* variables to c.
func (c *Config) LoadEnv(files ...string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}

	if v, ok := os.LookupEnv(EnvTrackerAddr); ok {
		c.Tracker.Addr = v
	}
	if v, ok := os.LookupEnv(EnvInput); ok {
		c.Input = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv(EnvAssets); ok {
		c.Audio.Assets = v
	}
	if v, ok := os.LookupEnv(EnvMirror); ok {
		mirror, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMirror, err)
		}
		c.Tracker.Mirror = mirror
	}
	if v, ok := os.LookupEnv(EnvRoundSeconds); ok {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRoundSeconds, err)
		}
		c.Round.Seconds = seconds
	}
	return nil
}

// Bind attaches the configuration to the provided FlagSet. Current values
// become the flag defaults.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Input, "input", c.Input, "avatar input: mouse, fixed or tracker")
	fs.BoolVar(&c.Tracker.Mirror, "mirror", c.Tracker.Mirror, "mirror tracker x coordinates")
	fs.StringVar(&c.Tracker.Addr, "tracker-addr", c.Tracker.Addr, "pose tracker listen address")
	fs.IntVar(&c.Round.Seconds, "seconds", c.Round.Seconds, "round length in seconds")
	fs.IntVar(&c.Window.Width, "width", c.Window.Width, "canvas width")
	fs.IntVar(&c.Window.Height, "height", c.Window.Height, "canvas height")
	fs.IntVar(&c.Window.TPS, "tps", c.Window.TPS, "ticks per second")
	fs.StringVar(&c.Audio.Assets, "assets", c.Audio.Assets, "directory with audio and image assets")
	fs.BoolVar(&c.Audio.Mute, "mute", c.Audio.Mute, "start muted")
	fs.StringVar(&c.Render.Font, "font", c.Render.Font, "TTF/OTF font for bubble glyphs")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "show the debug overlay")
}

// Validate rejects configurations the round cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Window.TPS <= 0 {
		errs = append(errs, fmt.Errorf("tps must be positive, got %d", c.Window.TPS))
	}
	switch c.Input {
	case InputMouse, InputFixed, InputTracker:
	default:
		errs = append(errs, fmt.Errorf("unknown input %q", c.Input))
	}
	if c.Round.Seconds <= 0 {
		errs = append(errs, fmt.Errorf("round seconds must be positive, got %d", c.Round.Seconds))
	}
	if c.Round.Spawn.Interval <= 0 {
		errs = append(errs, fmt.Errorf("spawn interval must be positive, got %s", c.Round.Spawn.Interval))
	}
	if c.Round.Spawn.Jitter < 0 {
		errs = append(errs, fmt.Errorf("spawn jitter must not be negative, got %s", c.Round.Spawn.Jitter))
	}
	if c.Round.Spawn.MinSpeed <= 0 || c.Round.Spawn.MaxSpeed <= 0 {
		errs = append(errs, fmt.Errorf("spawn speeds must be positive, got %g..%g", c.Round.Spawn.MinSpeed, c.Round.Spawn.MaxSpeed))
	}
	if c.Round.Spawn.Radius <= 0 {
		errs = append(errs, fmt.Errorf("spawn radius must be positive, got %g", c.Round.Spawn.Radius))
	}
	if c.Round.HitRadius < 0 {
		errs = append(errs, fmt.Errorf("hit_radius must not be negative, got %g", c.Round.HitRadius))
	}
	if c.Round.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("max_steps must not be negative, got %g", c.Round.MaxSteps))
	}
	if s := c.Round.Scoring; s.Penalty < 0 || s.Reward < 0 {
		errs = append(errs, fmt.Errorf("scoring points are magnitudes and must not be negative, got penalty %d reward %d", s.Penalty, s.Reward))
	}
	if c.Round.Spawn.MinSpeed > c.Round.Spawn.MaxSpeed {
		errs = append(errs, fmt.Errorf("min speed %g exceeds max speed %g", c.Round.Spawn.MinSpeed, c.Round.Spawn.MaxSpeed))
	}
	if w := c.Round.Content.PenaltyWeight; w < 0 || w > 1 {
		errs = append(errs, fmt.Errorf("penalty weight must be in [0,1], got %g", w))
	}
	if len(c.Round.Content.Penalty) == 0 || len(c.Round.Content.Reward) == 0 {
		errs = append(errs, errors.New("both glyph sets need at least one glyph"))
	}
	if 2*c.Round.MarginX > float64(c.Window.Width) {
		errs = append(errs, fmt.Errorf("margin_x %g leaves no room on a %d wide canvas", c.Round.MarginX, c.Window.Width))
	}
	if v := c.Tracker.MinVisibility; v < 0 || v > 1 {
		errs = append(errs, fmt.Errorf("min_visibility must be in [0,1], got %g", v))
	}
	for name, v := range map[string]float64{"music_volume": c.Audio.MusicVolume, "sound_volume": c.Audio.SoundVolume} {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%s must be in [0,1], got %g", name, v))
		}
	}
	return errors.Join(errs...)
}

// RoundConfig builds the round constants for the configured canvas.
func (c *Config) RoundConfig() round.Config {
	field := bubble.Field{
		Width:      float64(c.Window.Width),
		Height:     float64(c.Window.Height),
		CullMargin: c.Round.CullMargin,
		MarginX:    c.Round.MarginX,
		SpawnY:     c.Round.SpawnY,
	}
	return round.Config{
		Field:     field,
		Spawn:     c.Round.Spawn,
		Content:   c.Round.Content,
		Scoring:   c.Round.Scoring,
		Seconds:   c.Round.Seconds,
		HitRadius: c.Round.HitRadius,
		MaxSteps:  c.Round.MaxSteps,
	}
}

// TrackerConfig maps the tracker section onto the canvas.
func (c *Config) TrackerConfig() avatar.TrackerConfig {
	return avatar.TrackerConfig{
		Width:  float64(c.Window.Width),
		Height: float64(c.Window.Height),
		Mirror: c.Tracker.Mirror,
		Clamp:  c.Tracker.Clamp,
	}
}

// Load resolves the full configuration for a command: defaults, then the
// file named by -config (if any), then .env and the environment, then the
// persisted player settings, then the remaining flags. settings may be nil.
// extra binds command-specific flags onto the same FlagSet.
func Load(name string, args []string, settings *Settings, extra ...func(*flag.FlagSet)) (*Config, error) {
	cfg := Default()

	if path := configPath(args); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.LoadEnv(".env"); err != nil {
		return nil, err
	}
	if settings != nil {
		settings.ApplyTo(cfg)
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.String("config", "", "YAML configuration file")
	cfg.Bind(fs)
	for _, bind := range extra {
		bind(fs)
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func configPath(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			return ""
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || name != "config" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
