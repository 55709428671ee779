package config

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Settings are the player preferences remembered between sessions. Scores
// are deliberately absent.
type Settings struct {
	MusicVolume float64 `yaml:"music_volume"`
	SoundVolume float64 `yaml:"sound_volume"`
	Mute        bool    `yaml:"mute"`
	Mirror      bool    `yaml:"mirror"`
	Input       string  `yaml:"input"`
}

// SettingsFrom captures the preference fields of cfg.
func SettingsFrom(cfg *Config) Settings {
	return Settings{
		MusicVolume: cfg.Audio.MusicVolume,
		SoundVolume: cfg.Audio.SoundVolume,
		Mute:        cfg.Audio.Mute,
		Mirror:      cfg.Tracker.Mirror,
		Input:       cfg.Input,
	}
}

// ApplyTo copies the preferences into cfg. An empty input keeps cfg's.
func (s *Settings) ApplyTo(cfg *Config) {
	cfg.Audio.MusicVolume = clampUnit(s.MusicVolume)
	cfg.Audio.SoundVolume = clampUnit(s.SoundVolume)
	cfg.Audio.Mute = s.Mute
	cfg.Tracker.Mirror = s.Mirror
	if s.Input != "" {
		cfg.Input = s.Input
	}
}

const (
	settingsObject   = "settings"
	settingsProperty = "player"
)

// SettingsStore persists Settings with gdata. A nil manager keeps the
// settings in memory only.
type SettingsStore struct {
	manager *gdata.Manager
}

// OpenSettingsStore opens the per-user data directory for app.
func OpenSettingsStore(app string) (*SettingsStore, error) {
	manager, err := gdata.Open(gdata.Config{AppName: app})
	if err != nil {
		return nil, fmt.Errorf("open settings storage: %w", err)
	}
	return NewSettingsStore(manager), nil
}

// NewSettingsStore wraps an existing manager, which may be nil.
func NewSettingsStore(manager *gdata.Manager) *SettingsStore {
	return &SettingsStore{manager: manager}
}

// Load returns the stored settings, or fallback when nothing was stored.
func (s *SettingsStore) Load(fallback Settings) (Settings, error) {
	if s.manager == nil || !s.manager.ObjectPropExists(settingsObject, settingsProperty) {
		return fallback, nil
	}

	data, err := s.manager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fallback, fmt.Errorf("load settings: %w", err)
	}

	loaded := fallback
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fallback, fmt.Errorf("unmarshal settings: %w", err)
	}
	return loaded, nil
}

// Save stores settings.
func (s *SettingsStore) Save(settings Settings) error {
	if s.manager == nil {
		return nil
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := s.manager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	log.Printf("[settings] saved")
	return nil
}

func clampUnit(v float64) float64 {
	return min(max(v, 0), 1)
}
