package config

import (
	"testing"

	"github.com/quasilyte/gdata/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *gdata.Manager {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)

	manager, err := gdata.Open(gdata.Config{AppName: "dragonbubbles_test"})
	require.NoError(t, err)
	return manager
}

func TestSettingsRoundTrip(t *testing.T) {
	store := NewSettingsStore(newTestManager(t))
	fallback := SettingsFrom(Default())

	loaded, err := store.Load(fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, loaded, "nothing stored yet")

	want := Settings{MusicVolume: 0.1, SoundVolume: 0.9, Mute: true, Mirror: false, Input: InputTracker}
	require.NoError(t, store.Save(want))

	loaded, err = store.Load(fallback)
	require.NoError(t, err)
	assert.Equal(t, want, loaded)
}

func TestSettingsWithoutManager(t *testing.T) {
	store := NewSettingsStore(nil)
	fallback := Settings{MusicVolume: 0.5}

	require.NoError(t, store.Save(Settings{MusicVolume: 1}))
	loaded, err := store.Load(fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, loaded)
}

func TestSettingsApplyTo(t *testing.T) {
	cfg := Default()
	s := Settings{MusicVolume: 3, SoundVolume: -1, Mute: true, Mirror: false}
	s.ApplyTo(cfg)

	assert.Equal(t, 1.0, cfg.Audio.MusicVolume)
	assert.Equal(t, 0.0, cfg.Audio.SoundVolume)
	assert.True(t, cfg.Audio.Mute)
	assert.False(t, cfg.Tracker.Mirror)
	assert.Equal(t, InputMouse, cfg.Input, "empty input keeps the configured one")
	assert.Equal(t, s.Mute, SettingsFrom(cfg).Mute)
}
