// Command dragonbubbles runs the game in a window.
package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/plus3/dragonbubbles/avatar"
	"github.com/plus3/dragonbubbles/config"
	"github.com/plus3/dragonbubbles/ecs/debugui"
	debugui_ebiten "github.com/plus3/dragonbubbles/ecs/debugui/ebiten"
	"github.com/plus3/dragonbubbles/render"
	"github.com/plus3/dragonbubbles/sound"
	"github.com/plus3/dragonbubbles/tracker"
)

const appName = "dragonbubbles"

func main() {
	logger := log.Default()

	store, err := config.OpenSettingsStore(appName)
	if err != nil {
		logger.Printf("[game] settings will not persist: %v", err)
		store = config.NewSettingsStore(nil)
	}
	settings, err := store.Load(config.SettingsFrom(config.Default()))
	if err != nil {
		logger.Printf("[game] ignoring stored settings: %v", err)
		settings = config.SettingsFrom(config.Default())
	}

	cfg, err := config.Load(appName, os.Args[1:], &settings)
	if err != nil {
		log.Fatalf("[game] %v", err)
	}
	settings = config.SettingsFrom(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	renderer, err := render.New(render.Options{
		Font:        cfg.Render.Font,
		Background:  cfg.Render.Background,
		AvatarScale: cfg.Render.AvatarScale,
	})
	if err != nil {
		log.Fatalf("[game] %v", err)
	}
	renderer.Muted = cfg.Audio.Mute

	player, err := sound.NewEbiten(audio.NewContext(int(sound.SampleRate)), cfg.Audio.Assets, sound.Volumes{
		Music: cfg.Audio.MusicVolume,
		Sound: cfg.Audio.SoundVolume,
		Mute:  cfg.Audio.Mute,
	})
	if err != nil {
		log.Fatalf("[game] audio: %v", err)
	}

	g := &Game{
		cfg:      cfg,
		store:    store,
		settings: settings,
		logger:   logger,
		audio:    player,
		renderer: renderer,
	}

	switch cfg.Input {
	case config.InputMouse:
		g.pointer = avatar.NewPointer()
		g.source = g.pointer
	case config.InputFixed:
		g.source = avatar.Fixed(cfg.RoundConfig().Field.Center())
	case config.InputTracker:
		g.pose = avatar.NewTracker(cfg.TrackerConfig())
		g.source = g.pose

		serverCfg := tracker.DefaultConfig(cfg.Tracker.Addr)
		serverCfg.MinVisibility = cfg.Tracker.MinVisibility
		serverCfg.Mirror = cfg.Tracker.Mirror
		g.server = tracker.NewServer(serverCfg, g.pose, logger)
		go func() {
			if err := g.server.ListenAndServe(ctx, nil); err != nil {
				logger.Printf("[game] pose tracker: %v", err)
			}
		}()
	}

	g.newRound()

	if cfg.Debug {
		var stats func() tracker.Stats
		if g.server != nil {
			stats = g.server.Stats
		}
		g.overlay = debugui_ebiten.NewOverlay(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height,
			func() debugui.Inspectable { return g.round }, cfg.RoundConfig().Field, stats)
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Window.Fullscreen)
	ebiten.SetTPS(cfg.Window.TPS)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatalf("[game] %v", err)
	}
}
