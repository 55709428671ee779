package main

import (
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/plus3/dragonbubbles/avatar"
	"github.com/plus3/dragonbubbles/config"
	debugui_ebiten "github.com/plus3/dragonbubbles/ecs/debugui/ebiten"
	"github.com/plus3/dragonbubbles/render"
	"github.com/plus3/dragonbubbles/round"
	"github.com/plus3/dragonbubbles/sound"
	"github.com/plus3/dragonbubbles/tracker"
)

// Game hosts rounds in an ebiten window. A new round is built for every
// restart; the renderer, audio and input sources live for the whole run.
type Game struct {
	cfg      *config.Config
	store    *config.SettingsStore
	settings config.Settings
	logger   *log.Logger

	source  avatar.Source
	pointer *avatar.Pointer
	pose    *avatar.Tracker
	server  *tracker.Server

	audio    *sound.Ebiten
	renderer *render.Renderer
	overlay  *debugui_ebiten.Overlay

	round   *round.Round
	pacer   *round.Pacer
	started time.Time
	waiting time.Time
	running bool
}

func (g *Game) newRound() {
	g.renderer.Reset()
	g.round = round.New(g.cfg.RoundConfig(),
		round.WithSource(g.source),
		round.WithFeedback(g.audio),
		round.WithDisplay(&g.renderer.TextDisplay),
		round.WithLogger(g.logger),
	)
	g.pacer = round.NewPacer(time.Second)
	g.running = false
	g.waiting = time.Now()
}

// inputReady reports whether the avatar source can drive a round. Only
// the pose tracker has to wait, and only up to the configured timeout.
func (g *Game) inputReady() bool {
	if g.pose == nil {
		return true
	}
	select {
	case <-g.pose.Ready():
		return true
	default:
	}
	if time.Since(g.waiting) >= g.cfg.Tracker.WaitTimeout {
		g.logger.Printf("[game] no pose after %s, starting anyway", g.cfg.Tracker.WaitTimeout)
		g.pose = nil
		return true
	}
	return false
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if g.overlay != nil {
		if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
			g.overlay.Toggle()
		}
		defer g.overlay.Update()
	}

	capturing := g.overlay != nil && g.overlay.WantsInput()
	if !capturing {
		g.handleKeys()
		if g.pointer != nil {
			x, y := ebiten.CursorPosition()
			g.pointer.Set(float64(x), float64(y))
		}
	}

	if !g.running {
		if !g.inputReady() {
			return nil
		}
		g.round.Start()
		g.started = time.Now()
		g.running = true
	}

	elapsed := time.Since(g.started)
	g.round.Tick(elapsed)
	for range g.pacer.Due(elapsed) {
		g.round.SecondTick()
	}
	return nil
}

func (g *Game) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		mute := !g.audio.Muted()
		g.audio.SetMute(mute)
		g.renderer.Muted = mute
		g.settings.Mute = mute
		if err := g.store.Save(g.settings); err != nil {
			g.logger.Printf("[game] save settings: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.audio.Reset()
		g.newRound()
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.round.Snapshot())
	if !g.running {
		g.renderer.DrawNotice(screen, fmt.Sprintf("Waiting for pose tracker on %s ...", g.cfg.Tracker.Addr))
	}
	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.overlay != nil {
		g.overlay.Layout(outsideWidth, outsideHeight)
	}
	return g.cfg.Window.Width, g.cfg.Window.Height
}
