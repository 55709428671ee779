// Command dragonbubbles-tty plays the game in a terminal with the mouse.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/dragonbubbles/avatar"
	"github.com/plus3/dragonbubbles/config"
	"github.com/plus3/dragonbubbles/round"
	"github.com/plus3/dragonbubbles/sound"
	"github.com/plus3/dragonbubbles/tracker"
	"github.com/plus3/dragonbubbles/tty"
)

func main() {
	var logFile string
	cfg, err := config.Load("dragonbubbles-tty", os.Args[1:], nil, func(fs *flag.FlagSet) {
		fs.StringVar(&logFile, "log-file", "", "write logs here instead of discarding them")
	})
	if err != nil {
		log.Fatalf("[tty] %v", err)
	}

	logger := log.New(io.Discard, "", log.LstdFlags)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatalf("[tty] %v", err)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("[tty] %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("[tty] %v", err)
	}
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	var feedback round.Feedback = round.FeedbackFunc(func(round.Cue) {})
	speaker, err := sound.NewSpeaker(sound.Volumes{
		Music: cfg.Audio.MusicVolume,
		Sound: cfg.Audio.SoundVolume,
		Mute:  cfg.Audio.Mute,
	})
	if err != nil {
		logger.Printf("[tty] audio disabled: %v", err)
	} else {
		feedback = speaker
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rc := cfg.RoundConfig()
	view := tty.NewView(screen, rc.Field)
	view.SetMuted(cfg.Audio.Mute)
	pointer := avatar.NewPointer()

	var (
		source avatar.Source = pointer
		pose   *avatar.Tracker
	)
	switch cfg.Input {
	case config.InputFixed:
		source = avatar.Fixed(rc.Field.Center())
	case config.InputTracker:
		pose = avatar.NewTracker(cfg.TrackerConfig())
		source = pose
		serverCfg := tracker.DefaultConfig(cfg.Tracker.Addr)
		serverCfg.MinVisibility = cfg.Tracker.MinVisibility
		serverCfg.Mirror = cfg.Tracker.Mirror
		server := tracker.NewServer(serverCfg, pose, logger)
		go func() {
			if err := server.ListenAndServe(ctx, nil); err != nil {
				logger.Printf("[tty] pose tracker: %v", err)
			}
		}()
	}

	actions := make(chan tty.Action, 8)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			if a := view.HandleEvent(ev, pointer); a != tty.ActionNone {
				actions <- a
			}
		}
	}()

	s := &session{
		cfg:      cfg,
		view:     view,
		source:   source,
		feedback: feedback,
		speaker:  speaker,
		logger:   logger,
		actions:  actions,
	}
	if pose != nil && !s.awaitPose(ctx, pose) {
		return
	}
	for s.play(ctx) == tty.ActionRestart {
		if speaker != nil {
			speaker.Reset()
		}
	}
}

type session struct {
	cfg      *config.Config
	view     *tty.View
	source   avatar.Source
	feedback round.Feedback
	speaker  *sound.Speaker
	logger   *log.Logger
	actions  <-chan tty.Action
}

// awaitPose holds the first round until a pose arrives or the wait times
// out. It returns false if the player quit while waiting.
func (s *session) awaitPose(ctx context.Context, pose *avatar.Tracker) bool {
	s.view.DrawNotice("Waiting for pose tracker on " + s.cfg.Tracker.Addr + " ...")
	timeout := time.NewTimer(s.cfg.Tracker.WaitTimeout)
	defer timeout.Stop()
	for {
		select {
		case <-pose.Ready():
			return true
		case <-timeout.C:
			s.logger.Printf("[tty] no pose after %s, starting anyway", s.cfg.Tracker.WaitTimeout)
			return true
		case a := <-s.actions:
			if a == tty.ActionQuit {
				return false
			}
		case <-ctx.Done():
			return false
		}
	}
}

// play runs one round and then waits on the banner. It returns the action
// that ended the session or round.
func (s *session) play(ctx context.Context) tty.Action {
	s.view.Reset()
	r := round.New(s.cfg.RoundConfig(),
		round.WithSource(s.source),
		round.WithFeedback(s.feedback),
		round.WithDisplay(s.view),
		round.WithLogger(s.logger),
	)

	roundCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	errc := make(chan error, 1)
	go func() {
		errc <- round.Loop(roundCtx, r, time.Second/time.Duration(s.cfg.Window.TPS), s.view.Draw)
	}()

	finished := false
	for {
		select {
		case a := <-s.actions:
			switch a {
			case tty.ActionQuit, tty.ActionRestart:
				cancel()
				if !finished {
					<-errc
				}
				return a
			case tty.ActionMute:
				if s.speaker == nil {
					continue
				}
				mute := !s.speaker.Muted()
				s.speaker.SetMute(mute)
				s.view.SetMuted(mute)
				if finished {
					s.view.Draw(r.Snapshot())
				}
			}
		case err := <-errc:
			finished = true
			if err != nil {
				return tty.ActionQuit
			}
		case <-ctx.Done():
			return tty.ActionQuit
		}
	}
}
