package avatar

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/plus3/dragonbubbles/bubble"
)

// TrackerConfig maps normalized pose coordinates onto the canvas.
type TrackerConfig struct {
	Width, Height float64
	// Mirror flips the horizontal axis (x' = Width - x), for cameras that
	// deliver an unmirrored image of a player facing the screen.
	Mirror bool
	// Clamp keeps mapped positions inside the canvas.
	Clamp bool
}

// Tracker is fed normalized coordinates by an out-of-process pose tracker
// at its own cadence. Only the most recent sample is kept.
type Tracker struct {
	cfg     TrackerConfig
	pos     position
	samples atomic.Uint64
	ready   chan struct{}
}

// NewTracker creates a tracker with no sample yet.
func NewTracker(cfg TrackerConfig) *Tracker {
	return &Tracker{
		cfg:   cfg,
		ready: make(chan struct{}),
	}
}

// Feed records a normalized (nx, ny) sample in [0,1]x[0,1]. Non-finite
// samples are ignored. Safe to call from any goroutine.
func (t *Tracker) Feed(nx, ny float64) {
	if !finite(nx) || !finite(ny) {
		return
	}
	t.pos.store(t.Map(nx, ny))
	if t.samples.Add(1) == 1 {
		close(t.ready)
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Map converts a normalized sample to canvas pixels.
func (t *Tracker) Map(nx, ny float64) (float64, float64) {
	x := nx * t.cfg.Width
	y := ny * t.cfg.Height
	if t.cfg.Mirror {
		x = t.cfg.Width - x
	}
	if t.cfg.Clamp {
		x = min(max(x, 0), t.cfg.Width)
		y = min(max(y, 0), t.cfg.Height)
	}
	return x, y
}

func (t *Tracker) Target(time.Duration) (bubble.Point, bool) {
	return t.pos.load()
}

// Samples returns how many samples have been fed.
func (t *Tracker) Samples() uint64 {
	return t.samples.Load()
}

// Ready is closed when the first sample arrives.
func (t *Tracker) Ready() <-chan struct{} {
	return t.ready
}
