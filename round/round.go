// Package round owns one timed play session: the score, the countdown and
// the bubbles, advanced by an explicit Tick and a separate SecondTick.
package round

import (
	"cmp"
	"io"
	"log"
	"math/rand/v2"
	"slices"
	"strconv"
	"time"

	"github.com/plus3/dragonbubbles/avatar"
	"github.com/plus3/dragonbubbles/bubble"
	"github.com/plus3/dragonbubbles/ecs"
)

// Config holds the fixed constants of a round.
type Config struct {
	Field   bubble.Field
	Spawn   bubble.SpawnConfig
	Content bubble.Content
	Scoring bubble.Scoring
	// Seconds is the countdown length.
	Seconds int
	// HitRadius is the avatar's collision radius in pixels.
	HitRadius float64
	// MaxSteps caps the reference-frame steps of a single Tick so a stalled
	// host does not teleport bubbles. Zero disables the cap.
	MaxSteps float64
}

// DefaultConfig returns the stock 60 second round on a canvas of the given
// size. The hit radius is the dragon head radius (40) at scale 0.7.
func DefaultConfig(width, height float64) Config {
	return Config{
		Field:     bubble.DefaultField(width, height),
		Spawn:     bubble.DefaultSpawnConfig(),
		Content:   bubble.DefaultContent(),
		Scoring:   bubble.DefaultScoring(),
		Seconds:   60,
		HitRadius: 40 * 0.7,
		MaxSteps:  6,
	}
}

// Option customizes a Round.
type Option func(*Round)

// WithSource sets where the avatar target comes from.
func WithSource(src avatar.Source) Option {
	return func(r *Round) { r.source = src }
}

// WithFeedback sets the audio sink.
func WithFeedback(fb Feedback) Option {
	return func(r *Round) { r.feedback = fb }
}

// WithDisplay sets the text sink.
func WithDisplay(d Display) Option {
	return func(r *Round) { r.display = d }
}

// WithRand sets the random source used for spawning.
func WithRand(rng *rand.Rand) Option {
	return func(r *Round) { r.rng = rng }
}

// WithLogger sets the logger for lifecycle messages.
func WithLogger(l *log.Logger) Option {
	return func(r *Round) { r.logger = l }
}

// Round is a single play session. It is not safe for concurrent use: one
// goroutine drives Tick, SecondTick and Snapshot. A finished round is never
// restarted; build a new one.
type Round struct {
	cfg      Config
	source   avatar.Source
	feedback Feedback
	display  Display
	rng      *rand.Rand
	logger   *log.Logger

	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	state     *ecs.Singleton[State]
	avatar    *ecs.Singleton[bubble.Avatar]
	bubbles   *ecs.Query[bubbleEntity]

	started bool
	done    chan struct{}
}

// New builds a round in the Running phase with score 0 and the full
// countdown. The avatar starts at the canvas centre.
func New(cfg Config, opts ...Option) *Round {
	r := &Round{
		cfg:      cfg,
		feedback: nopFeedback{},
		display:  nopDisplay{},
		logger:   log.New(io.Discard, "", 0),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	r.storage = ecs.NewStorage(newRegistry())
	center := cfg.Field.Center()
	r.state = ecs.NewSingleton(r.storage, State{
		SecondsRemaining: cfg.Seconds,
		Phase:            Running,
	})
	r.avatar = ecs.NewSingleton(r.storage, bubble.Avatar{
		X:         center.X,
		Y:         center.Y,
		HitRadius: cfg.HitRadius,
	})
	ecs.NewSingleton[Outbox](r.storage)
	ecs.NewSingleton[Pace](r.storage)
	r.bubbles = ecs.NewQuery[bubbleEntity](r.storage)

	r.scheduler = ecs.NewScheduler(r.storage)
	r.scheduler.Register(&PaceSystem{MaxSteps: cfg.MaxSteps})
	r.scheduler.Register(&AvatarSystem{Source: r.source})
	r.scheduler.Register(&SpawnSystem{
		Spawner: bubble.NewSpawner(cfg.Spawn, cfg.Content, cfg.Field, r.rng),
	})
	r.scheduler.Register(&KinematicsSystem{Field: cfg.Field})
	r.scheduler.Register(&CollisionSystem{Scoring: cfg.Scoring})
	r.scheduler.Register(&FeedbackSystem{Feedback: r.feedback, Display: r.display})

	return r
}

// Start cues the background music and publishes the initial score and
// timer. Calls after the first, or after the round ended, do nothing.
func (r *Round) Start() {
	if r.started || r.Ended() {
		return
	}
	r.started = true
	state := r.state.Get()
	r.logger.Printf("[round] started, %ds on the clock", state.SecondsRemaining)
	r.feedback.Cue(CueMusic)
	r.display.ShowScore(scoreText(state.Score))
	r.display.ShowTimer(strconv.Itoa(state.SecondsRemaining))
}

// Tick advances the simulation to now, a monotonic elapsed time measured
// by the host from an origin of its choosing; Loop measures it from when
// the loop starts. Only differences between ticks matter. It does nothing
// once the round has ended.
func (r *Round) Tick(now time.Duration) {
	if r.Ended() {
		return
	}
	r.scheduler.OnceAt(now)
}

// SecondTick decrements the countdown and ends the round when it reaches
// zero. It does nothing once the round has ended.
func (r *Round) SecondTick() {
	if r.Ended() {
		return
	}
	state := r.state.Get()
	state.SecondsRemaining--
	r.display.ShowTimer(strconv.Itoa(max(state.SecondsRemaining, 0)))
	if state.SecondsRemaining <= 0 {
		state.SecondsRemaining = 0
		r.end()
	}
}

func (r *Round) end() {
	state := r.state.Get()
	state.Phase = Ended
	close(r.done)
	r.logger.Printf("[round] ended, final score %d", state.Score)
	r.feedback.Cue(CueRoundEnd)
	r.display.ShowGameOver(scoreText(state.Score))
}

// Ended reports whether the round is over.
func (r *Round) Ended() bool {
	return r.state.Get().Phase == Ended
}

// Done is closed when the round ends. Hosts stop their timers on it.
func (r *Round) Done() <-chan struct{} {
	return r.done
}

// Config returns the constants the round was built with.
func (r *Round) Config() Config {
	return r.cfg
}

// Snapshot is a read-only copy of everything a renderer needs.
type Snapshot struct {
	Bubbles          []bubble.Bubble
	Avatar           bubble.Avatar
	Score            int
	SecondsRemaining int
	Phase            Phase
}

// Snapshot copies the current state. Bubbles are ordered by id.
func (r *Round) Snapshot() Snapshot {
	state := r.state.Get()
	snap := Snapshot{
		Bubbles:          make([]bubble.Bubble, 0, r.bubbles.Count()),
		Avatar:           *r.avatar.Get(),
		Score:            state.Score,
		SecondsRemaining: state.SecondsRemaining,
		Phase:            state.Phase,
	}
	for entity := range r.bubbles.Iter() {
		snap.Bubbles = append(snap.Bubbles, *entity.Bubble)
	}
	slices.SortFunc(snap.Bubbles, func(a, b bubble.Bubble) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return snap
}

// SchedulerStats exposes per-system timings for debug overlays.
func (r *Round) SchedulerStats() *ecs.SchedulerStats {
	return r.scheduler.GetStats()
}

// StorageStats exposes entity counts for debug overlays.
func (r *Round) StorageStats() *ecs.StorageStats {
	return r.storage.CollectStats()
}

func scoreText(score int) string {
	return strconv.Itoa(score)
}
