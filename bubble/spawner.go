package bubble

import (
	"math/rand/v2"
	"time"
)

// SpawnConfig controls bubble emission.
type SpawnConfig struct {
	// Interval is the minimum time between two emissions.
	Interval time.Duration `yaml:"interval"`
	// Jitter, when positive, adds a uniform extra delay in [0, Jitter]
	// redrawn after every emission.
	Jitter   time.Duration `yaml:"jitter"`
	MinSpeed float64       `yaml:"min_speed"`
	MaxSpeed float64       `yaml:"max_speed"`
	Radius   float64       `yaml:"radius"`
}

// DefaultSpawnConfig emits one bubble per second falling at 2 to 4 pixels
// per reference frame.
func DefaultSpawnConfig() SpawnConfig {
	return SpawnConfig{
		Interval: time.Second,
		MinSpeed: 2,
		MaxSpeed: 4,
		Radius:   38,
	}
}

// Spawner decides, once per tick, whether a new bubble enters the field.
// Emission is gated on elapsed time, so the spawn rate does not depend on
// how often Spawn is called.
type Spawner struct {
	cfg     SpawnConfig
	content Content
	field   Field
	rng     *rand.Rand

	last      time.Duration
	threshold time.Duration
	nextID    uint64
}

// NewSpawner creates a spawner whose clock starts at zero.
func NewSpawner(cfg SpawnConfig, content Content, field Field, rng *rand.Rand) *Spawner {
	s := &Spawner{
		cfg:     cfg,
		content: content,
		field:   field,
		rng:     rng,
	}
	s.threshold = s.drawThreshold()
	return s
}

func (s *Spawner) drawThreshold() time.Duration {
	if s.cfg.Jitter <= 0 {
		return s.cfg.Interval
	}
	return s.cfg.Interval + time.Duration(s.rng.Int64N(int64(s.cfg.Jitter)+1))
}

// Spawn emits a bubble iff more than the current threshold has elapsed
// since the last emission. A clock that went backwards counts as "not
// enough time elapsed". The last-spawn time only moves on emission.
func (s *Spawner) Spawn(now time.Duration) (Bubble, bool) {
	if now-s.last <= s.threshold {
		return Bubble{}, false
	}

	category, glyph := s.content.Pick(s.rng)
	s.nextID++
	b := Bubble{
		ID:       s.nextID,
		X:        uniform(s.rng, s.field.MarginX, s.field.Width-s.field.MarginX),
		Y:        s.field.SpawnY,
		Speed:    uniform(s.rng, s.cfg.MinSpeed, s.cfg.MaxSpeed),
		Category: category,
		Glyph:    glyph,
		Radius:   s.cfg.Radius,
	}

	s.last = now
	s.threshold = s.drawThreshold()
	return b, true
}

// LastSpawn returns the time of the most recent emission.
func (s *Spawner) LastSpawn() time.Duration {
	return s.last
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}
