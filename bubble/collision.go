package bubble

import "math"

// Scoring holds the score change for each category.
type Scoring struct {
	Penalty int `yaml:"penalty"`
	Reward  int `yaml:"reward"`
}

// DefaultScoring is -5 for a penalty and +10 for a reward.
func DefaultScoring() Scoring {
	return Scoring{Penalty: 5, Reward: 10}
}

// EventKind says what a consumed bubble was.
type EventKind uint8

const (
	EventPenalty EventKind = iota
	EventReward
)

func (k EventKind) String() string {
	if k == EventReward {
		return "reward"
	}
	return "penalty"
}

// Event records one consumed bubble.
type Event struct {
	Kind   EventKind
	Bubble Bubble
}

// Resolution is the outcome of one collision pass.
type Resolution struct {
	Survivors []Bubble
	Delta     int
	Events    []Event
}

// Hits reports whether b overlaps the avatar.
func Hits(b Bubble, avatar Avatar) bool {
	return math.Hypot(b.X-avatar.X, b.Y-avatar.Y) < b.Radius+avatar.HitRadius
}

// Resolve tests every bubble against the avatar. Hits are marked over the
// input snapshot first and filtered out afterwards, so each bubble is
// consumed at most once and no neighbour is skipped. Survivors keep their
// input order; events follow input order too.
func Resolve(bs []Bubble, avatar Avatar, rules Scoring) Resolution {
	if len(bs) == 0 {
		return Resolution{}
	}

	hit := make([]bool, len(bs))
	var res Resolution
	for i, b := range bs {
		if !Hits(b, avatar) {
			continue
		}
		hit[i] = true
		switch b.Category {
		case Penalty:
			res.Delta -= rules.Penalty
			res.Events = append(res.Events, Event{Kind: EventPenalty, Bubble: b})
		case Reward:
			res.Delta += rules.Reward
			res.Events = append(res.Events, Event{Kind: EventReward, Bubble: b})
		}
	}

	res.Survivors = make([]Bubble, 0, len(bs)-len(res.Events))
	for i, b := range bs {
		if !hit[i] {
			res.Survivors = append(res.Survivors, b)
		}
	}
	return res
}

// ApplyDelta adds delta to score, clamping at zero.
func ApplyDelta(score, delta int) int {
	return max(0, score+delta)
}
