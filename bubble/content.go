package bubble

import "math/rand/v2"

// Content is the glyph table bubbles are drawn from.
type Content struct {
	Penalty []string `yaml:"penalty"`
	Reward  []string `yaml:"reward"`
	// PenaltyWeight is the probability that a spawned bubble is a penalty.
	PenaltyWeight float64 `yaml:"penalty_weight"`
}

// DefaultContent returns the stock emoji and lucky-word sets.
func DefaultContent() Content {
	return Content{
		Penalty:       []string{"⚽", "🍔", "🎧", "🧊", "🧼", "🍺", "💡", "📎", "🧽", "🧯"},
		Reward:        []string{"福", "春", "財", "安", "旺", "吉", "祥", "賀", "馬", "年"},
		PenaltyWeight: 0.6,
	}
}

// Pick flips the weighted coin for the category and then picks a glyph
// uniformly from that category's set. An empty set yields an empty glyph.
func (c Content) Pick(rng *rand.Rand) (Category, string) {
	category := Reward
	glyphs := c.Reward
	if rng.Float64() < c.PenaltyWeight {
		category = Penalty
		glyphs = c.Penalty
	}
	if len(glyphs) == 0 {
		return category, ""
	}
	return category, glyphs[rng.IntN(len(glyphs))]
}
