package bubble

import "time"

// ReferenceFrame is the frame time speeds are expressed against.
const ReferenceFrame = time.Second / 60

// Steps converts an elapsed duration into reference-frame steps.
func Steps(elapsed time.Duration) float64 {
	return float64(elapsed) / float64(ReferenceFrame)
}

// Advance moves every bubble down by Speed*steps and drops the ones that
// left the field. The input slice is not modified.
func Advance(bs []Bubble, steps float64, field Field) []Bubble {
	out := make([]Bubble, 0, len(bs))
	for _, b := range bs {
		b.Y += b.Speed * steps
		if field.Visible(b.Y) {
			out = append(out, b)
		}
	}
	return out
}
