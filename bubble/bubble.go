// Package bubble holds the falling-bubble model and the pure functions that
// drive it: spawning, vertical motion with culling, and collision against
// the avatar.
package bubble

import "fmt"

// Category decides what consuming a bubble does to the score.
type Category uint8

const (
	Penalty Category = iota
	Reward
)

func (c Category) String() string {
	switch c {
	case Penalty:
		return "penalty"
	case Reward:
		return "reward"
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// Bubble is one falling glyph. Speed is the vertical displacement per
// reference frame (1/60 s).
type Bubble struct {
	ID       uint64
	X, Y     float64
	Speed    float64
	Category Category
	Glyph    string
	Radius   float64
}

// Point is a canvas coordinate in pixels.
type Point struct {
	X, Y float64
}

// Avatar is the collision view of the dragon.
type Avatar struct {
	X, Y      float64
	HitRadius float64
}

// Field is the canvas geometry the bubbles live in.
type Field struct {
	Width, Height float64
	// CullMargin is how far below the bottom edge a bubble may fall before
	// it is removed.
	CullMargin float64
	// MarginX keeps spawned bubbles away from the side edges.
	MarginX float64
	// SpawnY is the vertical position of new bubbles, usually negative so
	// they enter from above.
	SpawnY float64
}

// DefaultField returns a field of the given size with the stock margins.
func DefaultField(width, height float64) Field {
	return Field{
		Width:      width,
		Height:     height,
		CullMargin: 40,
		SpawnY:     -40,
	}
}

// Center returns the middle of the canvas.
func (f Field) Center() Point {
	return Point{X: f.Width / 2, Y: f.Height / 2}
}

// Visible reports whether a bubble at y is still inside the active area.
func (f Field) Visible(y float64) bool {
	return y < f.Height+f.CullMargin
}
