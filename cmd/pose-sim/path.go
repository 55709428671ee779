package main

import (
	"math"
	"time"

	"github.com/plus3/dragonbubbles/tracker"
)

// wristPath is a slow figure-eight over the middle of the frame, in
// normalized camera coordinates.
type wristPath struct {
	// Dropout is how long visibility stays low at the start of each
	// DropoutEvery window. Zero disables dropouts.
	Dropout      time.Duration
	DropoutEvery time.Duration
}

func (p wristPath) At(t time.Duration) tracker.Pose {
	s := t.Seconds()
	pose := tracker.Pose{
		X: 0.5 + 0.35*math.Sin(s*0.9),
		Y: 0.5 + 0.25*math.Sin(s*1.8),
		V: 0.95,
	}
	if p.Dropout > 0 && p.DropoutEvery > 0 && t%p.DropoutEvery < p.Dropout {
		pose.V = 0.1
	}
	return pose
}
