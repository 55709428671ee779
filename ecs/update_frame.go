package ecs

import "time"

// UpdateFrame is what every system sees during one scheduler step.
type UpdateFrame struct {
	// Now is the simulation clock at this step.
	Now time.Duration
	// DeltaTime is the time since the previous step, in seconds.
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage
}

func newUpdateFrame(now time.Duration, dt float64, storage *Storage, commands *Commands) *UpdateFrame {
	return &UpdateFrame{
		Now:       now,
		DeltaTime: dt,
		Commands:  commands,
		Storage:   storage,
	}
}
