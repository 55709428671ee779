package ecs_test

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/dragonbubbles/ecs"
	"github.com/stretchr/testify/assert"
)

type MovementSystem struct {
	Entities ecs.Query[struct {
		*Position
		*Velocity
	}]
	ExecuteCount int
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	for item := range s.Entities.Iter() {
		item.Position.X += item.Velocity.DX * frame.DeltaTime
		item.Position.Y += item.Velocity.DY * frame.DeltaTime
	}
}

type HealthSystem struct {
	Entities ecs.Query[struct {
		*Health
	}]
	ExecuteCount int
	TotalHealth  float64
}

func (s *HealthSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	s.TotalHealth = 0
	for item := range s.Entities.Iter() {
		s.TotalHealth += float64(item.Health.Current)
	}
}

type ScoreSystem struct {
	Score ecs.Singleton[Score]
}

func (s *ScoreSystem) Execute(*ecs.UpdateFrame) {
	*s.Score.Get() += 10
}

type clockRecorder struct {
	nows   []time.Duration
	deltas []float64
}

func (c *clockRecorder) Execute(frame *ecs.UpdateFrame) {
	c.nows = append(c.nows, frame.Now)
	c.deltas = append(c.deltas, frame.DeltaTime)
}

func TestScheduler(t *testing.T) {
	registry := newTestRegistry()

	t.Run("system execution order and query initialization", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)

		var order []string
		movement := &MovementSystem{}
		health := &HealthSystem{}

		scheduler.Register(ecs.SystemFunc(func(*ecs.UpdateFrame) { order = append(order, "first") }))
		scheduler.Register(movement)
		scheduler.Register(health)
		scheduler.Register(ecs.SystemFunc(func(*ecs.UpdateFrame) { order = append(order, "last") }))

		storage.Spawn(Position{X: 0, Y: 0}, Velocity{DX: 1, DY: 2})
		storage.Spawn(Health{Current: 100, Max: 100})

		scheduler.Once(1.0)
		scheduler.Once(1.0)

		assert.Equal(t, 2, movement.ExecuteCount)
		assert.Equal(t, 2, health.ExecuteCount)
		assert.Equal(t, []string{"first", "last", "first", "last"}, order)
	})

	t.Run("custom state persistence", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)

		storage.Spawn(Health{Current: 50, Max: 100})
		storage.Spawn(Health{Current: 75, Max: 100})

		health := &HealthSystem{}
		scheduler.Register(health)

		scheduler.Once(1.0)
		assert.Equal(t, 125.0, health.TotalHealth)

		storage.Spawn(Health{Current: 25, Max: 100})

		scheduler.Once(1.0)
		assert.Equal(t, 150.0, health.TotalHealth)
	})

	t.Run("singleton fields are bound", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		ecs.NewSingleton[Score](storage, 5)

		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(&ScoreSystem{})
		scheduler.Once(0.1)
		scheduler.Once(0.1)

		var score *Score
		assert.True(t, storage.ReadSingleton(&score))
		assert.Equal(t, Score(25), *score)
	})

	t.Run("context cancellation in run", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)

		movement := &MovementSystem{}
		scheduler.Register(movement)

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan bool)
		go func() {
			scheduler.Run(ctx, 1*time.Millisecond)
			done <- true
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("scheduler did not stop after context cancellation")
		}

		assert.Positive(t, movement.ExecuteCount)
	})

	t.Run("delta time calculation", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)

		id := storage.Spawn(Position{X: 0, Y: 0}, Velocity{DX: 10, DY: 20})

		movement := &MovementSystem{}
		scheduler.Register(movement)

		scheduler.Once(0.5)

		pos := ecs.ReadComponent[Position](storage, id)
		assert.InDelta(t, 5.0, pos.X, 1e-9)
		assert.InDelta(t, 10.0, pos.Y, 1e-9)
		assert.Equal(t, 500*time.Millisecond, scheduler.Now())
	})

	t.Run("once at derives delta from the clock", func(t *testing.T) {
		scheduler := ecs.NewScheduler(ecs.NewStorage(registry))
		clock := &clockRecorder{}
		scheduler.Register(clock)

		scheduler.OnceAt(2 * time.Second)
		scheduler.OnceAt(2500 * time.Millisecond)
		scheduler.OnceAt(2500 * time.Millisecond)
		scheduler.OnceAt(time.Second)

		assert.Equal(t, []float64{0, 0.5, 0, 0}, clock.deltas)
		assert.Equal(t, []time.Duration{
			2 * time.Second,
			2500 * time.Millisecond,
			2500 * time.Millisecond,
			2500 * time.Millisecond,
		}, clock.nows, "clock never moves backwards")
	})

	t.Run("commands integration", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)

		spawnSystem := &testSpawnSystem{}
		scheduler.Register(spawnSystem)
		scheduler.Once(1.0)
		assert.True(t, spawnSystem.executed)

		movement := &MovementSystem{}
		scheduler.Register(movement)
		scheduler.Once(1.0)

		assert.Positive(t, movement.Entities.Count(), "spawned entity visible after flush")
	})
}
