package ecs_test

import (
	"testing"

	"github.com/plus3/dragonbubbles/ecs"
	"github.com/stretchr/testify/assert"
)

func TestQuery(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	storage.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 0.5, DY: 0.5})
	storage.Spawn(Position{X: 3, Y: 4}, Velocity{DX: 1.0, DY: 1.0})
	storage.Spawn(Position{X: 5, Y: 6}, Velocity{DX: 1.5, DY: 1.5}, Health{Current: 100, Max: 100})
	storage.Spawn(Position{X: 7, Y: 8})

	query := ecs.NewQuery[struct {
		ecs.EntityId
		*Position
		*Velocity
	}](storage)

	t.Run("matches supersets", func(t *testing.T) {
		if got := query.Count(); got != 3 {
			t.Errorf("expected 3 entities, got %d", got)
		}
	})

	t.Run("pointers alias storage", func(t *testing.T) {
		for item := range query.Iter() {
			item.Position.Y += item.Velocity.DY
		}
		for item := range query.Iter() {
			pos := ecs.ReadComponent[Position](storage, item.EntityId)
			assert.Equal(t, item.Position.Y, pos.Y)
		}
	})

	t.Run("entity id field matches entries key", func(t *testing.T) {
		for id, item := range query.Entries() {
			assert.Equal(t, id, item.EntityId)
		}
	})

	t.Run("sees archetypes created later", func(t *testing.T) {
		storage.Spawn(Position{}, Velocity{}, Glyph("x"))
		assert.Equal(t, 4, query.Count())
	})

	t.Run("get", func(t *testing.T) {
		id := storage.Spawn(Position{X: 9}, Velocity{DX: 9})
		item, ok := query.Get(id)
		assert.True(t, ok)
		assert.Equal(t, 9.0, item.Position.X)

		lonely := storage.Spawn(Position{})
		_, ok = query.Get(lonely)
		assert.False(t, ok)

		storage.Delete(id)
		_, ok = query.Get(id)
		assert.False(t, ok)
	})

	t.Run("early break", func(t *testing.T) {
		n := 0
		for range query.Iter() {
			n++
			break
		}
		assert.Equal(t, 1, n)
	})
}

func TestQueryRejectsBadLayouts(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { ecs.NewQuery[int](storage) })
	assert.Panics(t, func() {
		ecs.NewQuery[struct{ Position Position }](storage)
	})
}

func TestQueryIdOnly(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Position{})
	storage.Spawn(Glyph("a"))

	query := ecs.NewQuery[struct{ ecs.EntityId }](storage)
	assert.Equal(t, 2, query.Count())
}
