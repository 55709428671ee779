package ecs_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/plus3/dragonbubbles/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIdEncoding(t *testing.T) {
	tests := []struct {
		archetypeId uint32
		index       uint32
	}{
		{0, 0},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{1, 0},
		{0, 1},
		{0x12345678, 0x9ABCDEF0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("archetype=%d,index=%d", tt.archetypeId, tt.index), func(t *testing.T) {
			entityId := ecs.NewEntityId(tt.archetypeId, tt.index)
			assert.Equal(t, tt.archetypeId, entityId.ArchetypeId())
			assert.Equal(t, tt.index, entityId.Index())
		})
	}
}

func TestSpawnAndGetComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{X: 3, Y: 4}, Glyph("福"))
	require.True(t, storage.Alive(id))

	pos := ecs.ReadComponent[Position](storage, id)
	require.NotNil(t, pos)
	assert.Equal(t, 3.0, pos.X)
	assert.Equal(t, 4.0, pos.Y)

	glyph := storage.GetComponent(id, reflect.TypeFor[Glyph]())
	require.NotNil(t, glyph)
	assert.Equal(t, Glyph("福"), *glyph.(*Glyph))

	assert.Nil(t, ecs.ReadComponent[Velocity](storage, id))
	assert.True(t, storage.HasComponent(id, reflect.TypeFor[Position]()))
	assert.False(t, storage.HasComponent(id, reflect.TypeFor[Velocity]()))
}

func TestSameComponentSetSharesArchetype(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Position{}, Velocity{})
	b := storage.Spawn(Velocity{}, Position{})
	c := storage.Spawn(Position{})

	assert.Equal(t, a.ArchetypeId(), b.ArchetypeId())
	assert.NotEqual(t, a.ArchetypeId(), c.ArchetypeId())
	assert.Len(t, storage.Archetypes(), 2)
	assert.Equal(t, 3, storage.Len())
}

func TestDeleteEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1}, Velocity{DX: 1})
	other := storage.Spawn(Position{X: 2}, Velocity{DX: 2})

	assert.True(t, storage.Delete(id))
	assert.False(t, storage.Alive(id))
	assert.False(t, storage.Delete(id), "second delete is a no-op")
	assert.Nil(t, ecs.ReadComponent[Position](storage, id))

	pos := ecs.ReadComponent[Position](storage, other)
	require.NotNil(t, pos)
	assert.Equal(t, 2.0, pos.X)
	assert.Equal(t, 1, storage.Len())
}

func TestDeletedSlotIsReused(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	first := storage.Spawn(Position{X: 1})
	storage.Spawn(Position{X: 2})
	storage.Delete(first)

	reused := storage.Spawn(Position{X: 3})
	assert.Equal(t, first, reused)
	assert.Equal(t, 3.0, ecs.ReadComponent[Position](storage, reused).X)
}

func TestComponentPointersSurviveGrowth(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 7})
	pos := ecs.ReadComponent[Position](storage, id)

	for i := 0; i < 500; i++ {
		storage.Spawn(Position{X: float64(i)})
	}

	pos.X = 42
	assert.Equal(t, 42.0, ecs.ReadComponent[Position](storage, id).X)
}

func TestSpawnPanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { storage.Spawn() }, "no components")
	assert.Panics(t, func() { storage.Spawn(Position{}, Position{}) }, "duplicate type")
	assert.Panics(t, func() { storage.Spawn(uint8(1)) }, "unregistered type")
	assert.Panics(t, func() { storage.Spawn(map[string]int{}) }, "map component")
}

func TestSingletons(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	var score *Score
	assert.False(t, storage.ReadSingleton(&score))

	s := ecs.NewSingleton[Score](storage, 10)
	require.True(t, s.Exists())
	assert.Equal(t, Score(10), *s.Get())

	require.True(t, storage.ReadSingleton(&score))
	*score = 25
	assert.Equal(t, Score(25), *s.Get())

	s.Set(3)
	assert.Equal(t, Score(3), *score, "Set keeps outstanding pointers live")

	again := ecs.NewSingleton[Score](storage, 99)
	assert.Equal(t, Score(3), *again.Get(), "initializer ignored when singleton exists")
}

func TestArchetypeIdsAreStable(t *testing.T) {
	a := ecs.NewStorage(newTestRegistry()).Spawn(Position{}, Glyph(""))
	b := ecs.NewStorage(newTestRegistry()).Spawn(Glyph(""), Position{})
	assert.Equal(t, a.ArchetypeId(), b.ArchetypeId())
}
