package bubble

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvance(t *testing.T) {
	field := DefaultField(800, 600)
	in := []Bubble{
		{ID: 1, Y: 0, Speed: 2},
		{ID: 2, Y: 636, Speed: 3},
		{ID: 3, Y: 637, Speed: 3},
	}

	out := Advance(in, 1, field)

	require.Len(t, out, 2)
	assert.Equal(t, uint64(1), out[0].ID)
	assert.Equal(t, 2.0, out[0].Y)
	assert.Equal(t, uint64(2), out[1].ID)
	assert.Equal(t, 639.0, out[1].Y)

	assert.Equal(t, 0.0, in[0].Y, "input untouched")
}

func TestAdvanceScalesWithSteps(t *testing.T) {
	field := DefaultField(800, 600)
	b := []Bubble{{ID: 1, Y: 10, Speed: 4}}

	out := Advance(b, Steps(time.Second/30), field)
	assert.InDelta(t, 18.0, out[0].Y, 1e-9)

	out = Advance(b, 0, field)
	assert.Equal(t, 10.0, out[0].Y)
}

func TestAdvanceNeverResurrects(t *testing.T) {
	field := DefaultField(400, 300)
	s := NewSpawner(DefaultSpawnConfig(), DefaultContent(), field, rand.New(rand.NewPCG(3, 4)))

	var active []Bubble
	culled := map[uint64]bool{}
	for tick := 1; tick <= 60*30; tick++ {
		now := time.Duration(tick) * ReferenceFrame
		if b, ok := s.Spawn(now); ok {
			active = append(active, b)
		}

		before := map[uint64]bool{}
		for _, b := range active {
			before[b.ID] = true
		}
		active = Advance(active, 1, field)

		after := map[uint64]bool{}
		for _, b := range active {
			after[b.ID] = true
			assert.Less(t, b.Y, field.Height+field.CullMargin)
			assert.False(t, culled[b.ID], "bubble %d reappeared", b.ID)
		}
		for id := range before {
			if !after[id] {
				culled[id] = true
			}
		}
	}
	assert.NotEmpty(t, culled)
}
