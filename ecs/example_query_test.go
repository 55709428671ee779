package ecs_test

import (
	"fmt"

	"github.com/plus3/dragonbubbles/ecs"
)

// Queries iterate every entity that has at least the requested components.
func ExampleQuery() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Glyph](registry)
	storage := ecs.NewStorage(registry)

	storage.Spawn(Position{X: 100, Y: -40}, Velocity{DY: 2}, Glyph("福"))
	storage.Spawn(Position{X: 300, Y: -40}, Velocity{DY: 4}, Glyph("⚽"))
	storage.Spawn(Position{X: 500, Y: 10})

	falling := ecs.NewQuery[struct {
		*Position
		*Velocity
	}](storage)

	for item := range falling.Iter() {
		item.Position.Y += item.Velocity.DY * 3
	}

	glyphs := ecs.NewQuery[struct {
		*Position
		*Glyph
	}](storage)
	for item := range glyphs.Iter() {
		fmt.Printf("%s at (%.0f, %.0f)\n", *item.Glyph, item.Position.X, item.Position.Y)
	}
	fmt.Printf("falling: %d\n", falling.Count())

	// Output:
	// 福 at (100, -34)
	// ⚽ at (300, -28)
	// falling: 2
}
