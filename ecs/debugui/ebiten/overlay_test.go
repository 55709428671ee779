package ebiten

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plus3/dragonbubbles/ecs"
	"github.com/plus3/dragonbubbles/ecs/debugui"
)

func newHeadlessOverlay() *Overlay {
	registry := ecs.NewComponentRegistry()
	debugui.RegisterDebugUIComponents(registry)
	storage := ecs.NewStorage(registry)
	return &Overlay{
		storage: storage,
		overlay: ecs.NewSingleton[debugui.Overlay](storage),
		input:   ecs.NewSingleton[debugui.ImguiInputState](storage),
	}
}

func TestToggleOffReleasesInput(t *testing.T) {
	o := newHeadlessOverlay()

	o.Toggle()
	assert.True(t, o.Visible())
	*o.input.Get() = debugui.ImguiInputState{WantCaptureMouse: true}
	assert.True(t, o.WantsInput())

	o.Toggle()
	assert.False(t, o.Visible())
	assert.False(t, o.WantsInput())
	assert.Equal(t, debugui.ImguiInputState{}, *o.input.Get())

	o.Toggle()
	assert.False(t, o.WantsInput(), "reopening starts without captured input")
}

func TestHiddenOverlayNeverWantsInput(t *testing.T) {
	o := newHeadlessOverlay()
	*o.input.Get() = debugui.ImguiInputState{WantCaptureKeyboard: true}
	assert.False(t, o.WantsInput())
}
