// Package ebiten hosts the debug overlay inside an ebiten game.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/dragonbubbles/bubble"
	"github.com/plus3/dragonbubbles/ecs"
	"github.com/plus3/dragonbubbles/ecs/debugui"
	"github.com/plus3/dragonbubbles/tracker"
)

// ImguiBackend wraps the ebiten Dear ImGui backend so it can live in the
// overlay storage as a singleton.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// Overlay owns the ImGui backend and the overlay world. The game calls
// Update, Draw and Layout from its own methods.
type Overlay struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	backend   *ecs.Singleton[ImguiBackend]
	overlay   *ecs.Singleton[debugui.Overlay]
	input     *ecs.Singleton[debugui.ImguiInputState]
}

// NewOverlay creates the backend window and spawns the windows. It starts
// hidden.
func NewOverlay(title string, width, height int, source debugui.RoundSource, field bubble.Field, trackerStats func() tracker.Stats) *Overlay {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")

	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[ImguiBackend](registry)
	debugui.RegisterDebugUIComponents(registry)
	storage := ecs.NewStorage(registry)

	o := &Overlay{
		storage: storage,
		backend: ecs.NewSingleton(storage, ImguiBackend{EbitenBackend: backend}),
	}
	debugui.SpawnDebugUI(storage, source, field, trackerStats)
	o.overlay = ecs.NewSingleton[debugui.Overlay](storage)
	o.input = ecs.NewSingleton[debugui.ImguiInputState](storage)

	o.scheduler = ecs.NewScheduler(storage)
	debugui.RegisterSystems(o.scheduler)
	return o
}

// Toggle shows or hides the overlay. Hiding releases any input ImGui was
// capturing, since Update stops running the systems that would clear it.
func (o *Overlay) Toggle() {
	v := o.overlay.Get()
	v.Visible = !v.Visible
	if !v.Visible {
		*o.input.Get() = debugui.ImguiInputState{}
	}
}

// Visible reports whether the overlay is shown.
func (o *Overlay) Visible() bool {
	return o.overlay.Get().Visible
}

// WantsInput reports whether ImGui is using the mouse or keyboard. A hidden
// overlay never does.
func (o *Overlay) WantsInput() bool {
	if !o.Visible() {
		return false
	}
	in := o.input.Get()
	return in.WantCaptureMouse || in.WantCaptureKeyboard
}

// Update runs the overlay systems inside an ImGui frame.
func (o *Overlay) Update() {
	if !o.Visible() {
		return
	}
	b := o.backend.Get()
	b.BeginFrame()
	o.scheduler.Once(1.0 / float64(ebiten.TPS()))
	b.EndFrame()
}

// Draw paints the overlay on top of screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.Visible() {
		return
	}
	o.backend.Get().Draw(screen)
}

// Layout forwards the window size to ImGui.
func (o *Overlay) Layout(outsideWidth, outsideHeight int) {
	o.backend.Get().Layout(outsideWidth, outsideHeight)
}
