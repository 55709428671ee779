// Package debugui draws a Dear ImGui overlay for a running round. The
// overlay keeps its own small ECS world: each window is a component whose
// render function the ImguiSystem defers until the frame is open.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/dragonbubbles/ecs"
)

// ImguiItem holds a Dear ImGui render function.
type ImguiItem struct {
	Render func()
}

// ImguiInputState mirrors whether ImGui wants the mouse or keyboard this
// frame. Hosts skip their own input handling while it is set.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Overlay toggles the whole debug overlay.
type Overlay struct {
	Visible bool
}

// ImguiSystem updates the input state and queues every item's render
// function while the overlay is visible.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
	Overlay    ecs.Singleton[Overlay]
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	state := i.InputState.Get()
	if !i.Overlay.Get().Visible {
		*state = ImguiInputState{}
		return
	}
	io := imgui.CurrentIO()
	state.WantCaptureMouse = io.WantCaptureMouse()
	state.WantCaptureKeyboard = io.WantCaptureKeyboard()

	for item := range i.Items.Iter() {
		frame.Commands.Defer(item.Render)
	}
}

// WindowsSystem renders the built-in windows through the ImguiSystem's
// deferred pass.
type WindowsSystem struct {
	Inspectors ecs.Query[struct{ *RoundInspectorComponent }]
	Tables     ecs.Query[struct{ *BubbleTableComponent }]
	Trackers   ecs.Query[struct{ *TrackerPanelComponent }]
	Overlay    ecs.Singleton[Overlay]
}

func (w *WindowsSystem) Execute(frame *ecs.UpdateFrame) {
	if !w.Overlay.Get().Visible {
		return
	}
	for e := range w.Inspectors.Iter() {
		frame.Commands.Defer(e.RoundInspectorComponent.Render)
	}
	for e := range w.Tables.Iter() {
		frame.Commands.Defer(e.BubbleTableComponent.Render)
	}
	for e := range w.Trackers.Iter() {
		frame.Commands.Defer(e.TrackerPanelComponent.Render)
	}
}
