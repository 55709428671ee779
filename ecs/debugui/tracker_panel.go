package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/dragonbubbles/tracker"
)

func NewTrackerPanelComponent(stats func() tracker.Stats, historyFrames int) TrackerPanelComponent {
	return TrackerPanelComponent{stats: stats, rates: newHistory(historyFrames)}
}

// sample records the poses accepted since the previous call.
func (tp *TrackerPanelComponent) sample() tracker.Stats {
	stats := tp.stats()
	tp.rates.push(float32(stats.Accepted - tp.last))
	tp.last = stats.Accepted
	return stats
}

func (tp *TrackerPanelComponent) Render() {
	if !imgui.BeginV("Pose Tracker", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := tp.sample()
	imgui.Text(fmt.Sprintf("Connections: %d", stats.Connections))
	imgui.Text(fmt.Sprintf("Accepted: %d", stats.Accepted))
	imgui.Text(fmt.Sprintf("Dropped (low visibility): %d", stats.Dropped))
	imgui.Text(fmt.Sprintf("Malformed: %d", stats.Malformed))
	imgui.Separator()
	imgui.Text("Poses per frame")
	if rates := tp.rates.ordered(); len(rates) > 0 {
		imgui.PlotLinesFloatPtr("##poses", &rates[0], int32(len(rates)))
	}

	imgui.End()
}
