package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/dragonbubbles/bubble"
	"github.com/plus3/dragonbubbles/round"
)

func NewRoundInspectorComponent(source RoundSource, field bubble.Field, historyFrames int) RoundInspectorComponent {
	return RoundInspectorComponent{
		source: source,
		field:  field,
		frames: newHistory(historyFrames),
		scores: newHistory(historyFrames),
		timer:  NewFrameTimer(),
	}
}

// roundSummary is the headline numbers of a snapshot.
type roundSummary struct {
	Rewards, Penalties int
	Visible            int
	Lowest             float64
}

func summarize(snap round.Snapshot, field bubble.Field) roundSummary {
	var s roundSummary
	for _, b := range snap.Bubbles {
		if b.Category == bubble.Penalty {
			s.Penalties++
		} else {
			s.Rewards++
		}
		if b.Y >= 0 && b.Y <= field.Height {
			s.Visible++
		}
		s.Lowest = max(s.Lowest, b.Y)
	}
	return s
}

func (ri *RoundInspectorComponent) Render() {
	if !imgui.BeginV("Round", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	r := ri.source()
	snap := r.Snapshot()
	sum := summarize(snap, ri.field)

	ri.frames.push(float32(ri.timer.Delta().Seconds() * 1000))
	ri.scores.push(float32(snap.Score))

	imgui.Text(fmt.Sprintf("Phase: %s", snap.Phase))
	imgui.Text(fmt.Sprintf("Score: %d   Time left: %ds", snap.Score, snap.SecondsRemaining))
	imgui.Text(fmt.Sprintf("Bubbles: %d (%d reward, %d penalty, %d on screen)",
		len(snap.Bubbles), sum.Rewards, sum.Penalties, sum.Visible))
	imgui.Text(fmt.Sprintf("Avatar: (%.0f, %.0f) r=%.0f", snap.Avatar.X, snap.Avatar.Y, snap.Avatar.HitRadius))

	avg := ri.frames.average()
	fps := float32(0)
	if avg > 0 {
		fps = 1000 / avg
	}
	imgui.Separator()
	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, fps))
	if frames := ri.frames.ordered(); len(frames) > 0 {
		imgui.PlotLinesFloatPtr("##frametime", &frames[0], int32(len(frames)))
	}
	imgui.Text("Score")
	if scores := ri.scores.ordered(); len(scores) > 0 {
		imgui.PlotLinesFloatPtr("##score", &scores[0], int32(len(scores)))
	}

	if imgui.TreeNodeStr("Systems") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		stats := r.SchedulerStats()
		imgui.Text(fmt.Sprintf("Frames: %d", stats.Frames))
		if imgui.BeginTableV("SystemTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()
			for _, sys := range stats.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.String())
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Storage") {
		stats := r.StorageStats()
		imgui.Text(fmt.Sprintf("Entities: %d in %d archetypes", stats.TotalEntityCount, stats.ArchetypeCount))
		for _, arch := range stats.ArchetypeBreakdown {
			imgui.BulletText(fmt.Sprintf("0x%X %v: %d", arch.ID, arch.ComponentTypes, arch.EntityCount))
		}
		for _, singletonType := range stats.SingletonTypes {
			imgui.BulletText(singletonType)
		}
		imgui.TreePop()
	}

	imgui.End()
}
