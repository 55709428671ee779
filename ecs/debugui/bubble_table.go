package debugui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/dragonbubbles/bubble"
)

const (
	columnID = iota
	columnCategory
	columnGlyph
	columnY
	columnSpeed
)

func NewBubbleTableComponent(source RoundSource) BubbleTableComponent {
	return BubbleTableComponent{source: source, sortColumn: columnID}
}

// rows filters and sorts bubbles for display. The filter matches the id,
// the glyph or the category name.
func (bt *BubbleTableComponent) rows(bubbles []bubble.Bubble) []bubble.Bubble {
	filter := strings.ToLower(bt.filterText)
	out := make([]bubble.Bubble, 0, len(bubbles))
	for _, b := range bubbles {
		if filter != "" &&
			!strings.Contains(fmt.Sprint(b.ID), filter) &&
			!strings.Contains(strings.ToLower(b.Glyph), filter) &&
			!strings.Contains(b.Category.String(), filter) {
			continue
		}
		out = append(out, b)
	}

	slices.SortStableFunc(out, func(a, b bubble.Bubble) int {
		var c int
		switch bt.sortColumn {
		case columnCategory:
			c = cmp.Compare(a.Category, b.Category)
		case columnGlyph:
			c = strings.Compare(a.Glyph, b.Glyph)
		case columnY:
			c = cmp.Compare(a.Y, b.Y)
		case columnSpeed:
			c = cmp.Compare(a.Speed, b.Speed)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if bt.descending {
			return -c
		}
		return c
	})
	return out
}

func (bt *BubbleTableComponent) Render() {
	if !imgui.BeginV("Bubbles", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.InputTextWithHint("##search", "Filter...", &bt.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear") {
		bt.filterText = ""
	}

	rows := bt.rows(bt.source().Snapshot().Bubbles)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("BubbleTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("ID")
		imgui.TableSetupColumn("Category")
		imgui.TableSetupColumn("Glyph")
		imgui.TableSetupColumn("Y")
		imgui.TableSetupColumn("Speed")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			bt.sortColumn = int(spec.ColumnIndex())
			bt.descending = spec.SortDirection() == imgui.SortDirectionDescending
			sortSpecs.SetSpecsDirty(false)
		}

		for _, b := range rows {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", b.ID))
			imgui.TableNextColumn()
			imgui.Text(b.Category.String())
			imgui.TableNextColumn()
			imgui.Text(b.Glyph)
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.1f", b.Y))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.2f", b.Speed))
		}
		imgui.EndTable()
	}
	imgui.Text(fmt.Sprintf("Total: %d bubbles", len(rows)))

	imgui.End()
}
