// Package tty plays a round in a terminal. The canvas is mapped onto the
// cell grid above a one-line status bar.
package tty

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/plus3/dragonbubbles/avatar"
	"github.com/plus3/dragonbubbles/bubble"
	"github.com/plus3/dragonbubbles/round"
)

var (
	stylePenalty = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.NewHexColor(0xFFDF00))
	styleReward  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.NewHexColor(0x9EFFA3))
	styleHead    = tcell.StyleDefault.Foreground(tcell.NewHexColor(0xA52A2A)).Bold(true)
	styleSpike   = tcell.StyleDefault.Foreground(tcell.NewHexColor(0xFFD700))
	styleStatus  = tcell.StyleDefault.Reverse(true)
	styleBanner  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkRed).Bold(true)
)

// Action is what a terminal event asks the host to do.
type Action uint8

const (
	ActionNone Action = iota
	ActionQuit
	ActionRestart
	ActionMute
)

// View draws snapshots onto a tcell screen and turns mouse motion into
// avatar targets.
type View struct {
	round.TextDisplay

	screen tcell.Screen
	field  bubble.Field
	muted  atomic.Bool
}

// SetMuted toggles the mute marker on the status line.
func (v *View) SetMuted(muted bool) { v.muted.Store(muted) }

// NewView wraps an initialized screen.
func NewView(screen tcell.Screen, field bubble.Field) *View {
	return &View{screen: screen, field: field}
}

// grid returns the playfield size in cells.
func (v *View) grid() (cols, rows int) {
	w, h := v.screen.Size()
	return max(w, 1), max(h-1, 1)
}

// Cell maps a canvas point to the cell that shows it.
func (v *View) Cell(p bubble.Point) (col, row int) {
	cols, rows := v.grid()
	col = int(math.Floor(p.X / v.field.Width * float64(cols)))
	row = int(math.Floor(p.Y / v.field.Height * float64(rows)))
	return col, row
}

// Point maps a cell to the canvas point at its centre.
func (v *View) Point(col, row int) bubble.Point {
	cols, rows := v.grid()
	return bubble.Point{
		X: (float64(col) + 0.5) / float64(cols) * v.field.Width,
		Y: (float64(row) + 0.5) / float64(rows) * v.field.Height,
	}
}

// HandleEvent applies one terminal event. Mouse motion moves ptr.
func (v *View) HandleEvent(ev tcell.Event, ptr *avatar.Pointer) Action {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		col, row := ev.Position()
		v.moveTo(col, row, ptr)
	case *tcell.EventKey:
		return keyAction(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return ActionNone
}

// moveTo points the avatar at a cell. The status line is not part of the
// playfield.
func (v *View) moveTo(col, row int, ptr *avatar.Pointer) {
	if _, rows := v.grid(); row < rows && ptr != nil {
		p := v.Point(col, row)
		ptr.Set(p.X, p.Y)
	}
}

func keyAction(key tcell.Key, r rune) Action {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyRune:
		switch r {
		case 'q':
			return ActionQuit
		case 'r':
			return ActionRestart
		case 'm':
			return ActionMute
		}
	}
	return ActionNone
}

// Draw paints one frame and shows it.
func (v *View) Draw(snap round.Snapshot) {
	v.screen.Clear()
	v.drawDragon(snap.Avatar)
	for _, b := range snap.Bubbles {
		v.drawBubble(b)
	}

	score, timer, final, over := v.Texts()
	status := fmt.Sprintf(" Score: %s  Time: %s ", score, timer)
	if v.muted.Load() {
		status += " [muted] "
	}
	status += " r: restart  m: mute  q: quit"
	w, h := v.screen.Size()
	v.fill(0, h-1, w, styleStatus)
	v.puts(0, h-1, status, styleStatus)

	if over || snap.Phase == round.Ended {
		v.drawBanner(final)
	}
	v.screen.Show()
}

func (v *View) drawBubble(b bubble.Bubble) {
	col, row := v.Cell(bubble.Point{X: b.X, Y: b.Y})
	if _, rows := v.grid(); row < 0 || row >= rows {
		return
	}
	style := styleReward
	if b.Category == bubble.Penalty {
		style = stylePenalty
	}
	label := " " + b.Glyph + " "
	v.puts(col-runewidth.StringWidth(label)/2, row, label, style)
}

func (v *View) drawDragon(a bubble.Avatar) {
	col, row := v.Cell(bubble.Point{X: a.X, Y: a.Y})
	v.puts(col-1, row, "<@>", styleHead)
	v.puts(col+2, row, "^^^^^", styleSpike)
}

func (v *View) drawBanner(final string) {
	w, h := v.screen.Size()
	lines := []string{
		"  GAME OVER  ",
		fmt.Sprintf("  Final score: %s  ", final),
		"  r: play again  q: quit  ",
	}
	top := (h-1)/2 - len(lines)/2
	for i, line := range lines {
		v.puts((w-runewidth.StringWidth(line))/2, top+i, line, styleBanner)
	}
}

func (v *View) fill(x, y, n int, style tcell.Style) {
	for i := range n {
		v.screen.SetContent(x+i, y, ' ', nil, style)
	}
}

// puts writes s from column x, giving wide runes two cells and folding
// zero-width runes into the previous cell.
func (v *View) puts(x, y int, s string, style tcell.Style) {
	w, h := v.screen.Size()
	if y < 0 || y >= h {
		return
	}
	var (
		main rune
		comb []rune
		at   = x
		next = x
	)
	flush := func() {
		if main != 0 && at >= 0 && at < w {
			v.screen.SetContent(at, y, main, comb, style)
		}
	}
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 && main != 0 {
			comb = append(comb, r)
			continue
		}
		flush()
		main, comb, at = r, nil, next
		next += max(rw, 1)
	}
	flush()
}

// DrawNotice shows a centred message on an otherwise empty screen.
func (v *View) DrawNotice(msg string) {
	v.screen.Clear()
	w, h := v.screen.Size()
	v.puts((w-runewidth.StringWidth(msg))/2, h/2, msg, tcell.StyleDefault)
	v.screen.Show()
}
