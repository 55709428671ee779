// Package render draws round snapshots with ebiten.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/plus3/dragonbubbles/bubble"
	"github.com/plus3/dragonbubbles/round"
)

var (
	penaltyFill = color.RGBA{0xFF, 0xDF, 0x00, 0xFF}
	rewardFill  = color.RGBA{0x9E, 0xFF, 0xA3, 0xFF}
	outline     = color.RGBA{0x33, 0x33, 0x33, 0xFF}
	dragonHead  = color.RGBA{0xA5, 0x2A, 0x2A, 0xFF}
	dragonSpike = color.RGBA{0xFF, 0xD7, 0x00, 0xFF}
	backdrop    = color.RGBA{0x10, 0x18, 0x30, 0xFF}
	overlay     = color.RGBA{0, 0, 0, 0xB0}
)

// Options configure a Renderer.
type Options struct {
	// Font is a TTF/OTF file able to draw the bubble glyphs. Without it
	// glyphs fall back to a bitmap face that only covers ASCII.
	Font        string
	Background  string
	AvatarScale float64
}

// Renderer draws snapshots. It embeds a round.TextDisplay for the HUD text.
type Renderer struct {
	round.TextDisplay
	// Muted adds a marker to the HUD.
	Muted bool

	glyphFace  text.Face
	hudFace    text.Face
	bigFace    text.Face
	background *ebiten.Image
	scale      float64
	white      *ebiten.Image
}

// New loads the optional font and background.
func New(opts Options) (*Renderer, error) {
	r := &Renderer{scale: opts.AvatarScale}
	if r.scale <= 0 {
		r.scale = 0.7
	}

	fallback := text.NewGoXFace(basicfont.Face7x13)
	r.glyphFace, r.hudFace, r.bigFace = fallback, fallback, fallback

	if opts.Font != "" {
		data, err := os.ReadFile(opts.Font)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", opts.Font, err)
		}
		r.glyphFace = &text.GoTextFace{Source: src, Size: 32}
		r.hudFace = &text.GoTextFace{Source: src, Size: 24}
		r.bigFace = &text.GoTextFace{Source: src, Size: 48}
	}

	if opts.Background != "" {
		f, err := os.Open(opts.Background)
		if err != nil {
			return nil, fmt.Errorf("open background: %w", err)
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode background %s: %w", opts.Background, err)
		}
		r.background = ebiten.NewImageFromImage(img)
	}

	r.white = ebiten.NewImage(3, 3)
	r.white.Fill(color.White)
	return r, nil
}

// Draw paints one frame.
func (r *Renderer) Draw(screen *ebiten.Image, snap round.Snapshot) {
	r.drawBackground(screen)
	r.drawDragon(screen, snap.Avatar.X, snap.Avatar.Y)
	for _, b := range snap.Bubbles {
		r.drawBubble(screen, b)
	}
	score, timer, final, over := r.Texts()
	r.drawHUD(screen, score, timer)
	if over || snap.Phase == round.Ended {
		r.drawGameOver(screen, final)
	}
}

func (r *Renderer) drawBackground(screen *ebiten.Image) {
	if r.background == nil {
		screen.Fill(backdrop)
		return
	}
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	bw, bh := r.background.Bounds().Dx(), r.background.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(sw)/float64(bw), float64(sh)/float64(bh))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(r.background, op)
}

func (r *Renderer) drawBubble(screen *ebiten.Image, b bubble.Bubble) {
	fill := rewardFill
	if b.Category == bubble.Penalty {
		fill = penaltyFill
	}
	x, y, rad := float32(b.X), float32(b.Y), float32(b.Radius)
	vector.DrawFilledCircle(screen, x, y, rad, fill, true)
	vector.StrokeCircle(screen, x, y, rad, 2, outline, true)

	op := &text.DrawOptions{}
	op.GeoM.Translate(b.X, b.Y)
	op.ColorScale.ScaleWithColor(color.Black)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	text.Draw(screen, b.Glyph, r.glyphFace, op)
}

// drawDragon draws the head (a 40px circle missing a mouth wedge, with an
// eye) and five spike arcs trailing to the right, all scaled.
func (r *Renderer) drawDragon(screen *ebiten.Image, x, y float64) {
	s := r.scale
	var head vector.Path
	head.MoveTo(float32(x), float32(y))
	head.Arc(float32(x), float32(y), float32(40*s), math.Pi*0.3, math.Pi*1.8, vector.Clockwise)
	head.Close()
	r.fillPath(screen, &head, dragonHead)

	vector.DrawFilledCircle(screen, float32(x-20*s), float32(y-10*s), float32(6*s), color.Black, true)

	for i := range 5 {
		cx := x + (50+float64(i)*70)*s
		r.strokeArc(screen, cx, y, 30*s, math.Pi, 2*math.Pi, dragonSpike)
	}
}

func (r *Renderer) fillPath(screen *ebiten.Image, p *vector.Path, clr color.RGBA) {
	vs, is := p.AppendVerticesAndIndicesForFilling(nil, nil)
	cr, cg, cb, ca := float32(clr.R)/0xFF, float32(clr.G)/0xFF, float32(clr.B)/0xFF, float32(clr.A)/0xFF
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR, vs[i].ColorG, vs[i].ColorB, vs[i].ColorA = cr, cg, cb, ca
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	screen.DrawTriangles(vs, is, r.white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image), op)
}

func (r *Renderer) strokeArc(screen *ebiten.Image, cx, cy, radius, from, to float64, clr color.Color) {
	const segments = 16
	px, py := cx+radius*math.Cos(from), cy+radius*math.Sin(from)
	for i := 1; i <= segments; i++ {
		a := from + (to-from)*float64(i)/segments
		nx, ny := cx+radius*math.Cos(a), cy+radius*math.Sin(a)
		vector.StrokeLine(screen, float32(px), float32(py), float32(nx), float32(ny), 2, clr, true)
		px, py = nx, ny
	}
}

func (r *Renderer) drawHUD(screen *ebiten.Image, score, timer string) {
	line := fmt.Sprintf("Score: %s   Time: %s", score, timer)
	if r.Muted {
		line += "   [muted]"
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(16, 12)
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, line, r.hudFace, op)
}

func (r *Renderer) drawGameOver(screen *ebiten.Image, final string) {
	w, h := float32(screen.Bounds().Dx()), float32(screen.Bounds().Dy())
	vector.DrawFilledRect(screen, 0, 0, w, h, overlay, false)

	lines := []struct {
		face text.Face
		msg  string
		dy   float64
	}{
		{r.bigFace, "Game Over", -40},
		{r.hudFace, "Final score: " + final, 20},
		{r.hudFace, "Press R to play again", 60},
	}
	for _, l := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(w)/2, float64(h)/2+l.dy)
		op.ColorScale.ScaleWithColor(color.White)
		op.PrimaryAlign = text.AlignCenter
		op.SecondaryAlign = text.AlignCenter
		text.Draw(screen, l.msg, l.face, op)
	}
}

// DrawNotice centres a one-line message over a dimmed screen.
func (r *Renderer) DrawNotice(screen *ebiten.Image, msg string) {
	w, h := float32(screen.Bounds().Dx()), float32(screen.Bounds().Dy())
	vector.DrawFilledRect(screen, 0, 0, w, h, overlay, false)
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(w)/2, float64(h)/2)
	op.ColorScale.ScaleWithColor(color.White)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	text.Draw(screen, msg, r.hudFace, op)
}
