package render

import (
	"image/color"
	"math"

	"github.com/1siamBot/whiteboard/engine/geom"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	floorColor  = color.RGBA{0x1E, 0x24, 0x2B, 0xFF}
	courtColor  = color.RGBA{0xD9, 0x8C, 0x4A, 0xFF}
	marginColor = color.RGBA{0x2E, 0x6E, 0x8E, 0xFF}
	lineColor   = color.RGBA{0xF5, 0xF5, 0xF5, 0xFF}
	netColor    = color.RGBA{0x11, 0x11, 0x11, 0xFF}
	labelColor  = color.RGBA{0x10, 0x10, 0x10, 0xFF}
)

// AttackLine is the 3 m line as a fraction of the 9 m half court
const AttackLine = 1.0 / 3

// CourtRenderer draws scenes with Ebitengine
type CourtRenderer struct {
	Camera      *Camera
	ShowHandles bool
	label       text.Face
}

// NewCourtRenderer creates a renderer for a viewport
func NewCourtRenderer(screenW, screenH int) (*CourtRenderer, error) {
	face, err := Face("bold", 13)
	if err != nil {
		return nil, err
	}
	return &CourtRenderer{
		Camera:      NewCamera(screenW, screenH),
		ShowHandles: true,
		label:       text.NewGoXFace(face),
	}, nil
}

func (r *CourtRenderer) pt(p geom.Position) (float32, float32) {
	x, y := r.Camera.CourtToScreen(p)
	return float32(x), float32(y)
}

// Draw renders a whole frame
func (r *CourtRenderer) Draw(screen *ebiten.Image, s Scene) {
	screen.Fill(floorColor)
	r.drawCourt(screen)
	for _, a := range s.Arrows {
		r.drawArrow(screen, a)
	}
	for _, t := range s.Tokens {
		r.drawToken(screen, t, s.Radius)
	}
}

func (r *CourtRenderer) drawCourt(screen *ebiten.Image) {
	ext := geom.ExtendedCourt
	x0, y0 := r.pt(geom.Pos(ext.Min[0], ext.Min[1]))
	x1, y1 := r.pt(geom.Pos(ext.Max[0], ext.Max[1]))
	vector.DrawFilledRect(screen, x0, y0, x1-x0, y1-y0, marginColor, false)

	cx0, cy0 := r.pt(geom.Pos(0, 0))
	cx1, cy1 := r.pt(geom.Pos(1, 1))
	vector.DrawFilledRect(screen, cx0, cy0, cx1-cx0, cy1-cy0, courtColor, false)
	vector.StrokeRect(screen, cx0, cy0, cx1-cx0, cy1-cy0, 2, lineColor, false)

	_, ay := r.pt(geom.Pos(0, AttackLine))
	vector.StrokeLine(screen, cx0, ay, cx1, ay, 2, lineColor, false)
	// the net runs along y=0
	vector.StrokeLine(screen, x0, cy0, x1, cy0, 4, netColor, false)
}

func (r *CourtRenderer) drawArrow(screen *ebiten.Image, a ArrowView) {
	if len(a.Points) < 2 {
		return
	}
	c := a.Color
	c.A = 0xC0
	width := float32(2)
	if a.Manual {
		width = 3
	}
	for i := 1; i < len(a.Points); i++ {
		ax, ay := r.pt(a.Points[i-1])
		bx, by := r.pt(a.Points[i])
		vector.StrokeLine(screen, ax, ay, bx, by, width, c, true)
	}
	r.drawHead(screen, a.Points[len(a.Points)-2], a.Head, c)

	if r.ShowHandles {
		hx, hy := r.pt(a.Handle)
		vector.StrokeCircle(screen, hx, hy, 5, 1.5, lineColor, true)
		if a.Manual {
			vector.DrawFilledCircle(screen, hx, hy, 3, lineColor, true)
		}
	}
}

func (r *CourtRenderer) drawHead(screen *ebiten.Image, from, tip geom.Position, c color.RGBA) {
	tx, ty := r.pt(tip)
	fx, fy := r.pt(from)
	angle := math.Atan2(float64(ty-fy), float64(tx-fx))
	const size, spread = 10.0, 0.45
	for _, a := range []float64{angle - spread, angle + spread} {
		bx := tx - float32(size*math.Cos(a))
		by := ty - float32(size*math.Sin(a))
		vector.StrokeLine(screen, tx, ty, bx, by, 2.5, c, true)
	}
}

func (r *CourtRenderer) drawToken(screen *ebiten.Image, t TokenView, radius float64) {
	x, y := r.pt(t.Pos)
	rad := float32(radius * r.Camera.Scale())
	fill := t.Color
	if t.Arrived {
		fill.A = 0xB0
	}
	vector.DrawFilledCircle(screen, x, y, rad, fill, true)
	ring := float32(1.5)
	if t.Selected {
		ring = 3
	}
	vector.StrokeCircle(screen, x, y, rad, ring, lineColor, true)

	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(labelColor)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	text.Draw(screen, t.Label, r.label, op)
}

// DrawStatus prints status lines in the top-left corner
func (r *CourtRenderer) DrawStatus(screen *ebiten.Image, lines ...string) {
	vector.DrawFilledRect(screen, 0, 0, 260, float32(12+16*len(lines)), color.RGBA{0, 0, 0, 160}, false)
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, 8, 6+16*i)
	}
}
