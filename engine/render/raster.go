package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/1siamBot/whiteboard/engine/geom"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const circleSegments = 40

// Rasterize draws a scene into a square image without a GPU. The court
// and its margin fill the image the same way CourtRenderer fills a window.
func Rasterize(s Scene, size int) (*image.RGBA, error) {
	if size <= 0 {
		size = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cam := NewCamera(size, size)
	rs := &raster{img: img, cam: cam}

	draw.Draw(img, img.Bounds(), image.NewUniform(floorColor), image.Point{}, draw.Src)
	ext := geom.ExtendedCourt
	rs.rect(geom.Pos(ext.Min[0], ext.Min[1]), geom.Pos(ext.Max[0], ext.Max[1]), marginColor)
	rs.rect(geom.Pos(0, 0), geom.Pos(1, 1), courtColor)
	rs.line(geom.Pos(0, AttackLine), geom.Pos(1, AttackLine), 2, lineColor)
	rs.line(geom.Pos(ext.Min[0], 0), geom.Pos(ext.Max[0], 0), 4, netColor)

	for _, a := range s.Arrows {
		for i := 1; i < len(a.Points); i++ {
			rs.line(a.Points[i-1], a.Points[i], 2, a.Color)
		}
	}

	face, err := Face("bold", math.Max(8, float64(size)/60))
	if err != nil {
		return nil, err
	}
	radius := float32(s.Radius * cam.Scale())
	for _, t := range s.Tokens {
		x, y := cam.CourtToScreen(t.Pos)
		rs.circle(float32(x), float32(y), radius+1.5, lineColor)
		rs.circle(float32(x), float32(y), radius, t.Color)

		d := &font.Drawer{Dst: img, Src: image.NewUniform(labelColor), Face: face}
		w := d.MeasureString(t.Label)
		m := face.Metrics()
		d.Dot = fixed.Point26_6{
			X: fixed.Int26_6(x*64) - w/2,
			Y: fixed.Int26_6(y*64) + (m.Ascent-m.Descent)/2,
		}
		d.DrawString(t.Label)
	}
	return img, nil
}

type raster struct {
	img *image.RGBA
	cam *Camera
}

func (r *raster) fill(z *vector.Rasterizer, c color.RGBA) {
	z.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{})
}

func (r *raster) newZ() *vector.Rasterizer {
	b := r.img.Bounds()
	return vector.NewRasterizer(b.Dx(), b.Dy())
}

func (r *raster) rect(min, max geom.Position, c color.RGBA) {
	x0, y0 := r.cam.CourtToScreen(min)
	x1, y1 := r.cam.CourtToScreen(max)
	z := r.newZ()
	z.MoveTo(float32(x0), float32(y0))
	z.LineTo(float32(x1), float32(y0))
	z.LineTo(float32(x1), float32(y1))
	z.LineTo(float32(x0), float32(y1))
	z.ClosePath()
	r.fill(z, c)
}

func (r *raster) line(a, b geom.Position, width float64, c color.RGBA) {
	ax, ay := r.cam.CourtToScreen(a)
	bx, by := r.cam.CourtToScreen(b)
	n := geom.Pos(bx-ax, by-ay).Normalize().Perp().Scale(width / 2)
	if n.Len() == 0 {
		return
	}
	z := r.newZ()
	z.MoveTo(float32(ax+n.X), float32(ay+n.Y))
	z.LineTo(float32(bx+n.X), float32(by+n.Y))
	z.LineTo(float32(bx-n.X), float32(by-n.Y))
	z.LineTo(float32(ax-n.X), float32(ay-n.Y))
	z.ClosePath()
	r.fill(z, c)
}

func (r *raster) circle(x, y, radius float32, c color.RGBA) {
	z := r.newZ()
	for i := 0; i <= circleSegments; i++ {
		a := 2 * math.Pi * float64(i) / circleSegments
		px := x + radius*float32(math.Cos(a))
		py := y + radius*float32(math.Sin(a))
		if i == 0 {
			z.MoveTo(px, py)
		} else {
			z.LineTo(px, py)
		}
	}
	z.ClosePath()
	r.fill(z, c)
}
