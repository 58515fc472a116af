package render

import (
	"math"

	"github.com/1siamBot/whiteboard/engine/geom"
	"github.com/paulmach/orb"
)

// Camera maps court coordinates to screen pixels. At zoom 1 the court
// plus its margin fits the shorter side of the viewport.
type Camera struct {
	Center  geom.Position // court point at the viewport centre
	Zoom    float64
	MinZoom float64
	MaxZoom float64
	ScreenW int
	ScreenH int
	Padding int // pixels kept free around the court at zoom 1
}

// NewCamera creates a camera centred on the court
func NewCamera(screenW, screenH int) *Camera {
	return &Camera{
		Center:  geom.CourtCenter,
		Zoom:    1.0,
		MinZoom: 0.5,
		MaxZoom: 4.0,
		ScreenW: screenW,
		ScreenH: screenH,
		Padding: 24,
	}
}

// Resize updates the viewport size
func (c *Camera) Resize(w, h int) {
	c.ScreenW, c.ScreenH = w, h
}

// Scale is the number of pixels per court unit
func (c *Camera) Scale() float64 {
	side := float64(min(c.ScreenW, c.ScreenH) - 2*c.Padding)
	span := geom.ExtendedCourt.Max[0] - geom.ExtendedCourt.Min[0]
	return math.Max(1, side/span) * c.Zoom
}

// Pan moves the camera by a pixel delta
func (c *Camera) Pan(dx, dy float64) {
	s := c.Scale()
	c.Center = c.Center.Add(geom.Pos(dx/s, dy/s))
	c.clamp()
}

// SetZoom sets zoom level with clamping
func (c *Camera) SetZoom(z float64) {
	c.Zoom = math.Max(c.MinZoom, math.Min(c.MaxZoom, z))
}

// ZoomAt zooms keeping the court point under the given pixel still
func (c *Camera) ZoomAt(delta float64, screenX, screenY int) {
	before := c.ScreenToCourt(screenX, screenY)
	c.SetZoom(c.Zoom + delta)
	after := c.ScreenToCourt(screenX, screenY)
	c.Center = c.Center.Add(before.Sub(after))
	c.clamp()
}

// CenterOn centres the camera on a court point
func (c *Camera) CenterOn(p geom.Position) {
	c.Center = p
	c.clamp()
}

// Reset restores the default framing
func (c *Camera) Reset() {
	c.Center = geom.CourtCenter
	c.Zoom = 1
}

// CourtToScreen converts a court point to pixels
func (c *Camera) CourtToScreen(p geom.Position) (float64, float64) {
	s := c.Scale()
	return (p.X-c.Center.X)*s + float64(c.ScreenW)/2,
		(p.Y-c.Center.Y)*s + float64(c.ScreenH)/2
}

// ScreenToCourt converts a pixel to a court point
func (c *Camera) ScreenToCourt(sx, sy int) geom.Position {
	s := c.Scale()
	return geom.Pos(
		(float64(sx)-float64(c.ScreenW)/2)/s+c.Center.X,
		(float64(sy)-float64(c.ScreenH)/2)/s+c.Center.Y,
	)
}

// Visible is the part of the court plane on screen
func (c *Camera) Visible() orb.Bound {
	a := c.ScreenToCourt(0, 0)
	b := c.ScreenToCourt(c.ScreenW, c.ScreenH)
	return orb.MultiPoint{a.Point(), b.Point()}.Bound()
}

// clamp keeps the centre on the extended court
func (c *Camera) clamp() {
	c.Center = geom.ClampToBounds(c.Center, geom.ExtendedCourt)
}
