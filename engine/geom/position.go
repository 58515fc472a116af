package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// Epsilon is the distance below which two positions are treated as equal
const Epsilon = 1e-6

// Position is a point in normalized court space. The court itself spans
// [0,1]x[0,1]; off-court placements may sit a little outside it.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pos is shorthand for Position{X: x, Y: y}
func Pos(x, y float64) Position {
	return Position{X: x, Y: y}
}

// FromPoint converts an orb point into a court position
func FromPoint(p orb.Point) Position {
	return Position{X: p.X(), Y: p.Y()}
}

// Point returns the position as an orb point
func (p Position) Point() orb.Point {
	return orb.Point{p.X, p.Y}
}

func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Position) Sub(o Position) Position {
	return Position{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Position) Scale(s float64) Position {
	return Position{X: p.X * s, Y: p.Y * s}
}

// Dot returns the dot product of p and o
func (p Position) Dot(o Position) float64 {
	return p.X*o.X + p.Y*o.Y
}

// Len returns the euclidean length of p treated as a vector
func (p Position) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Dist returns the euclidean distance to another position
func (p Position) Dist(o Position) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Lerp interpolates linearly from p to o
func (p Position) Lerp(o Position, t float64) Position {
	return Position{X: p.X + (o.X-p.X)*t, Y: p.Y + (o.Y-p.Y)*t}
}

// Perp returns p rotated 90 degrees counter-clockwise
func (p Position) Perp() Position {
	return Position{X: -p.Y, Y: p.X}
}

// Normalize returns the unit vector in the direction of p, or the zero
// vector when p is too short to have a direction.
func (p Position) Normalize() Position {
	l := p.Len()
	if l < Epsilon {
		return Position{}
	}
	return Position{X: p.X / l, Y: p.Y / l}
}

// ClampLen limits the length of p to max
func (p Position) ClampLen(max float64) Position {
	l := p.Len()
	if l <= max || l == 0 {
		return p
	}
	return p.Scale(max / l)
}

// IsFinite reports whether both coordinates are real numbers
func (p Position) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// IsDegenerate reports whether a path from start to end has no usable length
func IsDegenerate(start, end Position) bool {
	return start.Dist(end) < Epsilon
}
