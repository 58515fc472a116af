package geom

import (
	"math"
	"sort"
)

// ArcLengthSamples is the number of chord segments used to approximate the
// length of a path. Paths are at most a few court-lengths long, so a fixed
// count is accurate well below a pixel.
const ArcLengthSamples = 70

// Path is a quadratic Bezier from Start to End bending toward Control.
// A nil Control makes it a straight segment.
type Path struct {
	Start   Position  `json:"start"`
	End     Position  `json:"end"`
	Control *Position `json:"control,omitempty"`
}

// Straight reports whether the path has no control point
func (p Path) Straight() bool {
	return p.Control == nil
}

// EvaluateBezier returns the point at parameter t on the curve. Without a
// control point this is plain linear interpolation.
func EvaluateBezier(start Position, control *Position, end Position, t float64) Position {
	t = clamp01(t)
	if control == nil {
		return start.Lerp(end, t)
	}
	u := 1 - t
	a := u * u
	b := 2 * u * t
	c := t * t
	return Position{
		X: a*start.X + b*control.X + c*end.X,
		Y: a*start.Y + b*control.Y + c*end.Y,
	}
}

// At evaluates the path at parameter t
func (p Path) At(t float64) Position {
	return EvaluateBezier(p.Start, p.Control, p.End, t)
}

// ArcLength approximates the length of the curve by summing chords
func ArcLength(start Position, control *Position, end Position) float64 {
	return Sample(Path{Start: start, End: end, Control: control}).Length()
}

// SampledPath caches the chord sampling of a path so repeated distance
// lookups do not re-evaluate the curve.
type SampledPath struct {
	Path   Path
	points [ArcLengthSamples + 1]Position
	cum    [ArcLengthSamples + 1]float64
}

// Sample precomputes the sample points and cumulative chord lengths
func Sample(p Path) *SampledPath {
	sp := &SampledPath{Path: p}
	sp.points[0] = p.Start
	for i := 1; i <= ArcLengthSamples; i++ {
		sp.points[i] = p.At(float64(i) / ArcLengthSamples)
		sp.cum[i] = sp.cum[i-1] + sp.points[i-1].Dist(sp.points[i])
	}
	return sp
}

// Length returns the sampled arc length
func (sp *SampledPath) Length() float64 {
	return sp.cum[ArcLengthSamples]
}

// At returns the position reached after travelling distance along the path.
// Distances at or past the end return End exactly.
func (sp *SampledPath) At(distance float64) Position {
	if math.IsNaN(distance) || distance <= 0 {
		return sp.Path.Start
	}
	if distance >= sp.Length() {
		return sp.Path.End
	}
	i := sort.Search(ArcLengthSamples, func(i int) bool {
		return sp.cum[i+1] >= distance
	}) + 1
	seg := sp.cum[i] - sp.cum[i-1]
	if seg <= 0 {
		return sp.points[i]
	}
	return sp.points[i-1].Lerp(sp.points[i], (distance-sp.cum[i-1])/seg)
}

// ParamAt maps a travelled distance to the normalized progress used for
// curvature lookups.
func (sp *SampledPath) ParamAt(distance float64) float64 {
	l := sp.Length()
	if l <= 0 {
		return 1
	}
	return clamp01(distance / l)
}

// PositionAtDistance walks the path by arc length. It is the inverse of the
// arc-length parametrization, so equal distance steps are equal physical steps.
func PositionAtDistance(p Path, distance float64) Position {
	return Sample(p).At(distance)
}

// CurvatureAt returns the unsigned curvature of the path at parameter t
func CurvatureAt(p Path, t float64) float64 {
	if p.Control == nil {
		return 0
	}
	d1, d2 := derivatives(p, clamp01(t))
	speedSq := d1.X*d1.X + d1.Y*d1.Y
	if speedSq < Epsilon*Epsilon {
		return 0
	}
	return math.Abs(d1.X*d2.Y-d1.Y*d2.X) / math.Pow(speedSq, 1.5)
}

// TangentAt returns the unit direction of travel at parameter t
func TangentAt(p Path, t float64) Position {
	if p.Control != nil {
		d1, _ := derivatives(p, clamp01(t))
		if tan := d1.Normalize(); tan != (Position{}) {
			return tan
		}
	}
	return p.End.Sub(p.Start).Normalize()
}

func derivatives(p Path, t float64) (d1, d2 Position) {
	c := *p.Control
	d1 = c.Sub(p.Start).Scale(2 * (1 - t)).Add(p.End.Sub(c).Scale(2 * t))
	d2 = p.End.Sub(c.Scale(2)).Add(p.Start).Scale(2)
	return d1, d2
}

// CurveMidpoint is the curve point at t=0.5, where curve handles are drawn
func CurveMidpoint(start, control, end Position) Position {
	return Position{
		X: 0.25*start.X + 0.5*control.X + 0.25*end.X,
		Y: 0.25*start.Y + 0.5*control.Y + 0.25*end.Y,
	}
}

// ControlThrough is the control point whose curve passes through mid at
// t=0.5. It inverts CurveMidpoint for dragging a curve handle.
func ControlThrough(start, mid, end Position) Position {
	return Position{
		X: 2*mid.X - 0.5*(start.X+end.X),
		Y: 2*mid.Y - 0.5*(start.Y+end.Y),
	}
}

// Side selects which perpendicular a bulge is pushed toward
type Side int

const (
	SideLeft  Side = 1
	SideRight Side = -1
)

// DefaultControlPoint bends the straight segment by strength times its
// length toward the given side. Degenerate segments get no control point.
func DefaultControlPoint(start, end Position, strength float64, side Side) *Position {
	if IsDegenerate(start, end) {
		return nil
	}
	d := end.Sub(start)
	n := d.Normalize().Perp()
	c := start.Lerp(end, 0.5).Add(n.Scale(float64(side) * strength * d.Len()))
	return &c
}

func clamp01(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
