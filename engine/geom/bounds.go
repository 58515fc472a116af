package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// CourtMargin is how far outside the nominal court a rendered token may go
const CourtMargin = 0.15

var (
	// Court is the nominal playing area
	Court = orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}
	// ExtendedCourt allows tokens to step slightly off court while deflecting
	ExtendedCourt = Court.Pad(CourtMargin)
	// CourtCenter is where curves prefer to bend toward
	CourtCenter = FromPoint(Court.Center())
)

// ClampToBounds pulls p inside b
func ClampToBounds(p Position, b orb.Bound) Position {
	return Position{
		X: math.Max(b.Min.X(), math.Min(b.Max.X(), p.X)),
		Y: math.Max(b.Min.Y(), math.Min(b.Max.Y(), p.Y)),
	}
}

// InBounds reports whether p lies inside b
func InBounds(p Position, b orb.Bound) bool {
	return b.Contains(p.Point())
}
