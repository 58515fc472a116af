// Package layout spreads out tokens that overlap while the board is idle.
// It has no notion of time: it runs a fixed number of passes and returns
// where every token should be drawn.
package layout

import (
	"math"

	"github.com/1siamBot/whiteboard/engine/core"
	"github.com/1siamBot/whiteboard/engine/geom"
)

const (
	// Iterations is the number of relaxation passes
	Iterations = 8
	// HomePull is the fraction of the way back home each pass covers
	HomePull = 0.2
	// OutrankedShare is how much of an overlap the lower-priority token absorbs
	OutrankedShare = 0.7
)

// Relax resolves overlaps between tokens standing at homes. Two tokens
// overlap when their centres are closer than twice radius. The dragged
// role, if any, never moves; pass core.NoRole when nothing is dragged.
// Tokens with non-finite homes are returned untouched and ignored.
func Relax(homes core.RoleMap[geom.Position], prio core.Priorities, dragged core.Role, radius float64) core.RoleMap[geom.Position] {
	out := homes
	if !(radius > 0) || math.IsInf(radius, 0) {
		return out
	}
	minDist := 2 * radius

	var roles []core.Role
	homes.Each(func(r core.Role, p geom.Position) {
		if p.IsFinite() {
			roles = append(roles, r)
		}
	})

	for iter := 0; iter < Iterations; iter++ {
		var delta [core.RoleCount]geom.Position
		for i, a := range roles {
			for _, b := range roles[i+1:] {
				pa, pb := out.At(a), out.At(b)
				diff := pa.Sub(pb)
				d := diff.Len()
				if d >= minDist {
					continue
				}
				dir := diff.Normalize()
				if dir == (geom.Position{}) {
					dir = separationAxis(a, b)
				}
				shareA, shareB := shares(a, b, prio, dragged)
				overlap := minDist - d
				delta[a] = delta[a].Add(dir.Scale(overlap * shareA))
				delta[b] = delta[b].Sub(dir.Scale(overlap * shareB))
			}
		}

		for _, r := range roles {
			if r == dragged {
				continue
			}
			p := out.At(r).Add(delta[r])
			p = p.Add(homes.At(r).Sub(p).Scale(HomePull))
			out.Set(r, geom.ClampToBounds(p, geom.ExtendedCourt))
		}
	}
	return out
}

// shares splits an overlap between two tokens
func shares(a, b core.Role, prio core.Priorities, dragged core.Role) (float64, float64) {
	switch {
	case a == dragged:
		return 0, 1
	case b == dragged:
		return 1, 0
	case prio.Outranks(a, b):
		return 1 - OutrankedShare, OutrankedShare
	case prio.Outranks(b, a):
		return OutrankedShare, 1 - OutrankedShare
	default:
		return 0.5, 0.5
	}
}

// separationAxis picks a stable direction for tokens stacked exactly on
// top of each other, so the result does not depend on float noise.
func separationAxis(a, b core.Role) geom.Position {
	angle := 2 * math.Pi * float64(int(a)*int(core.RoleCount)+int(b)) / float64(core.RoleCount*core.RoleCount)
	return geom.Pos(math.Cos(angle), math.Sin(angle))
}

// MaxOverlap is the deepest overlap left between any two finite tokens
func MaxOverlap(positions core.RoleMap[geom.Position], radius float64) float64 {
	var pts []geom.Position
	positions.Each(func(_ core.Role, p geom.Position) {
		if p.IsFinite() {
			pts = append(pts, p)
		}
	})
	worst := 0.0
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			worst = math.Max(worst, 2*radius-pts[i].Dist(pts[j]))
		}
	}
	return worst
}
