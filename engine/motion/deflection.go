package motion

import (
	"math"

	"github.com/1siamBot/whiteboard/engine/geom"
)

const (
	deflectRange      = 2.2 // collision radii within which a player steps aside
	deflectWeightPeer = 0.7
	deflectWeightHigh = 1.0
	deflectLookBoost  = 1.3
	offsetSpring      = 12.0
	offsetDamping     = 7.0
)

// deflect drives the lateral offset toward a sidestep away from nearby
// players. The push is projected on the path normal so the player steps
// around rather than backwards, and it fades out near the end of the path
// so the player still lands on their mark.
func (c *stepContext) deflect(a *Agent, look geom.Position) {
	t := c.engine.tuning
	r := t.CollisionRadius
	maxOffset := t.MaxLateralOffset()
	base := a.Base()
	normal := geom.TangentAt(a.path.Path, a.path.ParamAt(a.distance)).Perp()

	rng := deflectRange * r
	var push geom.Position
	for _, n := range c.neighbors {
		if !c.engine.priorities.DeflectsFrom(a.Role, n.role) {
			continue
		}
		diff := base.Sub(n.pos)
		d := diff.Len()
		if d >= rng {
			continue
		}
		dir := diff.Normalize()
		if dir == (geom.Position{}) {
			dir = normal
		}
		w := deflectWeightPeer
		if c.engine.priorities.Outranks(n.role, a.Role) {
			w = deflectWeightHigh
		}
		if look.Dist(n.pos) < rng {
			w *= deflectLookBoost
		}
		push = push.Add(dir.Scale((1 - d/rng) * w))
	}

	endEase := math.Min(1, math.Max(0, a.Remaining()/(endEaseWindow*r)))
	lateral := normal.Scale(push.Dot(normal))
	desired := lateral.Scale(t.DeflectionStrength * r * endEase).ClampLen(maxOffset)

	// Semi-implicit Euler: velocity first, then offset from the new velocity
	accel := desired.Sub(a.lateralOffset).Scale(offsetSpring).Sub(a.lateralVelocity.Scale(offsetDamping))
	a.lateralVelocity = a.lateralVelocity.Add(accel.Scale(c.dt))
	a.lateralOffset = a.lateralOffset.Add(a.lateralVelocity.Scale(c.dt))

	if !a.lateralOffset.IsFinite() || !a.lateralVelocity.IsFinite() {
		a.lateralOffset = geom.Position{}
		a.lateralVelocity = geom.Position{}
		return
	}
	if a.lateralOffset.Len() > maxOffset {
		a.lateralOffset = a.lateralOffset.ClampLen(maxOffset)
		a.lateralVelocity = geom.Position{}
	}
}
