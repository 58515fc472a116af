package motion

import (
	"math"

	"github.com/1siamBot/whiteboard/engine/core"
	"github.com/1siamBot/whiteboard/engine/geom"
)

const (
	cornerFactor      = 0.4  // scales curvature into a slowdown
	speedFloor        = 0.2  // fraction of cruise speed no slowdown goes below
	proximityRange    = 1.2  // collision radii within which yielding starts
	endEaseWindow     = 2.0  // collision radii over which the arrival is eased
	lookAheadMargin   = 2.0  // collision radii added to the braking distance
	lookAheadContact  = 0.9  // collision radii counted as a predicted conflict
	lookAheadFraction = 0.35 // cruise fraction while a conflict is predicted at the finish
)

// neighbor is another role as seen from the previous completed step
type neighbor struct {
	role core.Role
	pos  geom.Position
}

// stepContext carries what one agent needs to know about the others
type stepContext struct {
	engine    *Engine
	neighbors []neighbor
	dt        float64
}

// composeTargetSpeed returns the speed the agent wants this step and the
// point the look-ahead reached. ok is false when the inputs were not
// usable, in which case the agent holds still for the step.
func (c *stepContext) composeTargetSpeed(a *Agent, own geom.Position) (target float64, look geom.Position, ok bool) {
	t := c.engine.tuning
	r := t.CollisionRadius
	cruise := t.Speed
	floor := speedFloor * cruise
	remaining := a.Remaining()

	// Corner slowdown
	k := geom.CurvatureAt(a.path.Path, a.path.ParamAt(a.distance))
	target = cruise / (1 + k*t.CornerSlowdown*cornerFactor)

	// End-of-path easing
	if window := endEaseWindow * r; remaining < window {
		target = math.Min(target, cruise*remaining/window)
	}

	// Proximity braking for players with right of way
	rng := proximityRange * r
	for _, n := range c.neighbors {
		if !c.engine.priorities.YieldsTo(a.Role, n.role) {
			continue
		}
		d := own.Dist(n.pos)
		if d < rng {
			urgency := 1 - d/rng
			target = math.Min(target, cruise*(1-urgency))
		}
	}

	// Look-ahead braking near the finish
	braking := a.currentSpeed * a.currentSpeed / (2 * t.Acceleration)
	horizon := math.Min(a.currentSpeed*t.LookAheadTime, math.Min(remaining, braking+lookAheadMargin*r))
	look = a.path.At(a.distance + horizon)
	if remaining <= braking+lookAheadMargin*r {
		for _, n := range c.neighbors {
			if c.engine.priorities.YieldsTo(a.Role, n.role) && look.Dist(n.pos) < lookAheadContact*r {
				target = math.Min(target, lookAheadFraction*cruise)
				break
			}
		}
	}

	// Nothing slows an agent below the floor, so every play completes
	target = math.Max(floor, target)

	if math.IsNaN(target) || math.IsInf(target, 0) || target < 0 {
		return 0, look, false
	}
	return target, look, true
}

// approach moves v toward target by at most maxDelta. It is a first-order
// rate limiter, so it never overshoots.
func approach(v, target, maxDelta float64) float64 {
	if target > v {
		return math.Min(target, v+maxDelta)
	}
	return math.Max(target, v-maxDelta)
}

// integrate advances one agent by dt
func (c *stepContext) integrate(a *Agent, own geom.Position) {
	target, look, ok := c.composeTargetSpeed(a, own)
	if !ok {
		return
	}
	a.targetSpeed = target
	a.currentSpeed = math.Max(0, approach(a.currentSpeed, target, c.engine.tuning.Acceleration*c.dt))

	a.distance = math.Min(a.distance+a.currentSpeed*c.dt, a.length)
	if a.distance >= a.length {
		a.distance = a.length
		a.done = true
		a.lateralOffset = geom.Position{}
		a.lateralVelocity = geom.Position{}
		return
	}

	c.deflect(a, look)
}
