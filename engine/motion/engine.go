// Package motion simulates a formation change: every moving player follows
// their own locked path at an acceleration-limited speed, braking for and
// stepping around players with right of way. The engine is a pure function
// of its state and the step size; it has no timers and no shared state, so
// one instance is created per play and dropped when the play ends.
package motion

import (
	"math"

	"github.com/1siamBot/whiteboard/engine/core"
	"github.com/1siamBot/whiteboard/engine/geom"
	"github.com/1siamBot/whiteboard/engine/monitoring"
	"github.com/1siamBot/whiteboard/engine/tuning"
)

var (
	_ core.Stepper = (*Engine)(nil)
	_ core.Tuner   = (*Engine)(nil)
)

// Engine owns the agents of one play
type Engine struct {
	tuning     tuning.MotionTuning
	priorities core.Priorities

	agents    []*Agent // canonical role order
	positions core.RoleMap[geom.Position]
	tick      uint64
}

// NewEngine builds the agents for a play. Paths whose role is not active,
// whose coordinates are not finite, or whose length is zero are dropped;
// so is any second path for the same role. Active roles without a path
// stand still at their initial position and are avoided like any other
// player.
func NewEngine(active []core.Role, initial core.RoleMap[geom.Position], paths []LockedPathDefinition, t tuning.MotionTuning, prio core.Priorities) *Engine {
	clean, adjusted := t.Sanitize()
	monitoring.Clamped("motion", adjusted)
	e := &Engine{tuning: clean, priorities: prio}

	var isActive [core.RoleCount]bool
	for _, r := range active {
		if r.Valid() {
			isActive[r] = true
		}
	}

	var byRole [core.RoleCount]*Agent
	for _, def := range paths {
		switch {
		case !def.Role.Valid() || !isActive[def.Role]:
			monitoring.Dropped(def.Role, "role not active")
			continue
		case byRole[def.Role] != nil:
			monitoring.Dropped(def.Role, "duplicate")
			continue
		case !def.finite():
			monitoring.Dropped(def.Role, "non-finite coordinates")
			continue
		case geom.IsDegenerate(def.Start, def.End):
			continue
		}
		a := newAgent(def)
		if a.length <= geom.Epsilon {
			continue
		}
		byRole[def.Role] = a
	}

	for i, a := range byRole {
		r := core.Role(i)
		if a != nil {
			e.agents = append(e.agents, a)
			e.positions.Set(r, a.rendered())
			continue
		}
		if !isActive[r] {
			continue
		}
		if p, ok := initial.Get(r); ok && p.IsFinite() {
			e.positions.Set(r, p)
		}
	}
	return e
}

// Step advances every agent by exactly dt and returns the new snapshot.
// All collision checks read the positions of the previous completed step,
// so the update order of agents does not matter.
func (e *Engine) Step(dt float64) core.Snapshot {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return e.Snapshot()
	}

	prev := e.positions
	ctx := stepContext{engine: e, dt: dt}
	for _, a := range e.agents {
		if a.done {
			continue
		}
		ctx.neighbors = ctx.neighbors[:0]
		prev.Each(func(r core.Role, p geom.Position) {
			if r != a.Role && p.IsFinite() {
				ctx.neighbors = append(ctx.neighbors, neighbor{role: r, pos: p})
			}
		})
		ctx.integrate(a, prev.At(a.Role))
	}

	for _, a := range e.agents {
		e.positions.Set(a.Role, a.rendered())
	}
	e.tick++
	return e.Snapshot()
}

// Snapshot returns the current state without advancing time
func (e *Engine) Snapshot() core.Snapshot {
	s := core.Snapshot{
		Tick:      e.tick,
		Positions: e.positions,
		Done:      true,
	}
	for _, a := range e.agents {
		s.Agents.Set(a.Role, a.State())
		if !a.done {
			s.Done = false
		}
	}
	return s
}

// Done reports whether every agent has arrived
func (e *Engine) Done() bool {
	for _, a := range e.agents {
		if !a.done {
			return false
		}
	}
	return true
}

// Tick returns the number of steps taken
func (e *Engine) Tick() uint64 {
	return e.tick
}

// Tuning returns the sanitized tuning in effect
func (e *Engine) Tuning() tuning.MotionTuning {
	return e.tuning
}

// SetTuning replaces the tuning from the next step on. The debug panel
// calls it through PlayLoop.Retune while a play runs; the value is
// sanitized again on the way in.
func (e *Engine) SetTuning(t tuning.MotionTuning) {
	e.tuning = t.Sanitized()
}

// Priorities returns the right-of-way ranking used by the engine
func (e *Engine) Priorities() core.Priorities {
	return e.priorities
}

// Agent returns the readout of one moving role
func (e *Engine) Agent(r core.Role) (core.AgentState, bool) {
	for _, a := range e.agents {
		if a.Role == r {
			return a.State(), true
		}
	}
	return core.AgentState{}, false
}

// AgentCount is the number of moving roles
func (e *Engine) AgentCount() int {
	return len(e.agents)
}
