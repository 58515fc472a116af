package motion

import (
	"github.com/1siamBot/whiteboard/engine/core"
	"github.com/1siamBot/whiteboard/engine/geom"
)

// LockedPathDefinition is one role's path, captured when the play starts.
// A nil Control means a straight line.
type LockedPathDefinition struct {
	Role    core.Role      `json:"role"`
	Start   geom.Position  `json:"start"`
	End     geom.Position  `json:"end"`
	Control *geom.Position `json:"control,omitempty"`
}

// Path returns the definition as a geometry path with its own copy of the
// control point.
func (d LockedPathDefinition) Path() geom.Path {
	p := geom.Path{Start: d.Start, End: d.End}
	if d.Control != nil {
		c := *d.Control
		p.Control = &c
	}
	return p
}

func (d LockedPathDefinition) finite() bool {
	return d.Start.IsFinite() && d.End.IsFinite() && (d.Control == nil || d.Control.IsFinite())
}

// Agent is one role moving along its locked path. It is only mutated by
// Engine.Step.
type Agent struct {
	Role core.Role

	path   *geom.SampledPath
	length float64

	distance        float64
	currentSpeed    float64
	targetSpeed     float64
	lateralOffset   geom.Position
	lateralVelocity geom.Position
	done            bool
}

func newAgent(def LockedPathDefinition) *Agent {
	sp := geom.Sample(def.Path())
	return &Agent{Role: def.Role, path: sp, length: sp.Length()}
}

// Base is the position on the path, before lateral deflection
func (a *Agent) Base() geom.Position {
	return a.path.At(a.distance)
}

// Remaining is the distance left to travel
func (a *Agent) Remaining() float64 {
	return a.length - a.distance
}

// State returns the exported readout of the agent
func (a *Agent) State() core.AgentState {
	return core.AgentState{
		Distance:      a.distance,
		Length:        a.length,
		CurrentSpeed:  a.currentSpeed,
		TargetSpeed:   a.targetSpeed,
		LateralOffset: a.lateralOffset,
		Done:          a.done,
	}
}

func (a *Agent) rendered() geom.Position {
	return geom.ClampToBounds(a.Base().Add(a.lateralOffset), geom.ExtendedCourt)
}
