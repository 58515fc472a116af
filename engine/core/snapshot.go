package core

import "github.com/1siamBot/whiteboard/engine/geom"

// AgentState is the readout of one moving role
type AgentState struct {
	Distance      float64       `json:"distance"`
	Length        float64       `json:"length"`
	CurrentSpeed  float64       `json:"current_speed"`
	TargetSpeed   float64       `json:"target_speed"`
	LateralOffset geom.Position `json:"lateral_offset"`
	Done          bool          `json:"done"`
}

// Progress is the travelled fraction of the path
func (a AgentState) Progress() float64 {
	if a.Length <= 0 {
		return 1
	}
	return a.Distance / a.Length
}

// Snapshot is a point-in-time readout of a play. Positions covers every
// active role (moving or not); Agents only the roles that move.
type Snapshot struct {
	Tick      uint64                 `json:"tick"`
	Positions RoleMap[geom.Position] `json:"positions"`
	Agents    RoleMap[AgentState]    `json:"agents"`
	Done      bool                   `json:"done"`
}

// Lerp blends positions and progress toward next for render interpolation.
// Speeds and flags are taken from next.
func (s Snapshot) Lerp(next Snapshot, alpha float64) Snapshot {
	out := next
	next.Positions.Each(func(r Role, to geom.Position) {
		if from, ok := s.Positions.Get(r); ok {
			out.Positions.Set(r, from.Lerp(to, alpha))
		}
	})
	next.Agents.Each(func(r Role, to AgentState) {
		if from, ok := s.Agents.Get(r); ok {
			to.Distance = from.Distance + (to.Distance-from.Distance)*alpha
			to.LateralOffset = from.LateralOffset.Lerp(to.LateralOffset, alpha)
			out.Agents.Set(r, to)
		}
	})
	return out
}
