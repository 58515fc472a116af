package pathfind

import (
	"github.com/1siamBot/whiteboard/engine/core"
	"github.com/1siamBot/whiteboard/engine/geom"
	"github.com/1siamBot/whiteboard/engine/motion"
	"github.com/1siamBot/whiteboard/engine/tuning"
)

// PathRequest is a drawn arrow as the UI holds it: Control is the coach's
// manual curve, nil when the planner should choose.
type PathRequest struct {
	Role    core.Role
	Start   geom.Position
	End     geom.Position
	Control *geom.Position
}

// LockPaths fixes the curve of every request for the duration of one play.
// The planner runs once here, against where every other active player
// stands now; the results are copied so later edits cannot leak in.
func LockPaths(reqs []PathRequest, positions core.RoleMap[geom.Position], t tuning.MotionTuning) []motion.LockedPathDefinition {
	out := make([]motion.LockedPathDefinition, 0, len(reqs))
	for _, req := range reqs {
		def := motion.LockedPathDefinition{Role: req.Role, Start: req.Start, End: req.End}
		if req.Control != nil {
			c := *req.Control
			def.Control = &c
		} else {
			def.Control = ComputeDefaultControlPoint(req.Start, req.End, neighborsOf(req.Role, positions), t)
		}
		out = append(out, def)
	}
	return out
}

func neighborsOf(role core.Role, positions core.RoleMap[geom.Position]) []geom.Position {
	var out []geom.Position
	positions.Each(func(r core.Role, p geom.Position) {
		if r != role {
			out = append(out, p)
		}
	})
	return out
}
