package editor

import (
	"github.com/1siamBot/whiteboard/engine/core"
	"github.com/1siamBot/whiteboard/engine/geom"
	"github.com/1siamBot/whiteboard/engine/tuning"
)

// Gesture is the pointer drag in progress
type Gesture int

const (
	GestureNone Gesture = iota
	GestureHome
	GestureTarget
	GestureHandle
)

// Press starts a pointer gesture at court point p. A secondary press on a
// token always draws its arrow; a primary one follows the tool. Returns
// false when nothing was hit.
func (e *Editor) Press(p geom.Position, secondary bool, radius float64, t tuning.MotionTuning) bool {
	e.Release()
	hit := e.HitTest(p, radius, t)
	if hit.Kind == HitNone {
		e.Selected = core.NoRole
		return false
	}
	e.Selected = hit.Role
	switch {
	case hit.Kind == HitToken && (secondary || e.Tool == ToolArrow):
		e.gesture = GestureTarget
	case hit.Kind == HitToken:
		e.gesture = GestureHome
	case hit.Kind == HitTarget:
		e.gesture = GestureTarget
	case hit.Kind == HitHandle:
		e.gesture = GestureHandle
	}
	e.gestureRole = hit.Role
	e.BeginDrag()
	return true
}

// DragTo moves whatever the current gesture holds to p
func (e *Editor) DragTo(p geom.Position) error {
	switch e.gesture {
	case GestureHome:
		return e.MoveHome(e.gestureRole, p)
	case GestureTarget:
		return e.SetTarget(e.gestureRole, p)
	case GestureHandle:
		return e.SetControl(e.gestureRole, p)
	}
	return nil
}

// Release ends the current gesture as one undo step
func (e *Editor) Release() {
	if e.gesture == GestureNone {
		return
	}
	e.gesture = GestureNone
	e.gestureRole = core.NoRole
	e.EndDrag()
}

// Active is the gesture in progress
func (e *Editor) Active() Gesture {
	return e.gesture
}

// Dragged is the role whose token is being moved, or NoRole. Idle layout
// holds it still while the others make room.
func (e *Editor) Dragged() core.Role {
	if e.gesture != GestureHome {
		return core.NoRole
	}
	return e.gestureRole
}
