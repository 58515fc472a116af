package editor

import (
	"errors"

	"github.com/1siamBot/whiteboard/engine/core"
	"github.com/1siamBot/whiteboard/engine/geom"
	"github.com/1siamBot/whiteboard/engine/pathfind"
	"github.com/1siamBot/whiteboard/engine/tuning"
)

// ErrNoArrow is returned when bending a token that has no arrow
var ErrNoArrow = errors.New("editor: token has no arrow")

// HitKind says which part of a token a point landed on
type HitKind int

const (
	HitNone HitKind = iota
	HitToken
	HitTarget
	HitHandle
)

// Hit is the result of HitTest
type Hit struct {
	Kind HitKind
	Role core.Role
}

// Handle is where an arrow's curve handle is drawn. Arrows without a
// manual bend show the planner's choice against the current homes.
func (e *Editor) Handle(r core.Role, t tuning.MotionTuning) (geom.Position, bool) {
	tok, ok := e.Board.Token(r)
	if !ok || !tok.HasArrow() {
		return geom.Position{}, false
	}
	control := tok.Control
	if control == nil {
		locked := pathfind.LockPaths([]pathfind.PathRequest{{Role: r, Start: tok.Home, End: *tok.Target}}, e.Board.Positions(), t)
		control = locked[0].Control
	}
	if control == nil {
		return tok.Home.Lerp(*tok.Target, 0.5), true
	}
	return geom.CurveMidpoint(tok.Home, *control, *tok.Target), true
}

// HitTest finds what lies within radius of p. Tokens win over arrow heads,
// which win over handles; among equals the closest wins.
func (e *Editor) HitTest(p geom.Position, radius float64, t tuning.MotionTuning) Hit {
	best := Hit{Kind: HitNone, Role: core.NoRole}
	bestDist := radius
	consider := func(kind HitKind, r core.Role, at geom.Position) {
		d := p.Dist(at)
		if d > radius {
			return
		}
		if best.Kind == HitNone || kind < best.Kind || (kind == best.Kind && d < bestDist) {
			best = Hit{Kind: kind, Role: r}
			bestDist = d
		}
	}
	for _, tok := range e.Board.Tokens {
		consider(HitToken, tok.Role, tok.Home)
		if tok.HasArrow() {
			consider(HitTarget, tok.Role, *tok.Target)
			if h, ok := e.Handle(tok.Role, t); ok {
				consider(HitHandle, tok.Role, h)
			}
		}
	}
	return best
}
