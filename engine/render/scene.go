// Package render draws the whiteboard: the court, the players and the
// arrows of the current play. Scene is the device-independent picture;
// CourtRenderer draws it with Ebitengine and Rasterize into a plain image.
package render

import (
	"image/color"

	"github.com/1siamBot/whiteboard/engine/board"
	"github.com/1siamBot/whiteboard/engine/core"
	"github.com/1siamBot/whiteboard/engine/geom"
	"github.com/1siamBot/whiteboard/engine/layout"
	"github.com/1siamBot/whiteboard/engine/motion"
	"github.com/1siamBot/whiteboard/engine/pathfind"
	"github.com/1siamBot/whiteboard/engine/tuning"
)

// ArrowSegments is the number of straight pieces an arrow is drawn with
const ArrowSegments = 32

// TokenView is a player as drawn
type TokenView struct {
	Role     core.Role
	Pos      geom.Position
	Color    color.RGBA
	Label    string
	Arrived  bool
	Selected bool
}

// ArrowView is the part of a path still to be run
type ArrowView struct {
	Role   core.Role
	Points []geom.Position
	Head   geom.Position
	Handle geom.Position
	Manual bool // bent by hand rather than by the planner
	Color  color.RGBA
}

// Scene is everything on the court for one frame
type Scene struct {
	Tokens []TokenView
	Arrows []ArrowView
	Radius float64
}

// RGBA unpacks a 0xRRGGBBAA colour
func RGBA(c uint32) color.RGBA {
	return color.RGBA{R: uint8(c >> 24), G: uint8(c >> 16), B: uint8(c >> 8), A: uint8(c)}
}

func colorOf(roster *core.Roster, r core.Role) color.RGBA {
	if p, ok := roster.GetPlayer(r); ok {
		return RGBA(p.Color)
	}
	return color.RGBA{0xCC, 0xCC, 0xCC, 0xFF}
}

// arrow samples the path from distance from to its end
func arrow(def motion.LockedPathDefinition, from float64, manual bool, c color.RGBA) ArrowView {
	sp := geom.Sample(def.Path())
	length := sp.Length()
	a := ArrowView{Role: def.Role, Head: def.End, Manual: manual, Color: c}
	for i := 0; i <= ArrowSegments; i++ {
		d := from + (length-from)*float64(i)/ArrowSegments
		a.Points = append(a.Points, sp.At(d))
	}
	if def.Control != nil {
		a.Handle = geom.CurveMidpoint(def.Start, *def.Control, def.End)
	} else {
		a.Handle = def.Start.Lerp(def.End, 0.5)
	}
	return a
}

// IdleScene is the board between plays: overlapping tokens are spread
// apart and every arrow shows the curve the planner would lock now
func IdleScene(b *board.Board, t tuning.MotionTuning, roster *core.Roster, selected, dragged core.Role) Scene {
	t = t.Sanitized()
	homes := b.Positions()
	shown := layout.Relax(homes, b.PrioritiesOrDefault(), dragged, t.CollisionRadius)

	s := Scene{Radius: t.CollisionRadius}
	shown.Each(func(r core.Role, p geom.Position) {
		s.Tokens = append(s.Tokens, TokenView{
			Role: r, Pos: p, Color: colorOf(roster, r), Label: r.String(), Selected: r == selected,
		})
	})

	reqs := b.Requests()
	for i, def := range pathfind.LockPaths(reqs, homes, t) {
		if geom.IsDegenerate(def.Start, def.End) {
			continue
		}
		s.Arrows = append(s.Arrows, arrow(def, 0, reqs[i].Control != nil, colorOf(roster, def.Role)))
	}
	return s
}

// PlayScene is one frame of a running play. Arrows shrink as players run
// them and disappear on arrival.
func PlayScene(paths []motion.LockedPathDefinition, snap core.Snapshot, roster *core.Roster, radius float64) Scene {
	s := Scene{Radius: radius}
	snap.Positions.Each(func(r core.Role, p geom.Position) {
		a, moving := snap.Agents.Get(r)
		s.Tokens = append(s.Tokens, TokenView{
			Role: r, Pos: p, Color: colorOf(roster, r), Label: r.String(), Arrived: moving && a.Done,
		})
	})
	var seen [core.RoleCount]bool
	for _, def := range paths {
		a, ok := snap.Agents.Get(def.Role)
		if !ok || a.Done || seen[def.Role] {
			continue
		}
		seen[def.Role] = true
		s.Arrows = append(s.Arrows, arrow(def, a.Distance, false, colorOf(roster, def.Role)))
	}
	return s
}
