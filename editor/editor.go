// Package editor edits a whiteboard with undo and redo. Every change is
// recorded as before/after copies of the tokens it touched.
package editor

import (
	"github.com/1siamBot/whiteboard/engine/board"
	"github.com/1siamBot/whiteboard/engine/core"
	"github.com/1siamBot/whiteboard/engine/geom"
)

// Action is one token before and after an edit. A nil side means the
// token was not on the board.
type Action struct {
	Role   core.Role
	Before *board.Token
	After  *board.Token
}

// Tool is what a primary drag does
type Tool int

const (
	ToolMove  Tool = iota // drag homes
	ToolArrow             // drag from a token to draw its arrow
	ToolCurve             // drag an arrow's handle to bend it
)

func (t Tool) String() string {
	switch t {
	case ToolMove:
		return "move"
	case ToolArrow:
		return "arrow"
	case ToolCurve:
		return "curve"
	default:
		return "?"
	}
}

// Editor holds board editor state
type Editor struct {
	Board     *board.Board
	Tool      Tool
	Selected  core.Role
	UndoStack [][]Action
	RedoStack [][]Action
	FilePath  string
	Modified  bool
	ShowPlan  bool

	stroke      []Action
	inDrag      bool
	gesture     Gesture
	gestureRole core.Role
}

// NewEditor starts editing a copy of b, or an empty board when b is nil
func NewEditor(b *board.Board) *Editor {
	if b == nil {
		b = board.New("Untitled")
	} else {
		b = b.Clone()
	}
	return &Editor{Board: b, Selected: core.NoRole, ShowPlan: true, gestureRole: core.NoRole}
}

// Load loads a board file
func (e *Editor) Load(path string) error {
	b, err := board.LoadJSON(path)
	if err != nil {
		return err
	}
	e.Board = b
	e.FilePath = path
	e.Modified = false
	e.Selected = core.NoRole
	e.UndoStack = nil
	e.RedoStack = nil
	return nil
}

// Save saves the board, to the file it came from when path is empty
func (e *Editor) Save(path string) error {
	if path == "" {
		path = e.FilePath
	}
	if path == "" {
		path = "untitled.board.json"
	}
	if err := e.Board.SaveJSON(path); err != nil {
		return err
	}
	e.FilePath = path
	e.Modified = false
	return nil
}

// BeginDrag groups every edit until EndDrag into one undo step
func (e *Editor) BeginDrag() {
	e.inDrag = true
	e.stroke = nil
}

// EndDrag closes the group started by BeginDrag
func (e *Editor) EndDrag() {
	e.inDrag = false
	e.commit(e.stroke)
	e.stroke = nil
}

func snapshot(b *board.Board, r core.Role) *board.Token {
	t, ok := b.Token(r)
	if !ok {
		return nil
	}
	c := t.Clone()
	return &c
}

// edit applies fn to the board and records the change to role r
func (e *Editor) edit(r core.Role, fn func() error) error {
	before := snapshot(e.Board, r)
	if err := fn(); err != nil {
		return err
	}
	a := Action{Role: r, Before: before, After: snapshot(e.Board, r)}

	if e.inDrag {
		// keep the first before and the latest after for each role
		for i := range e.stroke {
			if e.stroke[i].Role == r {
				e.stroke[i].After = a.After
				e.Modified = true
				return nil
			}
		}
		e.stroke = append(e.stroke, a)
		e.Modified = true
		return nil
	}
	e.commit([]Action{a})
	return nil
}

func (e *Editor) commit(actions []Action) {
	if len(actions) == 0 {
		return
	}
	e.UndoStack = append(e.UndoStack, actions)
	e.RedoStack = nil
	e.Modified = true
}

func (e *Editor) token(r core.Role) (*board.Token, error) {
	t, ok := e.Board.Token(r)
	if !ok {
		return nil, board.ErrNoToken
	}
	return t, nil
}

func clamp(p geom.Position) geom.Position {
	return geom.ClampToBounds(p, geom.ExtendedCourt)
}

// Place puts a role on the board, or moves it if it is already there
func (e *Editor) Place(r core.Role, p geom.Position) error {
	return e.edit(r, func() error { return e.Board.Place(r, clamp(p)) })
}

// Remove takes a role off the board
func (e *Editor) Remove(r core.Role) error {
	return e.edit(r, func() error { return e.Board.Remove(r) })
}

// MoveHome moves where a token stands
func (e *Editor) MoveHome(r core.Role, p geom.Position) error {
	if !p.IsFinite() {
		return board.ErrNonFinite
	}
	return e.edit(r, func() error {
		t, err := e.token(r)
		if err != nil {
			return err
		}
		t.Home = clamp(p)
		return nil
	})
}

// SetTarget draws or moves the arrow head of a token
func (e *Editor) SetTarget(r core.Role, p geom.Position) error {
	if !p.IsFinite() {
		return board.ErrNonFinite
	}
	return e.edit(r, func() error {
		t, err := e.token(r)
		if err != nil {
			return err
		}
		c := clamp(p)
		t.Target = &c
		return nil
	})
}

// ClearTarget removes a token's arrow along with its bend
func (e *Editor) ClearTarget(r core.Role) error {
	return e.edit(r, func() error {
		t, err := e.token(r)
		if err != nil {
			return err
		}
		if !t.HasArrow() {
			return ErrNoArrow
		}
		t.Target = nil
		t.Control = nil
		return nil
	})
}

// SetControl bends an arrow so that it passes through handle
func (e *Editor) SetControl(r core.Role, handle geom.Position) error {
	if !handle.IsFinite() {
		return board.ErrNonFinite
	}
	return e.edit(r, func() error {
		t, err := e.token(r)
		if err != nil {
			return err
		}
		if !t.HasArrow() {
			return ErrNoArrow
		}
		c := clamp(geom.ControlThrough(t.Home, handle, *t.Target))
		t.Control = &c
		return nil
	})
}

// ClearControl hands the arrow's shape back to the planner
func (e *Editor) ClearControl(r core.Role) error {
	return e.edit(r, func() error {
		t, err := e.token(r)
		if err != nil {
			return err
		}
		if !t.HasArrow() {
			return ErrNoArrow
		}
		t.Control = nil
		return nil
	})
}

// ApplyPlay moves every token to where a play left it and clears the
// arrows, as a single undo step
func (e *Editor) ApplyPlay(final core.Snapshot) {
	before := make([]board.Token, len(e.Board.Tokens))
	for i, t := range e.Board.Tokens {
		before[i] = t.Clone()
	}
	e.Board.Commit(final)
	actions := make([]Action, 0, len(before))
	for i := range before {
		after := e.Board.Tokens[i].Clone()
		actions = append(actions, Action{Role: after.Role, Before: &before[i], After: &after})
	}
	e.commit(actions)
}

// Undo reverts the last action
func (e *Editor) Undo() {
	if len(e.UndoStack) == 0 {
		return
	}
	actions := e.UndoStack[len(e.UndoStack)-1]
	e.UndoStack = e.UndoStack[:len(e.UndoStack)-1]
	for i := len(actions) - 1; i >= 0; i-- {
		e.restore(actions[i].Role, actions[i].Before)
	}
	e.RedoStack = append(e.RedoStack, actions)
	e.Modified = true
}

// Redo re-applies the last undone action
func (e *Editor) Redo() {
	if len(e.RedoStack) == 0 {
		return
	}
	actions := e.RedoStack[len(e.RedoStack)-1]
	e.RedoStack = e.RedoStack[:len(e.RedoStack)-1]
	for _, a := range actions {
		e.restore(a.Role, a.After)
	}
	e.UndoStack = append(e.UndoStack, actions)
	e.Modified = true
}

func (e *Editor) restore(r core.Role, tok *board.Token) {
	if tok == nil {
		_ = e.Board.Remove(r)
		return
	}
	restored := tok.Clone()
	if t, ok := e.Board.Token(r); ok {
		*t = restored
		return
	}
	e.Board.Tokens = append(e.Board.Tokens, restored)
}

// NewBoard starts over with an empty board
func (e *Editor) NewBoard(name string) {
	e.Board = board.New(name)
	e.FilePath = ""
	e.Modified = false
	e.Selected = core.NoRole
	e.UndoStack = nil
	e.RedoStack = nil
}
