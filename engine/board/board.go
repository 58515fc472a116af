// Package board holds a whiteboard: where every player token stands and
// the arrows the coach has drawn for the next play.
package board

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/1siamBot/whiteboard/engine/core"
	"github.com/1siamBot/whiteboard/engine/geom"
	"github.com/1siamBot/whiteboard/engine/pathfind"
)

var (
	ErrDuplicateRole = errors.New("board: role placed twice")
	ErrNonFinite     = errors.New("board: non-finite coordinate")
	ErrNoToken       = errors.New("board: role not on the board")
)

// Token is one player on the board. Target is the end of the arrow drawn
// for the next play, nil when the player stays put. Control is a manual
// bend of that arrow, nil to let the planner choose.
type Token struct {
	Role    core.Role      `json:"role"`
	Home    geom.Position  `json:"home"`
	Target  *geom.Position `json:"target,omitempty"`
	Control *geom.Position `json:"control,omitempty"`
}

// HasArrow reports whether the token moves in the next play
func (t Token) HasArrow() bool {
	return t.Target != nil
}

// Clone returns a copy that shares no pointers with t
func (t Token) Clone() Token {
	out := Token{Role: t.Role, Home: t.Home}
	if t.Target != nil {
		out.Target = pos(t.Target.X, t.Target.Y)
	}
	if t.Control != nil {
		out.Control = pos(t.Control.X, t.Control.Y)
	}
	return out
}

// Board is a saved whiteboard
type Board struct {
	Name        string           `json:"name"`
	Author      string           `json:"author,omitempty"`
	Description string           `json:"description,omitempty"`
	Tokens      []Token          `json:"tokens"`
	Priorities  *core.Priorities `json:"priorities,omitempty"`
}

// New creates an empty board
func New(name string) *Board {
	return &Board{Name: name}
}

func pos(x, y float64) *geom.Position {
	p := geom.Pos(x, y)
	return &p
}

// Default is a serve-receive formation with arrows into base defence
func Default() *Board {
	return &Board{
		Name:        "Serve receive to base",
		Description: "Rotation 1 receive; every player releases to base after the pass.",
		Tokens: []Token{
			{Role: core.RoleSetter, Home: geom.Pos(0.82, 0.78), Target: pos(0.62, 0.22)},
			{Role: core.RoleOutside1, Home: geom.Pos(0.2, 0.55), Target: pos(0.12, 0.3)},
			{Role: core.RoleOutside2, Home: geom.Pos(0.25, 0.2), Target: pos(0.2, 0.72)},
			{Role: core.RoleMiddle1, Home: geom.Pos(0.55, 0.12), Target: pos(0.5, 0.18)},
			{Role: core.RoleOpposite, Home: geom.Pos(0.88, 0.35), Target: pos(0.88, 0.3)},
			{Role: core.RoleLibero, Home: geom.Pos(0.5, 0.6), Target: pos(0.5, 0.85), Control: pos(0.35, 0.75)},
		},
	}
}

// Token returns the token for a role
func (b *Board) Token(r core.Role) (*Token, bool) {
	for i := range b.Tokens {
		if b.Tokens[i].Role == r {
			return &b.Tokens[i], true
		}
	}
	return nil, false
}

// Place puts a role on the board at home, or moves it there
func (b *Board) Place(r core.Role, home geom.Position) error {
	if !r.Valid() {
		return fmt.Errorf("%w %d", core.ErrUnknownRole, r)
	}
	if !home.IsFinite() {
		return ErrNonFinite
	}
	if t, ok := b.Token(r); ok {
		t.Home = home
		return nil
	}
	b.Tokens = append(b.Tokens, Token{Role: r, Home: home})
	return nil
}

// Remove takes a role off the board
func (b *Board) Remove(r core.Role) error {
	for i := range b.Tokens {
		if b.Tokens[i].Role == r {
			b.Tokens = append(b.Tokens[:i], b.Tokens[i+1:]...)
			return nil
		}
	}
	return ErrNoToken
}

// PrioritiesOrDefault returns the board's right-of-way ranking
func (b *Board) PrioritiesOrDefault() core.Priorities {
	if b.Priorities != nil {
		return *b.Priorities
	}
	return core.DefaultPriorities()
}

// ActiveRoles lists the roles on the board in canonical order
func (b *Board) ActiveRoles() []core.Role {
	return b.Positions().Roles()
}

// Positions returns every token's home
func (b *Board) Positions() core.RoleMap[geom.Position] {
	var m core.RoleMap[geom.Position]
	for _, t := range b.Tokens {
		m.Set(t.Role, t.Home)
	}
	return m
}

// Requests turns the drawn arrows into path requests. Controls are copied.
func (b *Board) Requests() []pathfind.PathRequest {
	var out []pathfind.PathRequest
	for _, r := range b.ActiveRoles() {
		t, _ := b.Token(r)
		if !t.HasArrow() {
			continue
		}
		req := pathfind.PathRequest{Role: t.Role, Start: t.Home, End: *t.Target}
		if t.Control != nil {
			c := *t.Control
			req.Control = &c
		}
		out = append(out, req)
	}
	return out
}

// Commit moves every token to where it finished and clears the arrows,
// ready for the next play to be drawn
func (b *Board) Commit(final core.Snapshot) {
	for i := range b.Tokens {
		t := &b.Tokens[i]
		if p, ok := final.Positions.Get(t.Role); ok && p.IsFinite() {
			t.Home = p
		}
		t.Target = nil
		t.Control = nil
	}
}

// Clone returns a deep copy
func (b *Board) Clone() *Board {
	out := *b
	out.Tokens = make([]Token, len(b.Tokens))
	for i, t := range b.Tokens {
		out.Tokens[i] = t.Clone()
	}
	if b.Priorities != nil {
		p := *b.Priorities
		out.Priorities = &p
	}
	return &out
}

// Validate checks that every role appears once with finite coordinates
func (b *Board) Validate() error {
	var seen [core.RoleCount]bool
	for _, t := range b.Tokens {
		if !t.Role.Valid() {
			return fmt.Errorf("%w %d", core.ErrUnknownRole, t.Role)
		}
		if seen[t.Role] {
			return fmt.Errorf("%w: %v", ErrDuplicateRole, t.Role)
		}
		seen[t.Role] = true
		if !t.Home.IsFinite() ||
			(t.Target != nil && !t.Target.IsFinite()) ||
			(t.Control != nil && !t.Control.IsFinite()) {
			return fmt.Errorf("%w: %v", ErrNonFinite, t.Role)
		}
	}
	return nil
}

// SaveJSON writes the board to a JSON file
func (b *Board) SaveJSON(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadJSON reads and validates a board from a JSON file
func LoadJSON(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var b Board
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("board: %s: %w", path, err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &b, nil
}
