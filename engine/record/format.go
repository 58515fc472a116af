// Package record stores plays so they can be replayed and checked for
// determinism. The format is little-endian binary: a header holding
// everything needed to rebuild the engine, then one frame per step.
package record

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/1siamBot/whiteboard/engine/core"
	"github.com/1siamBot/whiteboard/engine/geom"
	"github.com/1siamBot/whiteboard/engine/motion"
	"github.com/1siamBot/whiteboard/engine/tuning"
)

// Version is the format version written by this package
const Version uint16 = 1

var magic = [4]byte{'W', 'B', 'P', 'L'}

var (
	ErrBadMagic = errors.New("record: not a play recording")
	ErrVersion  = errors.New("record: unsupported version")
	ErrCorrupt  = errors.New("record: corrupt recording")
)

// Header is everything needed to rebuild the engine of a recorded play
type Header struct {
	FixedDt    float64
	Tuning     tuning.MotionTuning
	Priorities core.Priorities
	Active     []core.Role
	Initial    core.RoleMap[geom.Position]
	Paths      []motion.LockedPathDefinition
}

// NewEngine rebuilds the engine the header describes
func (h Header) NewEngine() *motion.Engine {
	return motion.NewEngine(h.Active, h.Initial, h.Paths, h.Tuning, h.Priorities)
}

// AgentFrame is one moving role at the end of a step
type AgentFrame struct {
	Role     core.Role
	Distance float64
	Position geom.Position
}

// Frame is the state after one step
type Frame struct {
	Tick   uint64
	Agents []AgentFrame
}

// FrameOf extracts the recorded part of a snapshot
func FrameOf(s core.Snapshot) Frame {
	f := Frame{Tick: s.Tick}
	s.Agents.Each(func(r core.Role, a core.AgentState) {
		f.Agents = append(f.Agents, AgentFrame{Role: r, Distance: a.Distance, Position: s.Positions.At(r)})
	})
	return f
}

func write(w io.Writer, vals ...any) error {
	for _, v := range vals {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

func read(r io.Reader, vals ...any) error {
	for _, v := range vals {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

func writePos(w io.Writer, p geom.Position) error {
	return write(w, p.X, p.Y)
}

func readPos(r io.Reader) (geom.Position, error) {
	var p geom.Position
	err := read(r, &p.X, &p.Y)
	return p, err
}

func readRole(r io.Reader) (core.Role, error) {
	var role core.Role
	if err := read(r, &role); err != nil {
		return 0, err
	}
	if !role.Valid() {
		return 0, fmt.Errorf("%w: role %d", ErrCorrupt, role)
	}
	return role, nil
}

func readCount(r io.Reader) (int, error) {
	var n uint8
	if err := read(r, &n); err != nil {
		return 0, err
	}
	if n > uint8(core.RoleCount) {
		return 0, fmt.Errorf("%w: %d entries", ErrCorrupt, n)
	}
	return int(n), nil
}

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// check rejects headers that would not survive a round trip through the
// fixed-width encoding
func (h *Header) check() error {
	for i, p := range h.Priorities {
		if p < math.MinInt32 || p > math.MaxInt32 {
			return fmt.Errorf("%w: priority %d for %v", ErrCorrupt, p, core.Role(i))
		}
	}
	if len(h.Active) > int(core.RoleCount) {
		return fmt.Errorf("%w: %d active roles", ErrCorrupt, len(h.Active))
	}
	if len(h.Paths) > int(core.RoleCount) {
		return fmt.Errorf("%w: %d paths", ErrCorrupt, len(h.Paths))
	}
	for _, r := range h.Active {
		if !r.Valid() {
			return fmt.Errorf("%w: role %d", ErrCorrupt, r)
		}
	}
	for _, p := range h.Paths {
		if !p.Role.Valid() {
			return fmt.Errorf("%w: path role %d", ErrCorrupt, p.Role)
		}
	}
	return nil
}

// Encode writes the header, magic and version included. Headers whose
// values do not fit the format are refused with ErrCorrupt.
func (h *Header) Encode(w io.Writer) error {
	if err := h.check(); err != nil {
		return err
	}
	var prio [core.RoleCount]int32
	for i, p := range h.Priorities {
		prio[i] = int32(p)
	}
	if err := write(w, magic, Version, h.FixedDt, h.Tuning, prio); err != nil {
		return err
	}

	if err := write(w, uint8(len(h.Active))); err != nil {
		return err
	}
	for _, r := range h.Active {
		p, ok := h.Initial.Get(r)
		if err := write(w, r, flag(ok)); err != nil {
			return err
		}
		if ok {
			if err := writePos(w, p); err != nil {
				return err
			}
		}
	}

	if err := write(w, uint8(len(h.Paths))); err != nil {
		return err
	}
	for _, p := range h.Paths {
		if err := write(w, p.Role); err != nil {
			return err
		}
		if err := writePos(w, p.Start); err != nil {
			return err
		}
		if err := writePos(w, p.End); err != nil {
			return err
		}
		if err := write(w, flag(p.Control != nil)); err != nil {
			return err
		}
		if p.Control != nil {
			if err := writePos(w, *p.Control); err != nil {
				return err
			}
		}
	}
	return nil
}

// Decode reads a header written by Encode
func (h *Header) Decode(r io.Reader) error {
	var m [4]byte
	if err := read(r, &m); err != nil {
		return err
	}
	if m != magic {
		return ErrBadMagic
	}
	var v uint16
	if err := read(r, &v); err != nil {
		return err
	}
	if v != Version {
		return fmt.Errorf("%w: %d", ErrVersion, v)
	}

	var prio [core.RoleCount]int32
	if err := read(r, &h.FixedDt, &h.Tuning, &prio); err != nil {
		return err
	}
	for i, p := range prio {
		h.Priorities[i] = int(p)
	}

	n, err := readCount(r)
	if err != nil {
		return err
	}
	h.Active = make([]core.Role, 0, n)
	for i := 0; i < n; i++ {
		role, err := readRole(r)
		if err != nil {
			return err
		}
		var has uint8
		if err := read(r, &has); err != nil {
			return err
		}
		h.Active = append(h.Active, role)
		if has == 1 {
			p, err := readPos(r)
			if err != nil {
				return err
			}
			h.Initial.Set(role, p)
		}
	}

	// duplicate paths for a role are legal, the engine drops them
	var np uint8
	if err := read(r, &np); err != nil {
		return err
	}
	h.Paths = make([]motion.LockedPathDefinition, 0, np)
	for i := 0; i < int(np); i++ {
		var p motion.LockedPathDefinition
		if p.Role, err = readRole(r); err != nil {
			return err
		}
		if p.Start, err = readPos(r); err != nil {
			return err
		}
		if p.End, err = readPos(r); err != nil {
			return err
		}
		var has uint8
		if err := read(r, &has); err != nil {
			return err
		}
		if has == 1 {
			c, err := readPos(r)
			if err != nil {
				return err
			}
			p.Control = &c
		}
		h.Paths = append(h.Paths, p)
	}
	return nil
}

// Encode writes one frame
func (f *Frame) Encode(w io.Writer) error {
	if err := write(w, f.Tick, uint8(len(f.Agents))); err != nil {
		return err
	}
	for _, a := range f.Agents {
		if err := write(w, a.Role, a.Distance); err != nil {
			return err
		}
		if err := writePos(w, a.Position); err != nil {
			return err
		}
	}
	return nil
}

// Decode reads one frame. A clean end of input before the frame starts
// returns io.EOF; running out part way through is io.ErrUnexpectedEOF.
func (f *Frame) Decode(r io.Reader) error {
	if err := read(r, &f.Tick); err != nil {
		return err
	}
	n, err := readCount(r)
	if err != nil {
		return noEOF(err)
	}
	f.Agents = make([]AgentFrame, 0, n)
	for i := 0; i < n; i++ {
		var a AgentFrame
		if a.Role, err = readRole(r); err != nil {
			return noEOF(err)
		}
		if err := read(r, &a.Distance); err != nil {
			return noEOF(err)
		}
		if a.Position, err = readPos(r); err != nil {
			return noEOF(err)
		}
		f.Agents = append(f.Agents, a)
	}
	return nil
}

func noEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
