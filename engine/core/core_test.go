package core

import (
	"encoding/json"
	"testing"

	"github.com/1siamBot/whiteboard/engine/geom"
	"github.com/1siamBot/whiteboard/engine/tuning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, r := range AllRoles() {
		got, err := ParseRole(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	got, err := ParseRole("opp")
	require.NoError(t, err)
	assert.Equal(t, RoleOpposite, got)

	_, err = ParseRole("goalie")
	assert.Error(t, err)
	assert.Equal(t, "Role(7)", NoRole.String())
}

func TestRoleMapValueSemantics(t *testing.T) {
	var m RoleMap[geom.Position]
	m.Set(RoleSetter, geom.Pos(0.1, 0.2))
	copied := m
	m.Set(RoleSetter, geom.Pos(0.9, 0.9))

	assert.Equal(t, geom.Pos(0.1, 0.2), copied.At(RoleSetter))
	assert.Equal(t, geom.Pos(0.9, 0.9), m.At(RoleSetter))

	m.Set(NoRole, geom.Pos(1, 1))
	assert.Equal(t, 1, m.Len())
	assert.False(t, m.Has(NoRole))

	m.Set(RoleLibero, geom.Pos(0.5, 0.5))
	assert.Equal(t, []Role{RoleSetter, RoleLibero}, m.Roles())
	m.Delete(RoleSetter)
	_, ok := m.Get(RoleSetter)
	assert.False(t, ok)
}

func TestRoleMapJSON(t *testing.T) {
	var m RoleMap[float64]
	m.Set(RoleMiddle1, 0.5)
	m.Set(RoleLibero, 0.25)

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"MB1": 0.5, "L": 0.25}`, string(b))

	var back RoleMap[float64]
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, m, back)

	assert.Error(t, json.Unmarshal([]byte(`{"XX": 1}`), &back))
}

func TestPriorities(t *testing.T) {
	p := DefaultPriorities()
	assert.True(t, p.Outranks(RoleSetter, RoleOpposite))
	assert.True(t, p.YieldsTo(RoleOpposite, RoleSetter))
	assert.False(t, p.YieldsTo(RoleSetter, RoleOpposite))
	assert.False(t, p.YieldsTo(RoleSetter, RoleSetter))

	p[RoleMiddle1] = 4
	p[RoleOutside2] = 4
	// equal ranks never brake but do share lateral space
	assert.False(t, p.YieldsTo(RoleMiddle1, RoleOutside2))
	assert.False(t, p.YieldsTo(RoleOutside2, RoleMiddle1))
	assert.True(t, p.DeflectsFrom(RoleMiddle1, RoleOutside2))
	assert.True(t, p.DeflectsFrom(RoleOutside2, RoleMiddle1))
	assert.False(t, p.DeflectsFrom(RoleSetter, RoleOpposite))
}

func TestPrioritiesJSON(t *testing.T) {
	var p Priorities
	require.NoError(t, json.Unmarshal([]byte(`{"OPP": 0}`), &p))
	assert.Equal(t, 0, p.Of(RoleOpposite))
	assert.Equal(t, 1, p.Of(RoleSetter))

	b, err := json.Marshal(DefaultPriorities())
	require.NoError(t, err)
	var back Priorities
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, DefaultPriorities(), back)
}

func TestRoster(t *testing.T) {
	r := NewRoster()
	p, ok := r.GetPlayer(RoleLibero)
	require.True(t, ok)
	assert.Equal(t, "Libero", p.Name)
	r.Rename(RoleLibero, "Kim")
	p, _ = r.GetPlayer(RoleLibero)
	assert.Equal(t, "Kim", p.Name)
}

func TestEventBus(t *testing.T) {
	bus := NewEventBus()
	var got []Role
	bus.On(EvtAgentArrived, func(e Event) {
		got = append(got, e.Role)
		bus.Emit(Event{Type: EvtPlayFinished})
	})
	bus.Emit(Event{Type: EvtAgentArrived, Role: RoleSetter})
	bus.Emit(Event{Type: EvtTuningChanged})
	bus.Dispatch()
	assert.Equal(t, []Role{RoleSetter}, got)
	assert.Equal(t, 1, bus.Pending(), "events emitted by handlers wait for the next dispatch")
}

// countdown is a stepper that finishes after a fixed number of steps
type countdown struct {
	remaining int
	steps     int
	dts       []float64
}

func (c *countdown) Snapshot() Snapshot {
	var s Snapshot
	s.Tick = uint64(c.steps)
	x := float64(c.steps)
	s.Positions.Set(RoleSetter, geom.Pos(x, 0))
	s.Agents.Set(RoleSetter, AgentState{Distance: x, Length: float64(c.steps + c.remaining), Done: c.remaining == 0})
	s.Done = c.remaining == 0
	return s
}

func (c *countdown) Step(dt float64) Snapshot {
	c.dts = append(c.dts, dt)
	if c.remaining > 0 {
		c.remaining--
		c.steps++
	}
	return c.Snapshot()
}

func TestPlayLoopFixedSteps(t *testing.T) {
	pb := tuning.DefaultPlayback()
	c := &countdown{remaining: 1000}
	loop := NewPlayLoop(c, pb, nil)

	// 2.5 steps worth of time: two steps, half a step left over
	alpha := loop.Advance(2.5 * pb.FixedDt)
	assert.Len(t, c.dts, 2)
	assert.InDelta(t, 0.5, alpha, 1e-9)
	for _, dt := range c.dts {
		assert.Equal(t, pb.FixedDt, dt)
	}

	interp := loop.Interpolated()
	assert.InDelta(t, 1.5, interp.Positions.At(RoleSetter).X, 1e-9)

	// the leftover half step completes on the next frame
	loop.Advance(0.6 * pb.FixedDt)
	assert.Len(t, c.dts, 3)
}

func TestPlayLoopCapsSubSteps(t *testing.T) {
	pb := tuning.DefaultPlayback()
	c := &countdown{remaining: 1000}
	loop := NewPlayLoop(c, pb, nil)

	// a one-second stall is clamped to MaxFrameTime and then to MaxSubSteps
	alpha := loop.Advance(1.0)
	assert.Len(t, c.dts, pb.MaxSubSteps)
	assert.GreaterOrEqual(t, alpha, 0.0)
	assert.Less(t, alpha, 1.0)

	loop.Advance(-5)
	assert.Len(t, c.dts, pb.MaxSubSteps, "negative frame time is ignored")
}

func TestPlayLoopEvents(t *testing.T) {
	pb := tuning.DefaultPlayback()
	bus := NewEventBus()
	var seen []EventType
	for _, et := range []EventType{EvtPlayStarted, EvtAgentArrived, EvtPlayFinished} {
		bus.On(et, func(e Event) { seen = append(seen, e.Type) })
	}

	c := &countdown{remaining: 3}
	loop := NewPlayLoop(c, pb, bus)
	for i := 0; i < 10 && !loop.Done(); i++ {
		loop.Advance(pb.FixedDt)
	}
	bus.Dispatch()

	assert.Equal(t, StateFinished, loop.State)
	assert.Equal(t, []EventType{EvtPlayStarted, EvtAgentArrived, EvtPlayFinished}, seen)
	assert.Len(t, c.dts, 3)
	assert.True(t, loop.Interpolated().Done)

	// a finished loop never steps again
	loop.Advance(1)
	assert.Len(t, c.dts, 3)
}

func TestPlayLoopAbort(t *testing.T) {
	c := &countdown{remaining: 100}
	loop := NewPlayLoop(c, tuning.DefaultPlayback(), nil)
	loop.Abort()
	assert.True(t, loop.Done())
	loop.Advance(0.1)
	assert.Empty(t, c.dts)
}

func TestPlayLoopEmptyPlayFinishesImmediately(t *testing.T) {
	c := &countdown{}
	loop := NewPlayLoop(c, tuning.DefaultPlayback(), nil)
	assert.Equal(t, StateFinished, loop.State)
}

// tunedCountdown is a countdown that accepts new tuning
type tunedCountdown struct {
	countdown
	tuning tuning.MotionTuning
}

func (c *tunedCountdown) SetTuning(t tuning.MotionTuning) { c.tuning = t }
func (c *tunedCountdown) Tuning() tuning.MotionTuning     { return c.tuning }

func TestPlayLoopRetune(t *testing.T) {
	pb := tuning.DefaultPlayback()
	c := &tunedCountdown{countdown: countdown{remaining: 3}, tuning: tuning.Default()}
	loop := NewPlayLoop(c, pb, nil)

	faster := tuning.Default()
	faster.Speed = 1.5
	require.True(t, loop.Retune(faster))
	got, ok := loop.Tuning()
	require.True(t, ok)
	assert.Equal(t, 1.5, got.Speed)

	for i := 0; i < 10 && !loop.Done(); i++ {
		loop.Advance(pb.FixedDt)
	}
	assert.False(t, loop.Retune(tuning.Default()), "a finished play keeps its tuning")
	assert.Equal(t, 1.5, c.tuning.Speed)

	plain := NewPlayLoop(&countdown{remaining: 3}, pb, nil)
	assert.False(t, plain.Retune(faster))
	_, ok = plain.Tuning()
	assert.False(t, ok)
}

func TestRunToCompletion(t *testing.T) {
	c := &countdown{remaining: 40}
	snap, steps := RunToCompletion(c, 0.01, 15000)
	assert.True(t, snap.Done)
	assert.Equal(t, 40, steps)

	stuck := &countdown{remaining: 1 << 30}
	snap, steps = RunToCompletion(stuck, 0.01, 500)
	assert.False(t, snap.Done)
	assert.Equal(t, 500, steps)
}

func TestSnapshotLerp(t *testing.T) {
	var a, b Snapshot
	a.Positions.Set(RoleSetter, geom.Pos(0, 0))
	b.Positions.Set(RoleSetter, geom.Pos(1, 2))
	b.Positions.Set(RoleLibero, geom.Pos(0.3, 0.3))
	a.Agents.Set(RoleSetter, AgentState{Distance: 0, Length: 1})
	b.Agents.Set(RoleSetter, AgentState{Distance: 1, Length: 1, Done: true})

	mid := a.Lerp(b, 0.25)
	assert.Equal(t, geom.Pos(0.25, 0.5), mid.Positions.At(RoleSetter))
	assert.Equal(t, geom.Pos(0.3, 0.3), mid.Positions.At(RoleLibero))
	assert.InDelta(t, 0.25, mid.Agents.At(RoleSetter).Distance, 1e-12)
	assert.InDelta(t, 0.25, mid.Agents.At(RoleSetter).Progress(), 1e-12)
}
