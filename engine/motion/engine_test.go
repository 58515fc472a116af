package motion

import (
	"math"
	"math/rand"
	"testing"

	"github.com/1siamBot/whiteboard/engine/core"
	"github.com/1siamBot/whiteboard/engine/geom"
	"github.com/1siamBot/whiteboard/engine/tuning"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDt = 1.0 / 120

func scenarioTuning() tuning.MotionTuning {
	t := tuning.Default()
	t.Speed = 0.7
	t.Acceleration = 2.4
	return t
}

func straight(r core.Role, sx, sy, ex, ey float64) LockedPathDefinition {
	return LockedPathDefinition{Role: r, Start: geom.Pos(sx, sy), End: geom.Pos(ex, ey)}
}

func startPositions(paths []LockedPathDefinition) core.RoleMap[geom.Position] {
	var m core.RoleMap[geom.Position]
	for _, p := range paths {
		m.Set(p.Role, p.Start)
	}
	return m
}

func rolesOf(paths []LockedPathDefinition) []core.Role {
	var out []core.Role
	for _, p := range paths {
		out = append(out, p.Role)
	}
	return out
}

func newTestEngine(t tuning.MotionTuning, paths ...LockedPathDefinition) *Engine {
	return NewEngine(rolesOf(paths), startPositions(paths), paths, t, core.DefaultPriorities())
}

func runAll(e *Engine, maxSteps int) []core.Snapshot {
	var out []core.Snapshot
	for i := 0; i < maxSteps && !e.Done(); i++ {
		out = append(out, e.Step(testDt))
	}
	return out
}

func TestStraightUnopposedMove(t *testing.T) {
	e := newTestEngine(scenarioTuning(), straight(core.RoleSetter, 0.5, 0.8, 0.5, 0.2))
	require.Equal(t, 1, e.AgentCount())

	snaps := runAll(e, 15000)
	require.NotEmpty(t, snaps)
	final := snaps[len(snaps)-1]

	require.True(t, final.Done)
	a := final.Agents.At(core.RoleSetter)
	assert.True(t, a.Done)
	assert.Equal(t, a.Length, a.Distance)
	assert.InDelta(t, 0.6, a.Length, 1e-9)
	assert.Equal(t, geom.Pos(0.5, 0.2), final.Positions.At(core.RoleSetter))
	assert.Equal(t, geom.Position{}, a.LateralOffset)

	// cruise is reached and never exceeded
	maxSpeed := 0.0
	for _, s := range snaps {
		maxSpeed = math.Max(maxSpeed, s.Agents.At(core.RoleSetter).CurrentSpeed)
	}
	assert.InDelta(t, 0.7, maxSpeed, 1e-12)
}

func TestSpeedIsRateLimited(t *testing.T) {
	tn := scenarioTuning()
	e := newTestEngine(tn, straight(core.RoleSetter, 0.1, 0.1, 0.9, 0.9))
	prev := 0.0
	for _, s := range runAll(e, 15000) {
		v := s.Agents.At(core.RoleSetter).CurrentSpeed
		assert.LessOrEqual(t, math.Abs(v-prev), tn.Acceleration*testDt+1e-12)
		assert.GreaterOrEqual(t, v, 0.0)
		prev = v
	}
}

func TestDistanceMonotonicAndBounded(t *testing.T) {
	c := geom.Pos(0.9, 0.1)
	e := newTestEngine(scenarioTuning(),
		LockedPathDefinition{Role: core.RoleOpposite, Start: geom.Pos(0.1, 0.2), End: geom.Pos(0.8, 0.9), Control: &c},
		straight(core.RoleSetter, 0.8, 0.2, 0.2, 0.8),
	)
	last := map[core.Role]float64{}
	for _, s := range runAll(e, 15000) {
		s.Agents.Each(func(r core.Role, a core.AgentState) {
			assert.GreaterOrEqual(t, a.Distance, last[r])
			assert.LessOrEqual(t, a.Distance, a.Length)
			assert.Equal(t, a.Distance >= a.Length, a.Done)
			last[r] = a.Distance
		})
	}
	assert.True(t, e.Done())
}

func TestCornerSlowdown(t *testing.T) {
	c := geom.Pos(0.5, 0.95)
	curved := LockedPathDefinition{Role: core.RoleSetter, Start: geom.Pos(0.2, 0.3), End: geom.Pos(0.8, 0.3), Control: &c}

	tn := scenarioTuning()
	tn.CornerSlowdown = 2
	e := newTestEngine(tn, curved)

	var apexTarget float64
	for _, s := range runAll(e, 15000) {
		a := s.Agents.At(core.RoleSetter)
		if p := a.Progress(); p > 0.45 && p < 0.55 {
			apexTarget = a.TargetSpeed
			break
		}
	}
	assert.Greater(t, apexTarget, 0.0)
	assert.Less(t, apexTarget, tn.Speed*0.9, "target speed drops on the tight part of the curve")

	tn.CornerSlowdown = 0
	flat := newTestEngine(tn, curved)
	for _, s := range runAll(flat, 15000) {
		a := s.Agents.At(core.RoleSetter)
		if p := a.Progress(); p > 0.45 && p < 0.55 {
			assert.Equal(t, tn.Speed, a.TargetSpeed)
			break
		}
	}
}

func TestCornerTargetFollowsCurvature(t *testing.T) {
	c := geom.Pos(0.5, 0.95)
	def := LockedPathDefinition{Role: core.RoleSetter, Start: geom.Pos(0.2, 0.3), End: geom.Pos(0.8, 0.3), Control: &c}
	tn := scenarioTuning()
	tn.CornerSlowdown = 2
	sp := geom.Sample(def.Path())
	e := newTestEngine(tn, def)

	prevDist := 0.0
	checked := 0
	for _, s := range runAll(e, 15000) {
		a := s.Agents.At(core.RoleSetter)
		if a.Length-prevDist > endEaseWindow*tn.CollisionRadius {
			k := geom.CurvatureAt(sp.Path, sp.ParamAt(prevDist))
			want := math.Max(speedFloor*tn.Speed, tn.Speed/(1+k*tn.CornerSlowdown*cornerFactor))
			assert.InDelta(t, want, a.TargetSpeed, 1e-12)
			checked++
		}
		prevDist = a.Distance
	}
	assert.Greater(t, checked, 50)
}

func TestEndEasing(t *testing.T) {
	tn := scenarioTuning()
	e := newTestEngine(tn, straight(core.RoleSetter, 0.5, 0.8, 0.5, 0.2))
	window := endEaseWindow * tn.CollisionRadius
	floor := speedFloor * tn.Speed

	prevDist := 0.0
	eased, floored := 0, 0
	for _, s := range runAll(e, 15000) {
		a := s.Agents.At(core.RoleSetter)
		assert.GreaterOrEqual(t, a.TargetSpeed, floor)
		if rem := a.Length - prevDist; rem < window {
			want := math.Max(floor, tn.Speed*rem/window)
			assert.InDelta(t, want, a.TargetSpeed, 1e-12, "remaining %.4f", rem)
			eased++
			if want == floor {
				floored++
			}
		} else {
			assert.Equal(t, tn.Speed, a.TargetSpeed)
		}
		prevDist = a.Distance
	}
	assert.True(t, e.Done())
	assert.Greater(t, eased, 0, "the last stretch is eased")
	assert.Greater(t, floored, 0, "easing bottoms out at the floor")
}

func TestLookAheadBrakesNearFinish(t *testing.T) {
	tn := scenarioTuning()
	opp := straight(core.RoleOpposite, 0.2, 0.5, 0.8, 0.5)
	initial := startPositions([]LockedPathDefinition{opp})
	initial.Set(core.RoleSetter, geom.Pos(0.78, 0.53))
	active := []core.Role{core.RoleSetter, core.RoleOpposite}
	e := NewEngine(active, initial, []LockedPathDefinition{opp}, tn, core.DefaultPriorities())
	require.Equal(t, 1, e.AgentCount(), "the setter has no path and stands still")

	clamped := 0
	for _, s := range runAll(e, 15000) {
		if math.Abs(s.Agents.At(core.RoleOpposite).TargetSpeed-lookAheadFraction*tn.Speed) < 1e-12 {
			clamped++
		}
		assert.Equal(t, geom.Pos(0.78, 0.53), s.Positions.At(core.RoleSetter))
	}
	assert.Greater(t, clamped, 0, "a player parked on the finish slows the approach")
	assert.True(t, e.Done())

	// without the setter there the approach is only eased
	free := newTestEngine(tn, opp)
	for _, s := range runAll(free, 15000) {
		a := s.Agents.At(core.RoleOpposite)
		if a.Length-a.Distance > endEaseWindow*tn.CollisionRadius+a.CurrentSpeed*testDt+1e-9 {
			assert.Equal(t, tn.Speed, a.TargetSpeed)
		}
	}
}

func TestHeadOnCrossingWithPriority(t *testing.T) {
	tn := scenarioTuning()
	a := straight(core.RoleSetter, 0.2, 0.5, 0.8, 0.5) // priority 1
	b := straight(core.RoleLibero, 0.5, 0.2, 0.5, 0.8) // priority 2
	require.True(t, core.DefaultPriorities().Outranks(a.Role, b.Role))

	both := runAll(newTestEngine(tn, a, b), 15000)
	solo := runAll(newTestEngine(tn, a), 15000)
	require.True(t, both[len(both)-1].Done)

	// A's speed profile is computed without reference to B
	var aBoth, aSolo []float64
	for _, s := range both {
		if st, ok := s.Agents.Get(a.Role); ok && !st.Done {
			aBoth = append(aBoth, st.CurrentSpeed)
		}
	}
	for _, s := range solo {
		if st := s.Agents.At(a.Role); !st.Done {
			aSolo = append(aSolo, st.CurrentSpeed)
		}
	}
	assert.Equal(t, aSolo, aBoth)

	// B brakes while A crosses in front of it; A does not
	center := geom.Pos(0.5, 0.5)
	bMin, aMin := math.Inf(1), math.Inf(1)
	for _, s := range both {
		pa, pb := s.Positions.At(a.Role), s.Positions.At(b.Role)
		if pa.Dist(center) > 0.15 || pb.Dist(center) > 0.15 {
			continue
		}
		bMin = math.Min(bMin, s.Agents.At(b.Role).CurrentSpeed)
		aMin = math.Min(aMin, s.Agents.At(a.Role).CurrentSpeed)
	}
	require.False(t, math.IsInf(bMin, 1), "agents never met near the centre")
	assert.Equal(t, tn.Speed, aMin)
	assert.Less(t, bMin, tn.Speed*0.95)
}

func TestEqualPriorityPeersDoNotBrake(t *testing.T) {
	tn := scenarioTuning()
	prio := core.DefaultPriorities()
	prio[core.RoleMiddle1] = 4
	prio[core.RoleOutside2] = 4

	paths := []LockedPathDefinition{
		straight(core.RoleMiddle1, 0.2, 0.5, 0.8, 0.5),
		straight(core.RoleOutside2, 0.5, 0.2, 0.5, 0.8),
	}
	e := NewEngine(rolesOf(paths), startPositions(paths), paths, tn, prio)
	deflected := false
	for _, s := range runAll(e, 15000) {
		s.Agents.Each(func(r core.Role, a core.AgentState) {
			if a.Progress() > 0.3 && a.Progress() < 0.7 {
				assert.Equal(t, tn.Speed, a.CurrentSpeed, "%v braked for a peer", r)
			}
			if a.LateralOffset.Len() > 0 {
				deflected = true
			}
		})
	}
	assert.True(t, deflected, "peers still step around each other")
	assert.True(t, e.Done())
}

func TestLowerPriorityDeflects(t *testing.T) {
	tn := scenarioTuning()
	tn.DeflectionStrength = 1
	// the setter stands still on the opposite's line, slightly to one side
	paths := []LockedPathDefinition{straight(core.RoleOpposite, 0.2, 0.5, 0.8, 0.5)}
	var initial core.RoleMap[geom.Position]
	initial.Set(core.RoleOpposite, geom.Pos(0.2, 0.5))
	initial.Set(core.RoleSetter, geom.Pos(0.5, 0.52))

	e := NewEngine([]core.Role{core.RoleOpposite, core.RoleSetter}, initial, paths, tn, core.DefaultPriorities())
	minY := 1.0
	for _, s := range runAll(e, 15000) {
		st := s.Agents.At(core.RoleOpposite)
		if st.Progress() > 0.4 && st.Progress() < 0.6 {
			minY = math.Min(minY, s.Positions.At(core.RoleOpposite).Y)
		}
	}
	assert.Less(t, minY, 0.5, "opposite steps away from the setter")
	final := e.Snapshot()
	assert.Equal(t, geom.Pos(0.8, 0.5), final.Positions.At(core.RoleOpposite))
	assert.Equal(t, geom.Pos(0.5, 0.52), final.Positions.At(core.RoleSetter), "static roles do not move")
}

func TestLateralOffsetBound(t *testing.T) {
	tn := scenarioTuning()
	tn.DeflectionStrength = 1
	tn.CollisionRadius = 0.12
	maxOffset := tn.MaxLateralOffset()

	// every other role crowds the middle of the opposite's path
	var initial core.RoleMap[geom.Position]
	active := core.AllRoles()
	crowd := []geom.Position{
		geom.Pos(0.45, 0.47), geom.Pos(0.5, 0.53), geom.Pos(0.55, 0.46),
		geom.Pos(0.48, 0.51), geom.Pos(0.52, 0.49), geom.Pos(0.5, 0.44),
	}
	i := 0
	for _, r := range active {
		if r == core.RoleOpposite {
			continue
		}
		initial.Set(r, crowd[i])
		i++
	}
	initial.Set(core.RoleOpposite, geom.Pos(0.1, 0.5))
	paths := []LockedPathDefinition{straight(core.RoleOpposite, 0.1, 0.5, 0.9, 0.5)}

	e := NewEngine(active, initial, paths, tn, core.DefaultPriorities())
	snaps := runAll(e, 15000)
	require.True(t, e.Done(), "a crowded path still finishes")
	peak := 0.0
	for _, s := range snaps {
		off := s.Agents.At(core.RoleOpposite).LateralOffset.Len()
		assert.LessOrEqual(t, off, maxOffset+1e-12)
		peak = math.Max(peak, off)
	}
	assert.Greater(t, peak, 0.0)
}

func TestDeterminism(t *testing.T) {
	c := geom.Pos(0.3, 0.3)
	paths := []LockedPathDefinition{
		straight(core.RoleSetter, 0.2, 0.5, 0.8, 0.5),
		straight(core.RoleLibero, 0.5, 0.2, 0.5, 0.8),
		{Role: core.RoleMiddle1, Start: geom.Pos(0.8, 0.8), End: geom.Pos(0.2, 0.2), Control: &c},
		straight(core.RoleOpposite, 0.8, 0.2, 0.2, 0.8),
	}
	e1 := newTestEngine(scenarioTuning(), paths...)
	// input order does not matter
	reversed := make([]LockedPathDefinition, len(paths))
	for i, p := range paths {
		reversed[len(paths)-1-i] = p
	}
	e2 := newTestEngine(scenarioTuning(), reversed...)

	for i := 0; i < 2000 && !e1.Done(); i++ {
		s1, s2 := e1.Step(testDt), e2.Step(testDt)
		if diff := cmp.Diff(s1, s2, cmp.AllowUnexported(core.RoleMap[geom.Position]{}, core.RoleMap[core.AgentState]{})); diff != "" {
			t.Fatalf("step %d diverged (-e1 +e2):\n%s", i, diff)
		}
	}
	assert.True(t, e2.Done())
}

func TestDegeneratePathDropped(t *testing.T) {
	paths := []LockedPathDefinition{
		straight(core.RoleSetter, 0.4, 0.4, 0.4, 0.4),
		straight(core.RoleLibero, 0.1, 0.1, 0.3, 0.3),
	}
	e := newTestEngine(scenarioTuning(), paths...)
	snap := e.Snapshot()
	assert.False(t, snap.Agents.Has(core.RoleSetter))
	assert.True(t, snap.Agents.Has(core.RoleLibero))
	// the dropped role still stands where it was
	assert.Equal(t, geom.Pos(0.4, 0.4), snap.Positions.At(core.RoleSetter))

	for !e.Done() {
		e.Step(testDt)
	}
	assert.False(t, e.Snapshot().Agents.Has(core.RoleSetter))
}

func TestInvalidPathsDropped(t *testing.T) {
	nan := geom.Pos(math.NaN(), 0.5)
	paths := []LockedPathDefinition{
		{Role: core.RoleSetter, Start: geom.Pos(0.1, 0.1), End: geom.Pos(0.9, 0.9), Control: &nan},
		straight(core.RoleLibero, 0.1, 0.1, 0.3, 0.3),
		straight(core.RoleLibero, 0.5, 0.5, 0.9, 0.9),
		straight(core.RoleOpposite, 0.2, 0.2, 0.6, 0.6),
	}
	// the opposite is not active
	e := NewEngine([]core.Role{core.RoleSetter, core.RoleLibero}, core.RoleMap[geom.Position]{}, paths, scenarioTuning(), core.DefaultPriorities())
	assert.Equal(t, 1, e.AgentCount())
	st, ok := e.Agent(core.RoleLibero)
	require.True(t, ok)
	assert.InDelta(t, math.Sqrt(0.08), st.Length, 1e-9, "first path for a role wins")
	_, ok = e.Agent(core.RoleOpposite)
	assert.False(t, ok)
}

func TestNaNNeighbourIgnored(t *testing.T) {
	var initial core.RoleMap[geom.Position]
	initial.Set(core.RoleSetter, geom.Pos(math.NaN(), math.NaN()))
	paths := []LockedPathDefinition{straight(core.RoleOpposite, 0.2, 0.5, 0.8, 0.5)}
	e := NewEngine([]core.Role{core.RoleSetter, core.RoleOpposite}, initial, paths, scenarioTuning(), core.DefaultPriorities())
	assert.False(t, e.Snapshot().Positions.Has(core.RoleSetter))
	runAll(e, 15000)
	assert.True(t, e.Done())
	assert.Equal(t, geom.Pos(0.8, 0.5), e.Snapshot().Positions.At(core.RoleOpposite))
}

func TestEmptyEngineIsDone(t *testing.T) {
	e := NewEngine(nil, core.RoleMap[geom.Position]{}, nil, tuning.Default(), core.DefaultPriorities())
	assert.True(t, e.Snapshot().Done)
	assert.True(t, e.Step(testDt).Done)
}

func TestNonPositiveDtIsNoop(t *testing.T) {
	e := newTestEngine(scenarioTuning(), straight(core.RoleSetter, 0.5, 0.8, 0.5, 0.2))
	before := e.Snapshot()
	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		assert.Equal(t, before, e.Step(dt))
	}
	assert.Zero(t, e.Tick())
}

func TestSnapshotsAreNotMutated(t *testing.T) {
	e := newTestEngine(scenarioTuning(), straight(core.RoleSetter, 0.5, 0.8, 0.5, 0.2))
	first := e.Step(testDt)
	kept := first
	for i := 0; i < 50; i++ {
		e.Step(testDt)
	}
	assert.Equal(t, kept, first)
	assert.NotEqual(t, first.Positions.At(core.RoleSetter), e.Snapshot().Positions.At(core.RoleSetter))
}

func TestSetTuningSanitizes(t *testing.T) {
	e := newTestEngine(scenarioTuning(), straight(core.RoleSetter, 0.5, 0.8, 0.5, 0.2))
	bad := scenarioTuning()
	bad.Acceleration = 0
	bad.Speed = math.NaN()
	e.SetTuning(bad)
	assert.Equal(t, 0.1, e.Tuning().Acceleration)
	assert.Equal(t, 0.7, e.Tuning().Speed)
}

func TestSetTuningMidPlay(t *testing.T) {
	tn := scenarioTuning()
	e := newTestEngine(tn, straight(core.RoleSetter, 0.05, 0.95, 0.95, 0.05))
	runAll(e, 120)
	require.False(t, e.Done())
	require.InDelta(t, tn.Speed, e.Snapshot().Agents.At(core.RoleSetter).CurrentSpeed, 1e-12)

	var tuner core.Tuner = e
	slow := tn
	slow.Speed = 0.3
	tuner.SetTuning(slow)
	for i := 0; i < 60; i++ {
		e.Step(testDt)
	}
	a := e.Snapshot().Agents.At(core.RoleSetter)
	assert.Equal(t, 0.3, a.TargetSpeed)
	assert.InDelta(t, 0.3, a.CurrentSpeed, 1e-12, "speed settles at the new cruise")
}

func TestCompletionForRandomPaths(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pb := tuning.DefaultPlayback()
	for i := 0; i < 50; i++ {
		tn := tuning.Default()
		tn.Speed = 0.2 + rng.Float64()*1.5
		tn.Acceleration = 0.5 + rng.Float64()*6
		tn.CornerSlowdown = rng.Float64() * 5
		c := geom.Pos(rng.Float64()*1.4-0.2, rng.Float64()*1.4-0.2)
		def := LockedPathDefinition{
			Role:    core.Role(rng.Intn(int(core.RoleCount))),
			Start:   geom.Pos(rng.Float64(), rng.Float64()),
			End:     geom.Pos(rng.Float64(), rng.Float64()),
			Control: &c,
		}
		e := newTestEngine(tn, def)
		snap, _ := core.RunToCompletion(e, pb.FixedDt, pb.ReducedMotionStepCap)
		assert.True(t, snap.Done, "case %d: %+v %+v", i, def, tn)
		if e.AgentCount() == 1 {
			assert.Equal(t, def.End, snap.Positions.At(def.Role))
		}
	}
}

func TestFullTeamFinishes(t *testing.T) {
	// a rotation where everyone swaps through the middle
	paths := []LockedPathDefinition{
		straight(core.RoleSetter, 0.8, 0.8, 0.65, 0.35),
		straight(core.RoleOutside1, 0.2, 0.2, 0.8, 0.2),
		straight(core.RoleOutside2, 0.8, 0.2, 0.2, 0.8),
		straight(core.RoleMiddle1, 0.5, 0.2, 0.5, 0.8),
		straight(core.RoleMiddle2, 0.5, 0.8, 0.5, 0.2),
		straight(core.RoleOpposite, 0.2, 0.8, 0.8, 0.5),
		straight(core.RoleLibero, 0.2, 0.5, 0.5, 0.9),
	}
	e := newTestEngine(scenarioTuning(), paths...)
	pb := tuning.DefaultPlayback()
	snap, steps := core.RunToCompletion(e, pb.FixedDt, pb.ReducedMotionStepCap)
	require.True(t, snap.Done)
	assert.Less(t, steps, pb.ReducedMotionStepCap)
	for _, p := range paths {
		assert.Equal(t, p.End, snap.Positions.At(p.Role), p.Role.String())
	}
}
