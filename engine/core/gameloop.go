package core

import (
	"math"
	"time"

	"github.com/1siamBot/whiteboard/engine/tuning"
)

// Stepper is a fixed-step simulation that reports its state as snapshots
type Stepper interface {
	Step(dt float64) Snapshot
	Snapshot() Snapshot
}

// Tuner is implemented by steppers whose tuning can change mid-play
type Tuner interface {
	SetTuning(t tuning.MotionTuning)
	Tuning() tuning.MotionTuning
}

// LoopState is the lifecycle of a play loop
type LoopState uint8

const (
	StatePlaying LoopState = iota
	StateFinished
	StateAborted
)

// PlayLoop drives a Stepper at a fixed timestep from a variable-rate render
// loop. Leftover time is carried between frames and exposed as an
// interpolation alpha so rendering stays smooth at any refresh rate.
type PlayLoop struct {
	Events   *EventBus
	State    LoopState
	Playback tuning.Playback

	stepper     Stepper
	accumulator float64
	lastTime    time.Time
	prev, curr  Snapshot
	alpha       float64
}

// NewPlayLoop wraps a stepper. The first snapshot is used for both ends of
// the interpolation window until the first step runs.
func NewPlayLoop(s Stepper, pb tuning.Playback, events *EventBus) *PlayLoop {
	snap := s.Snapshot()
	gl := &PlayLoop{
		Events:   events,
		Playback: pb,
		stepper:  s,
		lastTime: time.Now(),
		prev:     snap,
		curr:     snap,
	}
	gl.emit(Event{Type: EvtPlayStarted, Tick: snap.Tick, Role: NoRole})
	if snap.Done {
		gl.finish()
	}
	return gl
}

// Update should be called every render frame. It measures wall time since
// the previous call and advances the simulation accordingly.
func (gl *PlayLoop) Update() float64 {
	now := time.Now()
	frameTime := now.Sub(gl.lastTime).Seconds()
	gl.lastTime = now
	return gl.Advance(frameTime)
}

// Advance feeds frameTime seconds into the accumulator and runs as many
// fixed steps as fit, up to MaxSubSteps. Backlog beyond the cap is dropped
// so a stalled host does not replay seconds of simulation in one frame.
// Returns the interpolation alpha in [0,1).
func (gl *PlayLoop) Advance(frameTime float64) float64 {
	if gl.State != StatePlaying {
		return gl.alpha
	}
	if math.IsNaN(frameTime) || frameTime < 0 {
		frameTime = 0
	}
	// Cap frame time to avoid spiral of death
	if frameTime > gl.Playback.MaxFrameTime {
		frameTime = gl.Playback.MaxFrameTime
	}

	dt := gl.Playback.FixedDt
	gl.accumulator += frameTime

	steps := 0
	for gl.accumulator >= dt && steps < gl.Playback.MaxSubSteps {
		gl.prev = gl.curr
		gl.curr = gl.stepper.Step(dt)
		gl.accumulator -= dt
		steps++
		gl.announceArrivals()
		if gl.curr.Done {
			gl.finish()
			return gl.alpha
		}
	}
	if gl.accumulator >= dt {
		gl.accumulator = math.Mod(gl.accumulator, dt)
	}

	gl.alpha = gl.accumulator / dt
	return gl.alpha
}

// Interpolated returns the render state between the last two steps
func (gl *PlayLoop) Interpolated() Snapshot {
	return gl.prev.Lerp(gl.curr, gl.alpha)
}

// Current returns the latest stepped snapshot
func (gl *PlayLoop) Current() Snapshot {
	return gl.curr
}

// Retune forwards t to the stepper from the next step on. It reports
// false when the stepper cannot be retuned or the play is over.
func (gl *PlayLoop) Retune(t tuning.MotionTuning) bool {
	tn, ok := gl.stepper.(Tuner)
	if !ok || gl.State != StatePlaying {
		return false
	}
	tn.SetTuning(t)
	return true
}

// Tuning returns the stepper's tuning in effect, or false if it has none
func (gl *PlayLoop) Tuning() (tuning.MotionTuning, bool) {
	tn, ok := gl.stepper.(Tuner)
	if !ok {
		return tuning.MotionTuning{}, false
	}
	return tn.Tuning(), true
}

// Abort stops the loop; the stepper is simply no longer called
func (gl *PlayLoop) Abort() {
	if gl.State != StatePlaying {
		return
	}
	gl.State = StateAborted
	gl.emit(Event{Type: EvtPlayAborted, Tick: gl.curr.Tick, Role: NoRole})
}

// Done reports whether the play has finished or been aborted
func (gl *PlayLoop) Done() bool {
	return gl.State != StatePlaying
}

// CurrentTick returns the current simulation tick
func (gl *PlayLoop) CurrentTick() uint64 {
	return gl.curr.Tick
}

func (gl *PlayLoop) finish() {
	gl.State = StateFinished
	gl.prev = gl.curr
	gl.accumulator = 0
	gl.alpha = 1
	gl.emit(Event{Type: EvtPlayFinished, Tick: gl.curr.Tick, Role: NoRole, Payload: gl.curr})
}

func (gl *PlayLoop) announceArrivals() {
	gl.curr.Agents.Each(func(r Role, a AgentState) {
		if a.Done && !gl.prev.Agents.At(r).Done {
			gl.emit(Event{Type: EvtAgentArrived, Tick: gl.curr.Tick, Role: r})
		}
	})
}

func (gl *PlayLoop) emit(e Event) {
	if gl.Events != nil {
		gl.Events.Emit(e)
	}
}

// RunToCompletion steps s until it reports done or maxSteps is reached.
// This is the reduced-motion path: only the final snapshot is shown, and
// the cap guarantees termination for any tuning.
func RunToCompletion(s Stepper, dt float64, maxSteps int) (Snapshot, int) {
	snap := s.Snapshot()
	steps := 0
	for !snap.Done && steps < maxSteps {
		snap = s.Step(dt)
		steps++
	}
	return snap, steps
}
