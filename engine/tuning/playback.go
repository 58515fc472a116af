package tuning

// Playback holds the constants of the fixed-step host loop
type Playback struct {
	FixedDt              float64 // seconds per simulation step
	MaxSubSteps          int     // steps allowed per rendered frame
	MaxFrameTime         float64 // longest frame accepted before clamping, seconds
	ReducedMotionStepCap int     // hard ceiling when playing to completion synchronously
}

// DefaultPlayback steps at 120 Hz with at most 6 catch-up steps per frame
func DefaultPlayback() Playback {
	return Playback{
		FixedDt:              1.0 / 120,
		MaxSubSteps:          6,
		MaxFrameTime:         0.25,
		ReducedMotionStepCap: 15000,
	}
}
