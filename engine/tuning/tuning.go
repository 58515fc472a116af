// Package tuning holds the user-adjustable motion parameters and the host
// loop constants. Every value that crosses into the engine goes through
// Sanitize, since the debug panel and tuning files are untrusted input.
package tuning

// MotionTuning is the sanitized configuration of one play
type MotionTuning struct {
	Speed              float64 `json:"speed"`               // court units per second along the path
	Acceleration       float64 `json:"acceleration"`        // court units per second²
	CornerSlowdown     float64 `json:"corner_slowdown"`     // dimensionless, 0 disables
	CurveStrength      float64 `json:"curve_strength"`      // bulge as a fraction of path length
	CollisionRadius    float64 `json:"collision_radius"`    // distance treated as touching
	DeflectionStrength float64 `json:"deflection_strength"` // 0..1
	LookAheadTime      float64 `json:"look_ahead_time"`     // seconds
}

// Default returns the tuning used when nothing is configured
func Default() MotionTuning {
	return MotionTuning{
		Speed:              0.7,
		Acceleration:       2.4,
		CornerSlowdown:     1.0,
		CurveStrength:      0.25,
		CollisionRadius:    0.06,
		DeflectionStrength: 0.5,
		LookAheadTime:      0.35,
	}
}

// MaxLateralOffset caps how far a deflecting agent may leave its path
func (t MotionTuning) MaxLateralOffset() float64 {
	return 1.6 * t.CollisionRadius
}

// Sanitize clamps every field into its safe range and replaces non-finite
// values with the default. It returns the names of adjusted fields.
func (t MotionTuning) Sanitize() (MotionTuning, []string) {
	out := t
	var adjusted []string
	for _, f := range Fields() {
		v := f.get(&out)
		clean := f.clamp(v)
		if clean != v {
			f.set(&out, clean)
			adjusted = append(adjusted, f.Name)
		}
	}
	return out, adjusted
}

// Sanitized is Sanitize without the report
func (t MotionTuning) Sanitized() MotionTuning {
	out, _ := t.Sanitize()
	return out
}
