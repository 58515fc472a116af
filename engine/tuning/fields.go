package tuning

import "math"

// Field describes one tunable value for sanitization and the debug panel
type Field struct {
	Name    string
	Min     float64
	Max     float64
	Step    float64
	Default float64

	get func(*MotionTuning) float64
	set func(*MotionTuning, float64)
}

var fields = []Field{
	{Name: "speed", Min: 0.05, Max: 3, Step: 0.05,
		get: func(t *MotionTuning) float64 { return t.Speed },
		set: func(t *MotionTuning, v float64) { t.Speed = v }},
	{Name: "acceleration", Min: 0.1, Max: 20, Step: 0.2,
		get: func(t *MotionTuning) float64 { return t.Acceleration },
		set: func(t *MotionTuning, v float64) { t.Acceleration = v }},
	{Name: "corner_slowdown", Min: 0, Max: 5, Step: 0.1,
		get: func(t *MotionTuning) float64 { return t.CornerSlowdown },
		set: func(t *MotionTuning, v float64) { t.CornerSlowdown = v }},
	{Name: "curve_strength", Min: 0, Max: 1, Step: 0.05,
		get: func(t *MotionTuning) float64 { return t.CurveStrength },
		set: func(t *MotionTuning, v float64) { t.CurveStrength = v }},
	{Name: "collision_radius", Min: 0.01, Max: 0.25, Step: 0.005,
		get: func(t *MotionTuning) float64 { return t.CollisionRadius },
		set: func(t *MotionTuning, v float64) { t.CollisionRadius = v }},
	{Name: "deflection_strength", Min: 0, Max: 1, Step: 0.05,
		get: func(t *MotionTuning) float64 { return t.DeflectionStrength },
		set: func(t *MotionTuning, v float64) { t.DeflectionStrength = v }},
	{Name: "look_ahead_time", Min: 0, Max: 2, Step: 0.05,
		get: func(t *MotionTuning) float64 { return t.LookAheadTime },
		set: func(t *MotionTuning, v float64) { t.LookAheadTime = v }},
}

func init() {
	d := Default()
	for i := range fields {
		fields[i].Default = fields[i].get(&d)
	}
}

// Fields lists the tunable values in display order
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Lookup finds a field by name
func Lookup(name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Get reads the field's value from t
func (f Field) Get(t MotionTuning) float64 {
	return f.get(&t)
}

// With returns a copy of t with the field set to the clamped value
func (f Field) With(t MotionTuning, v float64) MotionTuning {
	f.set(&t, f.clamp(v))
	return t
}

func (f Field) clamp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return f.Default
	}
	return math.Max(f.Min, math.Min(f.Max, v))
}

// Adjust moves a named field by a number of panel steps, re-sanitizing the
// whole struct. Unknown names leave t unchanged.
func Adjust(t MotionTuning, name string, steps int) MotionTuning {
	f, ok := Lookup(name)
	if !ok {
		return t.Sanitized()
	}
	v := f.Get(t) + float64(steps)*f.Step
	// snap to the step grid so repeated presses do not accumulate drift
	v = math.Round(v/f.Step) * f.Step
	return f.With(t, v).Sanitized()
}
