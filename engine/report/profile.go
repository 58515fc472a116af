// Package report turns the snapshots of a play into per-role speed
// profiles, summaries and charts.
package report

import (
	"math"

	"github.com/1siamBot/whiteboard/engine/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sample is one role at one step
type Sample struct {
	T            float64
	CurrentSpeed float64
	TargetSpeed  float64
	Offset       float64 // length of the lateral offset
}

// Profile accumulates samples from the snapshots of one play
type Profile struct {
	dt      float64
	series  core.RoleMap[[]Sample]
	finish  core.RoleMap[float64]
	lengths core.RoleMap[float64]
}

// NewProfile returns an empty profile for steps of dt seconds
func NewProfile(dt float64) *Profile {
	return &Profile{dt: dt}
}

// Add records a snapshot. Roles that already arrived are not sampled
// again.
func (p *Profile) Add(s core.Snapshot) {
	t := float64(s.Tick) * p.dt
	s.Agents.Each(func(r core.Role, a core.AgentState) {
		if p.finish.Has(r) {
			return
		}
		p.lengths.Set(r, a.Length)
		p.series.Set(r, append(p.series.At(r), Sample{
			T:            t,
			CurrentSpeed: a.CurrentSpeed,
			TargetSpeed:  a.TargetSpeed,
			Offset:       a.LateralOffset.Len(),
		}))
		if a.Done {
			p.finish.Set(r, t)
		}
	})
}

// Series returns the samples of one role
func (p *Profile) Series(r core.Role) []Sample {
	return p.series.At(r)
}

// Roles lists the sampled roles in canonical order
func (p *Profile) Roles() []core.Role {
	return p.series.Roles()
}

// RoleSummary condenses one role's profile
type RoleSummary struct {
	Role       core.Role `json:"role"`
	Length     float64   `json:"length"`
	MinCruise  float64   `json:"min_cruise_speed"`
	MaxSpeed   float64   `json:"max_speed"`
	MeanSpeed  float64   `json:"mean_speed"`
	PeakOffset float64   `json:"peak_offset"`
	Finished   bool      `json:"finished"`
	FinishTime float64   `json:"finish_time,omitempty"`
}

// Summary condenses every sampled role. MinCruise ignores the
// standing start, so a role that never had to brake reports its cruise
// speed.
func (p *Profile) Summary() []RoleSummary {
	var out []RoleSummary
	p.series.Each(func(r core.Role, samples []Sample) {
		if len(samples) == 0 {
			return
		}
		speeds := make([]float64, len(samples))
		offsets := make([]float64, len(samples))
		for i, s := range samples {
			speeds[i] = s.CurrentSpeed
			offsets[i] = s.Offset
		}
		sum := RoleSummary{
			Role:       r,
			Length:     p.lengths.At(r),
			MaxSpeed:   floats.Max(speeds),
			MeanSpeed:  stat.Mean(speeds, nil),
			PeakOffset: floats.Max(offsets),
			MinCruise:  minAfterPeak(speeds),
		}
		sum.FinishTime, sum.Finished = p.finish.Get(r)
		out = append(out, sum)
	})
	return out
}

// minAfterPeak is the lowest speed between the first time the series
// reaches its top speed and the last time it does
func minAfterPeak(speeds []float64) float64 {
	top := floats.Max(speeds)
	first, last := -1, -1
	for i, v := range speeds {
		if v == top {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return math.NaN()
	}
	return floats.Min(speeds[first : last+1])
}
