// Package pathfind chooses the curve each player follows when the coach
// has not bent the arrow by hand.
package pathfind

import (
	"math"

	"github.com/1siamBot/whiteboard/engine/geom"
	"github.com/1siamBot/whiteboard/engine/tuning"
	"github.com/paulmach/orb/planar"
)

const (
	// PlannerSamples is how many points along a candidate are checked for clearance
	PlannerSamples = 11
	// ConcaveBonus favours curves whose inside faces the court centre
	ConcaveBonus = 0.05
	// StraightBonus keeps short hops straight
	StraightBonus = 0.08
	// ShortPathThreshold is the length below which StraightBonus applies
	ShortPathThreshold = 0.12
	// MaxClearance stands in for the clearance when nobody else is on court
	MaxClearance = math.Sqrt2
)

// CandidateKind names the shape of a candidate curve
type CandidateKind uint8

const (
	Straight CandidateKind = iota
	LeftBulge
	RightBulge
)

func (k CandidateKind) String() string {
	switch k {
	case Straight:
		return "straight"
	case LeftBulge:
		return "left"
	case RightBulge:
		return "right"
	default:
		return "unknown"
	}
}

// Candidate is one possible curve with its score
type Candidate struct {
	Kind         CandidateKind
	Control      *geom.Position
	MinClearance float64
	Concave      bool
	Score        float64
}

// Candidates enumerates straight, left and right in tie-break order.
// Degenerate segments yield nothing.
func Candidates(start, end geom.Position, curveStrength float64) []Candidate {
	if geom.IsDegenerate(start, end) {
		return nil
	}
	return []Candidate{
		{Kind: Straight},
		{Kind: LeftBulge, Control: geom.DefaultControlPoint(start, end, curveStrength, geom.SideLeft)},
		{Kind: RightBulge, Control: geom.DefaultControlPoint(start, end, curveStrength, geom.SideRight)},
	}
}

// Plan scores every candidate against the other players' positions.
// Neighbours with non-finite coordinates are ignored.
func Plan(start, end geom.Position, neighbors []geom.Position, t tuning.MotionTuning) []Candidate {
	t = t.Sanitized()
	cands := Candidates(start, end, t.CurveStrength)
	if cands == nil {
		return nil
	}

	length := start.Dist(end)
	mid := start.Lerp(end, 0.5)
	toCenter := geom.CourtCenter.Sub(mid)

	for i := range cands {
		c := &cands[i]
		c.MinClearance = clearance(start, c.Control, end, neighbors)
		c.Score = c.MinClearance
		if c.Control != nil && c.Control.Sub(mid).Dot(toCenter) > 0 {
			c.Concave = true
			c.Score += ConcaveBonus
		}
		if c.Kind == Straight && length < ShortPathThreshold {
			c.Score += StraightBonus
		}
	}
	return cands
}

// ComputeDefaultControlPoint returns the control point of the best scoring
// candidate, nil meaning a straight path. Ties keep the earlier candidate.
func ComputeDefaultControlPoint(start, end geom.Position, neighbors []geom.Position, t tuning.MotionTuning) *geom.Position {
	best, ok := Best(Plan(start, end, neighbors, t))
	if !ok {
		return nil
	}
	return best.Control
}

// Best picks the highest score, keeping the first on ties
func Best(cands []Candidate) (Candidate, bool) {
	if len(cands) == 0 {
		return Candidate{}, false
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best, true
}

// clearance is the smallest distance from any sample on the curve to any
// neighbour. The whole curve has to clear, not just its ends.
func clearance(start geom.Position, control *geom.Position, end geom.Position, neighbors []geom.Position) float64 {
	minDist := math.Inf(1)
	for i := 0; i < PlannerSamples; i++ {
		p := geom.EvaluateBezier(start, control, end, float64(i)/(PlannerSamples-1)).Point()
		for _, n := range neighbors {
			if !n.IsFinite() {
				continue
			}
			if d := planar.Distance(p, n.Point()); d < minDist {
				minDist = d
			}
		}
	}
	if math.IsInf(minDist, 1) {
		return MaxClearance
	}
	return minDist
}
