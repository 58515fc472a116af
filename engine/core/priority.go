package core

import (
	"encoding/json"
	"fmt"
)

// Priorities ranks roles for right of way. A lower number means higher
// precedence: that player keeps their line and others work around them.
type Priorities [RoleCount]int

// DefaultPriorities gives the setter right of way, then the libero, then
// the attackers in rotation order.
func DefaultPriorities() Priorities {
	return Priorities{
		RoleSetter:   1,
		RoleLibero:   2,
		RoleOutside1: 3,
		RoleOutside2: 4,
		RoleMiddle1:  5,
		RoleMiddle2:  6,
		RoleOpposite: 7,
	}
}

// Of returns the rank of r
func (p Priorities) Of(r Role) int {
	if !r.Valid() {
		return int(^uint(0) >> 1)
	}
	return p[r]
}

// Outranks reports whether a has strictly higher precedence than b
func (p Priorities) Outranks(a, b Role) bool {
	return p.Of(a) < p.Of(b)
}

// YieldsTo reports whether a must slow down for b. Only strict precedence
// brakes; equal ranks never brake for each other so two peers cannot stall
// waiting on one another. It governs both braking passes, proximity and
// look-ahead, while DeflectsFrom governs the lateral step-aside.
func (p Priorities) YieldsTo(a, b Role) bool {
	return a != b && p.Outranks(b, a)
}

// DeflectsFrom reports whether a steps aside for b. Peers of equal rank
// both step aside, which shares the lateral space without any braking.
func (p Priorities) DeflectsFrom(a, b Role) bool {
	return a != b && p.Of(b) <= p.Of(a)
}

func (p Priorities) MarshalJSON() ([]byte, error) {
	var m RoleMap[int]
	for i, v := range p {
		m.Set(Role(i), v)
	}
	return json.Marshal(m)
}

// UnmarshalJSON accepts a partial object; missing roles keep their default
func (p *Priorities) UnmarshalJSON(b []byte) error {
	var m RoleMap[int]
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("priorities: %w", err)
	}
	*p = DefaultPriorities()
	m.Each(func(r Role, v int) { p[r] = v })
	return nil
}
