package core

import "encoding/json"

// RoleMap is a fixed-size container keyed by Role. It is a plain value:
// assigning or returning a RoleMap copies its contents, so a map handed
// out in a snapshot can never be changed by later simulation steps.
type RoleMap[T any] struct {
	vals [RoleCount]T
	set  [RoleCount]bool
}

// Set stores v for r. Invalid roles are ignored.
func (m *RoleMap[T]) Set(r Role, v T) {
	if !r.Valid() {
		return
	}
	m.vals[r] = v
	m.set[r] = true
}

// Get returns the value for r and whether it is present
func (m RoleMap[T]) Get(r Role) (T, bool) {
	if !r.Valid() || !m.set[r] {
		var zero T
		return zero, false
	}
	return m.vals[r], true
}

// At returns the value for r or the zero value
func (m RoleMap[T]) At(r Role) T {
	v, _ := m.Get(r)
	return v
}

func (m RoleMap[T]) Has(r Role) bool {
	return r.Valid() && m.set[r]
}

func (m *RoleMap[T]) Delete(r Role) {
	if !r.Valid() {
		return
	}
	var zero T
	m.vals[r] = zero
	m.set[r] = false
}

// Len counts present roles
func (m RoleMap[T]) Len() int {
	n := 0
	for _, ok := range m.set {
		if ok {
			n++
		}
	}
	return n
}

// Roles lists present roles in canonical order
func (m RoleMap[T]) Roles() []Role {
	var out []Role
	for i, ok := range m.set {
		if ok {
			out = append(out, Role(i))
		}
	}
	return out
}

// Each visits present entries in canonical role order
func (m RoleMap[T]) Each(fn func(Role, T)) {
	for i, ok := range m.set {
		if ok {
			fn(Role(i), m.vals[i])
		}
	}
}

func (m RoleMap[T]) MarshalJSON() ([]byte, error) {
	out := make(map[Role]T, m.Len())
	m.Each(func(r Role, v T) { out[r] = v })
	return json.Marshal(out)
}

func (m *RoleMap[T]) UnmarshalJSON(b []byte) error {
	var in map[Role]T
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*m = RoleMap[T]{}
	for r, v := range in {
		m.Set(r, v)
	}
	return nil
}
