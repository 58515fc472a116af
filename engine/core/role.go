package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRole is returned when a role code is not recognised
var ErrUnknownRole = errors.New("unknown role")

// Role identifies one player slot on the whiteboard. The set is closed:
// a volleyball side has six rotating players plus the libero.
type Role uint8

const (
	RoleSetter Role = iota
	RoleOutside1
	RoleOutside2
	RoleMiddle1
	RoleMiddle2
	RoleOpposite
	RoleLibero
	RoleCount
)

// NoRole is used where a role is optional, e.g. "nothing is being dragged"
const NoRole Role = RoleCount

var roleCodes = [RoleCount]string{"S", "OH1", "OH2", "MB1", "MB2", "OPP", "L"}

var roleNames = [RoleCount]string{
	"Setter", "Outside Hitter 1", "Outside Hitter 2",
	"Middle Blocker 1", "Middle Blocker 2", "Opposite", "Libero",
}

// AllRoles returns every role in canonical order
func AllRoles() []Role {
	out := make([]Role, RoleCount)
	for i := range out {
		out[i] = Role(i)
	}
	return out
}

// Valid reports whether r is one of the defined roles
func (r Role) Valid() bool { return r < RoleCount }

// String returns the short code shown on tokens
func (r Role) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
	return roleCodes[r]
}

// Name returns the long display name
func (r Role) Name() string {
	if !r.Valid() {
		return r.String()
	}
	return roleNames[r]
}

// ParseRole accepts a short code, case-insensitively
func ParseRole(s string) (Role, error) {
	for i, c := range roleCodes {
		if strings.EqualFold(s, c) {
			return Role(i), nil
		}
	}
	return NoRole, fmt.Errorf("%w %q", ErrUnknownRole, s)
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid role %d", uint8(r))
	}
	return []byte(roleCodes[r]), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
