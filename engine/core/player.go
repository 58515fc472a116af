package core

// Player is the display identity of a role on the whiteboard
type Player struct {
	Role  Role
	Name  string
	Color uint32 // RGBA
}

// Roster holds display identities for all roles
type Roster struct {
	Players RoleMap[Player]
}

// NewRoster returns a roster with default names and team colours
func NewRoster() *Roster {
	colors := [RoleCount]uint32{
		RoleSetter:   0xF2C14EFF,
		RoleOutside1: 0x3E7CB1FF,
		RoleOutside2: 0x3E7CB1FF,
		RoleMiddle1:  0x81A4CDFF,
		RoleMiddle2:  0x81A4CDFF,
		RoleOpposite: 0xDB5461FF,
		RoleLibero:   0x4CAF50FF,
	}
	r := &Roster{}
	for _, role := range AllRoles() {
		r.Players.Set(role, Player{Role: role, Name: role.Name(), Color: colors[role]})
	}
	return r
}

// GetPlayer returns the identity for a role
func (r *Roster) GetPlayer(role Role) (Player, bool) {
	return r.Players.Get(role)
}

// Rename changes the display name of a role
func (r *Roster) Rename(role Role, name string) {
	p, ok := r.Players.Get(role)
	if !ok {
		return
	}
	p.Name = name
	r.Players.Set(role, p)
}
