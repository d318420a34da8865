package entity

import "time"

type Role string

const (
	RoleNone       Role = "none"
	RoleFarmer     Role = "farmer"
	RoleAgent      Role = "agent"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// IsSeller reports whether the role can own listings and fulfil orders.
func (r Role) IsSeller() bool {
	return r == RoleFarmer || r == RoleAgent
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// User is the persisted identity record. Authentication itself happens at an
// external identity provider; only the id, contact fields and role live here.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Actor is the per-request identity context, resolved once by the HTTP layer
// and passed explicitly into every operation.
type Actor struct {
	ID    string
	Email string
	Role  Role
}
