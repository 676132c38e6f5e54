package domain

import "time"

// Role enumerates the mutually exclusive principal roles.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleTechnician Role = "TECHNICIAN"
	RoleClient     Role = "CLIENT"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTechnician, RoleClient:
		return true
	}
	return false
}

// Account is a principal that can authenticate and act on tickets. It may
// own a client profile or a technician profile depending on its role.
type Account struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Claim is the authenticated identity asserted for the current operation.
// It is validated once at the transport boundary and trusted below it.
type Claim struct {
	SubjectID int64
	Role      Role
}
