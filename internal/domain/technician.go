package domain

import "time"

// Technician is a resolver profile that tickets can be assigned to. The
// availability flag is informational and does not gate assignment.
type Technician struct {
	ID           int64
	Name         string
	Specialty    string
	Availability bool
	AccountID    int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
