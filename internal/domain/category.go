package domain

import "time"

// Category classifies tickets in the admin-managed catalog.
type Category struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
