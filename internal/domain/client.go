package domain

import "time"

// Client is a requesting party that originates tickets.
type Client struct {
	ID           int64
	Name         string
	Company      *string
	ContactEmail string
	AccountID    int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
