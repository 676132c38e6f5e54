package domain

import (
	"strings"
	"time"

	apperrors "github.com/tech-help/helpdesk-service/pkg/util"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
)

// Ticket is the aggregate for support requests. ClientID, CategoryID and
// CreatedByID are immutable after creation; TechnicianID is the optional
// assignee.
type Ticket struct {
	ID           int64
	Title        string
	Description  string
	Status       TicketStatus
	Priority     TicketPriority
	ClientID     int64
	TechnicianID *int64
	CategoryID   int64
	CreatedByID  int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TicketInput carries the fields accepted at ticket creation.
type TicketInput struct {
	Title        string
	Description  string
	Priority     TicketPriority
	ClientID     int64
	TechnicianID *int64
	CategoryID   int64
	CreatedByID  int64
}

// NewTicket builds a ticket from creation input. Status is always OPEN and
// priority defaults to MEDIUM. Required fields missing yields a validation
// error.
func NewTicket(input TicketInput) (*Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)

	missing := map[string]any{}
	if title == "" {
		missing["title"] = "required"
	}
	if description == "" {
		missing["description"] = "required"
	}
	if input.ClientID == 0 {
		missing["client_id"] = "required"
	}
	if input.CategoryID == 0 {
		missing["category_id"] = "required"
	}
	if input.CreatedByID == 0 {
		missing["created_by_id"] = "required"
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required ticket fields", missing)
	}

	priority := input.Priority
	if priority == "" {
		priority = TicketPriorityMedium
	}

	return &Ticket{
		Title:        title,
		Description:  description,
		Status:       TicketStatusOpen,
		Priority:     priority,
		ClientID:     input.ClientID,
		TechnicianID: input.TechnicianID,
		CategoryID:   input.CategoryID,
		CreatedByID:  input.CreatedByID,
	}, nil
}

// Clone returns a copy of the ticket safe to patch without touching the
// fetched record.
func (t *Ticket) Clone() *Ticket {
	clone := *t
	if t.TechnicianID != nil {
		id := *t.TechnicianID
		clone.TechnicianID = &id
	}
	return &clone
}
