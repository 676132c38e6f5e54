package events

import (
	"time"

	"github.com/tech-help/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketDeleted       EventType = "ticket_deleted"
)

// Actor identifies the caller that triggered an event.
type Actor struct {
	AccountID int64       `json:"account_id"`
	Role      domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	ClientID     int64                 `json:"client_id"`
	CategoryID   int64                 `json:"category_id"`
	TechnicianID *int64                `json:"technician_id,omitempty"`
	Priority     domain.TicketPriority `json:"priority"`
	Title        string                `json:"title"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	OldTechnicianID *int64 `json:"old_technician_id,omitempty"`
	TechnicianID    *int64 `json:"technician_id,omitempty"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	ClientID   int64 `json:"client_id"`
	CategoryID int64 `json:"category_id"`
}
