package dto

import (
	"time"

	"github.com/tech-help/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Priority     domain.TicketPriority `json:"priority"`
	ClientID     int64                 `json:"client_id"`
	TechnicianID *int64                `json:"technician_id"`
	CategoryID   int64                 `json:"category_id"`
	CreatedByID  int64                 `json:"created_by_id"`
}

// UpdateTicketRequest payload. Absent fields are untouched;
// clear_technician unassigns the current technician.
type UpdateTicketRequest struct {
	Title           *string                `json:"title"`
	Description     *string                `json:"description"`
	Priority        *domain.TicketPriority `json:"priority"`
	Status          *domain.TicketStatus   `json:"status"`
	TechnicianID    *int64                 `json:"technician_id"`
	ClearTechnician bool                   `json:"clear_technician"`
	CategoryID      *int64                 `json:"category_id"`
}

// TicketResponse provides full ticket info.
type TicketResponse struct {
	ID           int64                 `json:"id"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Status       domain.TicketStatus   `json:"status"`
	Priority     domain.TicketPriority `json:"priority"`
	ClientID     int64                 `json:"client_id"`
	TechnicianID *int64                `json:"technician_id,omitempty"`
	CategoryID   int64                 `json:"category_id"`
	CreatedByID  int64                 `json:"created_by_id"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:           ticket.ID,
		Title:        ticket.Title,
		Description:  ticket.Description,
		Status:       ticket.Status,
		Priority:     ticket.Priority,
		ClientID:     ticket.ClientID,
		TechnicianID: ticket.TechnicianID,
		CategoryID:   ticket.CategoryID,
		CreatedByID:  ticket.CreatedByID,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}

// NewTicketResponses maps a slice of domain tickets.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i]))
	}
	return items
}
