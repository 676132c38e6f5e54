package dto

import (
	"time"

	"github.com/tech-help/helpdesk-service/internal/domain"
)

// CreateClientRequest payload.
type CreateClientRequest struct {
	Name         string  `json:"name"`
	Company      *string `json:"company"`
	ContactEmail string  `json:"contact_email"`
	AccountID    int64   `json:"account_id"`
}

// UpdateClientRequest payload.
type UpdateClientRequest struct {
	Name         *string `json:"name"`
	Company      *string `json:"company"`
	ContactEmail *string `json:"contact_email"`
}

// ClientResponse represents a client profile.
type ClientResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Company      *string   `json:"company,omitempty"`
	ContactEmail string    `json:"contact_email"`
	AccountID    int64     `json:"account_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewClientResponse maps a domain client.
func NewClientResponse(client *domain.Client) ClientResponse {
	return ClientResponse{
		ID:           client.ID,
		Name:         client.Name,
		Company:      client.Company,
		ContactEmail: client.ContactEmail,
		AccountID:    client.AccountID,
		CreatedAt:    client.CreatedAt,
		UpdatedAt:    client.UpdatedAt,
	}
}

// CreateTechnicianRequest payload.
type CreateTechnicianRequest struct {
	Name         string `json:"name"`
	Specialty    string `json:"specialty"`
	Availability *bool  `json:"availability"`
	AccountID    int64  `json:"account_id"`
}

// UpdateTechnicianRequest payload.
type UpdateTechnicianRequest struct {
	Name         *string `json:"name"`
	Specialty    *string `json:"specialty"`
	Availability *bool   `json:"availability"`
}

// TechnicianResponse represents a technician profile.
type TechnicianResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Specialty    string    `json:"specialty"`
	Availability bool      `json:"availability"`
	AccountID    int64     `json:"account_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewTechnicianResponse maps a domain technician.
func NewTechnicianResponse(technician *domain.Technician) TechnicianResponse {
	return TechnicianResponse{
		ID:           technician.ID,
		Name:         technician.Name,
		Specialty:    technician.Specialty,
		Availability: technician.Availability,
		AccountID:    technician.AccountID,
		CreatedAt:    technician.CreatedAt,
		UpdatedAt:    technician.UpdatedAt,
	}
}

// CategoryRequest payload for create and update.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryResponse represents a category.
type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCategoryResponse maps a domain category.
func NewCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}
