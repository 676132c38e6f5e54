package service

import (
	"context"

	"github.com/tech-help/helpdesk-service/internal/domain"
	"github.com/tech-help/helpdesk-service/internal/repository"
	apperrors "github.com/tech-help/helpdesk-service/pkg/util"
)

// ClientService handles client profile administration.
type ClientService struct {
	clients  repository.ClientRepository
	accounts repository.AccountRepository
}

// NewClientService builds the service.
func NewClientService(clients repository.ClientRepository, accounts repository.AccountRepository) *ClientService {
	return &ClientService{clients: clients, accounts: accounts}
}

// ClientCreateInput describes a new client profile.
type ClientCreateInput struct {
	Name         string
	Company      *string
	ContactEmail string
	AccountID    int64
}

// ClientUpdateInput carries optional profile changes.
type ClientUpdateInput struct {
	Name         *string
	Company      *string
	ContactEmail *string
}

// Create links a new client profile to an existing account.
func (s *ClientService) Create(ctx context.Context, input ClientCreateInput) (*domain.Client, error) {
	if _, err := s.accounts.GetByID(ctx, input.AccountID); err != nil {
		return nil, notFoundIfNoRows(err, "account", input.AccountID)
	}
	client := &domain.Client{
		Name:         input.Name,
		Company:      input.Company,
		ContactEmail: input.ContactEmail,
		AccountID:    input.AccountID,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, apperrors.MapError(err)
	}
	return client, nil
}

// List returns client profiles.
func (s *ClientService) List(ctx context.Context, limit, offset int) ([]domain.Client, error) {
	clients, err := s.clients.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return clients, nil
}

// Get fetches one client profile.
func (s *ClientService) Get(ctx context.Context, id int64) (*domain.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundIfNoRows(err, "client", id)
	}
	return client, nil
}

// Update applies the provided profile changes.
func (s *ClientService) Update(ctx context.Context, id int64, input ClientUpdateInput) (*domain.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundIfNoRows(err, "client", id)
	}
	if input.Name != nil {
		client.Name = *input.Name
	}
	if input.Company != nil {
		client.Company = input.Company
	}
	if input.ContactEmail != nil {
		client.ContactEmail = *input.ContactEmail
	}
	if err := s.clients.Update(ctx, client); err != nil {
		return nil, notFoundIfNoRows(err, "client", id)
	}
	return client, nil
}

// Delete removes a client profile.
func (s *ClientService) Delete(ctx context.Context, id int64) error {
	if err := s.clients.Delete(ctx, id); err != nil {
		return notFoundIfNoRows(err, "client", id)
	}
	return nil
}
