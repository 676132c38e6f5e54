package service

import (
	"context"

	"github.com/tech-help/helpdesk-service/internal/domain"
	"github.com/tech-help/helpdesk-service/internal/repository"
	apperrors "github.com/tech-help/helpdesk-service/pkg/util"
)

// TechnicianService handles technician profile administration.
type TechnicianService struct {
	technicians repository.TechnicianRepository
	accounts    repository.AccountRepository
}

// NewTechnicianService builds the service.
func NewTechnicianService(technicians repository.TechnicianRepository, accounts repository.AccountRepository) *TechnicianService {
	return &TechnicianService{technicians: technicians, accounts: accounts}
}

// TechnicianCreateInput describes a new technician profile.
type TechnicianCreateInput struct {
	Name         string
	Specialty    string
	Availability *bool
	AccountID    int64
}

// TechnicianUpdateInput carries optional profile changes.
type TechnicianUpdateInput struct {
	Name         *string
	Specialty    *string
	Availability *bool
}

// Create links a new technician profile to an existing account. The
// availability flag defaults to true and is informational only.
func (s *TechnicianService) Create(ctx context.Context, input TechnicianCreateInput) (*domain.Technician, error) {
	if _, err := s.accounts.GetByID(ctx, input.AccountID); err != nil {
		return nil, notFoundIfNoRows(err, "account", input.AccountID)
	}
	availability := true
	if input.Availability != nil {
		availability = *input.Availability
	}
	technician := &domain.Technician{
		Name:         input.Name,
		Specialty:    input.Specialty,
		Availability: availability,
		AccountID:    input.AccountID,
	}
	if err := s.technicians.Create(ctx, technician); err != nil {
		return nil, apperrors.MapError(err)
	}
	return technician, nil
}

// List returns technician profiles.
func (s *TechnicianService) List(ctx context.Context, limit, offset int) ([]domain.Technician, error) {
	technicians, err := s.technicians.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return technicians, nil
}

// Get fetches one technician profile.
func (s *TechnicianService) Get(ctx context.Context, id int64) (*domain.Technician, error) {
	technician, err := s.technicians.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundIfNoRows(err, "technician", id)
	}
	return technician, nil
}

// Update applies the provided profile changes.
func (s *TechnicianService) Update(ctx context.Context, id int64, input TechnicianUpdateInput) (*domain.Technician, error) {
	technician, err := s.technicians.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundIfNoRows(err, "technician", id)
	}
	if input.Name != nil {
		technician.Name = *input.Name
	}
	if input.Specialty != nil {
		technician.Specialty = *input.Specialty
	}
	if input.Availability != nil {
		technician.Availability = *input.Availability
	}
	if err := s.technicians.Update(ctx, technician); err != nil {
		return nil, notFoundIfNoRows(err, "technician", id)
	}
	return technician, nil
}

// Delete removes a technician profile.
func (s *TechnicianService) Delete(ctx context.Context, id int64) error {
	if err := s.technicians.Delete(ctx, id); err != nil {
		return notFoundIfNoRows(err, "technician", id)
	}
	return nil
}
