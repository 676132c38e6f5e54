package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/tech-help/helpdesk-service/internal/auth"
	"github.com/tech-help/helpdesk-service/internal/domain"
	"github.com/tech-help/helpdesk-service/internal/repository"
	apperrors "github.com/tech-help/helpdesk-service/pkg/util"
)

// AccountService handles admin-managed account administration.
type AccountService struct {
	accounts   repository.AccountRepository
	bcryptCost int
}

// NewAccountService builds the service.
func NewAccountService(accounts repository.AccountRepository, bcryptCost int) *AccountService {
	return &AccountService{accounts: accounts, bcryptCost: bcryptCost}
}

// AccountCreateInput describes an admin-provisioned account.
type AccountCreateInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// AccountUpdateInput carries optional account changes.
type AccountUpdateInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *domain.Role
}

// Create provisions an account with an explicit role.
func (s *AccountService) Create(ctx context.Context, input AccountCreateInput) (*domain.Account, error) {
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}
	if _, err := s.accounts.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	account := &domain.Account{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, apperrors.MapError(err)
	}
	return account, nil
}

// List returns accounts.
func (s *AccountService) List(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	accounts, err := s.accounts.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return accounts, nil
}

// Get fetches one account.
func (s *AccountService) Get(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundIfNoRows(err, "account", id)
	}
	return account, nil
}

// Update applies the provided account changes.
func (s *AccountService) Update(ctx context.Context, id int64, input AccountUpdateInput) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundIfNoRows(err, "account", id)
	}
	if input.Name != nil {
		account.Name = *input.Name
	}
	if input.Email != nil {
		account.Email = *input.Email
	}
	if input.Password != nil {
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		account.PasswordHash = hash
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": *input.Role})
		}
		account.Role = *input.Role
	}
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, notFoundIfNoRows(err, "account", id)
	}
	return account, nil
}

// Delete removes an account.
func (s *AccountService) Delete(ctx context.Context, id int64) error {
	if err := s.accounts.Delete(ctx, id); err != nil {
		return notFoundIfNoRows(err, "account", id)
	}
	return nil
}
