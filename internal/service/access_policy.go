package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/tech-help/helpdesk-service/internal/domain"
	"github.com/tech-help/helpdesk-service/internal/repository"
	apperrors "github.com/tech-help/helpdesk-service/pkg/util"
)

// TicketPatch describes a partial ticket update. Nil fields are untouched;
// ClearTechnician removes the current assignee.
type TicketPatch struct {
	Title           *string
	Description     *string
	Priority        *domain.TicketPriority
	Status          *domain.TicketStatus
	TechnicianID    *int64
	ClearTechnician bool
	CategoryID      *int64
}

// Fields lists the names of the fields present in the patch.
func (p TicketPatch) Fields() []string {
	var fields []string
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Description != nil {
		fields = append(fields, "description")
	}
	if p.Priority != nil {
		fields = append(fields, "priority")
	}
	if p.Status != nil {
		fields = append(fields, "status")
	}
	if p.TechnicianID != nil || p.ClearTechnician {
		fields = append(fields, "technician_id")
	}
	if p.CategoryID != nil {
		fields = append(fields, "category_id")
	}
	return fields
}

// AccessPolicy decides, for one role, which tickets the caller may see and
// which fields they may change. Implementations are pure decision functions;
// they read the caller's own profile through the repositories but mutate
// nothing.
type AccessPolicy interface {
	ListScope(ctx context.Context, claim domain.Claim) (repository.TicketFilter, error)
	CanView(ctx context.Context, claim domain.Claim, ticket *domain.Ticket) error
	AuthorizeCreate(ctx context.Context, claim domain.Claim, input TicketCreateInput) error
	AuthorizeUpdate(ctx context.Context, claim domain.Claim, ticket *domain.Ticket, patch TicketPatch) error
	AuthorizeDelete(claim domain.Claim) error
}

// PolicySet selects the access policy variant for a role. Adding a role
// means adding a variant, not another branch in every ticket operation.
type PolicySet struct {
	admin      AccessPolicy
	technician AccessPolicy
	client     AccessPolicy
	deny       AccessPolicy
}

// NewPolicySet builds the per-role policies.
func NewPolicySet(clients repository.ClientRepository, technicians repository.TechnicianRepository) *PolicySet {
	return &PolicySet{
		admin:      adminPolicy{},
		technician: technicianPolicy{technicians: technicians},
		client:     clientPolicy{clients: clients},
		deny:       denyPolicy{},
	}
}

// For returns the policy for the given role.
func (s *PolicySet) For(role domain.Role) AccessPolicy {
	switch role {
	case domain.RoleAdmin:
		return s.admin
	case domain.RoleTechnician:
		return s.technician
	case domain.RoleClient:
		return s.client
	}
	return s.deny
}

// adminPolicy grants unrestricted access.
type adminPolicy struct{}

func (adminPolicy) ListScope(context.Context, domain.Claim) (repository.TicketFilter, error) {
	return repository.TicketFilter{}, nil
}

func (adminPolicy) CanView(context.Context, domain.Claim, *domain.Ticket) error {
	return nil
}

func (adminPolicy) AuthorizeCreate(context.Context, domain.Claim, TicketCreateInput) error {
	return nil
}

func (adminPolicy) AuthorizeUpdate(context.Context, domain.Claim, *domain.Ticket, TicketPatch) error {
	return nil
}

func (adminPolicy) AuthorizeDelete(domain.Claim) error {
	return nil
}

// technicianPolicy scopes access to the caller's assigned tickets and
// restricts updates to the status field.
type technicianPolicy struct {
	technicians repository.TechnicianRepository
}

func (p technicianPolicy) profile(ctx context.Context, claim domain.Claim) (*domain.Technician, error) {
	technician, err := p.technicians.GetByAccountID(ctx, claim.SubjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("technician profile", map[string]any{"account_id": claim.SubjectID})
		}
		return nil, apperrors.MapError(err)
	}
	return technician, nil
}

func (p technicianPolicy) ListScope(ctx context.Context, claim domain.Claim) (repository.TicketFilter, error) {
	profile, err := p.profile(ctx, claim)
	if err != nil {
		return repository.TicketFilter{}, err
	}
	return repository.TicketFilter{TechnicianID: &profile.ID}, nil
}

func (p technicianPolicy) CanView(ctx context.Context, claim domain.Claim, ticket *domain.Ticket) error {
	profile, err := p.profile(ctx, claim)
	if err != nil {
		return err
	}
	if ticket.TechnicianID == nil || *ticket.TechnicianID != profile.ID {
		return apperrors.NewForbidden("you can only view tickets assigned to you")
	}
	return nil
}

func (p technicianPolicy) AuthorizeCreate(context.Context, domain.Claim, TicketCreateInput) error {
	return apperrors.NewForbidden("technicians cannot create tickets")
}

func (p technicianPolicy) AuthorizeUpdate(ctx context.Context, claim domain.Claim, ticket *domain.Ticket, patch TicketPatch) error {
	profile, err := p.profile(ctx, claim)
	if err != nil {
		return err
	}
	if ticket.TechnicianID == nil || *ticket.TechnicianID != profile.ID {
		return apperrors.NewForbidden("you can only update tickets assigned to you")
	}
	for _, field := range patch.Fields() {
		if field != "status" {
			return apperrors.NewForbidden("technicians can only update ticket status")
		}
	}
	return nil
}

func (technicianPolicy) AuthorizeDelete(domain.Claim) error {
	return apperrors.NewForbidden("technicians cannot delete tickets")
}

// clientPolicy scopes access to the caller's own tickets, allows creation
// only with self as client, and denies updates.
type clientPolicy struct {
	clients repository.ClientRepository
}

func (p clientPolicy) profile(ctx context.Context, claim domain.Claim) (*domain.Client, error) {
	client, err := p.clients.GetByAccountID(ctx, claim.SubjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("client profile", map[string]any{"account_id": claim.SubjectID})
		}
		return nil, apperrors.MapError(err)
	}
	return client, nil
}

func (p clientPolicy) ListScope(ctx context.Context, claim domain.Claim) (repository.TicketFilter, error) {
	profile, err := p.profile(ctx, claim)
	if err != nil {
		return repository.TicketFilter{}, err
	}
	return repository.TicketFilter{ClientID: &profile.ID}, nil
}

func (p clientPolicy) CanView(ctx context.Context, claim domain.Claim, ticket *domain.Ticket) error {
	profile, err := p.profile(ctx, claim)
	if err != nil {
		return err
	}
	if ticket.ClientID != profile.ID {
		return apperrors.NewForbidden("you can only view your own tickets")
	}
	return nil
}

func (p clientPolicy) AuthorizeCreate(ctx context.Context, claim domain.Claim, input TicketCreateInput) error {
	profile, err := p.profile(ctx, claim)
	if err != nil {
		return err
	}
	if input.ClientID != profile.ID {
		return apperrors.NewForbidden("clients can only create tickets for themselves")
	}
	return nil
}

func (clientPolicy) AuthorizeUpdate(context.Context, domain.Claim, *domain.Ticket, TicketPatch) error {
	return apperrors.NewForbidden("clients cannot update tickets")
}

func (clientPolicy) AuthorizeDelete(domain.Claim) error {
	return apperrors.NewForbidden("clients cannot delete tickets")
}

// denyPolicy refuses everything; it backs unknown roles.
type denyPolicy struct{}

func (denyPolicy) ListScope(context.Context, domain.Claim) (repository.TicketFilter, error) {
	return repository.TicketFilter{}, apperrors.NewForbidden("unknown role")
}

func (denyPolicy) CanView(context.Context, domain.Claim, *domain.Ticket) error {
	return apperrors.NewForbidden("unknown role")
}

func (denyPolicy) AuthorizeCreate(context.Context, domain.Claim, TicketCreateInput) error {
	return apperrors.NewForbidden("unknown role")
}

func (denyPolicy) AuthorizeUpdate(context.Context, domain.Claim, *domain.Ticket, TicketPatch) error {
	return apperrors.NewForbidden("unknown role")
}

func (denyPolicy) AuthorizeDelete(domain.Claim) error {
	return apperrors.NewForbidden("unknown role")
}
