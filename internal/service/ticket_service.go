package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tech-help/helpdesk-service/internal/domain"
	"github.com/tech-help/helpdesk-service/internal/events"
	"github.com/tech-help/helpdesk-service/internal/repository"
	apperrors "github.com/tech-help/helpdesk-service/pkg/util"
)

// TicketService coordinates ticket workflows. It is stateless between
// invocations: every operation fetches what it needs, validates everything
// before any field is applied, and persists a new value built from an
// untouched copy of the fetched record.
type TicketService struct {
	tickets     repository.TicketRepository
	clients     repository.ClientRepository
	technicians repository.TechnicianRepository
	categories  repository.CategoryRepository
	accounts    repository.AccountRepository
	policies    *PolicySet
	workload    *WorkloadController
	dispatcher  events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	ClientRepo     repository.ClientRepository
	TechnicianRepo repository.TechnicianRepository
	CategoryRepo   repository.CategoryRepository
	AccountRepo    repository.AccountRepository
	Policies       *PolicySet
	Workload       *WorkloadController
	Dispatcher     events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title        string
	Description  string
	Priority     domain.TicketPriority
	ClientID     int64
	TechnicianID *int64
	CategoryID   int64
	CreatedByID  int64
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		clients:     deps.ClientRepo,
		technicians: deps.TechnicianRepo,
		categories:  deps.CategoryRepo,
		accounts:    deps.AccountRepo,
		policies:    deps.Policies,
		workload:    deps.Workload,
		dispatcher:  deps.Dispatcher,
	}
}

// Create validates every referenced record, admits the technician workload
// when an assignee is given, and persists a ticket that always starts OPEN.
func (s *TicketService) Create(ctx context.Context, claim domain.Claim, input TicketCreateInput) (*domain.Ticket, error) {
	if input.ClientID == 0 {
		return nil, apperrors.NewValidationError("client is required to create a ticket", nil)
	}
	if input.CategoryID == 0 {
		return nil, apperrors.NewValidationError("category is required to create a ticket", nil)
	}
	if err := s.policies.For(claim.Role).AuthorizeCreate(ctx, claim, input); err != nil {
		return nil, err
	}

	if _, err := s.clients.GetByID(ctx, input.ClientID); err != nil {
		return nil, notFoundIfNoRows(err, "client", input.ClientID)
	}
	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		return nil, notFoundIfNoRows(err, "category", input.CategoryID)
	}
	if _, err := s.accounts.GetByID(ctx, input.CreatedByID); err != nil {
		return nil, notFoundIfNoRows(err, "account", input.CreatedByID)
	}
	if input.TechnicianID != nil {
		if _, err := s.technicians.GetByID(ctx, *input.TechnicianID); err != nil {
			return nil, notFoundIfNoRows(err, "technician", *input.TechnicianID)
		}
	}

	ticket, err := domain.NewTicket(domain.TicketInput{
		Title:        input.Title,
		Description:  input.Description,
		Priority:     input.Priority,
		ClientID:     input.ClientID,
		TechnicianID: input.TechnicianID,
		CategoryID:   input.CategoryID,
		CreatedByID:  input.CreatedByID,
	})
	if err != nil {
		return nil, err
	}

	persist := func(ctx context.Context) error {
		return s.tickets.Create(ctx, ticket)
	}
	if input.TechnicianID != nil {
		err = s.workload.WithAdmission(ctx, *input.TechnicianID, persist)
	} else {
		err = persist(ctx)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, claim, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			ClientID:     ticket.ClientID,
			CategoryID:   ticket.CategoryID,
			TechnicianID: ticket.TechnicianID,
			Priority:     ticket.Priority,
			Title:        ticket.Title,
		},
	})
	return ticket, nil
}

// List returns the tickets visible to the caller.
func (s *TicketService) List(ctx context.Context, claim domain.Claim) ([]domain.Ticket, error) {
	filter, err := s.policies.For(claim.Role).ListScope(ctx, claim)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Get fetches a ticket and applies the caller's read scope. A ticket outside
// the caller's scope yields Forbidden, distinct from NotFound for a missing
// id.
func (s *TicketService) Get(ctx context.Context, claim domain.Claim, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundIfNoRows(err, "ticket", id)
	}
	if err := s.policies.For(claim.Role).CanView(ctx, claim, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Update applies a partial update. All authorization, transition, reference
// and workload checks pass before anything is persisted; a failed check
// leaves the stored ticket untouched.
func (s *TicketService) Update(ctx context.Context, claim domain.Claim, id int64, patch TicketPatch) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundIfNoRows(err, "ticket", id)
	}
	if err := s.policies.For(claim.Role).AuthorizeUpdate(ctx, claim, ticket, patch); err != nil {
		return nil, err
	}

	updated := ticket.Clone()

	statusChanging := patch.Status != nil && *patch.Status != ticket.Status
	if statusChanging {
		if err := domain.ValidateTransition(ticket.Status, *patch.Status); err != nil {
			return nil, err
		}
		updated.Status = *patch.Status
	}

	technicianChanging := false
	if claim.Role == domain.RoleAdmin {
		if patch.ClearTechnician {
			if ticket.Status == domain.TicketStatusClosed {
				return nil, apperrors.NewConflict("technician cannot change on a closed ticket", nil)
			}
			updated.TechnicianID = nil
		} else if patch.TechnicianID != nil {
			if ticket.Status == domain.TicketStatusClosed {
				return nil, apperrors.NewConflict("technician cannot change on a closed ticket", nil)
			}
			if _, err := s.technicians.GetByID(ctx, *patch.TechnicianID); err != nil {
				return nil, notFoundIfNoRows(err, "technician", *patch.TechnicianID)
			}
			technicianChanging = ticket.TechnicianID == nil || *ticket.TechnicianID != *patch.TechnicianID
			updated.TechnicianID = patch.TechnicianID
		}
		if patch.CategoryID != nil {
			if _, err := s.categories.GetByID(ctx, *patch.CategoryID); err != nil {
				return nil, notFoundIfNoRows(err, "category", *patch.CategoryID)
			}
			updated.CategoryID = *patch.CategoryID
		}
	}

	if patch.Title != nil {
		updated.Title = *patch.Title
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.Priority != nil {
		updated.Priority = *patch.Priority
	}

	persist := func(ctx context.Context) error {
		return s.tickets.Update(ctx, updated)
	}
	// Admission applies only when the assignee actually changes and the
	// ticket will be IN_PROGRESS after this update.
	if technicianChanging && updated.Status == domain.TicketStatusInProgress {
		err = s.workload.WithAdmission(ctx, *updated.TechnicianID, persist)
	} else {
		err = persist(ctx)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if statusChanging {
		s.publishEvent(ctx, claim, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: updated.ID,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: ticket.Status,
				NewStatus: updated.Status,
			},
		})
	}
	if technicianChanging || patch.ClearTechnician {
		s.publishEvent(ctx, claim, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: updated.ID,
			Payload: events.TicketAssignedPayload{
				OldTechnicianID: ticket.TechnicianID,
				TechnicianID:    updated.TechnicianID,
			},
		})
	}
	return updated, nil
}

// Delete removes a ticket unconditionally. The access policy restricts it to
// administrators.
func (s *TicketService) Delete(ctx context.Context, claim domain.Claim, id int64) error {
	if err := s.policies.For(claim.Role).AuthorizeDelete(claim); err != nil {
		return err
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return notFoundIfNoRows(err, "ticket", id)
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		return notFoundIfNoRows(err, "ticket", id)
	}
	s.publishEvent(ctx, claim, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: id,
		Payload: events.TicketDeletedPayload{
			ClientID:   ticket.ClientID,
			CategoryID: ticket.CategoryID,
		},
	})
	return nil
}

// ListByClient returns a client's ticket history. Clients may only request
// their own.
func (s *TicketService) ListByClient(ctx context.Context, claim domain.Claim, clientID int64) ([]domain.Ticket, error) {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, notFoundIfNoRows(err, "client", clientID)
	}
	switch claim.Role {
	case domain.RoleAdmin:
	case domain.RoleClient:
		if client.AccountID != claim.SubjectID {
			return nil, apperrors.NewForbidden("you can only view your own ticket history")
		}
	default:
		return nil, apperrors.NewForbidden("insufficient role for client ticket history")
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{ClientID: &clientID})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListByTechnician returns a technician's assigned tickets. Technicians may
// only request their own.
func (s *TicketService) ListByTechnician(ctx context.Context, claim domain.Claim, technicianID int64) ([]domain.Ticket, error) {
	technician, err := s.technicians.GetByID(ctx, technicianID)
	if err != nil {
		return nil, notFoundIfNoRows(err, "technician", technicianID)
	}
	switch claim.Role {
	case domain.RoleAdmin:
	case domain.RoleTechnician:
		if technician.AccountID != claim.SubjectID {
			return nil, apperrors.NewForbidden("you can only view your own assigned tickets")
		}
	default:
		return nil, apperrors.NewForbidden("insufficient role for technician ticket listing")
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{TechnicianID: &technicianID})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

func (s *TicketService) publishEvent(ctx context.Context, claim domain.Claim, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Actor = events.Actor{AccountID: claim.SubjectID, Role: claim.Role}
	_ = s.dispatcher.Publish(ctx, event)
}

func notFoundIfNoRows(err error, resource string, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return apperrors.MapError(err)
}
