package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tech-help/helpdesk-service/internal/domain"
	"github.com/tech-help/helpdesk-service/internal/events"
	apperrors "github.com/tech-help/helpdesk-service/pkg/util"
)

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

type ticketFixture struct {
	service    *TicketService
	tickets    *fakeTicketRepo
	dispatcher *recordingDispatcher

	adminClaim  domain.Claim
	clientClaim domain.Claim
	techClaim   domain.Claim

	clientID       int64
	otherClientID  int64
	technicianID   int64
	otherTechID    int64
	categoryID     int64
	adminAccountID int64
}

func newTicketFixture(t *testing.T, workloadLimit int) *ticketFixture {
	t.Helper()

	accounts := newFakeAccountRepo(
		&domain.Account{ID: 1, Email: "admin@helpdesk.test", Role: domain.RoleAdmin},
		&domain.Account{ID: 2, Email: "client@helpdesk.test", Role: domain.RoleClient},
		&domain.Account{ID: 3, Email: "tech@helpdesk.test", Role: domain.RoleTechnician},
		&domain.Account{ID: 4, Email: "tech2@helpdesk.test", Role: domain.RoleTechnician},
		&domain.Account{ID: 5, Email: "client2@helpdesk.test", Role: domain.RoleClient},
	)
	clients := newFakeClientRepo(
		&domain.Client{ID: 10, Name: "Acme", ContactEmail: "it@acme.test", AccountID: 2},
		&domain.Client{ID: 11, Name: "Globex", ContactEmail: "it@globex.test", AccountID: 5},
	)
	technicians := newFakeTechnicianRepo(
		&domain.Technician{ID: 20, Name: "Dana", Specialty: "network", Availability: true, AccountID: 3},
		&domain.Technician{ID: 21, Name: "Lee", Specialty: "hardware", Availability: true, AccountID: 4},
	)
	categories := newFakeCategoryRepo(
		&domain.Category{ID: 30, Name: "Connectivity"},
	)
	tickets := newFakeTicketRepo()
	dispatcher := &recordingDispatcher{}

	svc := NewTicketService(TicketDependencies{
		TicketRepo:     tickets,
		ClientRepo:     clients,
		TechnicianRepo: technicians,
		CategoryRepo:   categories,
		AccountRepo:    accounts,
		Policies:       NewPolicySet(clients, technicians),
		Workload:       NewWorkloadController(tickets, workloadLimit, nil),
		Dispatcher:     dispatcher,
	})

	return &ticketFixture{
		service:        svc,
		tickets:        tickets,
		dispatcher:     dispatcher,
		adminClaim:     domain.Claim{SubjectID: 1, Role: domain.RoleAdmin},
		clientClaim:    domain.Claim{SubjectID: 2, Role: domain.RoleClient},
		techClaim:      domain.Claim{SubjectID: 3, Role: domain.RoleTechnician},
		clientID:       10,
		otherClientID:  11,
		technicianID:   20,
		otherTechID:    21,
		categoryID:     30,
		adminAccountID: 1,
	}
}

func (f *ticketFixture) createInput() TicketCreateInput {
	return TicketCreateInput{
		Title:       "Wifi drops every hour",
		Description: "Access point reboots on its own.",
		ClientID:    f.clientID,
		CategoryID:  f.categoryID,
		CreatedByID: f.adminAccountID,
	}
}

// saturate fills the technician with in-progress tickets up to count.
func (f *ticketFixture) saturate(t *testing.T, technicianID int64, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		id := technicianID
		ticket := &domain.Ticket{
			Title:        "busy",
			Description:  "busy",
			Status:       domain.TicketStatusInProgress,
			Priority:     domain.TicketPriorityMedium,
			ClientID:     f.clientID,
			TechnicianID: &id,
			CategoryID:   f.categoryID,
			CreatedByID:  f.adminAccountID,
		}
		require.NoError(t, f.tickets.Create(context.Background(), ticket))
	}
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return apperrors.ToDomainError(err).Code
}

func TestCreateTicketStartsOpen(t *testing.T) {
	f := newTicketFixture(t, 5)

	ticket, err := f.service.Create(context.Background(), f.adminClaim, f.createInput())
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
	assert.Nil(t, ticket.TechnicianID)
	assert.NotZero(t, ticket.ID)

	created := f.dispatcher.byType(events.EventTicketCreated)
	require.Len(t, created, 1)
	assert.Equal(t, ticket.ID, created[0].TicketID)
}

func TestCreateTicketUnknownReferences(t *testing.T) {
	f := newTicketFixture(t, 5)

	input := f.createInput()
	input.ClientID = 999
	_, err := f.service.Create(context.Background(), f.adminClaim, input)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))

	input = f.createInput()
	input.CategoryID = 999
	_, err = f.service.Create(context.Background(), f.adminClaim, input)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))

	input = f.createInput()
	unknown := int64(999)
	input.TechnicianID = &unknown
	_, err = f.service.Create(context.Background(), f.adminClaim, input)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestCreateTicketWithTechnicianUnderCap(t *testing.T) {
	f := newTicketFixture(t, 5)
	f.saturate(t, f.technicianID, 4)

	input := f.createInput()
	input.TechnicianID = &f.technicianID
	ticket, err := f.service.Create(context.Background(), f.adminClaim, input)
	require.NoError(t, err)
	require.NotNil(t, ticket.TechnicianID)
	assert.Equal(t, f.technicianID, *ticket.TechnicianID)
}

func TestCreateTicketWithTechnicianAtCap(t *testing.T) {
	f := newTicketFixture(t, 5)
	f.saturate(t, f.technicianID, 5)
	before := len(f.tickets.tickets)

	input := f.createInput()
	input.TechnicianID = &f.technicianID
	_, err := f.service.Create(context.Background(), f.adminClaim, input)
	assert.Equal(t, "TECHNICIAN_WORKLOAD_EXCEEDED", errCode(t, err))
	assert.Len(t, f.tickets.tickets, before, "rejected ticket must not persist")
}

func TestCreateTicketConfigurableLimit(t *testing.T) {
	f := newTicketFixture(t, 2)
	f.saturate(t, f.technicianID, 2)

	input := f.createInput()
	input.TechnicianID = &f.technicianID
	_, err := f.service.Create(context.Background(), f.adminClaim, input)
	assert.Equal(t, "TECHNICIAN_WORKLOAD_EXCEEDED", errCode(t, err))
}

func TestClientCreatesOwnTicketOnly(t *testing.T) {
	f := newTicketFixture(t, 5)

	input := f.createInput()
	input.CreatedByID = 2
	ticket, err := f.service.Create(context.Background(), f.clientClaim, input)
	require.NoError(t, err)
	assert.Equal(t, f.clientID, ticket.ClientID)

	input.ClientID = f.otherClientID
	_, err = f.service.Create(context.Background(), f.clientClaim, input)
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}

func TestTechnicianCannotCreateTickets(t *testing.T) {
	f := newTicketFixture(t, 5)

	_, err := f.service.Create(context.Background(), f.techClaim, f.createInput())
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}

func TestAssignedTechnicianAdvancesStatus(t *testing.T) {
	f := newTicketFixture(t, 5)

	input := f.createInput()
	input.TechnicianID = &f.technicianID
	ticket, err := f.service.Create(context.Background(), f.adminClaim, input)
	require.NoError(t, err)

	status := domain.TicketStatusInProgress
	updated, err := f.service.Update(context.Background(), f.techClaim, ticket.ID, TicketPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)

	changed := f.dispatcher.byType(events.EventTicketStatusChanged)
	require.Len(t, changed, 1)
}

func TestTechnicianStatusOnlyPatch(t *testing.T) {
	f := newTicketFixture(t, 5)

	input := f.createInput()
	input.TechnicianID = &f.technicianID
	ticket, err := f.service.Create(context.Background(), f.adminClaim, input)
	require.NoError(t, err)

	status := domain.TicketStatusInProgress
	priority := domain.TicketPriorityHigh
	_, err = f.service.Update(context.Background(), f.techClaim, ticket.ID, TicketPatch{
		Status:   &status,
		Priority: &priority,
	})
	assert.Equal(t, "FORBIDDEN", errCode(t, err))

	stored, err := f.service.Get(context.Background(), f.adminClaim, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, stored.Status, "rejected patch must change nothing")
	assert.Equal(t, domain.TicketPriorityMedium, stored.Priority)
}

func TestTechnicianCannotTouchForeignTicket(t *testing.T) {
	f := newTicketFixture(t, 5)

	input := f.createInput()
	input.TechnicianID = &f.otherTechID
	ticket, err := f.service.Create(context.Background(), f.adminClaim, input)
	require.NoError(t, err)

	status := domain.TicketStatusInProgress
	_, err = f.service.Update(context.Background(), f.techClaim, ticket.ID, TicketPatch{Status: &status})
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}

func TestClientCannotUpdateTickets(t *testing.T) {
	f := newTicketFixture(t, 5)

	ticket, err := f.service.Create(context.Background(), f.adminClaim, f.createInput())
	require.NoError(t, err)

	title := "edited"
	_, err = f.service.Update(context.Background(), f.clientClaim, ticket.ID, TicketPatch{Title: &title})
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}

func TestUpdateRejectsSkippedTransition(t *testing.T) {
	f := newTicketFixture(t, 5)

	ticket, err := f.service.Create(context.Background(), f.adminClaim, f.createInput())
	require.NoError(t, err)

	status := domain.TicketStatusResolved
	_, err = f.service.Update(context.Background(), f.adminClaim, ticket.ID, TicketPatch{Status: &status})
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", domainErr.Code)
	assert.Equal(t, []string{"IN_PROGRESS"}, domainErr.Details["allowed"])
}

func TestUpdateNoopStatusIsAccepted(t *testing.T) {
	f := newTicketFixture(t, 5)

	ticket, err := f.service.Create(context.Background(), f.adminClaim, f.createInput())
	require.NoError(t, err)

	status := domain.TicketStatusOpen
	updated, err := f.service.Update(context.Background(), f.adminClaim, ticket.ID, TicketPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, updated.Status)
	assert.Empty(t, f.dispatcher.byType(events.EventTicketStatusChanged))
}

func TestAdminReassignmentChecksWorkload(t *testing.T) {
	f := newTicketFixture(t, 5)
	f.saturate(t, f.otherTechID, 5)

	input := f.createInput()
	input.TechnicianID = &f.technicianID
	ticket, err := f.service.Create(context.Background(), f.adminClaim, input)
	require.NoError(t, err)

	status := domain.TicketStatusInProgress
	_, err = f.service.Update(context.Background(), f.adminClaim, ticket.ID, TicketPatch{Status: &status})
	require.NoError(t, err)

	// Moving the in-progress ticket onto a saturated technician must fail.
	_, err = f.service.Update(context.Background(), f.adminClaim, ticket.ID, TicketPatch{TechnicianID: &f.otherTechID})
	assert.Equal(t, "TECHNICIAN_WORKLOAD_EXCEEDED", errCode(t, err))

	stored, err := f.service.Get(context.Background(), f.adminClaim, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, f.technicianID, *stored.TechnicianID)
}

func TestAdminReassignmentSameTechnicianSkipsAdmission(t *testing.T) {
	f := newTicketFixture(t, 5)
	f.saturate(t, f.technicianID, 4)

	input := f.createInput()
	input.TechnicianID = &f.technicianID
	ticket, err := f.service.Create(context.Background(), f.adminClaim, input)
	require.NoError(t, err)

	status := domain.TicketStatusInProgress
	_, err = f.service.Update(context.Background(), f.adminClaim, ticket.ID, TicketPatch{Status: &status})
	require.NoError(t, err)

	// The technician is now at the cap, but re-stating the same assignee is
	// not a change and must not trip the workload check.
	updated, err := f.service.Update(context.Background(), f.adminClaim, ticket.ID, TicketPatch{TechnicianID: &f.technicianID})
	require.NoError(t, err)
	assert.Equal(t, f.technicianID, *updated.TechnicianID)
}

func TestAdminClearsTechnician(t *testing.T) {
	f := newTicketFixture(t, 5)

	input := f.createInput()
	input.TechnicianID = &f.technicianID
	ticket, err := f.service.Create(context.Background(), f.adminClaim, input)
	require.NoError(t, err)

	updated, err := f.service.Update(context.Background(), f.adminClaim, ticket.ID, TicketPatch{ClearTechnician: true})
	require.NoError(t, err)
	assert.Nil(t, updated.TechnicianID)

	assigned := f.dispatcher.byType(events.EventTicketAssigned)
	require.NotEmpty(t, assigned)
}

func TestClosedTicketRejectsTechnicianChange(t *testing.T) {
	f := newTicketFixture(t, 5)

	ticket, err := f.service.Create(context.Background(), f.adminClaim, f.createInput())
	require.NoError(t, err)

	for _, status := range []domain.TicketStatus{
		domain.TicketStatusInProgress,
		domain.TicketStatusResolved,
		domain.TicketStatusClosed,
	} {
		s := status
		_, err = f.service.Update(context.Background(), f.adminClaim, ticket.ID, TicketPatch{Status: &s})
		require.NoError(t, err)
	}

	_, err = f.service.Update(context.Background(), f.adminClaim, ticket.ID, TicketPatch{TechnicianID: &f.technicianID})
	assert.Equal(t, "CONFLICT", errCode(t, err))

	_, err = f.service.Update(context.Background(), f.adminClaim, ticket.ID, TicketPatch{ClearTechnician: true})
	assert.Equal(t, "CONFLICT", errCode(t, err))
}

func TestGetDistinguishesForbiddenFromNotFound(t *testing.T) {
	f := newTicketFixture(t, 5)

	input := f.createInput()
	input.ClientID = f.otherClientID
	ticket, err := f.service.Create(context.Background(), f.adminClaim, input)
	require.NoError(t, err)

	_, err = f.service.Get(context.Background(), f.clientClaim, ticket.ID)
	assert.Equal(t, "FORBIDDEN", errCode(t, err))

	_, err = f.service.Get(context.Background(), f.clientClaim, 9999)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestListScopesByRole(t *testing.T) {
	f := newTicketFixture(t, 5)
	ctx := context.Background()

	mine := f.createInput()
	_, err := f.service.Create(ctx, f.adminClaim, mine)
	require.NoError(t, err)

	other := f.createInput()
	other.ClientID = f.otherClientID
	other.TechnicianID = &f.technicianID
	_, err = f.service.Create(ctx, f.adminClaim, other)
	require.NoError(t, err)

	all, err := f.service.List(ctx, f.adminClaim)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := f.service.List(ctx, f.clientClaim)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, f.clientID, own[0].ClientID)

	assigned, err := f.service.List(ctx, f.techClaim)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, f.technicianID, *assigned[0].TechnicianID)
}

func TestListUnknownRoleIsDenied(t *testing.T) {
	f := newTicketFixture(t, 5)

	_, err := f.service.List(context.Background(), domain.Claim{SubjectID: 1, Role: domain.Role("AUDITOR")})
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}

func TestListByClientOwnership(t *testing.T) {
	f := newTicketFixture(t, 5)
	ctx := context.Background()

	_, err := f.service.Create(ctx, f.adminClaim, f.createInput())
	require.NoError(t, err)

	own, err := f.service.ListByClient(ctx, f.clientClaim, f.clientID)
	require.NoError(t, err)
	assert.Len(t, own, 1)

	_, err = f.service.ListByClient(ctx, f.clientClaim, f.otherClientID)
	assert.Equal(t, "FORBIDDEN", errCode(t, err))

	_, err = f.service.ListByClient(ctx, f.adminClaim, 9999)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestListByTechnicianOwnership(t *testing.T) {
	f := newTicketFixture(t, 5)
	ctx := context.Background()

	input := f.createInput()
	input.TechnicianID = &f.technicianID
	_, err := f.service.Create(ctx, f.adminClaim, input)
	require.NoError(t, err)

	own, err := f.service.ListByTechnician(ctx, f.techClaim, f.technicianID)
	require.NoError(t, err)
	assert.Len(t, own, 1)

	_, err = f.service.ListByTechnician(ctx, f.techClaim, f.otherTechID)
	assert.Equal(t, "FORBIDDEN", errCode(t, err))

	_, err = f.service.ListByTechnician(ctx, f.clientClaim, f.technicianID)
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}

func TestDeleteIsAdminOnly(t *testing.T) {
	f := newTicketFixture(t, 5)
	ctx := context.Background()

	ticket, err := f.service.Create(ctx, f.adminClaim, f.createInput())
	require.NoError(t, err)

	assert.Equal(t, "FORBIDDEN", errCode(t, f.service.Delete(ctx, f.clientClaim, ticket.ID)))
	assert.Equal(t, "FORBIDDEN", errCode(t, f.service.Delete(ctx, f.techClaim, ticket.ID)))

	require.NoError(t, f.service.Delete(ctx, f.adminClaim, ticket.ID))

	_, err = f.service.Get(ctx, f.adminClaim, ticket.ID)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))

	deleted := f.dispatcher.byType(events.EventTicketDeleted)
	require.Len(t, deleted, 1)
}
