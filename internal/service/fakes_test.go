package service

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/tech-help/helpdesk-service/internal/domain"
	"github.com/tech-help/helpdesk-service/internal/repository"
)

// In-memory repository fakes backing the service tests. They mirror the
// pgx repositories' contract: lookups miss with pgx.ErrNoRows.

type fakeTicketRepo struct {
	mu      sync.Mutex
	nextID  int64
	tickets map[int64]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{nextID: 1, tickets: map[int64]*domain.Ticket{}}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket.ID = r.nextID
	r.nextID++
	r.tickets[ticket.ID] = ticket.Clone()
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.tickets[ticket.ID] = ticket.Clone()
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return ticket.Clone(), nil
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Ticket
	for _, ticket := range r.tickets {
		if filter.ClientID != nil && ticket.ClientID != *filter.ClientID {
			continue
		}
		if filter.TechnicianID != nil &&
			(ticket.TechnicianID == nil || *ticket.TechnicianID != *filter.TechnicianID) {
			continue
		}
		out = append(out, *ticket.Clone())
	}
	return out, nil
}

func (r *fakeTicketRepo) CountByTechnicianAndStatus(_ context.Context, technicianID int64, status domain.TicketStatus) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, ticket := range r.tickets {
		if ticket.TechnicianID != nil && *ticket.TechnicianID == technicianID && ticket.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	return nil
}

type fakeClientRepo struct {
	clients map[int64]*domain.Client
}

func newFakeClientRepo(clients ...*domain.Client) *fakeClientRepo {
	r := &fakeClientRepo{clients: map[int64]*domain.Client{}}
	for _, c := range clients {
		r.clients[c.ID] = c
	}
	return r
}

func (r *fakeClientRepo) Create(_ context.Context, client *domain.Client) error {
	r.clients[client.ID] = client
	return nil
}

func (r *fakeClientRepo) Update(_ context.Context, client *domain.Client) error {
	if _, ok := r.clients[client.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.clients[client.ID] = client
	return nil
}

func (r *fakeClientRepo) GetByID(_ context.Context, id int64) (*domain.Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return client, nil
}

func (r *fakeClientRepo) GetByAccountID(_ context.Context, accountID int64) (*domain.Client, error) {
	for _, client := range r.clients {
		if client.AccountID == accountID {
			return client, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeClientRepo) List(context.Context, int, int) ([]domain.Client, error) {
	var out []domain.Client
	for _, client := range r.clients {
		out = append(out, *client)
	}
	return out, nil
}

func (r *fakeClientRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.clients[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.clients, id)
	return nil
}

type fakeTechnicianRepo struct {
	technicians map[int64]*domain.Technician
}

func newFakeTechnicianRepo(technicians ...*domain.Technician) *fakeTechnicianRepo {
	r := &fakeTechnicianRepo{technicians: map[int64]*domain.Technician{}}
	for _, tech := range technicians {
		r.technicians[tech.ID] = tech
	}
	return r
}

func (r *fakeTechnicianRepo) Create(_ context.Context, technician *domain.Technician) error {
	r.technicians[technician.ID] = technician
	return nil
}

func (r *fakeTechnicianRepo) Update(_ context.Context, technician *domain.Technician) error {
	if _, ok := r.technicians[technician.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.technicians[technician.ID] = technician
	return nil
}

func (r *fakeTechnicianRepo) GetByID(_ context.Context, id int64) (*domain.Technician, error) {
	technician, ok := r.technicians[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return technician, nil
}

func (r *fakeTechnicianRepo) GetByAccountID(_ context.Context, accountID int64) (*domain.Technician, error) {
	for _, technician := range r.technicians {
		if technician.AccountID == accountID {
			return technician, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTechnicianRepo) List(context.Context, int, int) ([]domain.Technician, error) {
	var out []domain.Technician
	for _, technician := range r.technicians {
		out = append(out, *technician)
	}
	return out, nil
}

func (r *fakeTechnicianRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.technicians[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.technicians, id)
	return nil
}

type fakeCategoryRepo struct {
	categories map[int64]*domain.Category
}

func newFakeCategoryRepo(categories ...*domain.Category) *fakeCategoryRepo {
	r := &fakeCategoryRepo{categories: map[int64]*domain.Category{}}
	for _, category := range categories {
		r.categories[category.ID] = category
	}
	return r
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	if _, ok := r.categories[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return category, nil
}

func (r *fakeCategoryRepo) List(context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for _, category := range r.categories {
		out = append(out, *category)
	}
	return out, nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.categories, id)
	return nil
}

type fakeAccountRepo struct {
	accounts map[int64]*domain.Account
}

func newFakeAccountRepo(accounts ...*domain.Account) *fakeAccountRepo {
	r := &fakeAccountRepo{accounts: map[int64]*domain.Account{}}
	for _, account := range accounts {
		r.accounts[account.ID] = account
	}
	return r
}

func (r *fakeAccountRepo) Create(_ context.Context, account *domain.Account) error {
	if account.ID == 0 {
		account.ID = int64(len(r.accounts) + 1)
	}
	r.accounts[account.ID] = account
	return nil
}

func (r *fakeAccountRepo) Update(_ context.Context, account *domain.Account) error {
	if _, ok := r.accounts[account.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.accounts[account.ID] = account
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id int64) (*domain.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return account, nil
}

func (r *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, account := range r.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAccountRepo) List(context.Context, int, int) ([]domain.Account, error) {
	var out []domain.Account
	for _, account := range r.accounts {
		out = append(out, *account)
	}
	return out, nil
}

func (r *fakeAccountRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.accounts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.accounts, id)
	return nil
}
