package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tech-help/helpdesk-service/internal/domain"
	apperrors "github.com/tech-help/helpdesk-service/pkg/util"
)

func seedInProgress(t *testing.T, repo *fakeTicketRepo, technicianID int64, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		id := technicianID
		require.NoError(t, repo.Create(context.Background(), &domain.Ticket{
			Title:        "busy",
			Description:  "busy",
			Status:       domain.TicketStatusInProgress,
			Priority:     domain.TicketPriorityMedium,
			ClientID:     1,
			TechnicianID: &id,
			CategoryID:   1,
			CreatedByID:  1,
		}))
	}
}

func TestWorkloadAdmitBelowLimit(t *testing.T) {
	repo := newFakeTicketRepo()
	seedInProgress(t, repo, 7, 4)

	controller := NewWorkloadController(repo, 5, nil)
	assert.NoError(t, controller.Admit(context.Background(), 7))
}

func TestWorkloadAdmitAtLimit(t *testing.T) {
	repo := newFakeTicketRepo()
	seedInProgress(t, repo, 7, 5)

	controller := NewWorkloadController(repo, 5, nil)
	err := controller.Admit(context.Background(), 7)
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "TECHNICIAN_WORKLOAD_EXCEEDED", domainErr.Code)
	assert.Equal(t, 5, domainErr.Details["current_count"])
	assert.Equal(t, 5, domainErr.Details["limit"])
}

func TestWorkloadCountsOnlyInProgress(t *testing.T) {
	repo := newFakeTicketRepo()
	id := int64(7)
	for _, status := range []domain.TicketStatus{
		domain.TicketStatusOpen,
		domain.TicketStatusResolved,
		domain.TicketStatusClosed,
	} {
		tech := id
		require.NoError(t, repo.Create(context.Background(), &domain.Ticket{
			Title: "t", Description: "d", Status: status, Priority: domain.TicketPriorityLow,
			ClientID: 1, TechnicianID: &tech, CategoryID: 1, CreatedByID: 1,
		}))
	}
	seedInProgress(t, repo, id, 4)

	controller := NewWorkloadController(repo, 5, nil)
	assert.NoError(t, controller.Admit(context.Background(), id))
}

func TestWorkloadPerTechnician(t *testing.T) {
	repo := newFakeTicketRepo()
	seedInProgress(t, repo, 7, 5)

	controller := NewWorkloadController(repo, 5, nil)
	assert.Error(t, controller.Admit(context.Background(), 7))
	assert.NoError(t, controller.Admit(context.Background(), 8))
}

func TestWorkloadDefaultLimit(t *testing.T) {
	controller := NewWorkloadController(newFakeTicketRepo(), 0, nil)
	assert.Equal(t, 5, controller.Limit())
}

func TestWithAdmissionRunsCommitOnlyWhenAdmitted(t *testing.T) {
	repo := newFakeTicketRepo()
	seedInProgress(t, repo, 7, 5)
	controller := NewWorkloadController(repo, 5, nil)

	committed := false
	err := controller.WithAdmission(context.Background(), 7, func(context.Context) error {
		committed = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, committed)

	err = controller.WithAdmission(context.Background(), 8, func(context.Context) error {
		committed = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, committed)
}

func TestWithAdmissionPropagatesCommitError(t *testing.T) {
	controller := NewWorkloadController(newFakeTicketRepo(), 5, nil)

	boom := errors.New("write failed")
	err := controller.WithAdmission(context.Background(), 7, func(context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}
