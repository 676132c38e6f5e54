package service

import (
	"context"

	"github.com/tech-help/helpdesk-service/internal/domain"
	"github.com/tech-help/helpdesk-service/internal/persistence"
	"github.com/tech-help/helpdesk-service/internal/repository"
	apperrors "github.com/tech-help/helpdesk-service/pkg/util"
)

// WorkloadController caps concurrent in-progress work per technician.
type WorkloadController struct {
	tickets repository.TicketRepository
	limit   int
	locks   *persistence.AdvisoryLocks
}

// NewWorkloadController builds the controller. A non-nil locks helper
// serializes admission per technician; with nil locks the check-then-write
// race window described in the service docs is accepted.
func NewWorkloadController(tickets repository.TicketRepository, limit int, locks *persistence.AdvisoryLocks) *WorkloadController {
	if limit <= 0 {
		limit = 5
	}
	return &WorkloadController{tickets: tickets, limit: limit, locks: locks}
}

// Limit returns the configured cap.
func (w *WorkloadController) Limit() int {
	return w.limit
}

// Admit checks whether the technician can take another in-progress ticket.
func (w *WorkloadController) Admit(ctx context.Context, technicianID int64) error {
	count, err := w.tickets.CountByTechnicianAndStatus(ctx, technicianID, domain.TicketStatusInProgress)
	if err != nil {
		return apperrors.MapError(err)
	}
	if count >= w.limit {
		return apperrors.NewWorkloadExceeded(technicianID, count, w.limit)
	}
	return nil
}

// WithAdmission runs the admission check and, if it passes, the commit
// function. When serialization is configured both happen under the
// technician's advisory lock, closing the race between the count read and
// the write.
func (w *WorkloadController) WithAdmission(ctx context.Context, technicianID int64, commit func(context.Context) error) error {
	if w.locks == nil {
		if err := w.Admit(ctx, technicianID); err != nil {
			return err
		}
		return commit(ctx)
	}
	return w.locks.WithLock(ctx, technicianID, func(ctx context.Context) error {
		if err := w.Admit(ctx, technicianID); err != nil {
			return err
		}
		return commit(ctx)
	})
}
