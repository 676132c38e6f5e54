package domain

import (
	apperrors "github.com/tech-help/helpdesk-service/pkg/util"
)

// Ticket status moves strictly forward: each state has at most one legal
// successor and CLOSED is terminal.
var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:       {TicketStatusInProgress},
	TicketStatusInProgress: {TicketStatusResolved},
	TicketStatusResolved:   {TicketStatusClosed},
	TicketStatusClosed:     {},
}

// AllowedTransitions returns the legal successor states for a status. The
// result is empty for CLOSED.
func AllowedTransitions(current TicketStatus) []TicketStatus {
	return allowedTransitions[current]
}

// ValidateTransition checks a requested status change against the linear
// state machine. Callers must not invoke it when requested equals current;
// a no-op change is theirs to elect.
func ValidateTransition(current, requested TicketStatus) error {
	for _, candidate := range allowedTransitions[current] {
		if candidate == requested {
			return nil
		}
	}
	allowed := make([]string, 0, 1)
	for _, candidate := range allowedTransitions[current] {
		allowed = append(allowed, string(candidate))
	}
	return apperrors.NewInvalidTransition(string(current), string(requested), allowed)
}
