// Package lifecycle owns the incident status graph and the notification
// emitted when an incident changes status.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"rentdesk-backend/internal/domain"
)

var ErrInvalidTransition = errors.New("invalid incident transition")

// InvalidTransitionError reports a rejected status change. It matches
// ErrInvalidTransition with errors.Is.
type InvalidTransitionError struct {
	From domain.IncidentStatus
	To   domain.IncidentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid incident transition from %q to %q", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

var transitions = map[domain.IncidentStatus][]domain.IncidentStatus{
	domain.IncidentStatusDraft: {
		domain.IncidentStatusReported,
		domain.IncidentStatusCancelledTenant,
	},
	domain.IncidentStatusReported: {
		domain.IncidentStatusInCharge,
		domain.IncidentStatusCancelledOwner,
		domain.IncidentStatusCancelledTenant,
	},
	domain.IncidentStatusInCharge: {
		domain.IncidentStatusInProgress,
		domain.IncidentStatusCancelledOwner,
		domain.IncidentStatusCancelledTenant,
	},
	domain.IncidentStatusInProgress: {
		domain.IncidentStatusResolved,
		domain.IncidentStatusCancelledOwner,
		domain.IncidentStatusCancelledTenant,
	},
	domain.IncidentStatusResolved: {
		domain.IncidentStatusClosed,
	},
	domain.IncidentStatusCancelledOwner:  nil,
	domain.IncidentStatusCancelledTenant: nil,
	domain.IncidentStatusClosed:          nil,
}

// AllowedTransitions returns a copy of the statuses reachable from from.
func AllowedTransitions(from domain.IncidentStatus) []domain.IncidentStatus {
	return append([]domain.IncidentStatus(nil), transitions[from]...)
}

func CanTransition(from, to domain.IncidentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func IsTerminal(status domain.IncidentStatus) bool {
	return len(transitions[status]) == 0
}

// Transition returns a copy of incident moved to status to, stamped with now.
// The input is never modified; on error the zero Incident is returned.
func Transition(incident domain.Incident, to domain.IncidentStatus, now time.Time) (domain.Incident, error) {
	if !CanTransition(incident.Status, to) {
		return domain.Incident{}, &InvalidTransitionError{From: incident.Status, To: to}
	}
	updated := incident.Clone()
	updated.Status = to
	updated.UpdatedAt = now
	return updated, nil
}
