package lifecycle

import (
	"context"
	"time"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/logger"
)

// IncidentStore persists an updated incident. The write must fail with
// domain.ErrConflict when the stored row no longer carries expectedUpdatedAt.
type IncidentStore interface {
	Update(ctx context.Context, incident *domain.Incident, expectedUpdatedAt time.Time) error
}

// Notifier delivers a notification to its recipient.
type Notifier interface {
	Create(ctx context.Context, note *domain.Notification) error
}

// Machine applies transitions, persists the result and notifies the
// counter-party.
type Machine struct {
	store    IncidentStore
	notifier Notifier
	now      func() time.Time
}

func NewMachine(store IncidentStore, notifier Notifier) *Machine {
	return &Machine{store: store, notifier: notifier, now: time.Now}
}

// WithClock replaces the time source, used by tests and jobs.
func (m *Machine) WithClock(now func() time.Time) *Machine {
	m.now = now
	return m
}

// Transition moves current to status to and notifies recipientID. A failed
// persist is returned and nothing is sent. A failed notification is logged
// only: the transition has already happened.
func (m *Machine) Transition(ctx context.Context, current *domain.Incident, to domain.IncidentStatus, recipientID int32) (*domain.Incident, error) {
	logger.EnterMethod("lifecycle.Transition", "incidentID", current.ID, "from", current.Status, "to", to)

	updated, err := Transition(*current, to, m.now())
	if err != nil {
		logger.ExitMethodWithError("lifecycle.Transition", err, "incidentID", current.ID)
		return nil, err
	}

	if err := m.store.Update(ctx, &updated, current.UpdatedAt); err != nil {
		logger.ExitMethodWithError("lifecycle.Transition", err, "incidentID", current.ID, "reason", "persist failed")
		return nil, err
	}

	if updated.Status != current.Status {
		m.Notify(ctx, &updated, current.Status, recipientID)
	}

	logger.ExitMethod("lifecycle.Transition", "incidentID", updated.ID, "status", updated.Status)
	return &updated, nil
}

// Notify sends the status notice for incident without changing it.
func (m *Machine) Notify(ctx context.Context, incident *domain.Incident, previous domain.IncidentStatus, recipientID int32) {
	if m.notifier == nil || recipientID == 0 {
		return
	}
	note := NewNotification(incident, previous, recipientID)
	if err := m.notifier.Create(ctx, note); err != nil {
		logger.Warn("Failed to create incident notification", "incidentID", incident.ID, "userID", recipientID, "error", err)
	}
}
