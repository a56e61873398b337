package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentdesk-backend/internal/domain"
)

func TestTransitionTable_Complete(t *testing.T) {
	terminal := map[domain.IncidentStatus]bool{
		domain.IncidentStatusCancelledOwner:  true,
		domain.IncidentStatusCancelledTenant: true,
		domain.IncidentStatusClosed:          true,
	}

	for _, status := range domain.IncidentStatuses {
		next, ok := transitions[status]
		require.True(t, ok, "missing table entry for %s", status)
		if terminal[status] {
			assert.Empty(t, next, "%s must be terminal", status)
			assert.True(t, IsTerminal(status))
			continue
		}
		assert.NotEmpty(t, next, "%s must have successors", status)
		assert.False(t, IsTerminal(status))
		for _, to := range next {
			assert.True(t, to.Valid(), "%s -> %s targets an unknown status", status, to)
			assert.NotEqual(t, status, to)
		}
	}
	assert.Len(t, transitions, len(domain.IncidentStatuses))
}

func TestTransition_SucceedsIffAllowed(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for _, from := range domain.IncidentStatuses {
		for _, to := range domain.IncidentStatuses {
			incident := domain.Incident{ID: 1, Status: from}
			updated, err := Transition(incident, to, now)

			allowed := false
			for _, next := range AllowedTransitions(from) {
				if next == to {
					allowed = true
				}
			}

			if allowed {
				require.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, to, updated.Status)
				assert.Equal(t, now, updated.UpdatedAt)
			} else {
				require.Error(t, err, "%s -> %s", from, to)
				assert.True(t, errors.Is(err, ErrInvalidTransition))
			}
			assert.Equal(t, from, incident.Status)
		}
	}
}

func TestTransition_DraftToReported(t *testing.T) {
	created := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	now := created.Add(2 * time.Hour)
	cost := int32(12000)
	incident := domain.Incident{
		ID:                 7,
		PropertyID:         3,
		TenantID:           5,
		Type:               domain.IncidentTypePlumbing,
		Room:               domain.RoomKitchen,
		Status:             domain.IncidentStatusDraft,
		Title:              "Leaking sink",
		Photos:             []domain.IncidentPhoto{{ID: "p1", URL: "/uploads/p1.jpg"}},
		Comments:           []domain.IncidentComment{{ID: "c1", AuthorID: 5, Content: "Started yesterday"}},
		CreatedAt:          created,
		UpdatedAt:          created,
		EstimatedCostCents: &cost,
	}

	updated, err := Transition(incident, domain.IncidentStatusReported, now)
	require.NoError(t, err)
	assert.Equal(t, domain.IncidentStatusReported, updated.Status)
	assert.Equal(t, now, updated.UpdatedAt)
	assert.Equal(t, created, updated.CreatedAt)
	assert.Equal(t, incident.Photos, updated.Photos)
	assert.Equal(t, incident.Comments, updated.Comments)
	assert.Equal(t, incident.Title, updated.Title)

	// the original is untouched and not aliased
	assert.Equal(t, domain.IncidentStatusDraft, incident.Status)
	assert.Equal(t, created, incident.UpdatedAt)
	updated.Photos[0].URL = "changed"
	*updated.EstimatedCostCents = 1
	assert.Equal(t, "/uploads/p1.jpg", incident.Photos[0].URL)
	assert.Equal(t, int32(12000), *incident.EstimatedCostCents)

	_, err = Transition(updated, domain.IncidentStatusResolved, now)
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, domain.IncidentStatusReported, invalid.From)
	assert.Equal(t, domain.IncidentStatusResolved, invalid.To)
}

func TestTransition_TerminalStatesRejectEverything(t *testing.T) {
	for _, from := range []domain.IncidentStatus{
		domain.IncidentStatusClosed,
		domain.IncidentStatusCancelledOwner,
		domain.IncidentStatusCancelledTenant,
	} {
		for _, to := range domain.IncidentStatuses {
			_, err := Transition(domain.Incident{Status: from}, to, time.Now())
			assert.ErrorIs(t, err, ErrInvalidTransition)
		}
	}
}

func TestSeverityAndMessage(t *testing.T) {
	assert.Equal(t, domain.SeveritySuccess, Severity(domain.IncidentStatusResolved))
	assert.Equal(t, domain.SeveritySuccess, Severity(domain.IncidentStatusClosed))
	assert.Equal(t, domain.SeverityWarning, Severity(domain.IncidentStatusCancelledOwner))
	assert.Equal(t, domain.SeverityWarning, Severity(domain.IncidentStatusCancelledTenant))
	assert.Equal(t, domain.SeverityInfo, Severity(domain.IncidentStatusReported))
	assert.Equal(t, domain.SeverityInfo, Severity(domain.IncidentStatusInProgress))

	seen := map[string]domain.IncidentStatus{}
	for _, status := range domain.IncidentStatuses {
		msg := Message(status)
		assert.NotEmpty(t, msg)
		prev, dup := seen[msg]
		assert.False(t, dup, "%s and %s share a message", prev, status)
		seen[msg] = status
	}
}
