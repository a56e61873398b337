package jobs

import (
	"context"
	"strconv"
	"time"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/logger"
)

const day = 24 * time.Hour

// CloseResolvedIncidents closes incidents that stayed resolved longer than
// the configured delay. Both parties are told.
func (jr *JobRunner) CloseResolvedIncidents() {
	jr.runWithRecovery("CloseResolvedIncidents", func() {
		closed, err := jr.closeResolvedIncidents(context.Background())
		if err != nil {
			logger.Error("Failed to close resolved incidents", "error", err)
			return
		}
		logger.Info("Closed resolved incidents", "count", closed)
	})
}

func (jr *JobRunner) closeResolvedIncidents(ctx context.Context) (int, error) {
	cutoff := jr.now().Add(-time.Duration(jr.config.AutoCloseAfterDays) * day)
	incidents, err := jr.repos.Incident.ListByStatusBefore(ctx, domain.IncidentStatusResolved, cutoff)
	if err != nil {
		return 0, err
	}

	closed := 0
	for i := range incidents {
		incident := &incidents[i]
		property, err := jr.repos.Property.GetByID(ctx, incident.PropertyID)
		if err != nil {
			logger.Error("Failed to load property for incident", "incidentID", incident.ID, "error", err)
			continue
		}

		updated, err := jr.machine.Transition(ctx, incident, domain.IncidentStatusClosed, incident.TenantID)
		if err != nil {
			// a concurrent update by a user wins; the incident is retried next run
			logger.Warn("Failed to close incident", "incidentID", incident.ID, "error", err)
			continue
		}
		// no party acted, so the owner is told as well
		jr.machine.Notify(ctx, updated, incident.Status, property.OwnerID)
		closed++
	}
	return closed, nil
}

// SendDraftReminders reminds tenants of drafts that crossed the configured
// age during the last day, so each draft is reminded once.
func (jr *JobRunner) SendDraftReminders() {
	jr.runWithRecovery("SendDraftReminders", func() {
		sent, err := jr.sendDraftReminders(context.Background())
		if err != nil {
			logger.Error("Failed to send draft reminders", "error", err)
			return
		}
		logger.Info("Sent draft reminders", "count", sent)
	})
}

func (jr *JobRunner) sendDraftReminders(ctx context.Context) (int, error) {
	cutoff := jr.now().Add(-time.Duration(jr.config.DraftReminderAfterDays) * day)
	drafts, err := jr.repos.Incident.ListByStatusBefore(ctx, domain.IncidentStatusDraft, cutoff)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, draft := range drafts {
		if !draft.UpdatedAt.After(cutoff.Add(-day)) {
			continue
		}
		note := &domain.Notification{
			UserID:   draft.TenantID,
			Title:    "Incident: " + draft.Title,
			Message:  "This incident is still a draft and has not been sent to your landlord.",
			Severity: domain.SeverityInfo,
			Attributes: map[string]string{
				"type":        "INCIDENT_DRAFT_REMINDER",
				"incident_id": strconv.Itoa(int(draft.ID)),
				"property_id": strconv.Itoa(int(draft.PropertyID)),
			},
		}
		if err := jr.repos.Notification.Create(ctx, note); err != nil {
			logger.Error("Failed to create draft reminder", "incidentID", draft.ID, "error", err)
			continue
		}
		sent++

		tenant, err := jr.repos.User.GetByID(ctx, draft.TenantID)
		if err != nil {
			logger.Warn("Failed to load tenant for draft reminder", "tenantID", draft.TenantID, "error", err)
			continue
		}
		if err := jr.email.SendDraftReminderEmail(ctx, tenant.Email, tenant.Name, draft.Title); err != nil {
			logger.Warn("Failed to send draft reminder email", "incidentID", draft.ID, "error", err)
		}
	}
	return sent, nil
}
