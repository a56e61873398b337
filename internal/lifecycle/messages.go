package lifecycle

import (
	"fmt"

	"rentdesk-backend/internal/domain"
)

var statusMessages = map[domain.IncidentStatus]string{
	domain.IncidentStatusDraft:           "The incident has been saved as a draft.",
	domain.IncidentStatusReported:        "A new incident has been reported on your property.",
	domain.IncidentStatusInCharge:        "Your incident has been taken in charge by the owner.",
	domain.IncidentStatusInProgress:      "Repair work on your incident is in progress.",
	domain.IncidentStatusResolved:        "Your incident has been marked as resolved.",
	domain.IncidentStatusCancelledTenant: "The incident has been cancelled by the tenant.",
	domain.IncidentStatusCancelledOwner:  "The incident has been cancelled by the owner.",
	domain.IncidentStatusClosed:          "The incident has been closed.",
}

// Message is the fixed sentence sent to the counter-party when an incident
// enters status.
func Message(status domain.IncidentStatus) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return fmt.Sprintf("The incident status changed to %s.", status)
}

func Severity(status domain.IncidentStatus) domain.NotificationSeverity {
	switch status {
	case domain.IncidentStatusResolved, domain.IncidentStatusClosed:
		return domain.SeveritySuccess
	case domain.IncidentStatusCancelledOwner, domain.IncidentStatusCancelledTenant:
		return domain.SeverityWarning
	default:
		return domain.SeverityInfo
	}
}

// NewNotification builds the status-change notice for recipientID.
func NewNotification(incident *domain.Incident, previous domain.IncidentStatus, recipientID int32) *domain.Notification {
	return &domain.Notification{
		UserID:   recipientID,
		Title:    fmt.Sprintf("Incident: %s", incident.Title),
		Message:  Message(incident.Status),
		Severity: Severity(incident.Status),
		Attributes: map[string]string{
			"type":            "INCIDENT_STATUS_CHANGED",
			"incident_id":     fmt.Sprintf("%d", incident.ID),
			"property_id":     fmt.Sprintf("%d", incident.PropertyID),
			"status":          string(incident.Status),
			"previous_status": string(previous),
		},
	}
}
