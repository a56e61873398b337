package domain

import "time"

type NotificationSeverity string

const (
	SeverityInfo    NotificationSeverity = "info"
	SeveritySuccess NotificationSeverity = "success"
	SeverityWarning NotificationSeverity = "warning"
)

type Notification struct {
	ID         int32                `json:"id"`
	UserID     int32                `json:"user_id"`
	Title      string               `json:"title"`
	Message    string               `json:"message"`
	Severity   NotificationSeverity `json:"severity"`
	IsRead     bool                 `json:"is_read"`
	Attributes map[string]string    `json:"attributes"`
	CreatedOn  time.Time            `json:"created_on"`
}
