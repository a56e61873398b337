package service

import (
	"context"
	"io"
	"time"

	"rentdesk-backend/internal/domain"
)

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

type PropertyService interface {
	CreateProperty(ctx context.Context, ownerID int32, property *domain.Property) error
	GetProperty(ctx context.Context, id int32) (*domain.Property, error)
	UpdateProperty(ctx context.Context, ownerID int32, property *domain.Property) error
	DeleteProperty(ctx context.Context, ownerID, id int32) error
	ListMyProperties(ctx context.Context, ownerID int32) ([]domain.Property, error)
	ListAvailable(ctx context.Context, city string, page, pageSize int32) ([]domain.Property, int32, error)
	SetCriteria(ctx context.Context, ownerID, propertyID int32, criteria *domain.TenantCriteria) (*domain.Property, error)
	EndTenancy(ctx context.Context, ownerID, propertyID int32) (*domain.Property, error)
}

type ApplicationService interface {
	Submit(ctx context.Context, tenantID, propertyID int32, in SubmitApplicationInput) (*domain.Application, error)
	GetApplication(ctx context.Context, userID, applicationID int32) (*domain.Application, error)
	ListMine(ctx context.Context, tenantID int32) ([]domain.Application, error)
	ListForProperty(ctx context.Context, ownerID, propertyID int32) ([]domain.ApplicationWithMatch, error)
	Evaluate(ctx context.Context, ownerID, applicationID int32) (*domain.MatchingResult, error)
	Accept(ctx context.Context, ownerID, applicationID int32) (*domain.Application, error)
	Reject(ctx context.Context, ownerID, applicationID int32) (*domain.Application, error)
	Cancel(ctx context.Context, tenantID, applicationID int32) (*domain.Application, error)
}

type IncidentService interface {
	CreateIncident(ctx context.Context, tenantID int32, in CreateIncidentInput) (*domain.Incident, error)
	GetIncident(ctx context.Context, userID, incidentID int32) (*domain.Incident, error)
	ListMine(ctx context.Context, tenantID int32, statuses []domain.IncidentStatus) ([]domain.Incident, error)
	ListByProperty(ctx context.Context, ownerID, propertyID int32, statuses []domain.IncidentStatus) ([]domain.Incident, error)
	Transition(ctx context.Context, actorID, incidentID int32, to domain.IncidentStatus, note string) (*domain.Incident, error)
	Schedule(ctx context.Context, ownerID, incidentID int32, date *time.Time, estimatedCostCents *int32) (*domain.Incident, error)
	AddComment(ctx context.Context, actorID, incidentID int32, content string) (*domain.Incident, error)
	AddPhoto(ctx context.Context, tenantID, incidentID int32, upload PhotoUpload) (*domain.Incident, error)
	DeleteIncident(ctx context.Context, actorID, incidentID int32) error
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendIncidentStatusEmail(ctx context.Context, toEmail, toName, incidentTitle string, status domain.IncidentStatus, message string) error
	SendApplicationReceivedEmail(ctx context.Context, ownerEmail, ownerName, tenantName, propertyTitle string) error
	SendApplicationDecisionEmail(ctx context.Context, tenantEmail, tenantName, propertyTitle string, status domain.ApplicationStatus) error
	SendDraftReminderEmail(ctx context.Context, tenantEmail, tenantName, incidentTitle string) error
}

type RegisterInput struct {
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	PhoneNumber string          `json:"phone_number"`
	Password    string          `json:"password"`
	Role        domain.UserRole `json:"role"`
}

type SubmitApplicationInput struct {
	Applicant domain.ApplicantProfile
	Message   string
}

type CreateIncidentInput struct {
	PropertyID  int32               `json:"property_id"`
	Type        domain.IncidentType `json:"type"`
	Room        domain.IncidentRoom `json:"room"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Submit      bool                `json:"submit"`
}

type PhotoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
