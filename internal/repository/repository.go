package repository

import (
	"context"
	"time"

	"rentdesk-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type PropertyRepository interface {
	Create(ctx context.Context, property *domain.Property) error
	GetByID(ctx context.Context, id int32) (*domain.Property, error)
	// Update fails with domain.ErrConflict when the stored updated_on differs
	// from expectedUpdatedOn.
	Update(ctx context.Context, property *domain.Property, expectedUpdatedOn time.Time) error
	Delete(ctx context.Context, id int32) error
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Property, error)
	ListAvailable(ctx context.Context, city string, page, pageSize int32) ([]domain.Property, int32, error)
	GetByTenant(ctx context.Context, tenantID int32) ([]domain.Property, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id int32) (*domain.Application, error)
	// UpdateStatus only succeeds while the stored status equals from.
	UpdateStatus(ctx context.Context, id int32, from, to domain.ApplicationStatus) error
	// Accept marks a pending application accepted, assigns its tenant to a
	// property without tenant and rejects the other pending applications of
	// that property, all in one transaction. It fails with domain.ErrConflict
	// when the application is no longer pending or the property is taken.
	// The rejected applications are returned.
	Accept(ctx context.Context, app *domain.Application, decidedAt time.Time) ([]domain.Application, error)
	ListByProperty(ctx context.Context, propertyID int32) ([]domain.Application, error)
	ListByTenant(ctx context.Context, tenantID int32) ([]domain.Application, error)
}

type IncidentRepository interface {
	Create(ctx context.Context, incident *domain.Incident) error
	GetByID(ctx context.Context, id int32) (*domain.Incident, error)
	// Update fails with domain.ErrConflict when the stored updated_at differs
	// from expectedUpdatedAt.
	Update(ctx context.Context, incident *domain.Incident, expectedUpdatedAt time.Time) error
	Delete(ctx context.Context, id int32) error
	// An empty statuses filter lists every incident.
	ListByProperty(ctx context.Context, propertyID int32, statuses []domain.IncidentStatus) ([]domain.Incident, error)
	ListByTenant(ctx context.Context, tenantID int32, statuses []domain.IncidentStatus) ([]domain.Incident, error)
	ListByStatusBefore(ctx context.Context, status domain.IncidentStatus, before time.Time) ([]domain.Incident, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	CountUnread(ctx context.Context, userID int32) (int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
