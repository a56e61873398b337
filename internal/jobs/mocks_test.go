package jobs

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"rentdesk-backend/internal/domain"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockPropertyRepo
type MockPropertyRepo struct {
	mock.Mock
}

func (m *MockPropertyRepo) Create(ctx context.Context, property *domain.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}
func (m *MockPropertyRepo) GetByID(ctx context.Context, id int32) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyRepo) Update(ctx context.Context, property *domain.Property, expectedUpdatedOn time.Time) error {
	args := m.Called(ctx, property, expectedUpdatedOn)
	return args.Error(0)
}
func (m *MockPropertyRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockPropertyRepo) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Property, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Property), args.Error(1)
}
func (m *MockPropertyRepo) ListAvailable(ctx context.Context, city string, page, pageSize int32) ([]domain.Property, int32, error) {
	args := m.Called(ctx, city, page, pageSize)
	return args.Get(0).([]domain.Property), args.Get(1).(int32), args.Error(2)
}
func (m *MockPropertyRepo) GetByTenant(ctx context.Context, tenantID int32) ([]domain.Property, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]domain.Property), args.Error(1)
}

// MockIncidentRepo
type MockIncidentRepo struct {
	mock.Mock
}

func (m *MockIncidentRepo) Create(ctx context.Context, incident *domain.Incident) error {
	args := m.Called(ctx, incident)
	return args.Error(0)
}
func (m *MockIncidentRepo) GetByID(ctx context.Context, id int32) (*domain.Incident, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Incident), args.Error(1)
}
func (m *MockIncidentRepo) Update(ctx context.Context, incident *domain.Incident, expectedUpdatedAt time.Time) error {
	args := m.Called(ctx, incident, expectedUpdatedAt)
	return args.Error(0)
}
func (m *MockIncidentRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockIncidentRepo) ListByProperty(ctx context.Context, propertyID int32, statuses []domain.IncidentStatus) ([]domain.Incident, error) {
	args := m.Called(ctx, propertyID, statuses)
	return args.Get(0).([]domain.Incident), args.Error(1)
}
func (m *MockIncidentRepo) ListByTenant(ctx context.Context, tenantID int32, statuses []domain.IncidentStatus) ([]domain.Incident, error) {
	args := m.Called(ctx, tenantID, statuses)
	return args.Get(0).([]domain.Incident), args.Error(1)
}
func (m *MockIncidentRepo) ListByStatusBefore(ctx context.Context, status domain.IncidentStatus, before time.Time) ([]domain.Incident, error) {
	args := m.Called(ctx, status, before)
	return args.Get(0).([]domain.Incident), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) CountUnread(ctx context.Context, userID int32) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendIncidentStatusEmail(ctx context.Context, toEmail, toName, incidentTitle string, status domain.IncidentStatus, message string) error {
	args := m.Called(ctx, toEmail, toName, incidentTitle, status, message)
	return args.Error(0)
}
func (m *MockEmailService) SendApplicationReceivedEmail(ctx context.Context, ownerEmail, ownerName, tenantName, propertyTitle string) error {
	args := m.Called(ctx, ownerEmail, ownerName, tenantName, propertyTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendApplicationDecisionEmail(ctx context.Context, tenantEmail, tenantName, propertyTitle string, status domain.ApplicationStatus) error {
	args := m.Called(ctx, tenantEmail, tenantName, propertyTitle, status)
	return args.Error(0)
}
func (m *MockEmailService) SendDraftReminderEmail(ctx context.Context, tenantEmail, tenantName, incidentTitle string) error {
	args := m.Called(ctx, tenantEmail, tenantName, incidentTitle)
	return args.Error(0)
}
