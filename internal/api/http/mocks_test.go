package http_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/service"
)

// MockAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*domain.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.User), args.Error(2)
}

// MockPropertyService
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) CreateProperty(ctx context.Context, ownerID int32, property *domain.Property) error {
	args := m.Called(ctx, ownerID, property)
	return args.Error(0)
}
func (m *MockPropertyService) GetProperty(ctx context.Context, id int32) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyService) UpdateProperty(ctx context.Context, ownerID int32, property *domain.Property) error {
	args := m.Called(ctx, ownerID, property)
	return args.Error(0)
}
func (m *MockPropertyService) DeleteProperty(ctx context.Context, ownerID, id int32) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}
func (m *MockPropertyService) ListMyProperties(ctx context.Context, ownerID int32) ([]domain.Property, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Property), args.Error(1)
}
func (m *MockPropertyService) ListAvailable(ctx context.Context, city string, page, pageSize int32) ([]domain.Property, int32, error) {
	args := m.Called(ctx, city, page, pageSize)
	return args.Get(0).([]domain.Property), args.Get(1).(int32), args.Error(2)
}
func (m *MockPropertyService) SetCriteria(ctx context.Context, ownerID, propertyID int32, criteria *domain.TenantCriteria) (*domain.Property, error) {
	args := m.Called(ctx, ownerID, propertyID, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyService) EndTenancy(ctx context.Context, ownerID, propertyID int32) (*domain.Property, error) {
	args := m.Called(ctx, ownerID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

// MockApplicationService
type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) application(args mock.Arguments) (*domain.Application, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationService) Submit(ctx context.Context, tenantID, propertyID int32, in service.SubmitApplicationInput) (*domain.Application, error) {
	return m.application(m.Called(ctx, tenantID, propertyID, in))
}
func (m *MockApplicationService) GetApplication(ctx context.Context, userID, applicationID int32) (*domain.Application, error) {
	return m.application(m.Called(ctx, userID, applicationID))
}
func (m *MockApplicationService) ListMine(ctx context.Context, tenantID int32) ([]domain.Application, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationService) ListForProperty(ctx context.Context, ownerID, propertyID int32) ([]domain.ApplicationWithMatch, error) {
	args := m.Called(ctx, ownerID, propertyID)
	return args.Get(0).([]domain.ApplicationWithMatch), args.Error(1)
}
func (m *MockApplicationService) Evaluate(ctx context.Context, ownerID, applicationID int32) (*domain.MatchingResult, error) {
	args := m.Called(ctx, ownerID, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MatchingResult), args.Error(1)
}
func (m *MockApplicationService) Accept(ctx context.Context, ownerID, applicationID int32) (*domain.Application, error) {
	return m.application(m.Called(ctx, ownerID, applicationID))
}
func (m *MockApplicationService) Reject(ctx context.Context, ownerID, applicationID int32) (*domain.Application, error) {
	return m.application(m.Called(ctx, ownerID, applicationID))
}
func (m *MockApplicationService) Cancel(ctx context.Context, tenantID, applicationID int32) (*domain.Application, error) {
	return m.application(m.Called(ctx, tenantID, applicationID))
}

// MockIncidentService
type MockIncidentService struct {
	mock.Mock
}

func (m *MockIncidentService) incident(args mock.Arguments) (*domain.Incident, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Incident), args.Error(1)
}
func (m *MockIncidentService) CreateIncident(ctx context.Context, tenantID int32, in service.CreateIncidentInput) (*domain.Incident, error) {
	return m.incident(m.Called(ctx, tenantID, in))
}
func (m *MockIncidentService) GetIncident(ctx context.Context, userID, incidentID int32) (*domain.Incident, error) {
	return m.incident(m.Called(ctx, userID, incidentID))
}
func (m *MockIncidentService) ListMine(ctx context.Context, tenantID int32, statuses []domain.IncidentStatus) ([]domain.Incident, error) {
	args := m.Called(ctx, tenantID, statuses)
	return args.Get(0).([]domain.Incident), args.Error(1)
}
func (m *MockIncidentService) ListByProperty(ctx context.Context, ownerID, propertyID int32, statuses []domain.IncidentStatus) ([]domain.Incident, error) {
	args := m.Called(ctx, ownerID, propertyID, statuses)
	return args.Get(0).([]domain.Incident), args.Error(1)
}
func (m *MockIncidentService) Transition(ctx context.Context, actorID, incidentID int32, to domain.IncidentStatus, note string) (*domain.Incident, error) {
	return m.incident(m.Called(ctx, actorID, incidentID, to, note))
}
func (m *MockIncidentService) Schedule(ctx context.Context, ownerID, incidentID int32, date *time.Time, estimatedCostCents *int32) (*domain.Incident, error) {
	return m.incident(m.Called(ctx, ownerID, incidentID, date, estimatedCostCents))
}
func (m *MockIncidentService) AddComment(ctx context.Context, actorID, incidentID int32, content string) (*domain.Incident, error) {
	return m.incident(m.Called(ctx, actorID, incidentID, content))
}
func (m *MockIncidentService) AddPhoto(ctx context.Context, tenantID, incidentID int32, upload service.PhotoUpload) (*domain.Incident, error) {
	return m.incident(m.Called(ctx, tenantID, incidentID, upload))
}
func (m *MockIncidentService) DeleteIncident(ctx context.Context, actorID, incidentID int32) error {
	args := m.Called(ctx, actorID, incidentID)
	return args.Error(0)
}

// MockNotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Get(2).(int32), args.Error(3)
}
func (m *MockNotificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}
