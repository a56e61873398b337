package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/logger"
	"rentdesk-backend/internal/matching"
	"rentdesk-backend/internal/repository"
)

type applicationService struct {
	appRepo  repository.ApplicationRepository
	propRepo repository.PropertyRepository
	userRepo repository.UserRepository
	noteRepo repository.NotificationRepository
	emailSvc EmailService
	now      func() time.Time
}

func NewApplicationService(
	appRepo repository.ApplicationRepository,
	propRepo repository.PropertyRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
) ApplicationService {
	return &applicationService{
		appRepo:  appRepo,
		propRepo: propRepo,
		userRepo: userRepo,
		noteRepo: noteRepo,
		emailSvc: emailSvc,
		now:      time.Now,
	}
}

func (s *applicationService) Submit(ctx context.Context, tenantID, propertyID int32, in SubmitApplicationInput) (*domain.Application, error) {
	logger.EnterMethod("applicationService.Submit", "tenantID", tenantID, "propertyID", propertyID)

	property, err := s.propRepo.GetByID(ctx, propertyID)
	if err != nil {
		logger.ExitMethodWithError("applicationService.Submit", err)
		return nil, err
	}
	if !property.Available {
		err := fmt.Errorf("%w: property is not available", domain.ErrInvalidInput)
		logger.ExitMethodWithError("applicationService.Submit", err)
		return nil, err
	}
	profile := in.Applicant
	now := s.now()
	if profile.Age == 0 && profile.BirthDate != nil {
		profile.Age = domain.AgeAt(*profile.BirthDate, now)
	}
	if err := validateSubmission(property, tenantID, profile); err != nil {
		logger.ExitMethodWithError("applicationService.Submit", err)
		return nil, err
	}

	existing, err := s.appRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		logger.ExitMethodWithError("applicationService.Submit", err)
		return nil, err
	}
	for _, a := range existing {
		if a.PropertyID == propertyID && a.Status == domain.ApplicationStatusPending {
			err := fmt.Errorf("%w: a pending application already exists for this property", domain.ErrConflict)
			logger.ExitMethodWithError("applicationService.Submit", err)
			return nil, err
		}
	}

	app := &domain.Application{
		PropertyID: propertyID,
		TenantID:   tenantID,
		Applicant:  profile,
		Message:    in.Message,
		Status:     domain.ApplicationStatusPending,
		CreatedOn:  now,
		UpdatedOn:  now,
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		logger.ExitMethodWithError("applicationService.Submit", err)
		return nil, err
	}

	tenantName := "A tenant"
	if tenant, err := s.userRepo.GetByID(ctx, tenantID); err != nil {
		logger.Warn("Failed to load applicant for notification", "tenantID", tenantID, "error", err)
	} else {
		tenantName = tenant.Name
	}
	owner, err := s.userRepo.GetByID(ctx, property.OwnerID)
	if err != nil {
		logger.Warn("Failed to load owner for application email", "ownerID", property.OwnerID, "error", err)
	}
	notify(ctx, s.noteRepo, &domain.Notification{
		UserID:     property.OwnerID,
		Title:      "New application",
		Message:    fmt.Sprintf("%s applied for %s.", tenantName, property.Title),
		Severity:   domain.SeverityInfo,
		Attributes: applicationAttributes("APPLICATION_SUBMITTED", app),
	})
	if owner != nil {
		if err := s.emailSvc.SendApplicationReceivedEmail(ctx, owner.Email, owner.Name, tenantName, property.Title); err != nil {
			logger.Warn("Failed to send application email", "applicationID", app.ID, "error", err)
		}
	}

	logger.ExitMethod("applicationService.Submit", "applicationID", app.ID)
	return app, nil
}

func validateSubmission(property *domain.Property, tenantID int32, profile domain.ApplicantProfile) error {
	switch {
	case property.OwnerID == tenantID:
		return fmt.Errorf("%w: cannot apply to your own property", domain.ErrInvalidInput)
	case !profile.CurrentSituation.Valid():
		return fmt.Errorf("%w: unknown situation %q", domain.ErrInvalidInput, profile.CurrentSituation)
	case profile.MonthlyIncome.IsNegative():
		return fmt.Errorf("%w: income cannot be negative", domain.ErrInvalidInput)
	case profile.Age < 0:
		return fmt.Errorf("%w: age cannot be negative", domain.ErrInvalidInput)
	}
	return nil
}

// GetApplication is visible to the applicant and to the owner of the property.
func (s *applicationService) GetApplication(ctx context.Context, userID, applicationID int32) (*domain.Application, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.TenantID == userID {
		return app, nil
	}
	if _, err := ownedProperty(ctx, s.propRepo, userID, app.PropertyID); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *applicationService) ListMine(ctx context.Context, tenantID int32) ([]domain.Application, error) {
	return s.appRepo.ListByTenant(ctx, tenantID)
}

func (s *applicationService) ListForProperty(ctx context.Context, ownerID, propertyID int32) ([]domain.ApplicationWithMatch, error) {
	property, err := ownedProperty(ctx, s.propRepo, ownerID, propertyID)
	if err != nil {
		return nil, err
	}
	apps, err := s.appRepo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	result := make([]domain.ApplicationWithMatch, 0, len(apps))
	for i := range apps {
		result = append(result, domain.ApplicationWithMatch{
			Application: apps[i],
			Match:       matching.MatchCriteria(&apps[i], property),
		})
	}
	return result, nil
}

func (s *applicationService) Evaluate(ctx context.Context, ownerID, applicationID int32) (*domain.MatchingResult, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	property, err := ownedProperty(ctx, s.propRepo, ownerID, app.PropertyID)
	if err != nil {
		return nil, err
	}
	result := matching.MatchCriteria(app, property)
	return &result, nil
}

// Accept assigns the applicant as the tenant of the property, takes the
// property off the market and rejects the other pending applications. The
// writes happen atomically in the repository.
func (s *applicationService) Accept(ctx context.Context, ownerID, applicationID int32) (*domain.Application, error) {
	logger.EnterMethod("applicationService.Accept", "ownerID", ownerID, "applicationID", applicationID)

	app, property, err := s.loadForOwner(ctx, ownerID, applicationID)
	if err != nil {
		logger.ExitMethodWithError("applicationService.Accept", err)
		return nil, err
	}
	if property.TenantID != nil {
		err := fmt.Errorf("%w: property already has a tenant", domain.ErrConflict)
		logger.ExitMethodWithError("applicationService.Accept", err)
		return nil, err
	}
	if app.Status != domain.ApplicationStatusPending {
		err := fmt.Errorf("%w: application is %s", domain.ErrInvalidInput, app.Status)
		logger.ExitMethodWithError("applicationService.Accept", err)
		return nil, err
	}

	rejected, err := s.appRepo.Accept(ctx, app, s.now())
	if err != nil {
		logger.ExitMethodWithError("applicationService.Accept", err)
		return nil, err
	}

	tenantID := app.TenantID
	property.TenantID = &tenantID
	property.Available = false
	s.notifyDecision(ctx, app, property)
	for i := range rejected {
		s.notifyDecision(ctx, &rejected[i], property)
	}

	logger.ExitMethod("applicationService.Accept", "applicationID", app.ID, "propertyID", property.ID, "rejected", len(rejected))
	return app, nil
}

func (s *applicationService) Reject(ctx context.Context, ownerID, applicationID int32) (*domain.Application, error) {
	logger.EnterMethod("applicationService.Reject", "ownerID", ownerID, "applicationID", applicationID)

	app, property, err := s.loadForOwner(ctx, ownerID, applicationID)
	if err != nil {
		logger.ExitMethodWithError("applicationService.Reject", err)
		return nil, err
	}
	if err := s.setStatus(ctx, app, domain.ApplicationStatusRejected); err != nil {
		logger.ExitMethodWithError("applicationService.Reject", err)
		return nil, err
	}
	s.notifyDecision(ctx, app, property)

	logger.ExitMethod("applicationService.Reject", "applicationID", app.ID)
	return app, nil
}

func (s *applicationService) Cancel(ctx context.Context, tenantID, applicationID int32) (*domain.Application, error) {
	logger.EnterMethod("applicationService.Cancel", "tenantID", tenantID, "applicationID", applicationID)

	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		logger.ExitMethodWithError("applicationService.Cancel", err)
		return nil, err
	}
	if app.TenantID != tenantID {
		return nil, fmt.Errorf("%w: not your application", domain.ErrUnauthorized)
	}
	if err := s.setStatus(ctx, app, domain.ApplicationStatusCancelled); err != nil {
		logger.ExitMethodWithError("applicationService.Cancel", err)
		return nil, err
	}

	if property, err := s.propRepo.GetByID(ctx, app.PropertyID); err == nil {
		notify(ctx, s.noteRepo, &domain.Notification{
			UserID:     property.OwnerID,
			Title:      "Application withdrawn",
			Message:    fmt.Sprintf("An application for %s has been withdrawn.", property.Title),
			Severity:   domain.SeverityInfo,
			Attributes: applicationAttributes("APPLICATION_CANCELLED", app),
		})
	}

	logger.ExitMethod("applicationService.Cancel", "applicationID", app.ID)
	return app, nil
}

func (s *applicationService) loadForOwner(ctx context.Context, ownerID, applicationID int32) (*domain.Application, *domain.Property, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, nil, err
	}
	property, err := ownedProperty(ctx, s.propRepo, ownerID, app.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	return app, property, nil
}

// setStatus moves a pending application to a decision status.
func (s *applicationService) setStatus(ctx context.Context, app *domain.Application, to domain.ApplicationStatus) error {
	if app.Status != domain.ApplicationStatusPending {
		return fmt.Errorf("%w: application is %s", domain.ErrInvalidInput, app.Status)
	}
	if err := s.appRepo.UpdateStatus(ctx, app.ID, domain.ApplicationStatusPending, to); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("application %d was already decided: %w", app.ID, err)
		}
		return err
	}
	app.Status = to
	app.UpdatedOn = s.now()
	return nil
}

func (s *applicationService) notifyDecision(ctx context.Context, app *domain.Application, property *domain.Property) {
	title, severity := "Application rejected", domain.SeverityWarning
	if app.Status == domain.ApplicationStatusAccepted {
		title, severity = "Application accepted", domain.SeveritySuccess
	}
	notify(ctx, s.noteRepo, &domain.Notification{
		UserID:     app.TenantID,
		Title:      title,
		Message:    fmt.Sprintf("Your application for %s has been %s.", property.Title, app.Status),
		Severity:   severity,
		Attributes: applicationAttributes("APPLICATION_DECIDED", app),
	})

	tenant, err := s.userRepo.GetByID(ctx, app.TenantID)
	if err != nil {
		logger.Warn("Failed to load applicant for email", "tenantID", app.TenantID, "error", err)
		return
	}
	if err := s.emailSvc.SendApplicationDecisionEmail(ctx, tenant.Email, tenant.Name, property.Title, app.Status); err != nil {
		logger.Warn("Failed to send application decision email", "applicationID", app.ID, "error", err)
	}
}

func applicationAttributes(kind string, app *domain.Application) map[string]string {
	return map[string]string{
		"type":           kind,
		"application_id": strconv.Itoa(int(app.ID)),
		"property_id":    strconv.Itoa(int(app.PropertyID)),
		"status":         string(app.Status),
	}
}
