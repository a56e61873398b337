package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/lifecycle"
	"rentdesk-backend/internal/logger"
	"rentdesk-backend/internal/repository"
	"rentdesk-backend/internal/storage"
)

const maxCommentLength = 2000

// Statuses each party may request. Closing is open to both.
var (
	tenantTargets = map[domain.IncidentStatus]bool{
		domain.IncidentStatusReported:        true,
		domain.IncidentStatusCancelledTenant: true,
		domain.IncidentStatusClosed:          true,
	}
	ownerTargets = map[domain.IncidentStatus]bool{
		domain.IncidentStatusInCharge:       true,
		domain.IncidentStatusInProgress:     true,
		domain.IncidentStatusResolved:       true,
		domain.IncidentStatusCancelledOwner: true,
		domain.IncidentStatusClosed:         true,
	}
)

// UploadPolicy bounds incident photo uploads.
type UploadPolicy struct {
	MaxBytes     int64
	AllowedTypes []string
}

func (p UploadPolicy) allows(contentType string) bool {
	for _, t := range p.AllowedTypes {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}

func (p UploadPolicy) check(contentType string, size int64) error {
	if !p.allows(contentType) {
		return fmt.Errorf("%w: content type %q is not allowed", domain.ErrInvalidInput, contentType)
	}
	if p.MaxBytes > 0 && size > p.MaxBytes {
		return fmt.Errorf("%w: file exceeds %d bytes", domain.ErrInvalidInput, p.MaxBytes)
	}
	return nil
}

type actorRole int

const (
	actorNone actorRole = iota
	actorTenant
	actorOwner
)

type incidentService struct {
	incidentRepo repository.IncidentRepository
	propRepo     repository.PropertyRepository
	userRepo     repository.UserRepository
	noteRepo     repository.NotificationRepository
	emailSvc     EmailService
	store        storage.Storage
	uploads      UploadPolicy
	machine      *lifecycle.Machine
	now          func() time.Time
}

func NewIncidentService(
	incidentRepo repository.IncidentRepository,
	propRepo repository.PropertyRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	store storage.Storage,
	uploads UploadPolicy,
) IncidentService {
	return &incidentService{
		incidentRepo: incidentRepo,
		propRepo:     propRepo,
		userRepo:     userRepo,
		noteRepo:     noteRepo,
		emailSvc:     emailSvc,
		store:        store,
		uploads:      uploads,
		machine:      lifecycle.NewMachine(incidentRepo, noteRepo),
		now:          time.Now,
	}
}

// CreateIncident opens an incident on the property the tenant rents. With
// Submit set it is reported straight away and the owner is notified.
func (s *incidentService) CreateIncident(ctx context.Context, tenantID int32, in CreateIncidentInput) (*domain.Incident, error) {
	logger.EnterMethod("incidentService.CreateIncident", "tenantID", tenantID, "propertyID", in.PropertyID, "submit", in.Submit)

	property, err := s.propRepo.GetByID(ctx, in.PropertyID)
	if err != nil {
		logger.ExitMethodWithError("incidentService.CreateIncident", err)
		return nil, err
	}
	if property.TenantID == nil || *property.TenantID != tenantID {
		err := fmt.Errorf("%w: not the tenant of property %d", domain.ErrUnauthorized, in.PropertyID)
		logger.ExitMethodWithError("incidentService.CreateIncident", err)
		return nil, err
	}
	if err := validateIncidentInput(in); err != nil {
		logger.ExitMethodWithError("incidentService.CreateIncident", err)
		return nil, err
	}

	now := s.now()
	incident := &domain.Incident{
		PropertyID:  in.PropertyID,
		TenantID:    tenantID,
		Type:        in.Type,
		Room:        in.Room,
		Status:      domain.IncidentStatusDraft,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Photos:      []domain.IncidentPhoto{},
		Comments:    []domain.IncidentComment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Submit {
		incident.Status = domain.IncidentStatusReported
	}

	if err := s.incidentRepo.Create(ctx, incident); err != nil {
		logger.ExitMethodWithError("incidentService.CreateIncident", err)
		return nil, err
	}
	if in.Submit {
		s.machine.Notify(ctx, incident, domain.IncidentStatusDraft, property.OwnerID)
		s.emailStatus(ctx, property.OwnerID, incident)
	}

	logger.ExitMethod("incidentService.CreateIncident", "incidentID", incident.ID, "status", incident.Status)
	return incident, nil
}

func validateIncidentInput(in CreateIncidentInput) error {
	switch {
	case !in.Type.Valid():
		return fmt.Errorf("%w: unknown incident type %q", domain.ErrInvalidInput, in.Type)
	case !in.Room.Valid():
		return fmt.Errorf("%w: unknown room %q", domain.ErrInvalidInput, in.Room)
	case strings.TrimSpace(in.Title) == "":
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	return nil
}

func (s *incidentService) GetIncident(ctx context.Context, userID, incidentID int32) (*domain.Incident, error) {
	incident, _, _, err := s.loadForActor(ctx, userID, incidentID)
	if err != nil {
		return nil, err
	}
	return incident, nil
}

func (s *incidentService) ListMine(ctx context.Context, tenantID int32, statuses []domain.IncidentStatus) ([]domain.Incident, error) {
	if err := validateStatuses(statuses); err != nil {
		return nil, err
	}
	return s.incidentRepo.ListByTenant(ctx, tenantID, statuses)
}

func (s *incidentService) ListByProperty(ctx context.Context, ownerID, propertyID int32, statuses []domain.IncidentStatus) ([]domain.Incident, error) {
	if err := validateStatuses(statuses); err != nil {
		return nil, err
	}
	if _, err := ownedProperty(ctx, s.propRepo, ownerID, propertyID); err != nil {
		return nil, err
	}
	return s.incidentRepo.ListByProperty(ctx, propertyID, statuses)
}

// Transition moves the incident on behalf of actorID and notifies the other
// party. When resolving, a non-empty note is stored as the resolution;
// otherwise it is added as a comment.
func (s *incidentService) Transition(ctx context.Context, actorID, incidentID int32, to domain.IncidentStatus, note string) (*domain.Incident, error) {
	logger.EnterMethod("incidentService.Transition", "actorID", actorID, "incidentID", incidentID, "to", to)

	if !to.Valid() {
		err := fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, to)
		logger.ExitMethodWithError("incidentService.Transition", err)
		return nil, err
	}
	incident, property, role, err := s.loadForActor(ctx, actorID, incidentID)
	if err != nil {
		logger.ExitMethodWithError("incidentService.Transition", err)
		return nil, err
	}
	if !lifecycle.CanTransition(incident.Status, to) {
		err := &lifecycle.InvalidTransitionError{From: incident.Status, To: to}
		logger.ExitMethodWithError("incidentService.Transition", err)
		return nil, err
	}

	recipient := incident.TenantID
	allowed := ownerTargets
	if role == actorTenant {
		recipient = property.OwnerID
		allowed = tenantTargets
	}
	if !allowed[to] {
		err := fmt.Errorf("%w: cannot move incident to %s", domain.ErrUnauthorized, to)
		logger.ExitMethodWithError("incidentService.Transition", err)
		return nil, err
	}

	working := incident.Clone()
	if note = strings.TrimSpace(note); note != "" {
		if to == domain.IncidentStatusResolved {
			working.Resolution = &note
		} else {
			comment, err := s.newComment(ctx, actorID, note)
			if err != nil {
				logger.ExitMethodWithError("incidentService.Transition", err)
				return nil, err
			}
			working.Comments = append(working.Comments, comment)
		}
	}

	updated, err := s.machine.Transition(ctx, &working, to, recipient)
	if err != nil {
		logger.ExitMethodWithError("incidentService.Transition", err)
		return nil, err
	}
	s.emailStatus(ctx, recipient, updated)

	logger.ExitMethod("incidentService.Transition", "incidentID", updated.ID, "status", updated.Status)
	return updated, nil
}

// Schedule records the repair date and estimate. Only the owner can schedule
// and only while the incident is being handled.
func (s *incidentService) Schedule(ctx context.Context, ownerID, incidentID int32, date *time.Time, estimatedCostCents *int32) (*domain.Incident, error) {
	logger.EnterMethod("incidentService.Schedule", "ownerID", ownerID, "incidentID", incidentID)

	incident, _, role, err := s.loadForActor(ctx, ownerID, incidentID)
	if err != nil {
		logger.ExitMethodWithError("incidentService.Schedule", err)
		return nil, err
	}
	if role != actorOwner {
		err := fmt.Errorf("%w: only the owner can schedule a repair", domain.ErrUnauthorized)
		logger.ExitMethodWithError("incidentService.Schedule", err)
		return nil, err
	}
	if incident.Status != domain.IncidentStatusInCharge && incident.Status != domain.IncidentStatusInProgress {
		err := fmt.Errorf("%w: cannot schedule an incident that is %s", domain.ErrInvalidInput, incident.Status)
		logger.ExitMethodWithError("incidentService.Schedule", err)
		return nil, err
	}
	if estimatedCostCents != nil && *estimatedCostCents < 0 {
		err := fmt.Errorf("%w: estimated cost cannot be negative", domain.ErrInvalidInput)
		logger.ExitMethodWithError("incidentService.Schedule", err)
		return nil, err
	}

	updated := incident.Clone()
	updated.ScheduledDate = date
	updated.EstimatedCostCents = estimatedCostCents
	if err := s.save(ctx, incident, &updated); err != nil {
		logger.ExitMethodWithError("incidentService.Schedule", err)
		return nil, err
	}

	if date != nil {
		notify(ctx, s.noteRepo, &domain.Notification{
			UserID:     updated.TenantID,
			Title:      "Incident: " + updated.Title,
			Message:    fmt.Sprintf("A repair visit has been scheduled for %s.", date.Format("2006-01-02 15:04")),
			Severity:   domain.SeverityInfo,
			Attributes: incidentAttributes("INCIDENT_SCHEDULED", &updated),
		})
	}

	logger.ExitMethod("incidentService.Schedule", "incidentID", updated.ID)
	return &updated, nil
}

func (s *incidentService) AddComment(ctx context.Context, actorID, incidentID int32, content string) (*domain.Incident, error) {
	logger.EnterMethod("incidentService.AddComment", "actorID", actorID, "incidentID", incidentID)

	content = strings.TrimSpace(content)
	var err error
	switch {
	case content == "":
		err = fmt.Errorf("%w: comment is empty", domain.ErrInvalidInput)
	case len(content) > maxCommentLength:
		err = fmt.Errorf("%w: comment exceeds %d characters", domain.ErrInvalidInput, maxCommentLength)
	}
	if err != nil {
		logger.ExitMethodWithError("incidentService.AddComment", err)
		return nil, err
	}

	incident, property, role, err := s.loadForActor(ctx, actorID, incidentID)
	if err != nil {
		logger.ExitMethodWithError("incidentService.AddComment", err)
		return nil, err
	}
	comment, err := s.newComment(ctx, actorID, content)
	if err != nil {
		logger.ExitMethodWithError("incidentService.AddComment", err)
		return nil, err
	}

	updated := incident.Clone()
	updated.Comments = append(updated.Comments, comment)
	if err := s.save(ctx, incident, &updated); err != nil {
		logger.ExitMethodWithError("incidentService.AddComment", err)
		return nil, err
	}

	recipient := property.OwnerID
	if role == actorOwner {
		recipient = updated.TenantID
	}
	notify(ctx, s.noteRepo, &domain.Notification{
		UserID:     recipient,
		Title:      "Incident: " + updated.Title,
		Message:    fmt.Sprintf("%s added a comment.", comment.AuthorName),
		Severity:   domain.SeverityInfo,
		Attributes: incidentAttributes("INCIDENT_COMMENTED", &updated),
	})

	logger.ExitMethod("incidentService.AddComment", "incidentID", updated.ID, "commentID", comment.ID)
	return &updated, nil
}

// AddPhoto stores an image for an open incident of the tenant.
func (s *incidentService) AddPhoto(ctx context.Context, tenantID, incidentID int32, upload PhotoUpload) (*domain.Incident, error) {
	logger.EnterMethod("incidentService.AddPhoto", "tenantID", tenantID, "incidentID", incidentID, "contentType", upload.ContentType, "size", upload.Size)

	if err := s.uploads.check(upload.ContentType, upload.Size); err != nil {
		logger.ExitMethodWithError("incidentService.AddPhoto", err)
		return nil, err
	}

	incident, err := s.incidentRepo.GetByID(ctx, incidentID)
	if err != nil {
		logger.ExitMethodWithError("incidentService.AddPhoto", err)
		return nil, err
	}
	if incident.TenantID != tenantID {
		err := fmt.Errorf("%w: only the reporting tenant can add photos", domain.ErrUnauthorized)
		logger.ExitMethodWithError("incidentService.AddPhoto", err)
		return nil, err
	}
	if lifecycle.IsTerminal(incident.Status) {
		err := fmt.Errorf("%w: incident is %s", domain.ErrInvalidInput, incident.Status)
		logger.ExitMethodWithError("incidentService.AddPhoto", err)
		return nil, err
	}

	key := storage.NewIncidentPhotoKey(incident.ID, upload.Filename)
	body := upload.Body
	if s.uploads.MaxBytes > 0 {
		body = io.LimitReader(body, s.uploads.MaxBytes+1)
	}
	n, err := s.store.SaveFile(ctx, key, body)
	if err != nil {
		logger.ExitMethodWithError("incidentService.AddPhoto", err)
		return nil, err
	}
	if s.uploads.MaxBytes > 0 && n > s.uploads.MaxBytes {
		s.removeFile(ctx, key)
		err := fmt.Errorf("%w: file exceeds %d bytes", domain.ErrInvalidInput, s.uploads.MaxBytes)
		logger.ExitMethodWithError("incidentService.AddPhoto", err)
		return nil, err
	}

	updated := incident.Clone()
	updated.Photos = append(updated.Photos, domain.IncidentPhoto{
		ID:         uuid.NewString(),
		URL:        s.store.URL(key),
		UploadedAt: s.now(),
	})
	if err := s.save(ctx, incident, &updated); err != nil {
		s.removeFile(ctx, key)
		logger.ExitMethodWithError("incidentService.AddPhoto", err)
		return nil, err
	}

	logger.ExitMethod("incidentService.AddPhoto", "incidentID", updated.ID, "photos", len(updated.Photos))
	return &updated, nil
}

// DeleteIncident lets a tenant discard a draft and an owner purge a finished
// incident. Stored photos are removed as well.
func (s *incidentService) DeleteIncident(ctx context.Context, actorID, incidentID int32) error {
	logger.EnterMethod("incidentService.DeleteIncident", "actorID", actorID, "incidentID", incidentID)

	incident, _, role, err := s.loadForActor(ctx, actorID, incidentID)
	if err != nil {
		logger.ExitMethodWithError("incidentService.DeleteIncident", err)
		return err
	}
	switch {
	case role == actorTenant && incident.Status != domain.IncidentStatusDraft:
		err = fmt.Errorf("%w: only drafts can be deleted by the tenant", domain.ErrInvalidInput)
	case role == actorOwner && !lifecycle.IsTerminal(incident.Status):
		err = fmt.Errorf("%w: only finished incidents can be deleted by the owner", domain.ErrInvalidInput)
	}
	if err != nil {
		logger.ExitMethodWithError("incidentService.DeleteIncident", err)
		return err
	}

	if err := s.incidentRepo.Delete(ctx, incidentID); err != nil {
		logger.ExitMethodWithError("incidentService.DeleteIncident", err)
		return err
	}
	for _, photo := range incident.Photos {
		if key, ok := s.store.KeyFromURL(photo.URL); ok {
			s.removeFile(ctx, key)
		}
	}

	logger.ExitMethod("incidentService.DeleteIncident", "incidentID", incidentID)
	return nil
}

func (s *incidentService) loadForActor(ctx context.Context, actorID, incidentID int32) (*domain.Incident, *domain.Property, actorRole, error) {
	incident, err := s.incidentRepo.GetByID(ctx, incidentID)
	if err != nil {
		return nil, nil, actorNone, err
	}
	property, err := s.propRepo.GetByID(ctx, incident.PropertyID)
	if err != nil {
		return nil, nil, actorNone, err
	}
	switch actorID {
	case incident.TenantID:
		return incident, property, actorTenant, nil
	case property.OwnerID:
		return incident, property, actorOwner, nil
	}
	return nil, nil, actorNone, fmt.Errorf("%w: no access to incident %d", domain.ErrUnauthorized, incidentID)
}

// save persists updated guarded by the updated_at of previous.
func (s *incidentService) save(ctx context.Context, previous, updated *domain.Incident) error {
	updated.UpdatedAt = s.now()
	return s.incidentRepo.Update(ctx, updated, previous.UpdatedAt)
}

func (s *incidentService) newComment(ctx context.Context, authorID int32, content string) (domain.IncidentComment, error) {
	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return domain.IncidentComment{}, err
	}
	return domain.IncidentComment{
		ID:         uuid.NewString(),
		AuthorID:   authorID,
		AuthorName: author.Name,
		Content:    content,
		CreatedAt:  s.now(),
	}, nil
}

func (s *incidentService) emailStatus(ctx context.Context, recipientID int32, incident *domain.Incident) {
	user, err := s.userRepo.GetByID(ctx, recipientID)
	if err != nil {
		logger.Warn("Failed to load recipient for incident email", "userID", recipientID, "error", err)
		return
	}
	err = s.emailSvc.SendIncidentStatusEmail(ctx, user.Email, user.Name, incident.Title, incident.Status, lifecycle.Message(incident.Status))
	if err != nil {
		logger.Warn("Failed to send incident email", "incidentID", incident.ID, "error", err)
	}
}

func (s *incidentService) removeFile(ctx context.Context, key string) {
	if err := s.store.DeleteFile(ctx, key); err != nil && !errors.Is(err, storage.ErrInvalidKey) {
		logger.Warn("Failed to delete stored file", "key", key, "error", err)
	}
}

func validateStatuses(statuses []domain.IncidentStatus) error {
	for _, st := range statuses {
		if !st.Valid() {
			return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, st)
		}
	}
	return nil
}

func incidentAttributes(kind string, incident *domain.Incident) map[string]string {
	return map[string]string{
		"type":        kind,
		"incident_id": strconv.Itoa(int(incident.ID)),
		"property_id": strconv.Itoa(int(incident.PropertyID)),
		"status":      string(incident.Status),
	}
}
