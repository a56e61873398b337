package service

import (
	"context"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/logger"
	"rentdesk-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

// GetNotifications returns one page of notifications, the total count and
// the unread count.
func (s *notificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	offset := (page - 1) * pageSize
	notes, total, err := s.noteRepo.List(ctx, userID, pageSize, offset)
	if err != nil {
		return nil, 0, 0, err
	}
	unread, err := s.noteRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, 0, err
	}
	return notes, total, unread, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, userID)
}

func normalizePage(page, pageSize int32) (int32, int32) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

// notify stores a notification. Delivery failures are logged only.
func notify(ctx context.Context, repo repository.NotificationRepository, note *domain.Notification) {
	if err := repo.Create(ctx, note); err != nil {
		logger.Warn("Failed to create notification", "userID", note.UserID, "title", note.Title, "error", err)
	}
}
