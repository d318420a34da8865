package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/logger"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/repository"
)

type NotificationService interface {
	List(ctx context.Context, actor entity.Actor, limit, offset int) ([]entity.Notification, error)
	UnreadCount(ctx context.Context, actor entity.Actor) (int64, error)
	MarkRead(ctx context.Context, actor entity.Actor, notificationID string) error
	MarkAllRead(ctx context.Context, actor entity.Actor) error

	// Notify persists a notification best-effort. Failures are logged and
	// swallowed so a failed fan-out never rolls back the causing operation.
	Notify(ctx context.Context, userID string, ntype entity.NotificationType, title, message, linkURL string)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	log              logger.Logger
}

func NewNotificationService(notificationRepo repository.NotificationRepository, log logger.Logger) NotificationService {
	return &notificationService{notificationRepo: notificationRepo, log: log}
}

func (s *notificationService) List(ctx context.Context, actor entity.Actor, limit, offset int) ([]entity.Notification, error) {
	if actor.ID == "" {
		return nil, domain.ErrAuthRequired
	}
	notifications, err := s.notificationRepo.ListByUser(ctx, actor.ID, limit, offset)
	if err != nil {
		s.log.Errorf("Failed to list notifications for user %s: %v", actor.ID, err)
		return nil, fmt.Errorf("%w: could not list notifications", domain.ErrStorage)
	}
	return notifications, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, actor entity.Actor) (int64, error) {
	if actor.ID == "" {
		return 0, domain.ErrAuthRequired
	}
	count, err := s.notificationRepo.CountUnread(ctx, actor.ID)
	if err != nil {
		s.log.Errorf("Failed to count unread notifications for user %s: %v", actor.ID, err)
		return 0, fmt.Errorf("%w: could not count notifications", domain.ErrStorage)
	}
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, actor entity.Actor, notificationID string) error {
	if actor.ID == "" {
		return domain.ErrAuthRequired
	}
	err := s.notificationRepo.MarkRead(ctx, notificationID, actor.ID)
	if err != nil {
		if isNotFound(err) {
			return domain.ErrNotFound
		}
		s.log.Errorf("Failed to mark notification %s read for user %s: %v", notificationID, actor.ID, err)
		return fmt.Errorf("%w: could not mark notification read", domain.ErrStorage)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, actor entity.Actor) error {
	if actor.ID == "" {
		return domain.ErrAuthRequired
	}
	if err := s.notificationRepo.MarkAllRead(ctx, actor.ID); err != nil {
		s.log.Errorf("Failed to mark notifications read for user %s: %v", actor.ID, err)
		return fmt.Errorf("%w: could not mark notifications read", domain.ErrStorage)
	}
	return nil
}

func (s *notificationService) Notify(ctx context.Context, userID string, ntype entity.NotificationType, title, message, linkURL string) {
	n := &entity.Notification{
		ID:      uuid.NewString(),
		UserID:  userID,
		Type:    ntype,
		Title:   title,
		Message: message,
		LinkURL: linkURL,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		s.log.Warnf("Failed to create %s notification for user %s: %v", ntype, userID, err)
	}
}
