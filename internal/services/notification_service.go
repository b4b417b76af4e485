package services

import (
	"context"
	"errors"

	"community_issues/internal/logger"
	"community_issues/internal/models"
	"community_issues/internal/repositories"
	"community_issues/internal/services/dto"
	"community_issues/pkg/apperrors"

	"gorm.io/gorm"
)

type NotificationService interface {
	GetNotifications(ctx context.Context, db *gorm.DB, filter dto.NotificationFilter) ([]models.Notification, error)
	GetNotification(ctx context.Context, db *gorm.DB, id uint) (*models.Notification, error)
	MarkAsRead(ctx context.Context, db *gorm.DB, id uint, isRead bool) error
	MarkAllAsRead(ctx context.Context, db *gorm.DB, userID *uint) (int64, error)
	DeleteNotification(ctx context.Context, db *gorm.DB, id uint) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, db *gorm.DB, filter dto.NotificationFilter) ([]models.Notification, error) {
	list, err := s.notificationRepo.FindAll(db, repositories.NotificationFilter{
		UserID:     filter.UserID,
		UnreadOnly: filter.Unread,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if list == nil {
		list = []models.Notification{}
	}
	return list, nil
}

func (s *notificationService) GetNotification(ctx context.Context, db *gorm.DB, id uint) (*models.Notification, error) {
	n, err := s.notificationRepo.FindByID(db, id)
	if err != nil {
		return nil, handleNotificationError(err)
	}
	return n, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, db *gorm.DB, id uint, isRead bool) error {
	if err := s.notificationRepo.SetRead(db, id, isRead); err != nil {
		return handleNotificationError(err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, db *gorm.DB, userID *uint) (int64, error) {
	updated, err := s.notificationRepo.MarkAllRead(db, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "Notifications marked as read", "updated", updated)
	return updated, nil
}

func (s *notificationService) DeleteNotification(ctx context.Context, db *gorm.DB, id uint) error {
	if err := s.notificationRepo.Delete(db, id); err != nil {
		return handleNotificationError(err)
	}
	return nil
}

func handleNotificationError(err error) error {
	if errors.Is(err, repositories.ErrNotificationNotFound) {
		return apperrors.ErrNotFound(err, "notification", "Notification not found")
	}
	return apperrors.InternalError(err)
}
