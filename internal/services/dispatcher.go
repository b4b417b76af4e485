package services

import (
	"context"

	"community_issues/internal/logger"
	"community_issues/internal/models"
	"community_issues/internal/repositories"

	"gorm.io/gorm"
)

// NotificationEvent is one notification to record. A nil RecipientID makes
// it a broadcast.
type NotificationEvent struct {
	Title          string
	Message        string
	Type           models.NotificationType
	RelatedIssueID *uint
	RecipientID    *uint
	SenderID       *uint
}

// NotificationDispatcher records notifications as a side effect of other
// operations. It never fails the caller.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, db *gorm.DB, ev NotificationEvent)
}

type notificationDispatcher struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationDispatcher(notificationRepo repositories.NotificationRepository) NotificationDispatcher {
	return &notificationDispatcher{notificationRepo: notificationRepo}
}

// Dispatch inserts the row in a nested transaction. When db is already a
// transaction this is a savepoint, so a failed insert rolls back only itself.
func (d *notificationDispatcher) Dispatch(ctx context.Context, db *gorm.DB, ev NotificationEvent) {
	n := &models.Notification{
		Title:          ev.Title,
		Message:        ev.Message,
		Type:           ev.Type,
		IsRead:         false,
		UserID:         ev.RecipientID,
		SenderID:       ev.SenderID,
		RelatedIssueID: ev.RelatedIssueID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return d.notificationRepo.Create(tx, n)
	})
	if err != nil {
		logger.CtxWithError(ctx, "Failed to record notification", err,
			"title", ev.Title,
			"type", string(ev.Type),
		)
		return
	}

	logger.CtxDebug(ctx, "Notification recorded", "notification_id", n.ID, "title", ev.Title)
}

func uintPtr(v uint) *uint {
	return &v
}
