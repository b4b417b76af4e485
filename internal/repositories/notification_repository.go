package repositories

import (
	"errors"

	"community_issues/internal/models"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationFilter struct {
	// UserID limits the list to the user's rows plus broadcasts.
	UserID     *uint
	UnreadOnly bool
}

type NotificationRepository interface {
	Create(db *gorm.DB, n *models.Notification) error
	FindByID(db *gorm.DB, id uint) (*models.Notification, error)
	FindAll(db *gorm.DB, filter NotificationFilter) ([]models.Notification, error)
	FindAfter(db *gorm.DB, afterID uint, limit int) ([]models.Notification, error)
	SetRead(db *gorm.DB, id uint, isRead bool) error
	MarkAllRead(db *gorm.DB, userID *uint) (int64, error)
	Delete(db *gorm.DB, id uint) error
}

type NotificationRepositoryImpl struct{}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{}
}

func (r *NotificationRepositoryImpl) Create(db *gorm.DB, n *models.Notification) error {
	return db.Create(n).Error
}

func (r *NotificationRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := db.First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

func applyNotificationFilter(q *gorm.DB, filter NotificationFilter) *gorm.DB {
	if filter.UserID != nil {
		q = q.Where("(user_id = ? OR user_id IS NULL)", *filter.UserID)
	}
	if filter.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}
	return q
}

// FindAll returns notifications newest first.
func (r *NotificationRepositoryImpl) FindAll(db *gorm.DB, filter NotificationFilter) ([]models.Notification, error) {
	var list []models.Notification
	q := applyNotificationFilter(db.Model(&models.Notification{}), filter)
	err := q.Order("created_at DESC").Order("id DESC").Find(&list).Error
	return list, err
}

// FindAfter returns up to limit rows with id > afterID in ascending id order.
func (r *NotificationRepositoryImpl) FindAfter(db *gorm.DB, afterID uint, limit int) ([]models.Notification, error) {
	var list []models.Notification
	err := db.Where("id > ?", afterID).Order("id ASC").Limit(limit).Find(&list).Error
	return list, err
}

// SetRead is idempotent. The row is looked up first because some drivers
// report zero affected rows when the value does not change.
func (r *NotificationRepositoryImpl) SetRead(db *gorm.DB, id uint, isRead bool) error {
	if _, err := r.FindByID(db, id); err != nil {
		return err
	}
	return db.Model(&models.Notification{}).Where("id = ?", id).Update("is_read", isRead).Error
}

func (r *NotificationRepositoryImpl) MarkAllRead(db *gorm.DB, userID *uint) (int64, error) {
	q := applyNotificationFilter(db.Model(&models.Notification{}), NotificationFilter{UserID: userID, UnreadOnly: true})
	result := q.Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	result := db.Delete(&models.Notification{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
