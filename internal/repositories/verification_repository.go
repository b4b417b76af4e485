package repositories

import (
	"errors"

	"community_issues/internal/models"

	"gorm.io/gorm"
)

var (
	ErrVerificationNotFound = errors.New("verification request not found")
	ErrNoPendingRequest     = errors.New("no pending verification request")
)

type VerificationRepository interface {
	Create(db *gorm.DB, v *models.AdminVerification) error
	FindLatest(db *gorm.DB, userID uint) (*models.AdminVerification, error)
	FindLatestPending(db *gorm.DB, userID uint) (*models.AdminVerification, error)
	Resolve(db *gorm.DB, id uint, status models.VerificationStatus, notes string) error
}

type VerificationRepositoryImpl struct{}

func NewVerificationRepository() VerificationRepository {
	return &VerificationRepositoryImpl{}
}

func (r *VerificationRepositoryImpl) Create(db *gorm.DB, v *models.AdminVerification) error {
	return db.Create(v).Error
}

func latestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

// FindLatest returns the account's current verification row.
func (r *VerificationRepositoryImpl) FindLatest(db *gorm.DB, userID uint) (*models.AdminVerification, error) {
	var v models.AdminVerification
	err := latestFirst(db.Where("user_id = ?", userID)).First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *VerificationRepositoryImpl) FindLatestPending(db *gorm.DB, userID uint) (*models.AdminVerification, error) {
	var v models.AdminVerification
	err := latestFirst(db.Where("user_id = ? AND status = ?", userID, models.VerificationStatusPending)).First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPendingRequest
		}
		return nil, err
	}
	return &v, nil
}

// Resolve moves a pending row to a terminal status. The status guard in the
// WHERE clause keeps a row from being decided twice.
func (r *VerificationRepositoryImpl) Resolve(db *gorm.DB, id uint, status models.VerificationStatus, notes string) error {
	result := db.Model(&models.AdminVerification{}).
		Where("id = ? AND status = ?", id, models.VerificationStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"admin_notes": notes,
			"updated_at":  db.NowFunc(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoPendingRequest
	}
	return nil
}
