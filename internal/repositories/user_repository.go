package repositories

import (
	"errors"

	"community_issues/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserField is a column the update path may write. The set is closed.
type UserField string

const (
	UserFieldName     UserField = "name"
	UserFieldEmail    UserField = "email"
	UserFieldPhone    UserField = "phone"
	UserFieldBarangay UserField = "barangay"
	UserFieldAvatar   UserField = "avatar"
	UserFieldPassword UserField = "password"
)

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id uint) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	EmailTaken(db *gorm.DB, email string, exceptID uint) (bool, error)
	FindAll(db *gorm.DB) ([]models.User, error)
	Update(db *gorm.DB, id uint, fields map[UserField]interface{}) error
	Delete(db *gorm.DB, id uint) error
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	err := db.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUserAlreadyExists
	}
	return err
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail matches the stored address exactly.
func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) EmailTaken(db *gorm.DB, email string, exceptID uint) (bool, error) {
	var count int64
	q := db.Model(&models.User{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepositoryImpl) FindAll(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	err := db.Order("created_at DESC").Order("id DESC").Find(&users).Error
	return users, err
}

// Update writes only known columns and always stamps updated_at.
func (r *UserRepositoryImpl) Update(db *gorm.DB, id uint, fields map[UserField]interface{}) error {
	updates := make(map[string]interface{}, len(fields)+1)
	for field, value := range fields {
		updates[string(field)] = value
	}
	updates["updated_at"] = db.NowFunc()

	result := db.Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return ErrUserAlreadyExists
	}
	return result.Error
}

// Delete removes the user together with their verification and login rows.
func (r *UserRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.AdminVerification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.UserLogin{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}
