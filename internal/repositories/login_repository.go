package repositories

import (
	"community_issues/internal/models"

	"gorm.io/gorm"
)

type LoginRepository interface {
	Record(db *gorm.DB, login *models.UserLogin) error
	FindByUser(db *gorm.DB, userID uint) ([]models.UserLogin, error)
}

type LoginRepositoryImpl struct{}

func NewLoginRepository() LoginRepository {
	return &LoginRepositoryImpl{}
}

func (r *LoginRepositoryImpl) Record(db *gorm.DB, login *models.UserLogin) error {
	if login.LoginTime.IsZero() {
		login.LoginTime = db.NowFunc()
	}
	return db.Create(login).Error
}

func (r *LoginRepositoryImpl) FindByUser(db *gorm.DB, userID uint) ([]models.UserLogin, error) {
	var logins []models.UserLogin
	err := db.Where("user_id = ?", userID).Order("login_time DESC").Find(&logins).Error
	return logins, err
}
