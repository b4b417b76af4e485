package repositories

import (
	"community_issues/internal/models"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(db *gorm.DB, comment *models.Comment) error
	FindByReport(db *gorm.DB, reportID uint) ([]models.Comment, error)
}

type CommentRepositoryImpl struct{}

func NewCommentRepository() CommentRepository {
	return &CommentRepositoryImpl{}
}

func (r *CommentRepositoryImpl) Create(db *gorm.DB, comment *models.Comment) error {
	return db.Create(comment).Error
}

// FindByReport returns the thread oldest first.
func (r *CommentRepositoryImpl) FindByReport(db *gorm.DB, reportID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := db.Where("report_id = ?", reportID).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	return comments, err
}
