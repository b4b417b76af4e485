package repositories

import (
	"errors"

	"community_issues/internal/models"

	"gorm.io/gorm"
)

var ErrReportNotFound = errors.New("report not found")

// ReportField is a column the update path may write. The set is closed, so
// request keys never reach SQL directly.
type ReportField string

const (
	ReportFieldTitle        ReportField = "title"
	ReportFieldDescription  ReportField = "description"
	ReportFieldCategory     ReportField = "category"
	ReportFieldLocation     ReportField = "location"
	ReportFieldStatus       ReportField = "status"
	ReportFieldPriority     ReportField = "priority"
	ReportFieldReporterID   ReportField = "reporter_id"
	ReportFieldAssignedTo   ReportField = "assigned_to"
	ReportFieldContactName  ReportField = "contact_name"
	ReportFieldContactPhone ReportField = "contact_phone"
	ReportFieldContactEmail ReportField = "contact_email"
)

type ReportFilter struct {
	Status     string
	Category   string
	ReporterID *uint
	AssignedTo *uint
}

type ReportRepository interface {
	Create(db *gorm.DB, report *models.Report, imageURLs []string) error
	FindByID(db *gorm.DB, id uint) (*models.Report, error)
	FindAll(db *gorm.DB, filter ReportFilter) ([]models.Report, error)
	Update(db *gorm.DB, id uint, fields map[ReportField]interface{}) error
	ReplaceImages(db *gorm.DB, reportID uint, imageURLs []string) error
	Delete(db *gorm.DB, id uint) (*models.Report, error)
	CountImages(db *gorm.DB, reportID uint) (int64, error)
}

type ReportRepositoryImpl struct{}

func NewReportRepository() ReportRepository {
	return &ReportRepositoryImpl{}
}

func withImages(db *gorm.DB) *gorm.DB {
	return db.Preload("Images", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC")
	})
}

// Create inserts the report, then one image row per URL in the given order.
// Callers run it inside a transaction.
func (r *ReportRepositoryImpl) Create(db *gorm.DB, report *models.Report, imageURLs []string) error {
	if err := db.Omit("Images").Create(report).Error; err != nil {
		return err
	}
	return r.insertImages(db, report.ID, imageURLs)
}

func (r *ReportRepositoryImpl) insertImages(db *gorm.DB, reportID uint, imageURLs []string) error {
	for _, url := range imageURLs {
		img := models.ReportImage{ReportID: reportID, ImageURL: url}
		if err := db.Create(&img).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *ReportRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Report, error) {
	var report models.Report
	if err := withImages(db).First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

// FindAll returns reports newest first.
func (r *ReportRepositoryImpl) FindAll(db *gorm.DB, filter ReportFilter) ([]models.Report, error) {
	q := withImages(db).Model(&models.Report{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.ReporterID != nil {
		q = q.Where("reporter_id = ?", *filter.ReporterID)
	}
	if filter.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *filter.AssignedTo)
	}

	var reports []models.Report
	err := q.Order("created_at DESC").Order("id DESC").Find(&reports).Error
	return reports, err
}

// Update writes the given columns and stamps updated_at. Existence is the
// caller's concern: MySQL reports zero affected rows for unchanged values.
func (r *ReportRepositoryImpl) Update(db *gorm.DB, id uint, fields map[ReportField]interface{}) error {
	updates := make(map[string]interface{}, len(fields)+1)
	for field, value := range fields {
		updates[string(field)] = value
	}
	updates["updated_at"] = db.NowFunc()

	return db.Model(&models.Report{}).Where("id = ?", id).Updates(updates).Error
}

// ReplaceImages drops every image row of the report, clears the legacy
// inline column and inserts the new list.
func (r *ReportRepositoryImpl) ReplaceImages(db *gorm.DB, reportID uint, imageURLs []string) error {
	if err := db.Where("report_id = ?", reportID).Delete(&models.ReportImage{}).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Report{}).Where("id = ?", reportID).UpdateColumn("images", gorm.Expr("NULL")).Error; err != nil {
		return err
	}
	return r.insertImages(db, reportID, imageURLs)
}

// Delete removes images first, then the report, and returns the deleted row.
func (r *ReportRepositoryImpl) Delete(db *gorm.DB, id uint) (*models.Report, error) {
	var report models.Report
	if err := db.First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	if err := db.Where("report_id = ?", id).Delete(&models.ReportImage{}).Error; err != nil {
		return nil, err
	}

	result := db.Delete(&models.Report{}, id)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrReportNotFound
	}
	return &report, nil
}

func (r *ReportRepositoryImpl) CountImages(db *gorm.DB, reportID uint) (int64, error) {
	var count int64
	err := db.Model(&models.ReportImage{}).Where("report_id = ?", reportID).Count(&count).Error
	return count, err
}
