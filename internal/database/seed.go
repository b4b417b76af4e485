package database

import (
	"errors"
	"fmt"

	"community_issues/internal/auth"
	"community_issues/internal/config"
	"community_issues/internal/logger"
	"community_issues/internal/models"

	"gorm.io/gorm"
)

// SeedReviewer creates the reviewer account that receives "new report" and
// "new admin request" notifications. The account is an admin with an
// approved verification so it can log in immediately.
func SeedReviewer(db *gorm.DB, cfg *config.Config) error {
	email := cfg.Seed.ReviewerEmail
	password := cfg.Seed.ReviewerPassword

	if email == "" || password == "" {
		logger.Warn("seed.reviewer_email or seed.reviewer_password is empty, skipping reviewer seeding")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("email = ?", email).First(&existing).Error
		if err == nil {
			logger.Info("Reviewer already exists, skipping", "email", email, "user_id", existing.ID)
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check for reviewer: %w", err)
		}

		hashed, err := auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("failed to hash reviewer password: %w", err)
		}

		reviewer := &models.User{
			Name:     cfg.Seed.ReviewerName,
			Email:    email,
			Password: hashed,
			Role:     models.UserRoleAdmin,
		}
		if err := tx.Create(reviewer).Error; err != nil {
			return fmt.Errorf("failed to create reviewer: %w", err)
		}

		verification := &models.AdminVerification{
			UserID:           reviewer.ID,
			VerificationInfo: "Seeded platform reviewer account.",
			Status:           models.VerificationStatusApproved,
		}
		if err := tx.Create(verification).Error; err != nil {
			return fmt.Errorf("failed to approve reviewer: %w", err)
		}

		if reviewer.ID != cfg.Notifications.ReviewerUserID {
			logger.Warn("Reviewer id differs from notifications.reviewer_user_id",
				"reviewer_id", reviewer.ID,
				"configured", cfg.Notifications.ReviewerUserID,
			)
		}
		logger.Info("Reviewer created", "email", email, "user_id", reviewer.ID)
		return nil
	})
}

// SeedDemo loads the sample residents, staff, reports and notifications used
// for local demos. It is a no-op when reports already exist.
func SeedDemo(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Report{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Demo data skipped, reports already present", "reports", count)
		return nil
	}

	hashed, err := auth.HashPassword("password")
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		users := []models.User{
			{Name: "Juan Dela Cruz", Email: "juan@example.com", Password: hashed, Role: models.UserRoleResident},
			{Name: "Maria Santos", Email: "maria@example.com", Password: hashed, Role: models.UserRoleResident},
			{Name: "Engineer Reyes", Email: "reyes@lgu.gov.ph", Password: hashed, Role: models.UserRoleStaff},
		}
		for i := range users {
			if err := tx.Where(models.User{Email: users[i].Email}).FirstOrCreate(&users[i]).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", users[i].Email, err)
			}
		}
		juan, maria := users[0].ID, users[1].ID

		reports := []models.Report{
			{
				Title:       "Pothole on Main Street",
				Description: "Large pothole causing traffic and potential vehicle damage near the intersection.",
				Category:    "Road Damage",
				Location:    "Main St, near Central Park",
				Status:      models.ReportStatusPending,
				Priority:    models.ReportPriorityHigh,
				ReporterID:  &juan,
			},
			{
				Title:       "Clogged Storm Drain",
				Description: "Storm drain is completely blocked causing flooding during rain.",
				Category:    "Drainage",
				Location:    "Oak Avenue, beside Community Center",
				Status:      models.ReportStatusInProgress,
				Priority:    models.ReportPriorityCritical,
				ReporterID:  &maria,
			},
			{
				Title:       "Street Light Not Working",
				Description: "Street light has been out for over a week creating safety concerns at night.",
				Category:    "Electricity",
				Location:    "Pine Street, corner of 5th Avenue",
				Status:      models.ReportStatusResolved,
				Priority:    models.ReportPriorityMedium,
				ReporterID:  &juan,
			},
		}
		if err := tx.Create(&reports).Error; err != nil {
			return fmt.Errorf("seed reports: %w", err)
		}

		notifications := []models.Notification{
			{
				Title:          "Issue Status Updated",
				Message:        "The pothole report on Main Street has been marked as 'In Progress'.",
				Type:           models.NotificationTypeUpdate,
				UserID:         &juan,
				RelatedIssueID: &reports[0].ID,
			},
			{
				Title:          "Issue Resolved",
				Message:        "The street light repair on Oak Avenue has been completed.",
				Type:           models.NotificationTypeSuccess,
				UserID:         &maria,
				RelatedIssueID: &reports[1].ID,
			},
		}
		if err := tx.Create(&notifications).Error; err != nil {
			return fmt.Errorf("seed notifications: %w", err)
		}

		logger.Info("Demo data loaded", "users", len(users), "reports", len(reports))
		return nil
	})
}
