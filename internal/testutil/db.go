// Package testutil provides an isolated, migrated in-memory database per test.
package testutil

import (
	"bytes"
	"fmt"
	"testing"

	"community_issues/internal/auth"
	"community_issues/internal/config"
	"community_issues/internal/database"
	"community_issues/internal/logger"
	"community_issues/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	logger.InitWithWriter("test", &bytes.Buffer{})
}

// Config returns a test config pointing at a fresh shared-cache memory db.
func Config() *config.Config {
	cfg := config.Default()
	cfg.Server.Env = "test"
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = fmt.Sprintf("file:memdb_%s?mode=memory&cache=shared", uuid.NewString())
	cfg.JWT.Secret = "test-secret"
	cfg.Notifications.ReviewerUserID = 1
	return cfg
}

// NewDB opens and migrates a private sqlite database closed with the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	return NewDBWithConfig(t, Config())
}

func NewDBWithConfig(t testing.TB, cfg *config.Config) *gorm.DB {
	t.Helper()

	db, err := database.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// CreateUser inserts a user with password "password".
func CreateUser(t testing.TB, db *gorm.DB, name, email string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("password")
	require.NoError(t, err)

	user := &models.User{Name: name, Email: email, Password: hash, Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateVerification inserts a verification row with the given status.
func CreateVerification(t testing.TB, db *gorm.DB, userID uint, status models.VerificationStatus) *models.AdminVerification {
	t.Helper()

	v := &models.AdminVerification{
		UserID:           userID,
		VerificationInfo: "Barangay captain appointment letter no. 2024-117, municipal ID attached.",
		Status:           status,
	}
	require.NoError(t, db.Create(v).Error)
	return v
}

func CountRows(t testing.TB, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var count int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&count).Error)
	return count
}
