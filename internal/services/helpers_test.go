package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"community_issues/internal/email"
	"community_issues/internal/models"
	"community_issues/internal/testutil"
	"community_issues/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, msg email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

type testEnv struct {
	db       *gorm.DB
	svc      *ServiceContainer
	mailer   *recordingMailer
	reviewer *models.User
}

// newTestEnv opens a fresh database whose first user is the reviewer.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := testutil.Config()
	db := testutil.NewDBWithConfig(t, cfg)
	reviewer := testutil.CreateUser(t, db, "Reviewer", "reviewer@example.com", models.UserRoleAdmin)
	testutil.CreateVerification(t, db, reviewer.ID, models.VerificationStatusApproved)
	require.Equal(t, cfg.Notifications.ReviewerUserID, reviewer.ID)

	mailer := &recordingMailer{}
	return &testEnv{
		db:       db,
		svc:      NewServiceContainer(cfg, mailer),
		mailer:   mailer,
		reviewer: reviewer,
	}
}

func (e *testEnv) notifications(t *testing.T, title string) []models.Notification {
	t.Helper()
	var list []models.Notification
	require.NoError(t, e.db.Where("title = ?", title).Order("id ASC").Find(&list).Error)
	return list
}

func requireAppError(t *testing.T, err error, httpCode int) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	assert.Equal(t, httpCode, appErr.HTTPCode, appErr.Message)
	return appErr
}

func strPtr(s string) *string { return &s }

var errInjected = errors.New("injected failure")
