package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "community_issues/docs"
	"community_issues/internal/models"
	"community_issues/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := testutil.Config()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeoutSeconds = 1
	db := testutil.NewDBWithConfig(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, cfg, db) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestSetupRouter_ReportFlow(t *testing.T) {
	cfg := testutil.Config()
	db := testutil.NewDBWithConfig(t, cfg)
	testutil.CreateUser(t, db, "Admin User", "admin@example.com", models.UserRoleAdmin)
	router := SetupRouter(cfg, db)

	send := func(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := send(http.MethodPost, "/api/auth?action=register", map[string]string{
		"name": "Pedro", "email": "pedro@example.com", "password": "secret123", "role": "resident",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = send(http.MethodPost, "/api/auth?action=login", map[string]string{
		"email": "pedro@example.com", "password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	w = send(http.MethodPost, "/api/reports", map[string]interface{}{
		"title": "Broken streetlight", "description": "Dark since Monday",
		"category": "Lighting", "location": "Rizal St.", "reporter_id": 2,
	}, login.Token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var n models.Notification
	require.NoError(t, db.Where("title = ?", "New Issue Reported").First(&n).Error)
	require.NotNil(t, n.UserID)
	assert.EqualValues(t, 1, *n.UserID)
	require.NotNil(t, n.SenderID)
	assert.EqualValues(t, 2, *n.SenderID)

	w = send(http.MethodPut, "/api/reports/1", map[string]string{"status": "resolved"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, testutil.CountRows(t, db, &models.Notification{}, "title = ? AND user_id = ?", "Issue Status Updated", 2))

	w = send(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = send(http.MethodGet, "/swagger/doc.json", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Community Issues API")
}
