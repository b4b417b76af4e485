package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"community_issues/internal/email"
	"community_issues/internal/feed"
	"community_issues/internal/handlers"
	"community_issues/internal/middleware"
	"community_issues/internal/models"
	"community_issues/internal/routes"
	"community_issues/internal/services"
	"community_issues/internal/testutil"
	"community_issues/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	svc    *services.ServiceContainer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testutil.Config()
	db := testutil.NewDBWithConfig(t, cfg)
	reviewer := testutil.CreateUser(t, db, "Admin User", "admin@example.com", models.UserRoleAdmin)
	testutil.CreateVerification(t, db, reviewer.ID, models.VerificationStatusApproved)

	svc := services.NewServiceContainer(cfg, email.LogSender{})
	base := handlers.NewBaseHandler(validator.New())
	poller := feed.NewPoller(svc.NotificationRepo, 20*time.Millisecond, 100)

	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.OptionalAuth(svc.Tokens))
	router.Use(middleware.DBMiddleware(db))
	routes.RegisterRoutes(router, &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(base, svc.AuthService),
		UserHandler:         handlers.NewUserHandler(base, svc.UserService, svc.AuthService),
		ReportHandler:       handlers.NewReportHandler(base, svc.ReportService),
		CommentHandler:      handlers.NewCommentHandler(base, svc.CommentService),
		NotificationHandler: handlers.NewNotificationHandler(base, svc.NotificationService, poller),
		HealthHandler:       handlers.NewHealthHandler(base),
	})

	return &testServer{router: router, db: db, svc: svc}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list), w.Body.String())
	return list
}

var sampleReport = map[string]interface{}{
	"title":       "Flooded street",
	"description": "Water has been pooling for three days",
	"category":    "Drainage",
	"location":    "Purok 3",
}

func withFields(base map[string]interface{}, kv ...interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(kv)/2)
	for k, v := range base {
		out[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i].(string)] = kv[i+1]
	}
	return out
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodOptions, "/api/reports", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Last-Event-ID")
}

func TestMethodNotAllowedAndUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPatch, "/api/reports", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "METHOD_NOT_ALLOWED", decode(t, w)["code"])

	w = s.do(t, http.MethodPut, "/api/auth?action=login", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = s.do(t, http.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestAuth_ActionDispatch(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/auth?action=bogus", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/auth?action=login", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/auth?action=verify-status", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User ID is required", decode(t, w)["error"])
}

func TestAuth_RegisterLoginAndGate(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/auth?action=register", map[string]string{
		"name": "Juan", "email": "juan@example.com", "password": "secret123", "role": "resident",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, true, user["verified"])
	assert.NotContains(t, user, "password")

	w = s.do(t, http.MethodPost, "/api/auth?action=register", map[string]string{
		"name": "Juan", "email": "juan@example.com", "password": "x", "role": "resident",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth?action=register", map[string]string{
		"name": "X", "email": "x@example.com", "password": "x", "role": "mayor",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth?action=register", map[string]string{
		"name": "X", "email": "x@example.com", "password": strings.Repeat("p", 80), "role": "resident",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]interface{}{"password": "Must be at most 72 bytes"}, decode(t, w)["details"])

	w = s.do(t, http.MethodPost, "/api/auth?action=login", map[string]string{"email": "juan@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, decode(t, w)["token"])

	w = s.do(t, http.MethodPost, "/api/auth?action=login", map[string]string{"email": "juan@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", decode(t, w)["error"])

	w = s.do(t, http.MethodPost, "/api/auth?action=register", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "secret123", "role": "admin",
		"verificationInfo": "I am the barangay secretary of San Isidro, appointment letter attached.",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	anaID := decode(t, w)["user"].(map[string]interface{})["id"]

	w = s.do(t, http.MethodPost, "/api/auth?action=login", map[string]string{"email": "ana@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	body = decode(t, w)
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "Your admin account is pending verification", body["error"])

	w = s.do(t, http.MethodPost, "/api/auth?action=verify", map[string]interface{}{"userId": anaID, "status": "approved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/auth?action=verify-status&userId=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth?action=login", map[string]string{"email": "ana@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReports_CRUD(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/reports", withFields(sampleReport, "images", []string{"b.jpg", "a.jpg"}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Report created successfully", body["message"])
	assert.EqualValues(t, 1, body["id"])

	w = s.do(t, http.MethodGet, "/api/reports/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "low", body["priority"])
	assert.Equal(t, []interface{}{"b.jpg", "a.jpg"}, body["images"])

	w = s.do(t, http.MethodGet, "/api/reports?id=1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPut, "/api/reports", map[string]interface{}{"id": "1", "status": "resolved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Report updated successfully", decode(t, w)["message"])

	w = s.do(t, http.MethodGet, "/api/reports?status=resolved", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)

	w = s.do(t, http.MethodDelete, "/api/reports", map[string]interface{}{"id": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Report deleted successfully", decode(t, w)["message"])

	w = s.do(t, http.MethodDelete, "/api/reports?id=1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, "/api/reports", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReports_Validation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/reports", map[string]string{"title": "only a title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w), "details")

	w = s.do(t, http.MethodPost, "/api/reports", withFields(sampleReport, "status", "closed"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/reports", withFields(sampleReport, "images", `["legacy.jpg"]`))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/reports/1", nil)
	assert.Equal(t, []interface{}{"legacy.jpg"}, decode(t, w)["images"])

	w = s.do(t, http.MethodGet, "/api/reports/1", nil)
	updatedAt := decode(t, w)["updated_at"]

	w = s.do(t, http.MethodPut, "/api/reports/1", map[string]string{"reporter_name": "ignored", "id_card": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No fields to update", decode(t, w)["error"])

	w = s.do(t, http.MethodPut, "/api/reports/1", map[string]interface{}{"images": []string{"new.jpg"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/reports/1", nil)
	body := decode(t, w)
	assert.Equal(t, updatedAt, body["updated_at"])
	assert.Equal(t, []interface{}{"legacy.jpg"}, body["images"])

	w = s.do(t, http.MethodPut, "/api/reports/abc", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/reports/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Report not found", decode(t, w)["error"])
}

func TestReports_TokenAttributesStatusChange(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/reports", sampleReport)
	require.Equal(t, http.StatusCreated, w.Code)

	token, err := s.svc.Tokens.Generate(1, "admin")
	require.NoError(t, err)

	w = s.do(t, http.MethodPut, "/api/reports/1", map[string]string{"status": "in-progress"}, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)

	var n models.Notification
	require.NoError(t, s.db.Where("title = ?", "Issue Status Updated").First(&n).Error)
	require.NotNil(t, n.SenderID)
	assert.EqualValues(t, 1, *n.SenderID)

	// an invalid token is ignored rather than rejected
	w = s.do(t, http.MethodPut, "/api/reports/1", map[string]string{"status": "resolved"}, "Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestComments(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/reports/5/comments", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/reports", sampleReport).Code)

	w = s.do(t, http.MethodPost, "/api/reports/1/comments", map[string]interface{}{"user_id": 1, "text": "On it"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/reports/1/comments", map[string]interface{}{"user_id": 1, "text": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/reports/1/comments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeList(t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "On it", list[0]["text"])
}

func TestNotifications_ReadAndDelete(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/reports", sampleReport).Code)

	w := s.do(t, http.MethodGet, "/api/notifications?unread=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeList(t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "New Issue Reported", list[0]["title"])

	w = s.do(t, http.MethodPut, "/api/notifications/1", map[string]interface{}{"is_read": "1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(t, http.MethodPut, "/api/notifications/1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/notifications?unread=true", nil)
	assert.Empty(t, decodeList(t, w))

	w = s.do(t, http.MethodPut, "/api/notifications/read-all", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 0, decode(t, w)["updated"])

	w = s.do(t, http.MethodPut, "/api/notifications/99", map[string]bool{"is_read": true})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, "/api/notifications/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/notifications/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotifications_Stream(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/reports", sampleReport).Code)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/stream", nil).WithContext(ctx)
	req.Header.Set("Last-Event-ID", "1")
	w := httptest.NewRecorder()

	// returns once the request context ends
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	out := w.Body.String()
	assert.Contains(t, out, "id:2\n")
	assert.Contains(t, out, "data:")
	assert.Contains(t, out, "New Issue Reported")
	assert.NotContains(t, out, "id:1\n")
}

func TestUsers(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/users", map[string]string{
		"name": "Maria", "email": "maria@example.com", "password": "secret123", "role": "staff",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2)

	w = s.do(t, http.MethodPut, "/api/users/2", map[string]string{"role": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/api/users/2", map[string]string{"email": "admin@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPut, "/api/users?id=2", map[string]string{"phone": "0917"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/users/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "0917", body["phone"])
	assert.Equal(t, "staff", body["role"])

	w = s.do(t, http.MethodDelete, "/api/users/2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/users/2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
