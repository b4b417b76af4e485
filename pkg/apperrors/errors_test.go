package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func render(t *testing.T, err error) (int, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	HandleError(c, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHandleError_AppError(t *testing.T) {
	code, body := render(t, ErrEmailAlreadyExists)

	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Email already in use", body["error"])
	assert.Equal(t, string(CodeAlreadyExists), body["code"])
}

func TestHandleError_FieldsAreTopLevel(t *testing.T) {
	code, body := render(t, ErrVerificationGate("Your admin account is pending verification", "pending"))

	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "Your admin account is pending verification", body["error"])
}

func TestHandleError_InternalIsGeneric(t *testing.T) {
	code, body := render(t, errors.New("pq: relation \"reports\" does not exist"))

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal server error", body["error"])
	assert.NotContains(t, body, "details")
}

func TestHandleError_WrappedAppError(t *testing.T) {
	cause := ErrNotFound(errors.New("record not found"), "report", "Report not found")
	code, body := render(t, errors.Join(errors.New("outer"), cause))

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Report not found", body["error"])
}

func TestWithField_DoesNotTouchPredefined(t *testing.T) {
	_ = ErrVerificationGate("x", "rejected")
	assert.Nil(t, ErrInvalidCredentials.Fields)
}
