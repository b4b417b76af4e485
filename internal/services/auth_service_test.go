package services

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"community_issues/internal/models"
	"community_issues/internal/services/dto"
	"community_issues/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const longInfo = "I am the barangay secretary of San Isidro, appointment letter no. 2024-117 attached."

func registerReq(name, email, role, info string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Name:             name,
		Email:            email,
		Password:         "secret123",
		Role:             role,
		VerificationInfo: info,
	}
}

func TestRegister_Resident(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.svc.AuthService.Register(context.Background(), env.db, registerReq("Juan", "juan@example.com", "resident", ""))
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Registration successful.", resp.Message)
	require.NotNil(t, resp.User.Verified)
	assert.True(t, *resp.User.Verified)
	assert.Zero(t, testutil.CountRows(t, env.db, &models.AdminVerification{}, "user_id = ?", resp.User.ID))
}

func TestRegister_AdminVerificationInfoRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.AuthService.Register(ctx, env.db, registerReq("Ana", "ana@example.com", "admin", ""))
	appErr := requireAppError(t, err, http.StatusBadRequest)
	assert.Equal(t, "verification information is required for admin role", appErr.Message)

	_, err = env.svc.AuthService.Register(ctx, env.db, registerReq("Ana", "ana@example.com", "admin", strings.Repeat("x", 49)))
	appErr = requireAppError(t, err, http.StatusBadRequest)
	assert.Equal(t, "verification information must be at least 50 characters", appErr.Message)

	assert.Zero(t, testutil.CountRows(t, env.db, &models.User{}, "email = ?", "ana@example.com"))
}

func TestRegister_AdminOpensPendingRequest(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.svc.AuthService.Register(context.Background(), env.db, registerReq("Ana", "ana@example.com", "admin", longInfo))
	require.NoError(t, err)
	assert.Equal(t, "Registration successful. Your account is pending verification.", resp.Message)
	require.NotNil(t, resp.User.Verified)
	assert.False(t, *resp.User.Verified)

	assert.EqualValues(t, 1, testutil.CountRows(t, env.db, &models.AdminVerification{},
		"user_id = ? AND status = ?", resp.User.ID, models.VerificationStatusPending))

	list := env.notifications(t, "New Admin Verification Request")
	require.Len(t, list, 1)
	assert.Equal(t, "User Ana (ana@example.com) has requested admin access. Please review their verification information.", list[0].Message)
	require.NotNil(t, list[0].UserID)
	assert.Equal(t, env.reviewer.ID, *list[0].UserID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.AuthService.Register(ctx, env.db, registerReq("Juan", "juan@example.com", "resident", ""))
	require.NoError(t, err)

	_, err = env.svc.AuthService.Register(ctx, env.db, registerReq("Juan 2", "juan@example.com", "staff", ""))
	requireAppError(t, err, http.StatusConflict)
}

func TestLogin_Credentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	testutil.CreateUser(t, env.db, "Juan", "juan@example.com", models.UserRoleResident)

	_, err := env.svc.AuthService.Login(ctx, env.db, &dto.LoginRequest{Email: "juan@example.com", Password: "wrong"}, "")
	appErr := requireAppError(t, err, http.StatusUnauthorized)
	assert.Equal(t, "Invalid email or password", appErr.Message)

	_, err = env.svc.AuthService.Login(ctx, env.db, &dto.LoginRequest{Email: "nobody@example.com", Password: "password"}, "")
	requireAppError(t, err, http.StatusUnauthorized)

	resp, err := env.svc.AuthService.Login(ctx, env.db, &dto.LoginRequest{Email: "juan@example.com", Password: "password"}, "10.0.0.7")
	require.NoError(t, err)
	require.NotNil(t, resp.User.Verified)
	assert.True(t, *resp.User.Verified)

	claims, err := env.svc.Tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "resident", claims.Role)

	assert.EqualValues(t, 1, testutil.CountRows(t, env.db, &models.UserLogin{},
		"user_id = ? AND ip_address = ?", resp.User.ID, "10.0.0.7"))
}

func TestLogin_AdminGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	login := func(email string) error {
		_, err := env.svc.AuthService.Login(ctx, env.db, &dto.LoginRequest{Email: email, Password: "password"}, "")
		return err
	}

	none := testutil.CreateUser(t, env.db, "No Request", "none@example.com", models.UserRoleAdmin)
	appErr := requireAppError(t, login(none.Email), http.StatusForbidden)
	assert.Equal(t, "pending", appErr.Fields["status"])

	pending := testutil.CreateUser(t, env.db, "Pending", "pending@example.com", models.UserRoleAdmin)
	testutil.CreateVerification(t, env.db, pending.ID, models.VerificationStatusPending)
	appErr = requireAppError(t, login(pending.Email), http.StatusForbidden)
	assert.Equal(t, "pending", appErr.Fields["status"])
	assert.Equal(t, "Your admin account is pending verification", appErr.Message)

	rejected := testutil.CreateUser(t, env.db, "Rejected", "rejected@example.com", models.UserRoleAdmin)
	testutil.CreateVerification(t, env.db, rejected.ID, models.VerificationStatusRejected)
	appErr = requireAppError(t, login(rejected.Email), http.StatusForbidden)
	assert.Equal(t, "rejected", appErr.Fields["status"])

	assert.NoError(t, login(env.reviewer.Email))
}

func TestResolveVerification_Approve(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.svc.AuthService.Register(ctx, env.db, registerReq("Ana", "ana@example.com", "admin", longInfo))
	require.NoError(t, err)
	userID := dto.ID(reg.User.ID)

	require.NoError(t, env.svc.AuthService.ResolveVerification(ctx, env.db, &dto.VerifyRequest{
		UserID: &userID, Status: "approved",
	}))

	list := env.notifications(t, "Admin Access Approved")
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationTypeSuccess, list[0].Type)
	require.NotNil(t, list[0].UserID)
	assert.Equal(t, reg.User.ID, *list[0].UserID)

	require.Len(t, env.mailer.sent, 1)
	assert.Equal(t, "ana@example.com", env.mailer.sent[0].To)

	status, err := env.svc.AuthService.VerificationStatus(ctx, env.db, reg.User.ID)
	require.NoError(t, err)
	assert.True(t, status.Verified)
	assert.Equal(t, "approved", status.Status)

	_, err = env.svc.AuthService.Login(ctx, env.db, &dto.LoginRequest{Email: "ana@example.com", Password: "secret123"}, "")
	require.NoError(t, err)

	err = env.svc.AuthService.ResolveVerification(ctx, env.db, &dto.VerifyRequest{UserID: &userID, Status: "rejected"})
	appErr := requireAppError(t, err, http.StatusNotFound)
	assert.Equal(t, "No pending verification request found for this user", appErr.Message)
}

func TestResolveVerification_RejectThenReapply(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.svc.AuthService.Register(ctx, env.db, registerReq("Ana", "ana@example.com", "admin", longInfo))
	require.NoError(t, err)
	userID := dto.ID(reg.User.ID)

	require.NoError(t, env.svc.AuthService.ResolveVerification(ctx, env.db, &dto.VerifyRequest{
		UserID: &userID, Status: "rejected", Notes: "ID photo unreadable",
	}))

	list := env.notifications(t, "Admin Access Rejected")
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationTypeError, list[0].Type)
	assert.Contains(t, list[0].Message, "ID photo unreadable")

	status, err := env.svc.AuthService.VerificationStatus(ctx, env.db, reg.User.ID)
	require.NoError(t, err)
	assert.False(t, status.Verified)
	assert.Equal(t, "rejected", status.Status)
	require.NotNil(t, status.Notes)
	assert.Equal(t, "ID photo unreadable", *status.Notes)

	reapply := &dto.ReapplyRequest{Email: "ana@example.com", Password: "secret123", VerificationInfo: longInfo}
	require.NoError(t, env.svc.AuthService.Reapply(ctx, env.db, reapply))
	assert.EqualValues(t, 2, testutil.CountRows(t, env.db, &models.AdminVerification{}, "user_id = ?", reg.User.ID))

	status, err = env.svc.AuthService.VerificationStatus(ctx, env.db, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", status.Status)

	err = env.svc.AuthService.Reapply(ctx, env.db, reapply)
	requireAppError(t, err, http.StatusConflict)
}

func TestReapply_Rules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	testutil.CreateUser(t, env.db, "Juan", "juan@example.com", models.UserRoleResident)

	err := env.svc.AuthService.Reapply(ctx, env.db, &dto.ReapplyRequest{Email: "juan@example.com", Password: "password", VerificationInfo: longInfo})
	requireAppError(t, err, http.StatusBadRequest)

	err = env.svc.AuthService.Reapply(ctx, env.db, &dto.ReapplyRequest{Email: env.reviewer.Email, Password: "nope", VerificationInfo: longInfo})
	requireAppError(t, err, http.StatusUnauthorized)

	err = env.svc.AuthService.Reapply(ctx, env.db, &dto.ReapplyRequest{Email: env.reviewer.Email, Password: "password", VerificationInfo: longInfo})
	requireAppError(t, err, http.StatusConflict)
}

func TestResolveVerification_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.svc.AuthService.ResolveVerification(ctx, env.db, &dto.VerifyRequest{Status: "approved"})
	requireAppError(t, err, http.StatusBadRequest)

	missing := dto.ID(999)
	err = env.svc.AuthService.ResolveVerification(ctx, env.db, &dto.VerifyRequest{UserID: &missing, Status: "approved"})
	requireAppError(t, err, http.StatusNotFound)

	reviewer := dto.ID(env.reviewer.ID)
	err = env.svc.AuthService.ResolveVerification(ctx, env.db, &dto.VerifyRequest{UserID: &reviewer, Status: "pending"})
	requireAppError(t, err, http.StatusBadRequest)
}

func TestResolveVerification_EmailFailureIsNotFatal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mailer.err = errInjected

	reg, err := env.svc.AuthService.Register(ctx, env.db, registerReq("Ana", "ana@example.com", "admin", longInfo))
	require.NoError(t, err)
	userID := dto.ID(reg.User.ID)

	assert.NoError(t, env.svc.AuthService.ResolveVerification(ctx, env.db, &dto.VerifyRequest{UserID: &userID, Status: "approved"}))
}

func TestVerificationStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.AuthService.VerificationStatus(ctx, env.db, 0)
	requireAppError(t, err, http.StatusBadRequest)

	_, err = env.svc.AuthService.VerificationStatus(ctx, env.db, 999)
	requireAppError(t, err, http.StatusNotFound)

	resident := testutil.CreateUser(t, env.db, "Juan", "juan@example.com", models.UserRoleResident)
	status, err := env.svc.AuthService.VerificationStatus(ctx, env.db, resident.ID)
	require.NoError(t, err)
	assert.Equal(t, &dto.VerificationStatusResponse{Verified: true, Status: "not_applicable"}, status)

	admin := testutil.CreateUser(t, env.db, "Ana", "ana@example.com", models.UserRoleAdmin)
	status, err = env.svc.AuthService.VerificationStatus(ctx, env.db, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, &dto.VerificationStatusResponse{Verified: false, Status: "no_request"}, status)
}

func TestRegister_PasswordTooLong(t *testing.T) {
	env := newTestEnv(t)

	req := registerReq("Juan", "juan@example.com", "resident", "")
	req.Password = strings.Repeat("p", 80)
	_, err := env.svc.AuthService.Register(context.Background(), env.db, req)
	appErr := requireAppError(t, err, http.StatusBadRequest)
	assert.Equal(t, "Password must be at most 72 bytes", appErr.Message)
	assert.Zero(t, testutil.CountRows(t, env.db, &models.User{}, "email = ?", "juan@example.com"))
}
