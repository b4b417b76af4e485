package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"community_issues/internal/auth"
	"community_issues/internal/email"
	"community_issues/internal/logger"
	"community_issues/internal/models"
	"community_issues/internal/repositories"
	"community_issues/internal/services/dto"
	"community_issues/pkg/apperrors"

	"gorm.io/gorm"
)

// Verification status values that exist only in responses.
const (
	verificationNotApplicable = "not_applicable"
	verificationNoRequest     = "no_request"
)

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest, clientIP string) (*dto.LoginResponse, error)
	ResolveVerification(ctx context.Context, db *gorm.DB, req *dto.VerifyRequest) error
	VerificationStatus(ctx context.Context, db *gorm.DB, userID uint) (*dto.VerificationStatusResponse, error)
	Reapply(ctx context.Context, db *gorm.DB, req *dto.ReapplyRequest) error
}

type AuthServiceImpl struct {
	userRepo         repositories.UserRepository
	verificationRepo repositories.VerificationRepository
	loginRepo        repositories.LoginRepository
	dispatcher       NotificationDispatcher
	mailer           email.Sender
	tokens           *auth.TokenManager
	reviewerID       uint
}

func NewAuthService(
	userRepo repositories.UserRepository,
	verificationRepo repositories.VerificationRepository,
	loginRepo repositories.LoginRepository,
	dispatcher NotificationDispatcher,
	mailer email.Sender,
	tokens *auth.TokenManager,
	reviewerID uint,
) AuthService {
	return &AuthServiceImpl{
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
		loginRepo:        loginRepo,
		dispatcher:       dispatcher,
		mailer:           mailer,
		tokens:           tokens,
		reviewerID:       reviewerID,
	}
}

// Register creates the account. Admin accounts also get a pending
// verification request and the reviewer is notified.
func (s *AuthServiceImpl) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	role := models.UserRole(req.Role)
	if !role.IsValid() {
		return nil, apperrors.NewBadRequestError("Invalid role")
	}
	if role == models.UserRoleAdmin {
		if err := checkVerificationInfo(req.VerificationInfo); err != nil {
			return nil, err
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, handlePasswordError(err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Password: hash,
		Role:     role,
		Avatar:   req.Avatar,
		Phone:    req.Phone,
		Barangay: req.Barangay,
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.userRepo.Create(tx, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	if role == models.UserRoleAdmin {
		if err := s.openVerificationRequest(ctx, tx, user, req.VerificationInfo); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "User registered", "user_id", user.ID, "role", string(user.Role))

	message := "Registration successful."
	if role == models.UserRoleAdmin {
		message = "Registration successful. Your account is pending verification."
	}
	return &dto.RegisterResponse{
		Success: true,
		Message: message,
		User:    dto.NewUserResponse(user).WithVerified(role != models.UserRoleAdmin),
	}, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest, clientIP string) (*dto.LoginResponse, error) {
	user, err := s.authenticate(db, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if user.IsAdmin() {
		if err := s.checkAdminVerified(db, user.ID); err != nil {
			return nil, err
		}
	}

	login := &models.UserLogin{UserID: user.ID, LoginTime: time.Now(), IPAddress: clientIP}
	if err := s.loginRepo.Record(db, login); err != nil {
		logger.CtxWithError(ctx, "Failed to record login", err, "user_id", user.ID)
	}

	token, err := s.tokens.Generate(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "User logged in", "user_id", user.ID)
	return &dto.LoginResponse{
		Success: true,
		User:    dto.NewUserResponse(user).WithVerified(true),
		Token:   token,
	}, nil
}

// ResolveVerification decides the user's most recent pending request. The
// outcome email goes out after commit and its failure is only logged.
func (s *AuthServiceImpl) ResolveVerification(ctx context.Context, db *gorm.DB, req *dto.VerifyRequest) error {
	if req.UserID == nil || req.UserID.Uint() == 0 {
		return apperrors.NewBadRequestError("User ID is required")
	}
	status := models.VerificationStatus(req.Status)
	if !status.IsDecision() {
		return apperrors.ErrInvalidStatus("auth", "Status must be approved or rejected")
	}

	user, err := s.userRepo.FindByID(db, req.UserID.Uint())
	if err != nil {
		return handleUserError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	pending, err := s.verificationRepo.FindLatestPending(tx, user.ID)
	if err != nil {
		return handleVerificationError(err)
	}
	if err := s.verificationRepo.Resolve(tx, pending.ID, status, req.Notes); err != nil {
		return handleVerificationError(err)
	}

	ev := NotificationEvent{
		Title:       "Admin Access Approved",
		Message:     "Your request for admin access has been approved. You now have access to admin features.",
		Type:        models.NotificationTypeSuccess,
		RecipientID: uintPtr(user.ID),
	}
	if status == models.VerificationStatusRejected {
		ev.Title = "Admin Access Rejected"
		ev.Message = "Your request for admin access has been rejected. Reason: " + req.Notes
		ev.Type = models.NotificationTypeError
	}
	s.dispatcher.Dispatch(ctx, tx, ev)

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Admin verification resolved", "user_id", user.ID, "status", string(status))
	s.sendOutcomeEmail(ctx, user, status == models.VerificationStatusApproved, req.Notes)
	return nil
}

func (s *AuthServiceImpl) VerificationStatus(ctx context.Context, db *gorm.DB, userID uint) (*dto.VerificationStatusResponse, error) {
	if userID == 0 {
		return nil, apperrors.NewBadRequestError("User ID is required")
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}
	if !user.IsAdmin() {
		return &dto.VerificationStatusResponse{Verified: true, Status: verificationNotApplicable}, nil
	}

	latest, err := s.verificationRepo.FindLatest(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrVerificationNotFound) {
			return &dto.VerificationStatusResponse{Verified: false, Status: verificationNoRequest}, nil
		}
		return nil, apperrors.InternalError(err)
	}

	requested, updated := latest.CreatedAt, latest.UpdatedAt
	return &dto.VerificationStatusResponse{
		Verified:    latest.Status == models.VerificationStatusApproved,
		Status:      string(latest.Status),
		Notes:       latest.AdminNotes,
		RequestDate: &requested,
		UpdatedDate: &updated,
	}, nil
}

// Reapply opens a new request for an admin whose last request was rejected.
func (s *AuthServiceImpl) Reapply(ctx context.Context, db *gorm.DB, req *dto.ReapplyRequest) error {
	user, err := s.authenticate(db, req.Email, req.Password)
	if err != nil {
		return err
	}
	if !user.IsAdmin() {
		return apperrors.ErrInvalidOperation("auth", "Only admin accounts require verification")
	}
	if err := checkVerificationInfo(req.VerificationInfo); err != nil {
		return err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	latest, err := s.verificationRepo.FindLatest(tx, user.ID)
	switch {
	case errors.Is(err, repositories.ErrVerificationNotFound):
	case err != nil:
		return apperrors.InternalError(err)
	case latest.Status == models.VerificationStatusPending:
		return apperrors.ErrConflict(nil, "auth", "A verification request is already pending")
	case latest.Status == models.VerificationStatusApproved:
		return apperrors.ErrConflict(nil, "auth", "Account is already verified")
	}

	if err := s.openVerificationRequest(ctx, tx, user, req.VerificationInfo); err != nil {
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Admin verification requested again", "user_id", user.ID)
	return nil
}

// ---------------- helpers ----------------

func (s *AuthServiceImpl) authenticate(db *gorm.DB, emailAddr, password string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(db, strings.TrimSpace(emailAddr))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}
	if !auth.CheckPasswordHash(password, user.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthServiceImpl) checkAdminVerified(db *gorm.DB, userID uint) error {
	latest, err := s.verificationRepo.FindLatest(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrVerificationNotFound) {
			return apperrors.ErrVerificationGate("Your admin account is pending verification", string(models.VerificationStatusPending))
		}
		return apperrors.InternalError(err)
	}

	switch latest.Status {
	case models.VerificationStatusApproved:
		return nil
	case models.VerificationStatusRejected:
		return apperrors.ErrVerificationGate("Your admin account verification was rejected", string(models.VerificationStatusRejected))
	default:
		return apperrors.ErrVerificationGate("Your admin account is pending verification", string(models.VerificationStatusPending))
	}
}

func (s *AuthServiceImpl) openVerificationRequest(ctx context.Context, tx *gorm.DB, user *models.User, info string) error {
	v := &models.AdminVerification{
		UserID:           user.ID,
		VerificationInfo: strings.TrimSpace(info),
		Status:           models.VerificationStatusPending,
	}
	if err := s.verificationRepo.Create(tx, v); err != nil {
		return apperrors.InternalError(err)
	}

	s.dispatcher.Dispatch(ctx, tx, NotificationEvent{
		Title: "New Admin Verification Request",
		Message: fmt.Sprintf("User %s (%s) has requested admin access. Please review their verification information.",
			user.Name, user.Email),
		Type:        models.NotificationTypeInfo,
		RecipientID: uintPtr(s.reviewerID),
		SenderID:    uintPtr(user.ID),
	})
	return nil
}

func (s *AuthServiceImpl) sendOutcomeEmail(ctx context.Context, user *models.User, approved bool, notes string) {
	msg, err := email.VerificationOutcome(user.Email, user.Name, approved, notes)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to render verification email", err, "user_id", user.ID)
		return
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		logger.CtxWithError(ctx, "Failed to send verification email", err, "user_id", user.ID)
	}
}

func checkVerificationInfo(info string) error {
	info = strings.TrimSpace(info)
	if info == "" {
		return apperrors.NewBadRequestError("verification information is required for admin role")
	}
	if utf8.RuneCountInString(info) < dto.MinVerificationInfoLength {
		return apperrors.NewBadRequestError("verification information must be at least 50 characters")
	}
	return nil
}

func handleUserError(err error) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.ErrNotFound(err, "user", "User not found")
	}
	return apperrors.InternalError(err)
}

func handleVerificationError(err error) error {
	if errors.Is(err, repositories.ErrNoPendingRequest) {
		return apperrors.ErrNotFound(err, "auth", "No pending verification request found for this user")
	}
	return apperrors.InternalError(err)
}

func handlePasswordError(err error) error {
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return apperrors.NewBadRequestError("Password must be at most 72 bytes")
	}
	return apperrors.InternalError(err)
}
