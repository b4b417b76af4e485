package dto

import (
	"time"

	"community_issues/internal/models"
)

// MinVerificationInfoLength is the shortest accepted admin justification.
const MinVerificationInfoLength = 50

type RegisterRequest struct {
	Name             string  `json:"name" validate:"required,notblank,max=255"`
	Email            string  `json:"email" validate:"required,notblank,max=191"`
	Password         string  `json:"password" validate:"required,password-bytes"`
	Role             string  `json:"role" validate:"required,is-user-role"`
	VerificationInfo string  `json:"verificationInfo"`
	Avatar           *string `json:"avatar" validate:"omitempty,max=512"`
	Phone            *string `json:"phone" validate:"omitempty,max=50"`
	Barangay         *string `json:"barangay" validate:"omitempty,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type VerifyRequest struct {
	UserID *ID    `json:"userId" validate:"required"`
	Status string `json:"status" validate:"required,is-verification-decision"`
	Notes  string `json:"notes"`
}

// ReapplyRequest lets a rejected admin submit a new verification request.
type ReapplyRequest struct {
	Email            string `json:"email" validate:"required"`
	Password         string `json:"password" validate:"required"`
	VerificationInfo string `json:"verificationInfo"`
}

// ---------------- Responses ----------------

type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Avatar    *string   `json:"avatar"`
	Phone     *string   `json:"phone"`
	Barangay  *string   `json:"barangay"`
	Verified  *bool     `json:"verified,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Avatar:    u.Avatar,
		Phone:     u.Phone,
		Barangay:  u.Barangay,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// WithVerified annotates the response with the verification flag.
func (r UserResponse) WithVerified(verified bool) UserResponse {
	r.Verified = &verified
	return r
}

type RegisterResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type LoginResponse struct {
	Success bool         `json:"success"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token,omitempty"`
}

// VerificationStatusResponse keeps the camelCase keys the dashboard reads.
type VerificationStatusResponse struct {
	Verified    bool       `json:"verified"`
	Status      string     `json:"status"`
	Notes       *string    `json:"notes,omitempty"`
	RequestDate *time.Time `json:"requestDate,omitempty"`
	UpdatedDate *time.Time `json:"updatedDate,omitempty"`
}
