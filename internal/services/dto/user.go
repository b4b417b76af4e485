package dto

// UpdateUserRequest is sparse. Role is deliberately absent: it cannot change.
type UpdateUserRequest struct {
	ID       *ID     `json:"id"`
	Name     *string `json:"name" validate:"omitempty,notblank,max=255"`
	Email    *string `json:"email" validate:"omitempty,notblank,max=191"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
	Barangay *string `json:"barangay" validate:"omitempty,max=255"`
	Avatar   *string `json:"avatar" validate:"omitempty,max=512"`
	Password *string `json:"password" validate:"omitempty,notblank,password-bytes"`
}
