package models

import "time"

type User struct {
	BaseModel
	Name     string   `gorm:"size:255;not null" json:"name"`
	Email    string   `gorm:"size:191;not null;uniqueIndex" json:"email"`
	Password string   `gorm:"size:255;not null" json:"-"`
	Role     UserRole `gorm:"size:20;not null;default:resident" json:"role"`
	Avatar   *string  `gorm:"size:512" json:"avatar,omitempty"`
	Phone    *string  `gorm:"size:50" json:"phone,omitempty"`
	Barangay *string  `gorm:"size:255" json:"barangay,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// AdminVerification is one access request of an admin account. The most
// recent row (created_at, then id) is the account's current state.
type AdminVerification struct {
	BaseModel
	UserID           uint               `gorm:"not null;index" json:"user_id"`
	VerificationInfo string             `gorm:"type:text;not null" json:"verification_info"`
	Status           VerificationStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	AdminNotes       *string            `gorm:"type:text" json:"admin_notes,omitempty"`
}

type UserLogin struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	LoginTime time.Time `gorm:"not null" json:"login_time"`
	IPAddress string    `gorm:"size:64" json:"ip_address"`
}
