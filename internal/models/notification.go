package models

import "time"

// Notification rows are immutable apart from IsRead. A nil UserID is a broadcast.
type Notification struct {
	ID             uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	Title          string           `gorm:"size:255;not null" json:"title"`
	Message        string           `gorm:"type:text;not null" json:"message"`
	Type           NotificationType `gorm:"size:20;not null;default:info" json:"type"`
	IsRead         bool             `gorm:"not null;default:false;index" json:"is_read"`
	UserID         *uint            `gorm:"index" json:"user_id"`
	SenderID       *uint            `json:"sender_id"`
	RelatedIssueID *uint            `gorm:"index" json:"related_issue_id"`
	CreatedAt      time.Time        `gorm:"autoCreateTime;index" json:"created_at"`
}
