package models

import "time"

// BaseModel - auto-increment id plus timestamps. Ids grow in insertion order,
// which the notification stream relies on.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// All returns every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&AdminVerification{},
		&UserLogin{},
		&Report{},
		&ReportImage{},
		&Notification{},
		&Comment{},
	}
}
