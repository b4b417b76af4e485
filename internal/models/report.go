package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type Report struct {
	BaseModel
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	Category     string         `gorm:"size:100;not null;index" json:"category"`
	Location     string         `gorm:"size:255;not null" json:"location"`
	Status       ReportStatus   `gorm:"size:20;not null;default:pending;index" json:"status"`
	Priority     ReportPriority `gorm:"size:20;not null;default:low" json:"priority"`
	ReporterID   *uint          `gorm:"index" json:"reporter_id"`
	AssignedTo   *uint          `gorm:"index" json:"assigned_to"`
	ContactName  *string        `gorm:"size:255" json:"contact_name"`
	ContactPhone *string        `gorm:"size:50" json:"contact_phone"`
	ContactEmail *string        `gorm:"size:255" json:"contact_email"`

	// LegacyImages is the inline JSON array older rows carry instead of
	// report_images rows. Only read as a fallback.
	LegacyImages datatypes.JSON `gorm:"column:images" json:"-"`
	Images       []ReportImage  `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"-"`
}

type ReportImage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ReportID  uint      `gorm:"not null;index" json:"report_id"`
	ImageURL  string    `gorm:"size:1024;not null" json:"image_url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// ImageURLs returns the detail rows in insertion order, falling back to the
// legacy inline column. Never nil.
func (r *Report) ImageURLs() []string {
	urls := make([]string, 0, len(r.Images))
	for _, img := range r.Images {
		urls = append(urls, img.ImageURL)
	}
	if len(urls) > 0 || len(r.LegacyImages) == 0 {
		return urls
	}

	var legacy []string
	if err := json.Unmarshal(r.LegacyImages, &legacy); err != nil {
		return urls
	}
	return append(urls, legacy...)
}
