package dto

import (
	"time"

	"community_issues/internal/models"
)

// ---------------- Requests ----------------

type CreateReportRequest struct {
	Title        string    `json:"title" validate:"required,notblank,max=255"`
	Description  string    `json:"description" validate:"required,notblank"`
	Category     string    `json:"category" validate:"required,notblank,max=100"`
	Location     string    `json:"location" validate:"required,notblank,max=255"`
	Status       string    `json:"status" validate:"omitempty,is-report-status"`
	Priority     string    `json:"priority" validate:"omitempty,is-report-priority"`
	ReporterID   *ID       `json:"reporter_id"`
	AssignedTo   *ID       `json:"assigned_to"`
	ContactName  *string   `json:"contact_name" validate:"omitempty,max=255"`
	ContactPhone *string   `json:"contact_phone" validate:"omitempty,max=50"`
	ContactEmail *string   `json:"contact_email" validate:"omitempty,max=255"`
	Images       ImageList `json:"images"`
}

// UpdateReportRequest is sparse: nil means "not supplied". Keys outside this
// struct are dropped by the JSON decoder and never reach the store.
type UpdateReportRequest struct {
	ID           *ID        `json:"id"`
	Title        *string    `json:"title" validate:"omitempty,notblank,max=255"`
	Description  *string    `json:"description" validate:"omitempty,notblank"`
	Category     *string    `json:"category" validate:"omitempty,notblank,max=100"`
	Location     *string    `json:"location" validate:"omitempty,notblank,max=255"`
	Status       *string    `json:"status" validate:"omitempty,is-report-status"`
	Priority     *string    `json:"priority" validate:"omitempty,is-report-priority"`
	ReporterID   OptionalID `json:"reporter_id"`
	AssignedTo   OptionalID `json:"assigned_to"`
	ContactName  *string    `json:"contact_name" validate:"omitempty,max=255"`
	ContactPhone *string    `json:"contact_phone" validate:"omitempty,max=50"`
	ContactEmail *string    `json:"contact_email" validate:"omitempty,max=255"`
	Images       *ImageList `json:"images"`
}

// DeleteRequest carries an id in the body, as the original client sends it.
type DeleteRequest struct {
	ID *ID `json:"id"`
}

type ReportFilter struct {
	Status     string `form:"status" validate:"omitempty,is-report-status"`
	Category   string `form:"category" json:"category"`
	ReporterID *uint  `form:"reporter_id" json:"reporter_id"`
	AssignedTo *uint  `form:"assigned_to" json:"assigned_to"`
}

// ---------------- Responses ----------------

type ReportResponse struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Location     string    `json:"location"`
	Status       string    `json:"status"`
	Priority     string    `json:"priority"`
	ReporterID   *uint     `json:"reporter_id"`
	AssignedTo   *uint     `json:"assigned_to"`
	ContactName  *string   `json:"contact_name"`
	ContactPhone *string   `json:"contact_phone"`
	ContactEmail *string   `json:"contact_email"`
	Images       []string  `json:"images"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateReportResponse struct {
	Success bool   `json:"success"`
	ID      uint   `json:"id"`
	Message string `json:"message"`
}

func NewReportResponse(r *models.Report) ReportResponse {
	return ReportResponse{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Category:     r.Category,
		Location:     r.Location,
		Status:       string(r.Status),
		Priority:     string(r.Priority),
		ReporterID:   r.ReporterID,
		AssignedTo:   r.AssignedTo,
		ContactName:  r.ContactName,
		ContactPhone: r.ContactPhone,
		ContactEmail: r.ContactEmail,
		Images:       r.ImageURLs(),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
