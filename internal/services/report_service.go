package services

import (
	"context"
	"errors"
	"fmt"

	"community_issues/internal/logger"
	"community_issues/internal/models"
	"community_issues/internal/repositories"
	"community_issues/internal/services/dto"
	"community_issues/pkg/apperrors"

	"gorm.io/gorm"
)

type ReportService interface {
	CreateReport(ctx context.Context, db *gorm.DB, actorID *uint, req *dto.CreateReportRequest) (uint, error)
	GetReports(ctx context.Context, db *gorm.DB, filter dto.ReportFilter) ([]dto.ReportResponse, error)
	GetReport(ctx context.Context, db *gorm.DB, id uint) (*dto.ReportResponse, error)
	UpdateReport(ctx context.Context, db *gorm.DB, id uint, actorID *uint, req *dto.UpdateReportRequest) error
	DeleteReport(ctx context.Context, db *gorm.DB, id uint, actorID *uint) error
}

type reportService struct {
	reportRepo repositories.ReportRepository
	dispatcher NotificationDispatcher
	reviewerID uint
}

func NewReportService(
	reportRepo repositories.ReportRepository,
	dispatcher NotificationDispatcher,
	reviewerID uint,
) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		dispatcher: dispatcher,
		reviewerID: reviewerID,
	}
}

func (s *reportService) CreateReport(ctx context.Context, db *gorm.DB, actorID *uint, req *dto.CreateReportRequest) (uint, error) {
	status := models.ReportStatusPending
	if req.Status != "" {
		status = models.ReportStatus(req.Status)
		if !status.IsValid() {
			return 0, apperrors.ErrInvalidStatus("report", "Invalid status value")
		}
	}

	priority := models.ReportPriorityLow
	if req.Priority != "" {
		priority = models.ReportPriority(req.Priority)
		if !priority.IsValid() {
			return 0, apperrors.ErrInvalidStatus("report", "Invalid priority value")
		}
	}

	report := &models.Report{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Location:     req.Location,
		Status:       status,
		Priority:     priority,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
	}
	if req.ReporterID != nil {
		report.ReporterID = uintPtr(req.ReporterID.Uint())
	}
	if req.AssignedTo != nil {
		report.AssignedTo = uintPtr(req.AssignedTo.Uint())
	}

	tx := db.Begin()
	if tx.Error != nil {
		return 0, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.reportRepo.Create(tx, report, req.Images); err != nil {
		return 0, apperrors.InternalError(err)
	}

	s.dispatcher.Dispatch(ctx, tx, NotificationEvent{
		Title:          "New Issue Reported",
		Message:        fmt.Sprintf("A new issue has been reported: %s", report.Title),
		Type:           models.NotificationTypeInfo,
		RelatedIssueID: uintPtr(report.ID),
		RecipientID:    uintPtr(s.reviewerID),
		SenderID:       actorID,
	})

	if err := tx.Commit().Error; err != nil {
		return 0, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Report created", "report_id", report.ID, "images", len(req.Images))
	return report.ID, nil
}

func (s *reportService) GetReports(ctx context.Context, db *gorm.DB, filter dto.ReportFilter) ([]dto.ReportResponse, error) {
	reports, err := s.reportRepo.FindAll(db, repositories.ReportFilter{
		Status:     filter.Status,
		Category:   filter.Category,
		ReporterID: filter.ReporterID,
		AssignedTo: filter.AssignedTo,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		resp = append(resp, dto.NewReportResponse(&reports[i]))
	}
	return resp, nil
}

func (s *reportService) GetReport(ctx context.Context, db *gorm.DB, id uint) (*dto.ReportResponse, error) {
	report, err := s.reportRepo.FindByID(db, id)
	if err != nil {
		return nil, handleReportError(err)
	}
	resp := dto.NewReportResponse(report)
	return &resp, nil
}

func (s *reportService) UpdateReport(ctx context.Context, db *gorm.DB, id uint, actorID *uint, req *dto.UpdateReportRequest) error {
	fields, err := reportUpdateFields(req)
	if err != nil {
		return err
	}
	// images alone are not an update
	if len(fields) == 0 {
		return apperrors.ErrNoFieldsToUpdate
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	before, err := s.reportRepo.FindByID(tx, id)
	if err != nil {
		return handleReportError(err)
	}

	if err := s.reportRepo.Update(tx, id, fields); err != nil {
		return apperrors.InternalError(err)
	}
	if req.Images != nil {
		if err := s.reportRepo.ReplaceImages(tx, id, *req.Images); err != nil {
			return apperrors.InternalError(err)
		}
	}

	if newStatus, ok := fields[repositories.ReportFieldStatus]; ok && newStatus != before.Status {
		s.dispatcher.Dispatch(ctx, tx, NotificationEvent{
			Title:          "Issue Status Updated",
			Message:        fmt.Sprintf("The status of issue \"%s\" has been updated to %s", before.Title, newStatus),
			Type:           models.NotificationTypeUpdate,
			RelatedIssueID: uintPtr(id),
			RecipientID:    before.ReporterID,
			SenderID:       actorID,
		})
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Report updated", "report_id", id, "fields", len(fields))
	return nil
}

func (s *reportService) DeleteReport(ctx context.Context, db *gorm.DB, id uint, actorID *uint) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	deleted, err := s.reportRepo.Delete(tx, id)
	if err != nil {
		return handleReportError(err)
	}

	s.dispatcher.Dispatch(ctx, tx, NotificationEvent{
		Title:          "Issue Deleted",
		Message:        fmt.Sprintf("The issue \"%s\" has been deleted", deleted.Title),
		Type:           models.NotificationTypeWarning,
		RelatedIssueID: uintPtr(id),
		RecipientID:    deleted.ReporterID,
		SenderID:       actorID,
	})

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Report deleted", "report_id", id)
	return nil
}

// reportUpdateFields maps the supplied request fields onto the column
// allow-list. Enum values are checked here as well as by the validator
// because the empty string passes the tag rules.
func reportUpdateFields(req *dto.UpdateReportRequest) (map[repositories.ReportField]interface{}, error) {
	fields := make(map[repositories.ReportField]interface{})

	setString := func(field repositories.ReportField, v *string) {
		if v != nil {
			fields[field] = *v
		}
	}
	setString(repositories.ReportFieldTitle, req.Title)
	setString(repositories.ReportFieldDescription, req.Description)
	setString(repositories.ReportFieldCategory, req.Category)
	setString(repositories.ReportFieldLocation, req.Location)
	setString(repositories.ReportFieldContactName, req.ContactName)
	setString(repositories.ReportFieldContactPhone, req.ContactPhone)
	setString(repositories.ReportFieldContactEmail, req.ContactEmail)

	if req.Status != nil {
		status := models.ReportStatus(*req.Status)
		if !status.IsValid() {
			return nil, apperrors.ErrInvalidStatus("report", "Invalid status value")
		}
		fields[repositories.ReportFieldStatus] = status
	}
	if req.Priority != nil {
		priority := models.ReportPriority(*req.Priority)
		if !priority.IsValid() {
			return nil, apperrors.ErrInvalidStatus("report", "Invalid priority value")
		}
		fields[repositories.ReportFieldPriority] = priority
	}

	if req.ReporterID.Set {
		fields[repositories.ReportFieldReporterID] = req.ReporterID.Value
	}
	if req.AssignedTo.Set {
		fields[repositories.ReportFieldAssignedTo] = req.AssignedTo.Value
	}

	return fields, nil
}

func handleReportError(err error) error {
	if errors.Is(err, repositories.ErrReportNotFound) {
		return apperrors.ErrNotFound(err, "report", "Report not found")
	}
	return apperrors.InternalError(err)
}
