package services

import (
	"context"
	"strings"

	"community_issues/internal/models"
	"community_issues/internal/repositories"
	"community_issues/internal/services/dto"
	"community_issues/pkg/apperrors"

	"gorm.io/gorm"
)

type CommentService interface {
	CreateComment(ctx context.Context, db *gorm.DB, reportID uint, req *dto.CreateCommentRequest) (*models.Comment, error)
	GetComments(ctx context.Context, db *gorm.DB, reportID uint) ([]models.Comment, error)
}

type commentService struct {
	commentRepo repositories.CommentRepository
	reportRepo  repositories.ReportRepository
}

func NewCommentService(commentRepo repositories.CommentRepository, reportRepo repositories.ReportRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reportRepo:  reportRepo,
	}
}

func (s *commentService) CreateComment(ctx context.Context, db *gorm.DB, reportID uint, req *dto.CreateCommentRequest) (*models.Comment, error) {
	if req.UserID == nil || req.UserID.Uint() == 0 {
		return nil, apperrors.NewBadRequestError("User ID is required")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperrors.NewBadRequestError("Comment text is required")
	}

	if _, err := s.reportRepo.FindByID(db, reportID); err != nil {
		return nil, handleReportError(err)
	}

	comment := &models.Comment{
		ReportID: reportID,
		UserID:   req.UserID.Uint(),
		Text:     text,
	}
	if err := s.commentRepo.Create(db, comment); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return comment, nil
}

func (s *commentService) GetComments(ctx context.Context, db *gorm.DB, reportID uint) ([]models.Comment, error) {
	if _, err := s.reportRepo.FindByID(db, reportID); err != nil {
		return nil, handleReportError(err)
	}

	comments, err := s.commentRepo.FindByReport(db, reportID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}
