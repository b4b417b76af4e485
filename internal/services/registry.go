package services

import (
	"community_issues/internal/auth"
	"community_issues/internal/config"
	"community_issues/internal/email"
	"community_issues/internal/repositories"
)

// ServiceContainer holds every service of the application.
type ServiceContainer struct {
	ReportService       ReportService
	NotificationService NotificationService
	AuthService         AuthService
	UserService         UserService
	CommentService      CommentService
	Dispatcher          NotificationDispatcher
	Tokens              *auth.TokenManager
	NotificationRepo    repositories.NotificationRepository
}

// NewServiceContainer builds repositories and services from the config.
func NewServiceContainer(cfg *config.Config, mailer email.Sender) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	verificationRepo := repositories.NewVerificationRepository()
	loginRepo := repositories.NewLoginRepository()
	reportRepo := repositories.NewReportRepository()
	notificationRepo := repositories.NewNotificationRepository()
	commentRepo := repositories.NewCommentRepository()

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.TokenTTL())
	dispatcher := NewNotificationDispatcher(notificationRepo)
	reviewerID := cfg.Notifications.ReviewerUserID

	return &ServiceContainer{
		ReportService:       NewReportService(reportRepo, dispatcher, reviewerID),
		NotificationService: NewNotificationService(notificationRepo),
		AuthService:         NewAuthService(userRepo, verificationRepo, loginRepo, dispatcher, mailer, tokens, reviewerID),
		UserService:         NewUserService(userRepo),
		CommentService:      NewCommentService(commentRepo, reportRepo),
		Dispatcher:          dispatcher,
		Tokens:              tokens,
		NotificationRepo:    notificationRepo,
	}
}
