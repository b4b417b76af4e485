package handlers

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	ReportHandler       *ReportHandler
	CommentHandler      *CommentHandler
	NotificationHandler *NotificationHandler
	HealthHandler       *HealthHandler
}
