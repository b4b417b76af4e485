package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"community_issues/internal/config"
	"community_issues/internal/database"
	"community_issues/internal/email"
	"community_issues/internal/feed"
	"community_issues/internal/handlers"
	"community_issues/internal/logger"
	"community_issues/internal/middleware"
	"community_issues/internal/routes"
	"community_issues/internal/services"
	"community_issues/internal/validator"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Run starts the HTTP server and blocks until SIGINT/SIGTERM.
func Run(cfg *config.Config) error {
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(gormDB); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()

	if err := database.Migrate(gormDB); err != nil {
		return err
	}
	if err := database.SeedReviewer(gormDB, cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return Serve(ctx, cfg, gormDB)
}

// Serve runs the server until ctx is cancelled, then shuts it down
// gracefully. Open notification streams end with the base context.
func Serve(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) error {
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	srv := &http.Server{
		Addr:        cfg.Address(),
		Handler:     SetupRouter(cfg, gormDB),
		BaseContext: func(net.Listener) context.Context { return baseCtx },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")

		// streams never finish on their own
		cancelBase()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// SetupRouter wires services and handlers onto a new gin engine.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	serviceContainer := services.NewServiceContainer(cfg, email.NewSender(cfg))
	appHandlers := initializeHandlers(cfg, serviceContainer)

	ginRouter := initializeGinRouter(gormDB, serviceContainer)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeHandlers(cfg *config.Config, svc *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	poller := feed.NewPoller(svc.NotificationRepo, cfg.StreamInterval(), cfg.Notifications.StreamBatch)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, svc.AuthService),
		UserHandler:         handlers.NewUserHandler(baseHandler, svc.UserService, svc.AuthService),
		ReportHandler:       handlers.NewReportHandler(baseHandler, svc.ReportService),
		CommentHandler:      handlers.NewCommentHandler(baseHandler, svc.CommentService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, svc.NotificationService, poller),
		HealthHandler:       handlers.NewHealthHandler(baseHandler),
	}
}

func initializeGinRouter(db *gorm.DB, svc *services.ServiceContainer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.OptionalAuth(svc.Tokens))
	router.Use(middleware.DBMiddleware(db))
	return router
}
