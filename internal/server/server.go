// Package server assembles the HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobtrack-ai/internal/handlers"
	"github.com/justsurfingit/jobtrack-ai/internal/metrics"
	"github.com/justsurfingit/jobtrack-ai/internal/middleware"
	"github.com/justsurfingit/jobtrack-ai/internal/services"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Deps struct {
	DB           *gorm.DB
	Log          logrus.FieldLogger
	Auth         *services.AuthService
	Applications *services.ApplicationService
	Inbox        *services.InboxService

	// AllowedOrigins restricts CORS; empty allows every origin.
	AllowedOrigins []string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(metrics.Middleware())

	config := cors.DefaultConfig()
	if len(d.AllowedOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = d.AllowedOrigins
		config.AllowCredentials = true
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	config.ExposeHeaders = []string{middleware.RequestIDHeader}
	r.Use(cors.New(config))

	userHandler := handlers.NewUserHandler(d.Auth)
	appHandler := handlers.NewApplicationHandler(d.Applications, d.Inbox)

	r.GET("/", handlers.Root)
	r.GET("/health", handlers.HealthCheck(d.DB))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	users := r.Group("/users")
	{
		users.POST("/signup", userHandler.Signup)
		users.POST("/login", userHandler.Login)
	}

	apps := r.Group("/applications", middleware.RequireUser(d.Auth, handlers.WriteError))
	{
		apps.POST("/", appHandler.Create)
		apps.GET("/", appHandler.List)
		apps.GET("/suggest-jobs", appHandler.SuggestJobs)
		apps.PATCH("/:id", appHandler.Update)
		apps.DELETE("/:id", appHandler.Delete)
		apps.POST("/:id/analyze-jd", appHandler.AnalyzeJD)
		apps.POST("/:id/tailor-resume", appHandler.TailorResume)
		apps.POST("/:id/rejection", appHandler.Rejection)
		apps.GET("/:id/export-pdf", appHandler.ExportPDF)
		apps.GET("/:id/emails", appHandler.Emails)
	}

	return r
}

// Run serves handler on addr until ctx is cancelled, then drains in-flight
// requests for up to ten seconds.
func Run(ctx context.Context, addr string, handler http.Handler, log logrus.FieldLogger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
