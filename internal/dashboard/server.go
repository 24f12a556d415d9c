// Package dashboard serves the project tracker's JSON API.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/config"
)

// StartOpts holds configuration for the dashboard server.
type StartOpts struct {
	DB       *gorm.DB
	Port     int
	Out      io.Writer
	Logger   *zap.Logger
	Clock    civil.Clock
	Projects config.ProjectsConfig
}

// Start launches the dashboard HTTP server. It blocks until ctx is cancelled,
// then shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.DB == nil {
		return fmt.Errorf("dashboard: db is required")
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	gin.SetMode(gin.ReleaseMode)
	router, err := NewRouter(opts)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf("localhost:%d", opts.Port),
		Handler: router,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Dashboard running at http://localhost:%d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(opts StartOpts) (*gin.Engine, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("dashboard: db is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = civil.SystemClock{}
	}
	if opts.Projects.IDPrefix == "" {
		opts.Projects.IDPrefix = "SW"
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog(opts.Logger), instrument())
	registerRoutes(router, &handler{
		db:       opts.DB,
		log:      opts.Logger,
		clock:    opts.Clock,
		projects: opts.Projects,
	})
	return router, nil
}
