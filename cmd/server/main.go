package main

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"labeler/internal/backend"
	"labeler/internal/config"
	"labeler/internal/handler"
	"labeler/internal/highlight"
	"labeler/internal/logging"
	"labeler/internal/router"
	"labeler/internal/service"
	"labeler/internal/web"
)

const shutdownTimeout = 10 * time.Second

// @title Labeler API
// @version 1.0
// @description Review and correct extracted job-posting fields.
// @BasePath /api/v1
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize storage
	store, err := backend.Open(cfg, afero.NewOsFs())
	if err != nil {
		return fmt.Errorf("failed to open %s backend: %w", cfg.Storage.Backend, err)
	}
	defer func() { _ = store.Close() }()

	// Initialize services
	hl := highlight.New(
		highlight.WithMarker(highlight.Marker{Open: cfg.Highlight.Open, Close: cfg.Highlight.Close}),
		highlight.WithEscaper(html.EscapeString),
	)
	labelingSvc := service.NewLabelingService(store.Records, store.Docs, hl, logger)
	exportSvc := service.NewExportService(store.Records, logger)

	// Initialize handlers
	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	labelH := handler.NewLabelingHandler(labelingSvc, logger)
	apiH := handler.NewAPIHandler(labelingSvc, exportSvc, logger)
	healthH := handler.NewHealthHandler(store.DB)

	// Setup router
	r := router.Setup(logger, cfg.CORS.AllowedOrigins, tmpl, labelH, apiH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Info("server starting",
		zap.String("addr", cfg.Server.Port),
		zap.String("backend", store.Name))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, srv, logger)
}

// serve runs srv until ctx is done, then shuts it down gracefully. It returns
// only after the listener goroutine has exited.
func serve(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	<-errCh
	return nil
}
