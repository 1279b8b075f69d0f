package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"draftwise/internal/auth"
	"draftwise/internal/config"
	"draftwise/internal/extraction"
	"draftwise/internal/handler"
	"draftwise/internal/llm/providers"
	"draftwise/internal/repository/sqlrepo"
	"draftwise/internal/router"
	"draftwise/internal/service"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		zap.L().Error("server exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "draftwise: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return eris.Wrap(err, "failed to load config")
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		return eris.Wrap(err, "failed to initialize logger")
	}
	defer func() { _ = zap.L().Sync() }()

	db, err := sqlrepo.NewDB(&cfg.DB)
	if err != nil {
		return eris.Wrap(err, "failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	profileRepo := sqlrepo.NewProfileRepo(db)
	clientRepo := sqlrepo.NewClientRepo(db)
	productRepo := sqlrepo.NewProductRepo(db)

	// Initialize the model chain
	model, err := providers.Build(&cfg.Model)
	if err != nil {
		return eris.Wrap(err, "failed to initialize text model")
	}

	res := service.NewResolver(cfg.Extraction)
	extractor := extraction.NewExtractor(model, profileRepo, clientRepo, productRepo,
		extraction.WithModelTimeout(cfg.Extraction.ModelTimeout),
		extraction.WithResolver(res),
	)

	// Initialize services
	tokenSvc := auth.NewTokenService(cfg.JWT)
	extractionSvc := service.NewExtractionService(extractor, res)
	resolveSvc := service.NewResolveService(clientRepo, productRepo, res)
	workflowSvc := service.NewWorkflowService(extractor)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := service.NewSessionSweeper(workflowSvc, service.SessionSweeperConfig{
		Interval: cfg.Extraction.SweepInterval,
		TTL:      cfg.Extraction.SessionTTL,
	})
	go sweeper.Start(ctx)

	// Initialize handlers
	extractionH := handler.NewExtractionHandler(extractionSvc)
	resolveH := handler.NewResolveHandler(resolveSvc)
	workflowH := handler.NewWorkflowHandler(workflowSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(tokenSvc, cfg.CORS.AllowedOrigins, extractionH, resolveH, workflowH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("server starting", zap.String("addr", srv.Addr), zap.String("environment", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return eris.Wrap(err, "server failed")
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "graceful shutdown failed")
	}
	return nil
}
