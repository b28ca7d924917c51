package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/feedback-kiosk/internal/application"
	"github.com/example/feedback-kiosk/internal/config"
	httptransport "github.com/example/feedback-kiosk/internal/http"
	"github.com/example/feedback-kiosk/internal/metrics"
	"github.com/example/feedback-kiosk/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	credential, err := resolveAdminCredential(cfg)
	if err != nil {
		logger.Error("failed to prepare admin credential", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close database", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	now := time.Now
	events := sqlite.NewEventRepository(pool)
	sessions := sqlite.NewSessionRepository(pool)

	feedbackService := application.NewFeedbackServiceWithLogger(events, now, logger)
	reportService := application.NewReportServiceWithLogger(events, now, logger)
	exportService := application.NewExportServiceWithLogger(events, cfg.ExportTextStyle, logger)
	authService := application.NewAuthService(application.AuthServiceConfig{
		Credential:     credential,
		Sessions:       sessions,
		TokenGenerator: func() (string, error) { return randomHex(32) },
		IDGenerator:    uuid.NewString,
		Now:            now,
		TTL:            cfg.SessionTTL,
		Logger:         logger,
	})

	m := metrics.New()
	router := httptransport.NewRouter(httptransport.RouterConfig{
		Feedback: httptransport.NewFeedbackHandler(feedbackService, m, logger),
		Admin: httptransport.NewAdminHandler(httptransport.AdminHandlerConfig{
			Auth:    authService,
			Reports: reportService,
			Exports: exportService,
			Metrics: m,
			Now:     now,
			Logger:  logger,
		}),
		Health:       httptransport.NewHealthHandler(pool, logger),
		Metrics:      m.Handler(),
		SessionGuard: httptransport.RequireAdminSession(authService, m, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.InstrumentRequests(m),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("feedback service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// resolveAdminCredential prefers a pre-hashed password and falls back to
// hashing a plaintext one at startup so the hash never has to live in an
// environment file.
func resolveAdminCredential(cfg config.Config) (application.AdminCredential, error) {
	hash := cfg.AdminPasswordHash
	if hash == "" {
		derived, err := application.CreatePasswordHash(cfg.AdminPassword)
		if err != nil {
			return application.AdminCredential{}, err
		}
		hash = derived
	}
	return application.AdminCredential{Username: cfg.AdminUser, PasswordHash: hash}, nil
}

func randomHex(bytes int) (string, error) {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
