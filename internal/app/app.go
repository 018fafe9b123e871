package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nmueses/secaudit/internal/adapter/postgres"
	accountrepo "github.com/nmueses/secaudit/internal/adapter/postgres/account"
	actionrepo "github.com/nmueses/secaudit/internal/adapter/postgres/action"
	eventrepo "github.com/nmueses/secaudit/internal/adapter/postgres/event"
	"github.com/nmueses/secaudit/internal/adapter/smtp"
	"github.com/nmueses/secaudit/internal/auth"
	"github.com/nmueses/secaudit/internal/config"
	accountsvc "github.com/nmueses/secaudit/internal/service/account"
	authsvc "github.com/nmueses/secaudit/internal/service/auth"
	eventsvc "github.com/nmueses/secaudit/internal/service/event"
	ledgersvc "github.com/nmueses/secaudit/internal/service/ledger"
	reportsvc "github.com/nmueses/secaudit/internal/service/report"
	"github.com/nmueses/secaudit/internal/transport/middleware"
	"github.com/nmueses/secaudit/internal/transport/rest"
)

// requestsPerMinute caps per-IP request volume at the edge, before any
// handler runs.
const requestsPerMinute = 120

// Run is the application entry point. It loads configuration, connects
// to the database, assembles the services and serves HTTP until ctx is
// cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("app: connect database: %w", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	accounts := accountrepo.New(pool)
	events := eventrepo.New(pool)
	actions := actionrepo.New(pool)

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	hasher := auth.NewPasswordHasher(cfg.Auth.PasswordHashCost)

	mailer, err := smtp.New(cfg.Mail, logger)
	if err != nil {
		return fmt.Errorf("app: init mailer: %w", err)
	}

	eventService := eventsvc.NewService(logger, events, cfg.Security.RecentEventsLimit)
	ledgerService := ledgersvc.NewService(logger, actions, accounts)
	authService := authsvc.NewService(logger, accounts, eventService, hasher, tokens, mailer,
		cfg.Security, cfg.Mail.ReportRecipient)
	accountService := accountsvc.NewService(logger, accounts, ledgerService, eventService, hasher, txm)
	reportService := reportsvc.NewService(logger, eventService, accounts, ledgerService, mailer,
		cfg.Mail.ReportRecipient)

	authHandler := rest.NewAuthHandler(authService, logger)
	adminHandler := rest.NewAdminHandler(accountService, reportService, eventService, ledgerService,
		eventService, logger)
	healthHandler := rest.NewHealthHandler(pool, BuildVersion())

	mux := rest.NewRouter(authHandler, adminHandler, healthHandler)

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		limiter.Limit(requestsPerMinute),
		middleware.Auth(tokens),
	)(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("app: serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}

	return nil
}
