// Package auth implements authentication with automatic lockout and the
// recovery-code workflow. Every decision leaves a trail in the security
// event log; all failure branches collapse to domain.ErrUnauthorized at
// the boundary so callers cannot probe for account existence.
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nmueses/secaudit/internal/config"
	"github.com/nmueses/secaudit/internal/domain"
)

// accountRepo defines the account repository interface needed by the auth service.
type accountRepo interface {
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SetRecoveryCode(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error
	ClearRecoveryCode(ctx context.Context, id uuid.UUID) error
}

// securityEvents defines the event log interface needed by the auth service.
type securityEvents interface {
	Record(ctx context.Context, kind domain.EventKind, accountID *uuid.UUID, ip, userAgent, description string) (domain.SecurityEvent, error)
	RecordSuccessfulLogin(ctx context.Context, accountID uuid.UUID, ip, userAgent string) (domain.SecurityEvent, error)
	RecordFailedLogin(ctx context.Context, accountID uuid.UUID, ip, userAgent string) (domain.SecurityEvent, error)
	RecordMultipleAttempts(ctx context.Context, accountID uuid.UUID, ip, userAgent string, attempts int) (domain.SecurityEvent, error)
	RecordBlocked(ctx context.Context, accountID uuid.UUID, ip, userAgent string) (domain.SecurityEvent, error)
	RecordPasswordReset(ctx context.Context, accountID uuid.UUID, ip, userAgent string) (domain.SecurityEvent, error)
	RecordVerificationFailed(ctx context.Context, accountID uuid.UUID, ip, userAgent string) (domain.SecurityEvent, error)
	RecordVerificationSucceeded(ctx context.Context, accountID uuid.UUID, ip, userAgent string) (domain.SecurityEvent, error)
	CountByKindSince(ctx context.Context, accountID uuid.UUID, kind domain.EventKind, since time.Time) (int, error)
}

// passwordVerifier checks a plaintext password against a stored hash.
type passwordVerifier interface {
	Verify(plain, hash string) bool
}

// tokenIssuer signs session tokens for authenticated accounts.
type tokenIssuer interface {
	Issue(accountID uuid.UUID, username, role string) (string, error)
}

// mailer dispatches outbound mail. Recovery delivery is best-effort.
type mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Service implements login, automatic lockout and recovery codes.
type Service struct {
	log       *slog.Logger
	accounts  accountRepo
	events    securityEvents
	passwords passwordVerifier
	tokens    tokenIssuer
	mail      mailer
	cfg       config.SecurityConfig
	recipient string
}

// NewService creates a new auth service instance. recipient is the
// configured destination for recovery-code mail.
func NewService(
	logger *slog.Logger,
	accounts accountRepo,
	events securityEvents,
	passwords passwordVerifier,
	tokens tokenIssuer,
	mail mailer,
	cfg config.SecurityConfig,
	recipient string,
) *Service {
	return &Service{
		log:       logger.With("service", "auth"),
		accounts:  accounts,
		events:    events,
		passwords: passwords,
		tokens:    tokens,
		mail:      mail,
		cfg:       cfg,
		recipient: recipient,
	}
}
