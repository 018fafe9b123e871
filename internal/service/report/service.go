// Package report computes the daily security summary from the event log
// and the admin action ledger, dispatches it by mail, and serves the
// per-account monitoring view. Reports are derived on demand and never
// persisted.
package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nmueses/secaudit/internal/domain"
)

const (
	// multipleErrorThreshold is the combined failed-login and
	// failed-verification count above which an account is listed under
	// "multiple errors".
	multipleErrorThreshold = 3

	// suspiciousAttempts and suspiciousUserAgents are the per-IP
	// thresholds. Either one exceeded flags the IP.
	suspiciousAttempts   = 10
	suspiciousUserAgents = 3

	// monitorRecentEvents is how many events per account the monitoring
	// view carries.
	monitorRecentEvents = 10
)

// securityEvents defines the event log interface needed by the report service.
type securityEvents interface {
	EventsInWindow(ctx context.Context, start, end time.Time) ([]domain.SecurityEvent, error)
	EventsForAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.SecurityEvent, error)
}

// accountRepo defines the account repository interface needed by the report service.
type accountRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	CountByActive(ctx context.Context, active bool) (int, error)
}

// actionLedger records the SEND_REPORT action and counts account
// creations for the report window.
type actionLedger interface {
	Record(ctx context.Context, adminID uuid.UUID, kind domain.ActionKind, affectedID *uuid.UUID, description string) (domain.AdminAction, error)
	CountByKindInWindow(ctx context.Context, kind domain.ActionKind, start, end time.Time) (int, error)
}

// mailer delivers the rendered report.
type mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Service implements daily report generation and dispatch.
type Service struct {
	log       *slog.Logger
	events    securityEvents
	accounts  accountRepo
	ledger    actionLedger
	mail      mailer
	recipient string
}

// NewService creates a new report service instance. recipient is the
// mail address daily reports are sent to.
func NewService(
	logger *slog.Logger,
	events securityEvents,
	accounts accountRepo,
	ledger actionLedger,
	mail mailer,
	recipient string,
) *Service {
	return &Service{
		log:       logger.With("service", "report"),
		events:    events,
		accounts:  accounts,
		ledger:    ledger,
		mail:      mail,
		recipient: recipient,
	}
}
