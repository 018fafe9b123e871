// Package ledger implements the admin action ledger: an append-only
// record of privileged operations, each attributed to a verified admin.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nmueses/secaudit/internal/domain"
)

// actionRepo defines the action repository interface needed by the ledger service.
type actionRepo interface {
	Append(ctx context.Context, a domain.AdminAction) (domain.AdminAction, error)
	List(ctx context.Context) ([]domain.AdminAction, error)
	ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]domain.AdminAction, error)
	ListByAffectedAccount(ctx context.Context, accountID uuid.UUID) ([]domain.AdminAction, error)
	ListByKindInWindow(ctx context.Context, kind domain.ActionKind, start, end time.Time) ([]domain.AdminAction, error)
	CountByKindInWindow(ctx context.Context, kind domain.ActionKind, start, end time.Time) (int, error)
}

// accountRepo defines the account lookup needed to verify admin identity.
type accountRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

// Service implements admin action recording and querying.
type Service struct {
	log      *slog.Logger
	actions  actionRepo
	accounts accountRepo
}

// NewService creates a new ledger service instance.
func NewService(logger *slog.Logger, actions actionRepo, accounts accountRepo) *Service {
	return &Service{
		log:      logger.With("service", "ledger"),
		actions:  actions,
		accounts: accounts,
	}
}
