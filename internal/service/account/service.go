// Package account implements admin-driven account provisioning: create,
// update, delete and the explicit lock/unlock transitions. Every
// mutation is attributed to an admin through the action ledger.
package account

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nmueses/secaudit/internal/domain"
)

// accountRepo defines the account repository interface needed by the account service.
type accountRepo interface {
	Create(ctx context.Context, a *domain.Account) (*domain.Account, error)
	Update(ctx context.Context, id uuid.UUID, username string, role domain.Role) (*domain.Account, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
}

// actionLedger records admin actions with identity verification.
type actionLedger interface {
	Record(ctx context.Context, adminID uuid.UUID, kind domain.ActionKind, affectedID *uuid.UUID, description string) (domain.AdminAction, error)
}

// securityEvents appends security events for state transitions.
type securityEvents interface {
	Record(ctx context.Context, kind domain.EventKind, accountID *uuid.UUID, ip, userAgent, description string) (domain.SecurityEvent, error)
}

// passwordHasher derives storage hashes from plaintext passwords.
type passwordHasher interface {
	Hash(plain string) (string, error)
}

// txManager runs a function inside a single database transaction, so a
// state change and its audit records commit or roll back together.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements account provisioning operations.
type Service struct {
	log      *slog.Logger
	accounts accountRepo
	ledger   actionLedger
	events   securityEvents
	hasher   passwordHasher
	txm      txManager
}

// NewService creates a new account service instance.
func NewService(
	logger *slog.Logger,
	accounts accountRepo,
	ledger actionLedger,
	events securityEvents,
	hasher passwordHasher,
	txm txManager,
) *Service {
	return &Service{
		log:      logger.With("service", "account"),
		accounts: accounts,
		ledger:   ledger,
		events:   events,
		hasher:   hasher,
		txm:      txm,
	}
}
