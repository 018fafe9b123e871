// Package event implements the security event log: an append-only record
// of authentication-adjacent occurrences with filtered read access.
package event

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nmueses/secaudit/internal/domain"
)

// DefaultRecentLimit bounds per-account event listings when the caller
// does not supply a limit.
const DefaultRecentLimit = 10

// eventRepo defines the event repository interface needed by the event service.
type eventRepo interface {
	Append(ctx context.Context, e domain.SecurityEvent) (domain.SecurityEvent, error)
	ListInWindow(ctx context.Context, start, end time.Time) ([]domain.SecurityEvent, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.SecurityEvent, error)
	List(ctx context.Context, f domain.EventFilter) ([]domain.SecurityEvent, error)
	CountByKindSince(ctx context.Context, accountID uuid.UUID, kind domain.EventKind, since time.Time) (int, error)
}

// Service implements security event recording and querying.
type Service struct {
	log         *slog.Logger
	events      eventRepo
	recentLimit int
}

// NewService creates a new event service instance. recentLimit bounds
// EventsForAccount when the caller passes a non-positive limit; values
// <= 0 fall back to DefaultRecentLimit.
func NewService(logger *slog.Logger, events eventRepo, recentLimit int) *Service {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	return &Service{
		log:         logger.With("service", "event"),
		events:      events,
		recentLimit: recentLimit,
	}
}
