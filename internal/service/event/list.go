package event

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nmueses/secaudit/internal/domain"
)

// EventsInWindow returns all events with start <= occurred_at < end,
// oldest first.
func (s *Service) EventsInWindow(ctx context.Context, start, end time.Time) ([]domain.SecurityEvent, error) {
	events, err := s.events.ListInWindow(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("event.EventsInWindow: %w", err)
	}
	return events, nil
}

// EventsForAccount returns the most recent events for one account,
// newest first. A non-positive limit falls back to the configured
// recent-events limit.
func (s *Service) EventsForAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.SecurityEvent, error) {
	if limit <= 0 {
		limit = s.recentLimit
	}

	events, err := s.events.ListByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("event.EventsForAccount: %w", err)
	}
	return events, nil
}

// List returns events matching the filter, newest first.
func (s *Service) List(ctx context.Context, f domain.EventFilter) ([]domain.SecurityEvent, error) {
	if f.Kind != nil && !f.Kind.IsValid() {
		return nil, domain.NewValidationError("kind", "unknown event kind")
	}

	events, err := s.events.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("event.List: %w", err)
	}
	return events, nil
}

// CountByKindSince counts events of one kind for one account with
// occurred_at >= since. The lockout engine uses it for the trailing
// failed-login window.
func (s *Service) CountByKindSince(ctx context.Context, accountID uuid.UUID, kind domain.EventKind, since time.Time) (int, error) {
	count, err := s.events.CountByKindSince(ctx, accountID, kind, since)
	if err != nil {
		return 0, fmt.Errorf("event.CountByKindSince: %w", err)
	}
	return count, nil
}
