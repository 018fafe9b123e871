package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nmueses/secaudit/internal/domain"
)

// All returns every recorded action, newest first.
func (s *Service) All(ctx context.Context) ([]domain.AdminAction, error) {
	actions, err := s.actions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledger.All: %w", err)
	}
	return actions, nil
}

// ByAdmin returns the actions performed by one admin, newest first.
func (s *Service) ByAdmin(ctx context.Context, adminID uuid.UUID) ([]domain.AdminAction, error) {
	actions, err := s.actions.ListByAdmin(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("ledger.ByAdmin: %w", err)
	}
	return actions, nil
}

// ByAffectedAccount returns the actions targeting one account, newest first.
func (s *Service) ByAffectedAccount(ctx context.Context, accountID uuid.UUID) ([]domain.AdminAction, error) {
	actions, err := s.actions.ListByAffectedAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("ledger.ByAffectedAccount: %w", err)
	}
	return actions, nil
}

// ByKindInWindow returns actions of one kind with start <= occurred_at < end,
// newest first.
func (s *Service) ByKindInWindow(ctx context.Context, kind domain.ActionKind, start, end time.Time) ([]domain.AdminAction, error) {
	if !kind.IsValid() {
		return nil, domain.NewValidationError("kind", "unknown action kind")
	}

	actions, err := s.actions.ListByKindInWindow(ctx, kind, start, end)
	if err != nil {
		return nil, fmt.Errorf("ledger.ByKindInWindow: %w", err)
	}
	return actions, nil
}

// CountByKindInWindow counts actions of one kind within [start, end).
func (s *Service) CountByKindInWindow(ctx context.Context, kind domain.ActionKind, start, end time.Time) (int, error) {
	count, err := s.actions.CountByKindInWindow(ctx, kind, start, end)
	if err != nil {
		return 0, fmt.Errorf("ledger.CountByKindInWindow: %w", err)
	}
	return count, nil
}
