package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nmueses/secaudit/internal/domain"
)

// Record verifies that adminID belongs to an admin account, then
// appends the action. Unknown or non-admin identities get ErrNotFound
// and nothing is written.
func (s *Service) Record(ctx context.Context, adminID uuid.UUID, kind domain.ActionKind, affectedID *uuid.UUID, description string) (domain.AdminAction, error) {
	a := domain.AdminAction{
		AdminID:           adminID,
		Kind:              kind,
		AffectedAccountID: affectedID,
		Description:       description,
	}
	if err := a.Validate(); err != nil {
		return domain.AdminAction{}, err
	}

	admin, err := s.accounts.GetByID(ctx, adminID)
	if err != nil {
		return domain.AdminAction{}, fmt.Errorf("ledger.Record: %w", err)
	}
	if !admin.IsAdmin() {
		return domain.AdminAction{}, fmt.Errorf("ledger.Record: account %s is not an admin: %w", adminID, domain.ErrNotFound)
	}

	stored, err := s.actions.Append(ctx, a)
	if err != nil {
		return domain.AdminAction{}, fmt.Errorf("ledger.Record: %w", err)
	}

	s.log.InfoContext(ctx, "admin action recorded",
		slog.String("kind", kind.String()),
		slog.String("admin_id", adminID.String()),
		slog.String("action_id", stored.ID.String()))

	return stored, nil
}
