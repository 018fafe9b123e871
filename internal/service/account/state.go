package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nmueses/secaudit/internal/domain"
)

// Lock deactivates an account. The transition is idempotent: locking an
// already inactive account still records the BLOCK_USER action and the
// USER_BLOCKED event, so the audit trail reflects every attempt.
func (s *Service) Lock(ctx context.Context, adminID, id uuid.UUID, ip, userAgent string) error {
	if _, err := s.accounts.GetByID(ctx, id); err != nil {
		return fmt.Errorf("account.Lock: %w", err)
	}

	err := s.txm.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.accounts.SetActive(ctx, id, false); err != nil {
			return err
		}

		if _, err := s.events.Record(ctx, domain.EventUserBlocked, &id, ip, userAgent,
			fmt.Sprintf("Account %s has been blocked by the administrator", id)); err != nil {
			return fmt.Errorf("record event: %w", err)
		}

		if _, err := s.ledger.Record(ctx, adminID, domain.ActionBlockUser, &id,
			fmt.Sprintf("Account %s has been blocked by the administrator", id)); err != nil {
			return fmt.Errorf("record action: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("account.Lock: %w", err)
	}

	s.log.InfoContext(ctx, "account locked",
		slog.String("account_id", id.String()),
		slog.String("admin_id", adminID.String()))

	return nil
}

// Unlock reactivates an account. Also idempotent, for the same reason
// as Lock.
func (s *Service) Unlock(ctx context.Context, adminID, id uuid.UUID, ip, userAgent string) error {
	if _, err := s.accounts.GetByID(ctx, id); err != nil {
		return fmt.Errorf("account.Unlock: %w", err)
	}

	err := s.txm.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.accounts.SetActive(ctx, id, true); err != nil {
			return err
		}

		if _, err := s.events.Record(ctx, domain.EventUserUnblocked, &id, ip, userAgent,
			fmt.Sprintf("Account %s has been unblocked by the administrator", id)); err != nil {
			return fmt.Errorf("record event: %w", err)
		}

		if _, err := s.ledger.Record(ctx, adminID, domain.ActionUnblockUser, &id,
			fmt.Sprintf("Account %s has been unblocked by the administrator", id)); err != nil {
			return fmt.Errorf("record action: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("account.Unlock: %w", err)
	}

	s.log.InfoContext(ctx, "account unlocked",
		slog.String("account_id", id.String()),
		slog.String("admin_id", adminID.String()))

	return nil
}
