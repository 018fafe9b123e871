package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nmueses/secaudit/internal/domain"
)

// Create provisions a new active account and records a CREATE_USER
// ledger action attributed to adminID.
func (s *Service) Create(ctx context.Context, adminID uuid.UUID, input CreateInput) (*domain.Account, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account.Create hash password: %w", err)
	}

	var created *domain.Account
	err = s.txm.RunInTx(ctx, func(ctx context.Context) error {
		created, err = s.accounts.Create(ctx, &domain.Account{
			Username:     input.Username,
			PasswordHash: hash,
			Active:       true,
			Role:         input.Role,
		})
		if err != nil {
			return err
		}

		if _, err := s.ledger.Record(ctx, adminID, domain.ActionCreateUser, &created.ID,
			fmt.Sprintf("Account %s (%s) created by the administrator", created.ID, created.Username)); err != nil {
			return fmt.Errorf("record action: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("account.Create: %w", err)
	}

	s.log.InfoContext(ctx, "account created",
		slog.String("account_id", created.ID.String()),
		slog.String("admin_id", adminID.String()))

	return created, nil
}

// Update modifies username and role, and optionally rotates the
// password. A password change is also visible in the security event log
// as PASSWORD_CHANGED; ip and userAgent attribute that event to the
// admin's request.
func (s *Service) Update(ctx context.Context, adminID, id uuid.UUID, input UpdateInput, ip, userAgent string) (*domain.Account, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Account
	err := s.txm.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.accounts.Update(ctx, id, input.Username, input.Role)
		if err != nil {
			return err
		}

		if input.Password != nil {
			hash, err := s.hasher.Hash(*input.Password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			if err := s.accounts.UpdatePassword(ctx, id, hash); err != nil {
				return fmt.Errorf("update password: %w", err)
			}
			if _, err := s.events.Record(ctx, domain.EventPasswordChanged, &id, ip, userAgent,
				fmt.Sprintf("Password changed for account %s by the administrator", id)); err != nil {
				return fmt.Errorf("record event: %w", err)
			}
		}

		if _, err := s.ledger.Record(ctx, adminID, domain.ActionModifyUser, &id,
			fmt.Sprintf("Account %s modified by the administrator", id)); err != nil {
			return fmt.Errorf("record action: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("account.Update: %w", err)
	}

	s.log.InfoContext(ctx, "account updated",
		slog.String("account_id", id.String()),
		slog.String("admin_id", adminID.String()))

	return updated, nil
}

// Delete removes an account and records a DELETE_USER ledger action.
// Returns ErrNotFound for an unknown id.
func (s *Service) Delete(ctx context.Context, adminID, id uuid.UUID) error {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("account.Delete: %w", err)
	}

	err = s.txm.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.accounts.Delete(ctx, id); err != nil {
			return err
		}

		if _, err := s.ledger.Record(ctx, adminID, domain.ActionDeleteUser, nil,
			fmt.Sprintf("Account %s (%s) deleted by the administrator", id, account.Username)); err != nil {
			return fmt.Errorf("record action: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("account.Delete: %w", err)
	}

	s.log.InfoContext(ctx, "account deleted",
		slog.String("account_id", id.String()),
		slog.String("admin_id", adminID.String()))

	return nil
}
