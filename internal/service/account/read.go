package account

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nmueses/secaudit/internal/domain"
)

// Get returns a single account by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("account.Get: %w", err)
	}
	return account, nil
}

// List returns every account ordered by username.
func (s *Service) List(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("account.List: %w", err)
	}
	return accounts, nil
}
