package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nmueses/secaudit/internal/domain"
)

// Authenticate validates credentials and applies the lockout policy.
//
// The decision order is fixed:
//  1. unknown username: ErrUnauthorized with no event written, so the
//     log cannot be used to probe for valid usernames;
//  2. locked account: a USER_BLOCKED event, then ErrUnauthorized;
//  3. wrong password: a LOGIN_FAILED event; if the trailing window now
//     holds at least the configured number of failures the account is
//     locked and MULTIPLE_FAILED_ATTEMPTS plus USER_BLOCKED are written,
//     in that order;
//  4. match: a LOGIN_SUCCESSFUL event and a signed session token.
//
// Every failure branch returns plain domain.ErrUnauthorized.
func (s *Service) Authenticate(ctx context.Context, username, password, ip, userAgent string) (*AuthResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrUnauthorized
	}

	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Unknown username leaves no trail.
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Authenticate get account: %w", err)
	}

	if account.IsLocked() {
		if _, err := s.events.RecordBlocked(ctx, account.ID, ip, userAgent); err != nil {
			return nil, fmt.Errorf("auth.Authenticate record blocked: %w", err)
		}
		return nil, domain.ErrUnauthorized
	}

	if !s.passwords.Verify(password, account.PasswordHash) {
		if err := s.handleFailedAttempt(ctx, account, ip, userAgent); err != nil {
			return nil, err
		}
		return nil, domain.ErrUnauthorized
	}

	if _, err := s.events.RecordSuccessfulLogin(ctx, account.ID, ip, userAgent); err != nil {
		return nil, fmt.Errorf("auth.Authenticate record login: %w", err)
	}

	token, err := s.tokens.Issue(account.ID, account.Username, account.Role.String())
	if err != nil {
		return nil, fmt.Errorf("auth.Authenticate issue token: %w", err)
	}

	s.log.InfoContext(ctx, "login successful",
		slog.String("account_id", account.ID.String()))

	return &AuthResult{
		AccessToken: token,
		Account:     sanitize(*account),
	}, nil
}

// handleFailedAttempt records the failure and locks the account once the
// trailing window reaches the threshold. The count is taken after the
// new LOGIN_FAILED event is written, so it includes the current attempt.
func (s *Service) handleFailedAttempt(ctx context.Context, account *domain.Account, ip, userAgent string) error {
	if _, err := s.events.RecordFailedLogin(ctx, account.ID, ip, userAgent); err != nil {
		return fmt.Errorf("auth.Authenticate record failure: %w", err)
	}

	since := time.Now().Add(-s.cfg.FailedWindow)
	attempts, err := s.events.CountByKindSince(ctx, account.ID, domain.EventLoginFailed, since)
	if err != nil {
		return fmt.Errorf("auth.Authenticate count failures: %w", err)
	}

	if attempts < s.cfg.MaxFailedAttempts {
		return nil
	}

	if err := s.accounts.SetActive(ctx, account.ID, false); err != nil {
		return fmt.Errorf("auth.Authenticate lock account: %w", err)
	}
	if _, err := s.events.RecordMultipleAttempts(ctx, account.ID, ip, userAgent, attempts); err != nil {
		return fmt.Errorf("auth.Authenticate record attempts: %w", err)
	}
	if _, err := s.events.RecordBlocked(ctx, account.ID, ip, userAgent); err != nil {
		return fmt.Errorf("auth.Authenticate record blocked: %w", err)
	}

	s.log.WarnContext(ctx, "account locked after repeated failures",
		slog.String("account_id", account.ID.String()),
		slog.Int("attempts", attempts))

	return nil
}
