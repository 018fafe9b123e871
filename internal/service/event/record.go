package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nmueses/secaudit/internal/domain"
)

// Record validates and appends a security event. The timestamp is
// assigned by the repository at write time; callers cannot backdate
// events.
func (s *Service) Record(ctx context.Context, kind domain.EventKind, accountID *uuid.UUID, ip, userAgent, description string) (domain.SecurityEvent, error) {
	e := domain.SecurityEvent{
		Kind:        kind,
		AccountID:   accountID,
		IP:          ip,
		UserAgent:   userAgent,
		Description: description,
	}

	if err := e.Validate(); err != nil {
		return domain.SecurityEvent{}, err
	}

	stored, err := s.events.Append(ctx, e)
	if err != nil {
		return domain.SecurityEvent{}, fmt.Errorf("event.Record: %w", err)
	}

	s.log.InfoContext(ctx, "security event recorded",
		slog.String("kind", kind.String()),
		slog.String("event_id", stored.ID.String()))

	return stored, nil
}

// ---------------------------------------------------------------------------
// Convenience recorders used by the authentication and account services.
// ---------------------------------------------------------------------------

// RecordSuccessfulLogin records a LOGIN_SUCCESSFUL event.
func (s *Service) RecordSuccessfulLogin(ctx context.Context, accountID uuid.UUID, ip, userAgent string) (domain.SecurityEvent, error) {
	return s.Record(ctx, domain.EventLoginSuccessful, &accountID, ip, userAgent,
		fmt.Sprintf("Successful login for account %s", accountID))
}

// RecordFailedLogin records a LOGIN_FAILED event.
func (s *Service) RecordFailedLogin(ctx context.Context, accountID uuid.UUID, ip, userAgent string) (domain.SecurityEvent, error) {
	return s.Record(ctx, domain.EventLoginFailed, &accountID, ip, userAgent,
		fmt.Sprintf("Failed login attempt for account %s", accountID))
}

// RecordMultipleAttempts records a MULTIPLE_FAILED_ATTEMPTS event with
// the observed attempt count in the description.
func (s *Service) RecordMultipleAttempts(ctx context.Context, accountID uuid.UUID, ip, userAgent string, attempts int) (domain.SecurityEvent, error) {
	return s.Record(ctx, domain.EventMultipleFailedAttempts, &accountID, ip, userAgent,
		fmt.Sprintf("Account %s made %d failed login attempts", accountID, attempts))
}

// RecordBlocked records a USER_BLOCKED event.
func (s *Service) RecordBlocked(ctx context.Context, accountID uuid.UUID, ip, userAgent string) (domain.SecurityEvent, error) {
	return s.Record(ctx, domain.EventUserBlocked, &accountID, ip, userAgent,
		fmt.Sprintf("Account %s has been blocked after multiple failed login attempts", accountID))
}

// RecordPasswordReset records a RESET_PASSWORD event for a recovery
// request.
func (s *Service) RecordPasswordReset(ctx context.Context, accountID uuid.UUID, ip, userAgent string) (domain.SecurityEvent, error) {
	return s.Record(ctx, domain.EventResetPassword, &accountID, ip, userAgent,
		fmt.Sprintf("Password recovery requested for account %s", accountID))
}

// RecordVerificationFailed records a CODE_VERIFICATION_FAILED event.
func (s *Service) RecordVerificationFailed(ctx context.Context, accountID uuid.UUID, ip, userAgent string) (domain.SecurityEvent, error) {
	return s.Record(ctx, domain.EventCodeVerificationFailed, &accountID, ip, userAgent,
		fmt.Sprintf("Recovery code used incorrectly for account %s", accountID))
}

// RecordVerificationSucceeded records a CODE_VERIFICATION_SUCCESSFUL event.
func (s *Service) RecordVerificationSucceeded(ctx context.Context, accountID uuid.UUID, ip, userAgent string) (domain.SecurityEvent, error) {
	return s.Record(ctx, domain.EventCodeVerificationSuccessful, &accountID, ip, userAgent,
		fmt.Sprintf("Recovery code verified for account %s", accountID))
}
