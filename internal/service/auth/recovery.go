package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/nmueses/secaudit/internal/domain"
)

// RecoveryAck is returned by RequestRecovery for every username, known
// or not, so the response cannot be used to enumerate accounts.
const RecoveryAck = "If the account exists, a recovery email has been sent"

const recoveryMailSubject = "Password recovery"

// RequestRecovery starts the recovery workflow. For a known account a
// 6-digit code is generated, persisted with its expiry, recorded as a
// RESET_PASSWORD event and mailed to the configured recipient. Mail
// failures are swallowed: the ack must be identical either way.
func (s *Service) RequestRecovery(ctx context.Context, username, ip, userAgent string) (string, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return RecoveryAck, nil
		}
		return "", fmt.Errorf("auth.RequestRecovery get account: %w", err)
	}

	code, err := generateRecoveryCode()
	if err != nil {
		return "", fmt.Errorf("auth.RequestRecovery generate code: %w", err)
	}
	expiresAt := time.Now().Add(s.cfg.RecoveryCodeTTL)

	if err := s.accounts.SetRecoveryCode(ctx, account.ID, code, expiresAt); err != nil {
		return "", fmt.Errorf("auth.RequestRecovery store code: %w", err)
	}
	if _, err := s.events.RecordPasswordReset(ctx, account.ID, ip, userAgent); err != nil {
		return "", fmt.Errorf("auth.RequestRecovery record event: %w", err)
	}

	if err := s.mail.Send(ctx, s.recipient, recoveryMailSubject, recoveryMailBody(code)); err != nil {
		// Best effort only: the ack must not reveal whether the mail
		// went out.
		s.log.ErrorContext(ctx, "recovery mail delivery failed",
			slog.String("account_id", account.ID.String()),
			slog.Any("error", err))
	}

	return RecoveryAck, nil
}

// VerifyRecoveryCode checks a submitted code against the stored one.
// The stored code is cleared after a successful verification; expired
// codes are left in place and produce a CODE_VERIFICATION_FAILED event.
func (s *Service) VerifyRecoveryCode(ctx context.Context, username, code, ip, userAgent string) (*VerifyResult, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// No event: unknown usernames leave no trail.
			return &VerifyResult{Valid: false, Message: "Invalid code"}, nil
		}
		return nil, fmt.Errorf("auth.VerifyRecoveryCode get account: %w", err)
	}

	if !account.HasRecoveryCode() {
		return &VerifyResult{Valid: false, Message: "Invalid code"}, nil
	}

	if *account.RecoveryCode != code {
		if _, err := s.events.RecordVerificationFailed(ctx, account.ID, ip, userAgent); err != nil {
			return nil, fmt.Errorf("auth.VerifyRecoveryCode record failure: %w", err)
		}
		return &VerifyResult{Valid: false, Message: "Invalid code"}, nil
	}

	if account.RecoveryCodeExpiresAt == nil {
		// A code without an expiry should not exist; treat it as unusable.
		return &VerifyResult{Valid: false, Message: "Code has no expiry on file"}, nil
	}

	if account.RecoveryCodeExpired(time.Now()) {
		if _, err := s.events.Record(ctx, domain.EventCodeVerificationFailed, &account.ID, ip, userAgent,
			fmt.Sprintf("Expired recovery code presented for account %s", account.ID)); err != nil {
			return nil, fmt.Errorf("auth.VerifyRecoveryCode record expiry: %w", err)
		}
		return &VerifyResult{Valid: false, Message: "Code expired"}, nil
	}

	if _, err := s.events.RecordVerificationSucceeded(ctx, account.ID, ip, userAgent); err != nil {
		return nil, fmt.Errorf("auth.VerifyRecoveryCode record success: %w", err)
	}
	if err := s.accounts.ClearRecoveryCode(ctx, account.ID); err != nil {
		return nil, fmt.Errorf("auth.VerifyRecoveryCode clear code: %w", err)
	}

	s.log.InfoContext(ctx, "recovery code verified",
		slog.String("account_id", account.ID.String()))

	return &VerifyResult{Valid: true, Message: "Code verified"}, nil
}

// generateRecoveryCode returns a uniform random zero-padded 6-digit code.
func generateRecoveryCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func recoveryMailBody(code string) string {
	return fmt.Sprintf(`<h1>Password recovery</h1>
<p>A password recovery was requested for your account.</p>
<p>Your verification code is: <strong>%s</strong></p>
<p>If you did not request this change, ignore this email.</p>`, code)
}
