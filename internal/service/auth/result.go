package auth

import "github.com/nmueses/secaudit/internal/domain"

// AuthResult is returned by a successful Authenticate call. Account is
// sanitized: the password hash and recovery code are stripped.
type AuthResult struct {
	AccessToken string
	Account     *domain.Account
}

// VerifyResult is returned by VerifyRecoveryCode. Message is safe to
// show to the caller regardless of outcome.
type VerifyResult struct {
	Valid   bool
	Message string
}

// sanitize strips credential material before an account leaves the service.
func sanitize(a domain.Account) *domain.Account {
	a.PasswordHash = ""
	a.RecoveryCode = nil
	a.RecoveryCodeExpiresAt = nil
	return &a
}
