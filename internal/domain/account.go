package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role represents the privilege level of an account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	}
	return false
}

// Account is a login identity with a credential hash, an active/locked
// flag and an optional pending recovery code.
//
// Active is the inverse of locked: an account with Active == false is
// locked and cannot authenticate. RecoveryCode and RecoveryCodeExpiresAt
// are either both set or both nil; the recovery workflow maintains that
// pairing, storage does not enforce it.
type Account struct {
	ID                    uuid.UUID
	Username              string
	PasswordHash          string
	Active                bool
	Role                  Role
	RecoveryCode          *string
	RecoveryCodeExpiresAt *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsLocked returns true if the account cannot authenticate.
func (a *Account) IsLocked() bool {
	return !a.Active
}

// IsAdmin returns true if the account holds the admin role.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// HasRecoveryCode returns true if a recovery code is on file.
func (a *Account) HasRecoveryCode() bool {
	return a.RecoveryCode != nil
}

// RecoveryCodeExpired returns true if the stored recovery code has
// passed its expiry relative to now. An account with no expiry on file
// is treated as expired.
func (a *Account) RecoveryCodeExpired(now time.Time) bool {
	if a.RecoveryCodeExpiresAt == nil {
		return true
	}
	return now.After(*a.RecoveryCodeExpiresAt)
}
