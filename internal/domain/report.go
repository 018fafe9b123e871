package domain

import (
	"time"

	"github.com/google/uuid"
)

// UnknownUser is the username placeholder used in reports when an event
// references no account or the account no longer resolves.
const UnknownUser = "Unknown user"

// LoginRecord is one successful login listed in the daily report.
type LoginRecord struct {
	Username   string
	IP         string
	UserAgent  string
	OccurredAt time.Time
}

// FailedLoginSummary aggregates failed logins for one account over the
// report window. Active is a snapshot of the account's current state.
type FailedLoginSummary struct {
	AccountID uuid.UUID
	Username  string
	Attempts  int
	Active    bool
}

// VerificationOutcome is the latest recovery-code verification event for
// one account within the report window. Approved reflects whether that
// latest event was a success.
type VerificationOutcome struct {
	AccountID  uuid.UUID
	Username   string
	Approved   bool
	OccurredAt time.Time
}

// AccountErrorCount counts combined failed logins and failed
// verifications for one account within the report window.
type AccountErrorCount struct {
	AccountID uuid.UUID
	Username  string
	Errors    int
}

// SuspiciousIP describes an IP address whose event volume or user-agent
// diversity within the report window exceeded the thresholds.
type SuspiciousIP struct {
	IP         string
	Attempts   int
	UserAgents []string
}

// DailyReport is the derived security summary for one calendar day.
// It is computed on demand and never persisted. LockedAccounts and
// ActiveAccounts are snapshots of current global state, not counts
// scoped to the report window.
type DailyReport struct {
	Date        time.Time
	TotalEvents int

	SuccessfulLogins      []LoginRecord
	FailedLogins          []FailedLoginSummary
	Verifications         []VerificationOutcome
	MultipleErrorAccounts []AccountErrorCount
	SuspiciousIPs         []SuspiciousIP

	LockedAccounts  int
	ActiveAccounts  int
	AccountsCreated int
}

// AccountActivity pairs an account with its recent security events, used
// by the admin monitoring view.
type AccountActivity struct {
	AccountID uuid.UUID
	Username  string
	Blocked   bool
	Events    []SecurityEvent
}
