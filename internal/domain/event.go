package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind classifies a security event. The set is closed: Validate
// rejects kinds outside this enumeration.
type EventKind string

const (
	EventLoginSuccessful            EventKind = "LOGIN_SUCCESSFUL"
	EventLoginFailed                EventKind = "LOGIN_FAILED"
	EventCodeVerificationFailed     EventKind = "CODE_VERIFICATION_FAILED"
	EventCodeVerificationSuccessful EventKind = "CODE_VERIFICATION_SUCCESSFUL"
	EventUserBlocked                EventKind = "USER_BLOCKED"
	EventUserUnblocked              EventKind = "USER_UNBLOCKED"
	EventPasswordChanged            EventKind = "PASSWORD_CHANGED"
	EventPasswordRecovery           EventKind = "PASSWORD_RECOVERY"
	EventAccessDenied               EventKind = "ACCESS_DENIED"
	EventSuspiciousActivity         EventKind = "SUSPICIOUS_ACTIVITY"
	EventMultipleFailedAttempts     EventKind = "MULTIPLE_FAILED_ATTEMPTS"
	EventResetPassword              EventKind = "RESET_PASSWORD"
)

func (k EventKind) String() string { return string(k) }

func (k EventKind) IsValid() bool {
	switch k {
	case EventLoginSuccessful, EventLoginFailed,
		EventCodeVerificationFailed, EventCodeVerificationSuccessful,
		EventUserBlocked, EventUserUnblocked,
		EventPasswordChanged, EventPasswordRecovery,
		EventAccessDenied, EventSuspiciousActivity,
		EventMultipleFailedAttempts, EventResetPassword:
		return true
	}
	return false
}

// SecurityEvent is an immutable audit record of an authentication-adjacent
// occurrence. AccountID is nil for events with no resolved subject.
// OccurredAt is assigned at write time and never backdated.
type SecurityEvent struct {
	ID          uuid.UUID
	Kind        EventKind
	AccountID   *uuid.UUID
	IP          string
	UserAgent   string
	Description string
	OccurredAt  time.Time
}

// Validate checks the required fields of an event before it is appended.
func (e *SecurityEvent) Validate() error {
	var errs []FieldError

	if !e.Kind.IsValid() {
		errs = append(errs, FieldError{Field: "kind", Message: "unknown event kind"})
	}
	if e.IP == "" {
		errs = append(errs, FieldError{Field: "ip", Message: "required"})
	}
	if e.UserAgent == "" {
		errs = append(errs, FieldError{Field: "user_agent", Message: "required"})
	}
	if e.Description == "" {
		errs = append(errs, FieldError{Field: "description", Message: "required"})
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// EventFilter narrows event listings. Zero values mean "no constraint";
// From is inclusive, To is exclusive.
type EventFilter struct {
	AccountID *uuid.UUID
	Kind      *EventKind
	From      time.Time
	To        time.Time
	Limit     int
}
