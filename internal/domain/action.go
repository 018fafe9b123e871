package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActionKind classifies a privileged administrative operation.
type ActionKind string

const (
	ActionBlockUser   ActionKind = "BLOCK_USER"
	ActionUnblockUser ActionKind = "UNBLOCK_USER"
	ActionCreateUser  ActionKind = "CREATE_USER"
	ActionDeleteUser  ActionKind = "DELETE_USER"
	ActionModifyUser  ActionKind = "MODIFY_USER"
	ActionSendReport  ActionKind = "SEND_REPORT"
)

func (k ActionKind) String() string { return string(k) }

func (k ActionKind) IsValid() bool {
	switch k {
	case ActionBlockUser, ActionUnblockUser, ActionCreateUser,
		ActionDeleteUser, ActionModifyUser, ActionSendReport:
		return true
	}
	return false
}

// AdminAction is an immutable audit record of a privileged operation.
// AdminID must reference an account with the admin role; the ledger
// verifies that at write time. AffectedAccountID is nil for actions
// with no target account (e.g. sending a report).
type AdminAction struct {
	ID                uuid.UUID
	AdminID           uuid.UUID
	Kind              ActionKind
	AffectedAccountID *uuid.UUID
	Description       string
	OccurredAt        time.Time
}

// Validate checks the required fields of an action before it is appended.
func (a *AdminAction) Validate() error {
	var errs []FieldError

	if a.AdminID == uuid.Nil {
		errs = append(errs, FieldError{Field: "admin_id", Message: "required"})
	}
	if !a.Kind.IsValid() {
		errs = append(errs, FieldError{Field: "kind", Message: "unknown action kind"})
	}
	if a.Description == "" {
		errs = append(errs, FieldError{Field: "description", Message: "required"})
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
