package account

import (
	"github.com/nmueses/secaudit/internal/domain"
)

// CreateInput holds parameters for account creation.
type CreateInput struct {
	Username string
	Password string
	Role     domain.Role
}

// Validate validates the create input.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	if i.Username == "" {
		errs = append(errs, domain.FieldError{Field: "username", Message: "required"})
	} else if len(i.Username) > 64 {
		errs = append(errs, domain.FieldError{Field: "username", Message: "too long"})
	}

	if len(i.Password) < 8 {
		errs = append(errs, domain.FieldError{Field: "password", Message: "must be at least 8 characters"})
	}

	if !i.Role.IsValid() {
		errs = append(errs, domain.FieldError{Field: "role", Message: "unknown role"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateInput holds parameters for account modification. Password is
// optional (nil = unchanged).
type UpdateInput struct {
	Username string
	Role     domain.Role
	Password *string
}

// Validate validates the update input.
func (i UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.Username == "" {
		errs = append(errs, domain.FieldError{Field: "username", Message: "required"})
	} else if len(i.Username) > 64 {
		errs = append(errs, domain.FieldError{Field: "username", Message: "too long"})
	}

	if !i.Role.IsValid() {
		errs = append(errs, domain.FieldError{Field: "role", Message: "unknown role"})
	}

	if i.Password != nil && len(*i.Password) < 8 {
		errs = append(errs, domain.FieldError{Field: "password", Message: "must be at least 8 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
