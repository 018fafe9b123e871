package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.PasswordHashCost < 4 || c.Auth.PasswordHashCost > 31 {
		return fmt.Errorf("auth.password_hash_cost must be within bcrypt bounds 4..31 (got %d)", c.Auth.PasswordHashCost)
	}

	if c.Security.MaxFailedAttempts <= 0 {
		return fmt.Errorf("security.max_failed_attempts must be > 0 (got %d)", c.Security.MaxFailedAttempts)
	}
	if c.Security.FailedWindow <= 0 {
		return fmt.Errorf("security.failed_window must be > 0 (got %v)", c.Security.FailedWindow)
	}
	if c.Security.RecoveryCodeTTL <= 0 {
		return fmt.Errorf("security.recovery_code_ttl must be > 0 (got %v)", c.Security.RecoveryCodeTTL)
	}
	if c.Security.RecentEventsLimit <= 0 {
		return fmt.Errorf("security.recent_events_limit must be > 0 (got %d)", c.Security.RecentEventsLimit)
	}

	// SMTP is optional (the mailer degrades to a no-op), but a half-configured
	// mail section is a deployment mistake worth failing on.
	if c.Mail.Host != "" {
		if c.Mail.From == "" {
			return fmt.Errorf("mail.from is required when mail.host is set")
		}
		if c.Mail.ReportRecipient == "" {
			return fmt.Errorf("mail.report_recipient is required when mail.host is set")
		}
	}

	return nil
}
