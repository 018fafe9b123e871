package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nmueses/secaudit/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedAccount creates an active account with the given role.
// Returns a filled domain.Account.
func SeedAccount(t *testing.T, pool *pgxpool.Pool, role domain.Role) domain.Account {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	account := domain.Account{
		ID:           uuid.New(),
		Username:     "testuser-" + suffix,
		PasswordHash: "$2a$10$" + suffix + "fakehashfakehashfakehash",
		Active:       true,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO accounts (id, username, password_hash, active, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		account.ID, account.Username, account.PasswordHash, account.Active, string(account.Role), account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAccount insert account: %v", err)
	}

	return account
}

// SeedLockedAccount creates an account with active = false.
func SeedLockedAccount(t *testing.T, pool *pgxpool.Pool) domain.Account {
	t.Helper()
	ctx := context.Background()

	account := SeedAccount(t, pool, domain.RoleUser)
	account.Active = false

	_, err := pool.Exec(ctx,
		`UPDATE accounts SET active = false WHERE id = $1`,
		account.ID,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedLockedAccount update account: %v", err)
	}

	return account
}

// SeedEvent inserts a security event with the given kind and occurrence time.
// accountID may be uuid.Nil for events not tied to a known account.
func SeedEvent(t *testing.T, pool *pgxpool.Pool, kind domain.EventKind, accountID uuid.UUID, occurredAt time.Time) domain.SecurityEvent {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	event := domain.SecurityEvent{
		ID:          uuid.New(),
		Kind:        kind,
		IP:          "192.0.2.10",
		UserAgent:   "test-agent/" + suffix,
		Description: "seeded event " + suffix,
		OccurredAt:  occurredAt.UTC().Truncate(time.Microsecond),
	}
	if accountID != uuid.Nil {
		id := accountID
		event.AccountID = &id
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO security_events (id, kind, account_id, ip, user_agent, description, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID, string(event.Kind), event.AccountID, event.IP, event.UserAgent, event.Description, event.OccurredAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedEvent insert event: %v", err)
	}

	return event
}

// SeedAction inserts an admin action performed by adminID.
// affectedID may be uuid.Nil for actions without an affected account.
func SeedAction(t *testing.T, pool *pgxpool.Pool, kind domain.ActionKind, adminID, affectedID uuid.UUID, occurredAt time.Time) domain.AdminAction {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	action := domain.AdminAction{
		ID:          uuid.New(),
		AdminID:     adminID,
		Kind:        kind,
		Description: "seeded action " + suffix,
		OccurredAt:  occurredAt.UTC().Truncate(time.Microsecond),
	}
	if affectedID != uuid.Nil {
		id := affectedID
		action.AffectedAccountID = &id
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO admin_actions (id, admin_id, kind, affected_account_id, description, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		action.ID, action.AdminID, string(action.Kind), action.AffectedAccountID, action.Description, action.OccurredAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAction insert action: %v", err)
	}

	return action
}
