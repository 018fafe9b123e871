// Package account implements the Account repository using PostgreSQL.
package account

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/nmueses/secaudit/internal/adapter/postgres"
	"github.com/nmueses/secaudit/internal/domain"
)

const table = "accounts"

var columns = []string{
	"id", "username", "password_hash", "active", "role",
	"recovery_code", "recovery_code_expires_at", "created_at", "updated_at",
}

// Repo provides account persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new account repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// builder returns a statement builder with PostgreSQL placeholders.
func builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new account and returns the persisted domain.Account.
// The ID and timestamps are assigned here if unset.
func (r *Repo) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	query := builder().
		Insert(table).
		Columns(columns...).
		Values(a.ID, a.Username, a.PasswordHash, a.Active, a.Role.String(),
			a.RecoveryCode, a.RecoveryCodeExpiresAt, a.CreatedAt, a.UpdatedAt).
		Suffix("RETURNING " + selectList())

	return r.queryOne(ctx, query, a.ID)
}

// Update modifies username and role for the given account.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, username string, role domain.Role) (*domain.Account, error) {
	query := builder().
		Update(table).
		Set("username", username).
		Set("role", role.String()).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + selectList())

	return r.queryOne(ctx, query, id)
}

// UpdatePassword replaces the credential hash for the given account.
func (r *Repo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := builder().
		Update(table).
		Set("password_hash", passwordHash).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id})

	return r.exec(ctx, query, id)
}

// SetActive flips the active flag. The update is a single atomic
// statement; concurrent writers resolve to last-write-wins.
func (r *Repo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := builder().
		Update(table).
		Set("active", active).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id})

	return r.exec(ctx, query, id)
}

// SetRecoveryCode stores a recovery code and its expiry on the account.
func (r *Repo) SetRecoveryCode(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error {
	query := builder().
		Update(table).
		Set("recovery_code", code).
		Set("recovery_code_expires_at", expiresAt).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id})

	return r.exec(ctx, query, id)
}

// ClearRecoveryCode removes any stored recovery code from the account.
func (r *Repo) ClearRecoveryCode(ctx context.Context, id uuid.UUID) error {
	query := builder().
		Update(table).
		Set("recovery_code", nil).
		Set("recovery_code_expires_at", nil).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id})

	return r.exec(ctx, query, id)
}

// Delete removes the account.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	query := builder().
		Delete(table).
		Where(sq.Eq{"id": id})

	return r.exec(ctx, query, id)
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an account by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id})

	return r.queryOne(ctx, query, id)
}

// GetByUsername returns an account by its unique username.
func (r *Repo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"username": username})

	return r.queryOne(ctx, query, uuid.Nil)
}

// List returns all accounts ordered by username.
func (r *Repo) List(ctx context.Context) ([]domain.Account, error) {
	query := builder().
		Select(columns...).
		From(table).
		OrderBy("username ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build account list query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "account", uuid.Nil)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// CountByActive returns the number of accounts with the given active flag.
func (r *Repo) CountByActive(ctx context.Context, active bool) (int, error) {
	query := builder().
		Select("COUNT(*)").
		From(table).
		Where(sq.Eq{"active": active})

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build account count query: %w", err)
	}

	var count int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, postgres.MapError(err, "account", uuid.Nil)
	}
	return count, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func selectList() string {
	list := columns[0]
	for _, c := range columns[1:] {
		list += ", " + c
	}
	return list
}

// queryOne runs a Sqlizer expected to return exactly one account row.
func (r *Repo) queryOne(ctx context.Context, query sq.Sqlizer, id uuid.UUID) (*domain.Account, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build account query: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...)
	a, err := scanAccount(row)
	if err != nil {
		return nil, postgres.MapError(err, "account", id)
	}
	return &a, nil
}

// exec runs a Sqlizer and maps "zero rows affected" to domain.ErrNotFound.
func (r *Repo) exec(ctx context.Context, query sq.Sqlizer, id uuid.UUID) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build account statement: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "account", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// scanAccount reads one account row in the column order of `columns`.
func scanAccount(row pgx.Row) (domain.Account, error) {
	var (
		a    domain.Account
		role string
	)
	err := row.Scan(
		&a.ID, &a.Username, &a.PasswordHash, &a.Active, &role,
		&a.RecoveryCode, &a.RecoveryCodeExpiresAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, err
	}
	a.Role = domain.Role(role)
	return a, nil
}
