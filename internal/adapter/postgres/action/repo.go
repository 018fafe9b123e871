// Package action implements the admin-action ledger repository using
// PostgreSQL. Records are append-only.
package action

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

const table = "admin_actions"

var columns = []string{
	"id", "admin_id", "kind", "affected_account_id", "description", "occurred_at",
}

// Repo provides admin-action persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new admin-action repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Append durably stores a new admin action. The ID and OccurredAt are
// assigned here. Role verification of AdminID belongs to the ledger
// service, not this repository.
func (r *Repo) Append(ctx context.Context, a domain.AdminAction) (domain.AdminAction, error) {
	a.ID = uuid.New()
	a.OccurredAt = time.Now()

	query := builder().
		Insert(table).
		Columns(columns...).
		Values(a.ID, a.AdminID, a.Kind.String(), a.AffectedAccountID, a.Description, a.OccurredAt)

	sql, args, err := query.ToSql()
	if err != nil {
		return domain.AdminAction{}, fmt.Errorf("build action insert: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...); err != nil {
		return domain.AdminAction{}, postgres.MapError(err, "admin_action", a.ID)
	}
	return a, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// List returns all admin actions, newest first.
func (r *Repo) List(ctx context.Context) ([]domain.AdminAction, error) {
	return r.list(ctx, r.selectNewestFirst())
}

// ListByAdmin returns actions performed by one admin, newest first.
func (r *Repo) ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]domain.AdminAction, error) {
	return r.list(ctx, r.selectNewestFirst().Where(sq.Eq{"admin_id": adminID}))
}

// ListByAffectedAccount returns actions targeting one account, newest first.
func (r *Repo) ListByAffectedAccount(ctx context.Context, accountID uuid.UUID) ([]domain.AdminAction, error) {
	return r.list(ctx, r.selectNewestFirst().Where(sq.Eq{"affected_account_id": accountID}))
}

// ListByKindInWindow returns actions of one kind with
// start <= occurred_at < end, newest first.
func (r *Repo) ListByKindInWindow(ctx context.Context, kind domain.ActionKind, start, end time.Time) ([]domain.AdminAction, error) {
	return r.list(ctx, r.selectNewestFirst().
		Where(sq.Eq{"kind": kind.String()}).
		Where(sq.GtOrEq{"occurred_at": start}).
		Where(sq.Lt{"occurred_at": end}))
}

// CountByKindInWindow counts actions of one kind within [start, end).
func (r *Repo) CountByKindInWindow(ctx context.Context, kind domain.ActionKind, start, end time.Time) (int, error) {
	query := builder().
		Select("COUNT(*)").
		From(table).
		Where(sq.Eq{"kind": kind.String()}).
		Where(sq.GtOrEq{"occurred_at": start}).
		Where(sq.Lt{"occurred_at": end})

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build action count query: %w", err)
	}

	var count int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, postgres.MapError(err, "admin_action", uuid.Nil)
	}
	return count, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *Repo) selectNewestFirst() sq.SelectBuilder {
	return builder().
		Select(columns...).
		From(table).
		OrderBy("occurred_at DESC")
}

func (r *Repo) list(ctx context.Context, query sq.SelectBuilder) ([]domain.AdminAction, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build action list query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "admin_action", uuid.Nil)
	}
	defer rows.Close()

	var actions []domain.AdminAction
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan admin_action: %w", err)
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

func scanAction(row pgx.Row) (domain.AdminAction, error) {
	var (
		a    domain.AdminAction
		kind string
	)
	err := row.Scan(&a.ID, &a.AdminID, &kind, &a.AffectedAccountID, &a.Description, &a.OccurredAt)
	if err != nil {
		return domain.AdminAction{}, err
	}
	a.Kind = domain.ActionKind(kind)
	return a, nil
}
