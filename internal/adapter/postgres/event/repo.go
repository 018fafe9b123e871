// Package event implements the security-event log repository using
// PostgreSQL. Events are append-only: there are no update or delete
// operations, and timestamps are assigned at write time.
package event

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

const table = "security_events"

var columns = []string{
	"id", "kind", "account_id", "ip", "user_agent", "description", "occurred_at",
}

// Repo provides security-event persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new security-event repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Append durably stores a new event. The ID and OccurredAt are assigned
// here, never taken from the caller, so timestamps are monotonic with
// respect to the append sequence and cannot be backdated.
func (r *Repo) Append(ctx context.Context, e domain.SecurityEvent) (domain.SecurityEvent, error) {
	e.ID = uuid.New()
	e.OccurredAt = time.Now()

	query := builder().
		Insert(table).
		Columns(columns...).
		Values(e.ID, e.Kind.String(), e.AccountID, e.IP, e.UserAgent, e.Description, e.OccurredAt)

	sql, args, err := query.ToSql()
	if err != nil {
		return domain.SecurityEvent{}, fmt.Errorf("build event insert: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...); err != nil {
		return domain.SecurityEvent{}, postgres.MapError(err, "security_event", e.ID)
	}
	return e, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListInWindow returns events with start <= occurred_at < end, oldest first.
func (r *Repo) ListInWindow(ctx context.Context, start, end time.Time) ([]domain.SecurityEvent, error) {
	query := builder().
		Select(columns...).
		From(table).
		Where(sq.GtOrEq{"occurred_at": start}).
		Where(sq.Lt{"occurred_at": end}).
		OrderBy("occurred_at ASC")

	return r.list(ctx, query)
}

// ListByAccount returns the most recent events for one account, newest first.
func (r *Repo) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.SecurityEvent, error) {
	query := builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"account_id": accountID}).
		OrderBy("occurred_at DESC").
		Limit(uint64(limit))

	return r.list(ctx, query)
}

// List returns events matching the filter, newest first.
func (r *Repo) List(ctx context.Context, f domain.EventFilter) ([]domain.SecurityEvent, error) {
	query := builder().
		Select(columns...).
		From(table).
		OrderBy("occurred_at DESC")

	if f.AccountID != nil {
		query = query.Where(sq.Eq{"account_id": *f.AccountID})
	}
	if f.Kind != nil {
		query = query.Where(sq.Eq{"kind": f.Kind.String()})
	}
	if !f.From.IsZero() {
		query = query.Where(sq.GtOrEq{"occurred_at": f.From})
	}
	if !f.To.IsZero() {
		query = query.Where(sq.Lt{"occurred_at": f.To})
	}
	if f.Limit > 0 {
		query = query.Limit(uint64(f.Limit))
	}

	return r.list(ctx, query)
}

// CountByKindSince counts events of one kind for one account with
// occurred_at >= since.
func (r *Repo) CountByKindSince(ctx context.Context, accountID uuid.UUID, kind domain.EventKind, since time.Time) (int, error) {
	query := builder().
		Select("COUNT(*)").
		From(table).
		Where(sq.Eq{"account_id": accountID}).
		Where(sq.Eq{"kind": kind.String()}).
		Where(sq.GtOrEq{"occurred_at": since})

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build event count query: %w", err)
	}

	var count int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, postgres.MapError(err, "security_event", accountID)
	}
	return count, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *Repo) list(ctx context.Context, query sq.SelectBuilder) ([]domain.SecurityEvent, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build event list query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "security_event", uuid.Nil)
	}
	defer rows.Close()

	var events []domain.SecurityEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan security_event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func scanEvent(row pgx.Row) (domain.SecurityEvent, error) {
	var (
		e    domain.SecurityEvent
		kind string
	)
	err := row.Scan(&e.ID, &kind, &e.AccountID, &e.IP, &e.UserAgent, &e.Description, &e.OccurredAt)
	if err != nil {
		return domain.SecurityEvent{}, err
	}
	e.Kind = domain.EventKind(kind)
	return e, nil
}
