// Package bug implements the bug record store on PostgreSQL.
// Queries are built with squirrel and scanned with scany.
package bug

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/bugtracker/internal/adapter/postgres"
	"github.com/heartmarshall/bugtracker/internal/adapter/schema"
	"github.com/heartmarshall/bugtracker/internal/domain"
)

const table = "bugs"

var columns = []string{
	"id", "title", "description", "reporter", "status", "priority", "created_at", "updated_at",
}

// prioritySort orders by priority weight, highest first.
const prioritySort = `CASE priority
	WHEN 'critical' THEN 4
	WHEN 'high' THEN 3
	WHEN 'medium' THEN 2
	WHEN 'low' THEN 1
	ELSE 0 END DESC`

// nextUpdatedAt keeps updated_at strictly increasing even when the clock
// has not advanced since the previous write.
const nextUpdatedAt = `GREATEST(now(), updated_at + interval '1 microsecond')`

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides bug persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new bug repository. db is usually a *pgxpool.Pool.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type bugRow struct {
	ID          uuid.UUID `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Reporter    string    `db:"reporter"`
	Status      string    `db:"status"`
	Priority    string    `db:"priority"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r bugRow) toDomain() domain.Bug {
	return domain.Bug{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Reporter:    r.Reporter,
		Status:      domain.BugStatus(r.Status),
		Priority:    domain.BugPriority(r.Priority),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// Create inserts a bug. The database assigns id, created_at and updated_at.
func (r *Repo) Create(ctx context.Context, b domain.Bug) (*domain.Bug, error) {
	doc := schema.FromBug(b)
	if err := schema.Check(doc); err != nil {
		return nil, fmt.Errorf("bug create: %w", err)
	}

	query, args, err := psql.Insert(table).
		Columns("title", "description", "reporter", "status", "priority").
		Values(doc.Title, doc.Description, doc.Reporter, doc.Status, doc.Priority).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	var row bugRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "bug", "create")
	}
	out := row.toDomain()
	return &out, nil
}

// Update replaces the mutable fields of a bug and bumps updated_at.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, p domain.BugUpdateParams) (*domain.Bug, error) {
	doc := schema.FromParams(p)
	if err := schema.Check(doc); err != nil {
		return nil, fmt.Errorf("bug %s: %w", id, err)
	}

	query, args, err := psql.Update(table).
		Set("title", doc.Title).
		Set("description", doc.Description).
		Set("reporter", doc.Reporter).
		Set("status", doc.Status).
		Set("priority", doc.Priority).
		Set("updated_at", squirrel.Expr(nextUpdatedAt)).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	var row bugRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "bug", id)
	}
	out := row.toDomain()
	return &out, nil
}

// Delete removes a bug. A missing row is domain.ErrNotFound.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "bug", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bug %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// GetByID returns a bug by its identifier.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bug, error) {
	query, args, err := psql.Select(columns...).From(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row bugRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("bug %s: %w", id, domain.ErrNotFound)
		}
		return nil, postgres.MapError(err, "bug", id)
	}
	out := row.toDomain()
	return &out, nil
}

// List returns the bugs matching q in the requested order.
func (r *Repo) List(ctx context.Context, q domain.BugQuery) ([]domain.Bug, error) {
	sb := psql.Select(columns...).From(table)

	where := squirrel.Eq{}
	if q.Status != nil {
		where["status"] = q.Status.String()
	}
	if q.Priority != nil {
		where["priority"] = q.Priority.String()
	}
	if len(where) > 0 {
		sb = sb.Where(where)
	}

	switch q.Sort {
	case domain.BugSortOldest:
		sb = sb.OrderBy("created_at ASC")
	case domain.BugSortPriority:
		sb = sb.OrderBy(prioritySort, "created_at DESC")
	default:
		sb = sb.OrderBy("created_at DESC")
	}

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	var rows []bugRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "bug", "list")
	}

	out := make([]domain.Bug, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}
