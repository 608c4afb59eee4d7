package bug

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"

	"github.com/heartmarshall/bugtracker/internal/domain"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func bugRows(bugs ...domain.Bug) *pgxmock.Rows {
	rows := pgxmock.NewRows(columns)
	for _, b := range bugs {
		rows.AddRow(b.ID, b.Title, b.Description, b.Reporter, string(b.Status), string(b.Priority), b.CreatedAt, b.UpdatedAt)
	}
	return rows
}

func sampleBug() domain.Bug {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.Bug{
		ID:          uuid.New(),
		Title:       "Crash on save",
		Description: "Saving a draft crashes the editor",
		Reporter:    "Ann",
		Status:      domain.BugStatusOpen,
		Priority:    domain.BugPriorityMedium,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestRepo_Create(t *testing.T) {
	t.Parallel()

	want := sampleBug()

	tests := []struct {
		name    string
		input   domain.Bug
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr func(error) bool
	}{
		{
			name:  "inserts and returns the stored row",
			input: want,
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO bugs`).
					WithArgs(want.Title, want.Description, want.Reporter, "open", "medium").
					WillReturnRows(bugRows(want))
			},
		},
		{
			name: "schema rejects blank title before reaching the database",
			input: func() domain.Bug {
				b := want
				b.Title = "  "
				return b
			}(),
			setup: func(pgxmock.PgxPoolIface) {},
			wantErr: func(err error) bool {
				var vErrs validator.ValidationErrors
				return errors.As(err, &vErrs)
			},
		},
		{
			name:  "driver error is passed through",
			input: want,
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO bugs`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: "23514"})
			},
			wantErr: func(err error) bool {
				var pgErr *pgconn.PgError
				return errors.As(err, &pgErr) && pgErr.Code == "23514"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := newMock(t)
			tt.setup(mock)

			got, err := New(mock).Create(context.Background(), tt.input)
			if tt.wantErr != nil {
				if err == nil || !tt.wantErr(err) {
					t.Fatalf("Create() error = %v", err)
				}
			} else {
				if err != nil {
					t.Fatalf("Create() unexpected error: %v", err)
				}
				if got.ID != want.ID || !got.CreatedAt.Equal(got.UpdatedAt) {
					t.Errorf("Create() = %+v", got)
				}
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestRepo_GetByID(t *testing.T) {
	t.Parallel()

	b := sampleBug()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		mock := newMock(t)
		mock.ExpectQuery(`SELECT .+ FROM bugs WHERE id = \$1`).
			WithArgs(b.ID.String()).
			WillReturnRows(bugRows(b))

		got, err := New(mock).GetByID(context.Background(), b.ID)
		if err != nil {
			t.Fatalf("GetByID() error: %v", err)
		}
		if got.Title != b.Title || got.Status != domain.BugStatusOpen {
			t.Errorf("GetByID() = %+v", got)
		}
	})

	t.Run("no rows", func(t *testing.T) {
		t.Parallel()
		mock := newMock(t)
		mock.ExpectQuery(`SELECT .+ FROM bugs`).
			WithArgs(b.ID.String()).
			WillReturnRows(pgxmock.NewRows(columns))

		_, err := New(mock).GetByID(context.Background(), b.ID)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("query returns ErrNoRows", func(t *testing.T) {
		t.Parallel()
		mock := newMock(t)
		mock.ExpectQuery(`SELECT .+ FROM bugs`).
			WithArgs(pgxmock.AnyArg()).
			WillReturnError(pgx.ErrNoRows)

		_, err := New(mock).GetByID(context.Background(), b.ID)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRepo_Update(t *testing.T) {
	t.Parallel()

	b := sampleBug()
	params := domain.BugUpdateParams{
		Title:       b.Title,
		Description: b.Description,
		Reporter:    b.Reporter,
		Status:      domain.BugStatusResolved,
		Priority:    domain.BugPriorityHigh,
	}

	t.Run("bumps updated_at in SQL", func(t *testing.T) {
		t.Parallel()
		mock := newMock(t)

		updated := b
		updated.Status = domain.BugStatusResolved
		updated.Priority = domain.BugPriorityHigh
		updated.UpdatedAt = b.UpdatedAt.Add(time.Microsecond)

		mock.ExpectQuery(`UPDATE bugs SET .+updated_at = GREATEST\(now\(\), updated_at \+ interval '1 microsecond'\) WHERE id = \$6`).
			WithArgs(b.Title, b.Description, b.Reporter, "resolved", "high", b.ID.String()).
			WillReturnRows(bugRows(updated))

		got, err := New(mock).Update(context.Background(), b.ID, params)
		if err != nil {
			t.Fatalf("Update() error: %v", err)
		}
		if !got.UpdatedAt.After(got.CreatedAt) || got.Status != domain.BugStatusResolved {
			t.Errorf("Update() = %+v", got)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("missing row", func(t *testing.T) {
		t.Parallel()
		mock := newMock(t)
		mock.ExpectQuery(`UPDATE bugs`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows(columns))

		_, err := New(mock).Update(context.Background(), b.ID, params)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("schema rejects unknown status", func(t *testing.T) {
		t.Parallel()
		mock := newMock(t)
		bad := params
		bad.Status = "closed"

		_, err := New(mock).Update(context.Background(), b.ID, bad)
		var vErrs validator.ValidationErrors
		if !errors.As(err, &vErrs) {
			t.Fatalf("expected validator errors, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("no query expected: %v", err)
		}
	})
}

func TestRepo_Delete(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"deleted", 1, nil},
		{"missing", 0, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mock := newMock(t)
			mock.ExpectExec(`DELETE FROM bugs WHERE id = \$1`).
				WithArgs(id.String()).
				WillReturnResult(pgxmock.NewResult("DELETE", tt.affected))

			err := New(mock).Delete(context.Background(), id)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Delete() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRepo_List(t *testing.T) {
	t.Parallel()

	open := domain.BugStatusOpen
	high := domain.BugPriorityHigh

	tests := []struct {
		name    string
		query   domain.BugQuery
		pattern string
		args    []any
	}{
		{
			name:    "newest by default",
			query:   domain.BugQuery{},
			pattern: `SELECT .+ FROM bugs ORDER BY created_at DESC`,
		},
		{
			name:    "oldest",
			query:   domain.BugQuery{Sort: domain.BugSortOldest},
			pattern: `FROM bugs ORDER BY created_at ASC`,
		},
		{
			name:    "priority with created_at tiebreak",
			query:   domain.BugQuery{Sort: domain.BugSortPriority},
			pattern: `ORDER BY CASE priority(?s:.+)END DESC, created_at DESC`,
		},
		{
			name:    "status and priority filters",
			query:   domain.BugQuery{Status: &open, Priority: &high},
			pattern: `WHERE priority = \$1 AND status = \$2`,
			args:    []any{"high", "open"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := newMock(t)
			b := sampleBug()
			exp := mock.ExpectQuery(tt.pattern)
			if tt.args != nil {
				exp = exp.WithArgs(tt.args...)
			}
			exp.WillReturnRows(bugRows(b))

			got, err := New(mock).List(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("List() error: %v", err)
			}
			if len(got) != 1 || got[0].ID != b.ID {
				t.Errorf("List() = %+v", got)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestRepo_List_Empty(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectQuery(`FROM bugs`).WillReturnRows(pgxmock.NewRows(columns))

	got, err := New(mock).List(context.Background(), domain.BugQuery{})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("List() = %v, want empty non-nil slice", got)
	}
}

func TestPrioritySortCoversEveryPriority(t *testing.T) {
	t.Parallel()

	for _, p := range domain.BugPriorities() {
		if !strings.Contains(prioritySort, "'"+p.String()+"'") {
			t.Errorf("priority sort is missing %s", p)
		}
	}
}
