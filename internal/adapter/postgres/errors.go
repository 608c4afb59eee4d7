package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/bugtracker/internal/domain"
)

// MapError converts a missing row to domain.ErrNotFound and a unique
// violation to domain.ErrAlreadyExists. Every other error, context errors
// included, is wrapped with entity context and passed through so the
// original driver error stays in the chain.
func MapError(err error, entity string, id any) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s %v: %w: %w", entity, id, domain.ErrAlreadyExists, err)
	}

	return fmt.Errorf("%s %v: %w", entity, id, err)
}
