package faults

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/bugtracker/internal/domain"
)

// PostgreSQL error codes that carry meaning for callers.
const (
	pgUniqueViolation   = "23505"
	pgCheckViolation    = "23514"
	pgNotNullViolation  = "23502"
	pgStringTooLong     = "22001"
	pgInvalidTextRepr   = "22P02"
	pgNumericOutOfRange = "22003"
)

// Classify maps any error to a Kind. It is the only place in the module
// that inspects raw store error shapes. Dropped connections and timeouts
// from the store are storage faults; networkUnreachable is only produced
// by Unreachable at the client transport boundary.
// A nil error has no kind and yields "".
func Classify(err error) Kind {
	if err == nil {
		return ""
	}

	var env *Envelope
	if errors.As(err, &env) {
		return env.Kind
	}

	var verr *domain.ValidationError
	var vErrs validator.ValidationErrors
	switch {
	case errors.As(err, &verr), errors.As(err, &vErrs):
		return KindValidation
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrAlreadyExists):
		return KindValidation
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, pgx.ErrNoRows),
		errors.Is(err, badger.ErrKeyNotFound):
		return KindNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgCheckViolation, pgNotNullViolation, pgStringTooLong:
			return KindValidation
		case pgInvalidTextRepr, pgNumericOutOfRange:
			return KindNotFound
		}
	}
	return KindStorage
}
