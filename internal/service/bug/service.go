// Package bug implements the request handling pipeline for bug records:
// validation, transition checks, persistence and failure reporting.
package bug

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/bugtracker/internal/domain"
	"github.com/heartmarshall/bugtracker/internal/faults"
)

type bugRepo interface {
	Create(ctx context.Context, b domain.Bug) (*domain.Bug, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Bug, error)
	Update(ctx context.Context, id uuid.UUID, params domain.BugUpdateParams) (*domain.Bug, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q domain.BugQuery) ([]domain.Bug, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type faultReporter interface {
	Report(ctx context.Context, env *faults.Envelope, intent faults.Intent)
}

// Operation names used in failure reports.
const (
	OpCreate = "bug.create"
	OpGet    = "bug.get"
	OpUpdate = "bug.update"
	OpDelete = "bug.delete"
	OpList   = "bug.list"
)

// Service provides bug management operations. Every returned error is a
// *faults.Envelope that has already been reported.
type Service struct {
	bugs     bugRepo
	tx       txManager
	reporter faultReporter
	log      *slog.Logger
}

// NewService creates a new Bug service.
func NewService(
	log *slog.Logger,
	bugs bugRepo,
	tx txManager,
	reporter faultReporter,
) *Service {
	return &Service{
		bugs:     bugs,
		tx:       tx,
		reporter: reporter,
		log:      log.With("service", "bug"),
	}
}

// fail converts err into an envelope, reports it once and returns it.
func (s *Service) fail(ctx context.Context, err error, intent faults.Intent) error {
	env := faults.New(err)
	s.reporter.Report(ctx, env, intent)
	return env
}
