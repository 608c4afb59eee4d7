package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	badgerdb "github.com/heartmarshall/bugtracker/internal/adapter/badger"
	badgerbug "github.com/heartmarshall/bugtracker/internal/adapter/badger/bug"
	postgres "github.com/heartmarshall/bugtracker/internal/adapter/postgres"
	pgbug "github.com/heartmarshall/bugtracker/internal/adapter/postgres/bug"
	"github.com/heartmarshall/bugtracker/internal/config"
	"github.com/heartmarshall/bugtracker/internal/domain"
)

// BugStore is the record store contract the bug service runs on.
type BugStore interface {
	Create(ctx context.Context, b domain.Bug) (*domain.Bug, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Bug, error)
	Update(ctx context.Context, id uuid.UUID, params domain.BugUpdateParams) (*domain.Bug, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q domain.BugQuery) ([]domain.Bug, error)
}

// TxRunner runs fn inside one store transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Store is an opened record store with its transaction manager.
type Store struct {
	Driver string
	Bugs   BugStore
	Tx     TxRunner

	pinger pinger
	close  func() error
}

// Ping checks that the store answers.
func (s *Store) Ping(ctx context.Context) error { return s.pinger.Ping(ctx) }

// Close releases the store.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStore opens the store selected by cfg.Storage.Driver. For PostgreSQL
// pending migrations are applied first when database.auto_migrate is set.
func OpenStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg.Database, log)
	case config.DriverBadger:
		return openBadger(cfg.Badger, log)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*Store, error) {
	if cfg.AutoMigrate {
		m, err := postgres.NewMigrator(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("migrator: %w", err)
		}
		applied, err := m.Up(ctx)
		_ = m.Close()
		if err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		log.Info("migrations applied", slog.Int("count", applied))
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewPostgresStore(pool), nil
}

func openBadger(cfg config.BadgerConfig, log *slog.Logger) (*Store, error) {
	db, err := badgerdb.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	return NewBadgerStore(db), nil
}

// NewPostgresStore builds a store over an open pool. Close closes the pool.
func NewPostgresStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Driver: config.DriverPostgres,
		Bugs:   pgbug.New(pool),
		Tx:     postgres.NewTxManager(pool),
		pinger: pool,
		close: func() error {
			pool.Close()
			return nil
		},
	}
}

// NewBadgerStore builds a store over an open database. Close closes it.
func NewBadgerStore(db *badgerdb.DB) *Store {
	tx := badgerdb.NewTxManager(db)
	return &Store{
		Driver: config.DriverBadger,
		Bugs:   badgerbug.New(tx),
		Tx:     tx,
		pinger: db,
		close:  db.Close,
	}
}
