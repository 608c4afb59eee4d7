// Package badger opens the embedded BadgerDB document store and provides
// context-scoped transactions over it.
package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/heartmarshall/bugtracker/internal/config"
)

// ErrClosed is returned by Ping once the database has been closed.
var ErrClosed = errors.New("badger: database closed")

// DB wraps a BadgerDB instance with value log garbage collection.
type DB struct {
	*badger.DB
	log    *slog.Logger
	stop   chan struct{}
	done   chan struct{}
	closer sync.Once
}

// InMemoryConfig returns a configuration for tests: no disk I/O and no GC.
func InMemoryConfig() config.BadgerConfig {
	return config.BadgerConfig{InMemory: true}
}

// Open opens the database described by cfg. When cfg.GCInterval is set and
// the database is on disk, value log GC runs in the background until Close.
func Open(cfg config.BadgerConfig, log *slog.Logger) (*DB, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log = log.With("adapter", "badger")

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("badger: path is required for a persistent database")
		}
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.
		WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(&slogAdapter{log: log})

	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	db := &DB{DB: bdb, log: log}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		db.stop = make(chan struct{})
		db.done = make(chan struct{})
		go db.runGC(cfg.GCInterval, cfg.GCDiscardRatio)
	}
	return db, nil
}

// Ping reports whether the database is open, for readiness checks.
func (d *DB) Ping(context.Context) error {
	if d.DB.IsClosed() {
		return ErrClosed
	}
	return nil
}

// Close stops garbage collection and closes the database. Safe to call
// more than once.
func (d *DB) Close() error {
	var err error
	d.closer.Do(func() {
		if d.stop != nil {
			close(d.stop)
			<-d.done
		}
		err = d.DB.Close()
	})
	return err
}

func (d *DB) runGC(interval time.Duration, ratio float64) {
	defer close(d.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			err := d.DB.RunValueLogGC(ratio)
			switch {
			case err == nil:
				d.log.Debug("value log GC completed")
			case !errors.Is(err, badger.ErrNoRewrite):
				d.log.Warn("value log GC failed", slog.String("error", err.Error()))
			}
		}
	}
}

// slogAdapter routes BadgerDB's internal logging to slog.
type slogAdapter struct {
	log *slog.Logger
}

func (l *slogAdapter) Errorf(format string, args ...any) {
	l.log.Error(fmt.Sprintf(format, args...))
}

func (l *slogAdapter) Warningf(format string, args ...any) {
	l.log.Warn(fmt.Sprintf(format, args...))
}

func (l *slogAdapter) Infof(format string, args ...any) {
	l.log.Debug(fmt.Sprintf(format, args...))
}

func (l *slogAdapter) Debugf(format string, args ...any) {
	l.log.Debug(fmt.Sprintf(format, args...))
}
