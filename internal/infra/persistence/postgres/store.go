// Package postgres reads and writes seed entities in Postgres through the pgx
// database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/infra/persistence"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/whatif?sslmode=disable"
	upsertSQL     = `INSERT INTO seed_entities(id, payload) VALUES($1, $2) ON CONFLICT(id) DO UPDATE SET payload=EXCLUDED.payload`
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store is a Postgres seed source.
type Store struct {
	db *sql.DB
}

var (
	_ domain.SeedSource = (*Store)(nil)
	_ domain.SeedWriter = (*Store)(nil)
)

// Open connects using dsn (defaultDSN when empty) and ensures the seed table exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	ddl := `CREATE TABLE IF NOT EXISTS seed_entities (
		id TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure seed table: %w", err)
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// Load implements domain.SeedSource.
func (s *Store) Load(ctx context.Context) ([]domain.Entity, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, payload FROM seed_entities`)
	if err != nil {
		return nil, fmt.Errorf("select seed: %w", err)
	}
	return persistence.Scan(rows)
}

// Save replaces the stored seed with entities in one transaction.
func (s *Store) Save(ctx context.Context, entities []domain.Entity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `TRUNCATE TABLE seed_entities`); err != nil {
		return fmt.Errorf("truncate seed: %w", err)
	}
	if err := persistence.Insert(ctx, tx, upsertSQL, entities); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
