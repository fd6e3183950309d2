// Package sqlite reads and writes seed entities in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/infra/persistence"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

const (
	defaultPath = "whatif-seed.db"
	upsertSQL   = `INSERT INTO seed_entities(id, payload) VALUES(?, ?) ON CONFLICT(id) DO UPDATE SET payload=excluded.payload`
)

// Store is a SQLite seed source.
type Store struct {
	db   *sql.DB
	path string
}

var (
	_ domain.SeedSource = (*Store)(nil)
	_ domain.SeedWriter = (*Store)(nil)
)

// Open opens (creating if needed) the database at path and ensures the seed table.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS seed_entities (
		id TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create seed table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database.
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
func (s *Store) Save(ctx context.Context, entities []domain.Entity) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM seed_entities`); err != nil {
		return fmt.Errorf("clear seed: %w", err)
	}
	if err := persistence.Insert(ctx, tx, upsertSQL, entities); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}
