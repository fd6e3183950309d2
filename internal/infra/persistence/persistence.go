// Package persistence holds the row codec shared by the SQL seed stores.
// Both stores keep seed entities in one table with a JSON payload per entity.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

// Table is the seed table name.
const Table = "seed_entities"

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Encode returns the row key and JSON payload for an entity.
func Encode(e domain.Entity) (string, []byte, error) {
	if e.ID == "" {
		return "", nil, fmt.Errorf("seed entity of kind %s has no id", e.Kind)
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return "", nil, fmt.Errorf("encode %s: %w", e.ID, err)
	}
	return e.ID, payload, nil
}

// Scan reads (id, payload) rows into entities sorted by kind, order, category and id.
func Scan(rows *sql.Rows) ([]domain.Entity, error) {
	defer func() { _ = rows.Close() }()
	var out []domain.Entity
	for rows.Next() {
		var id string
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("scan seed row: %w", err)
		}
		var e domain.Entity
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", id, err)
		}
		e.ID = id
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seed rows: %w", err)
	}
	domain.SortEntities(out)
	return out, nil
}

// Insert writes entities with the dialect-specific upsert statement.
func Insert(ctx context.Context, exec Execer, upsert string, entities []domain.Entity) error {
	for _, e := range entities {
		id, payload, err := Encode(e)
		if err != nil {
			return err
		}
		if _, err := exec.ExecContext(ctx, upsert, id, payload); err != nil {
			return fmt.Errorf("upsert %s: %w", id, err)
		}
	}
	return nil
}
