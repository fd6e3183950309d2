// Package seed loads the base entity set a session starts from. Sources are
// read-only; sessions never write back to them.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/infra/persistence/postgres"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/infra/persistence/sqlite"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

// Source is the read side of a seed provider.
type Source = domain.SeedSource

// Driver names a seed backend.
type Driver string

// Supported drivers.
const (
	DriverFile     Driver = "file"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Environment variables consulted by Open.
const (
	EnvDriver      = "WHATIF_SEED_DRIVER"
	EnvPath        = "WHATIF_SEED_PATH"
	EnvSQLitePath  = "WHATIF_SEED_SQLITE_PATH"
	EnvPostgresDSN = "WHATIF_SEED_POSTGRES_DSN"
)

const defaultPath = "seed.yaml"

// Closer is implemented by sources holding a connection.
type Closer interface {
	Close() error
}

// Open selects a source from the environment. The file driver is the default.
func Open(ctx context.Context) (Source, error) {
	driver := Driver(strings.ToLower(strings.TrimSpace(os.Getenv(EnvDriver))))
	switch driver {
	case "", DriverFile:
		path := os.Getenv(EnvPath)
		if path == "" {
			path = defaultPath
		}
		return NewFileSource(path), nil
	case DriverSQLite:
		store, err := sqlite.Open(ctx, os.Getenv(EnvSQLitePath))
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverPostgres:
		store, err := postgres.Open(ctx, os.Getenv(EnvPostgresDSN))
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown seed driver %q", driver)
	}
}

// Close releases source resources when it holds any.
func Close(src Source) error {
	if c, ok := src.(Closer); ok {
		return c.Close()
	}
	return nil
}

// FileSource reads entities from a YAML or JSON document.
type FileSource struct {
	path string
}

// NewFileSource constructs a file source for path.
func NewFileSource(path string) *FileSource { return &FileSource{path: path} }

// Path returns the file path.
func (f *FileSource) Path() string { return f.path }

// Load implements Source.
func (f *FileSource) Load(context.Context) ([]domain.Entity, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", f.path, err)
	}
	entities, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", f.path, err)
	}
	return entities, nil
}

type document struct {
	Entities []domain.Entity `yaml:"entities"`
}

// Decode parses either an `entities:` document or a bare list. JSON is
// accepted since it is valid YAML.
func Decode(r io.Reader) ([]domain.Entity, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	var entities []domain.Entity
	switch root := node.Content[0]; root.Kind {
	case yaml.SequenceNode:
		err = root.Decode(&entities)
	case yaml.MappingNode:
		var doc document
		err = root.Decode(&doc)
		entities = doc.Entities
	default:
		err = errors.New("expected a list of entities or an entities mapping")
	}
	if err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	for i, e := range entities {
		if e.Kind == "" {
			return nil, fmt.Errorf("entity %d (%s): kind required", i, e.ID)
		}
	}
	domain.SortEntities(entities)
	return entities, nil
}

// Copy loads src and saves the result into dst, returning the entity count.
func Copy(ctx context.Context, dst domain.SeedWriter, src Source) (int, error) {
	entities, err := src.Load(ctx)
	if err != nil {
		return 0, err
	}
	if err := dst.Save(ctx, entities); err != nil {
		return 0, err
	}
	return len(entities), nil
}
