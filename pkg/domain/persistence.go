package domain

import "context"

// SeedSource supplies the base entity set a session starts from. Sources are
// read-only inputs; session state is never written back through them.
type SeedSource interface {
	Load(ctx context.Context) ([]Entity, error)
}

// SeedWriter is implemented by sources that can be prepared with fixture data.
type SeedWriter interface {
	Save(ctx context.Context, entities []Entity) error
}
