package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

type entityState struct {
	entities map[string]domain.Entity
}

func newEntityState() entityState {
	return entityState{entities: make(map[string]domain.Entity)}
}

func (s entityState) clone() entityState {
	cloned := entityState{entities: make(map[string]domain.Entity, len(s.entities))}
	for k, v := range s.entities {
		cloned.entities[k] = v.Clone()
	}
	return cloned
}

func (s entityState) query(predicate func(domain.Entity) bool) []domain.Entity {
	out := make([]domain.Entity, 0, len(s.entities))
	for _, e := range s.entities {
		if predicate != nil && !predicate(e) {
			continue
		}
		out = append(out, e.Clone())
	}
	domain.SortEntities(out)
	return out
}

// MemoryStore holds the entity collection of a session keyed by identity.
// It is not safe for concurrent use; a session has a single writer.
type MemoryStore struct {
	state    entityState
	revision uint64
}

// NewMemoryStore constructs a store populated with the seed entities.
func NewMemoryStore(seed ...domain.Entity) (*MemoryStore, error) {
	s := &MemoryStore{state: newEntityState()}
	for _, e := range seed {
		if _, err := s.Add(e); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *MemoryStore) newID() string {
	return uuid.NewString()
}

// Add stores a copy of the entity, generating an ID when none is set.
func (s *MemoryStore) Add(entity domain.Entity) (domain.Entity, error) {
	if entity.Kind == "" {
		return domain.Entity{}, fmt.Errorf("entity %q: kind required", entity.ID)
	}
	entity.ID = strings.TrimSpace(entity.ID)
	if entity.ID == "" {
		entity.ID = s.newID()
	}
	if _, exists := s.state.entities[entity.ID]; exists {
		return domain.Entity{}, fmt.Errorf("entity %s already exists", entity.ID)
	}
	s.state.entities[entity.ID] = entity.Clone()
	s.revision++
	return entity.Clone(), nil
}

// Update applies mutator to a copy of the entity and stores the result.
// A missing id yields domain.ErrNotFound and leaves the store untouched.
func (s *MemoryStore) Update(id string, mutator func(*domain.Entity) error) (domain.Entity, error) {
	current, ok := s.state.entities[id]
	if !ok {
		return domain.Entity{}, domain.ErrNotFound{ID: id}
	}
	updated := current.Clone()
	if mutator != nil {
		if err := mutator(&updated); err != nil {
			return domain.Entity{}, err
		}
	}
	updated.ID = id
	s.state.entities[id] = updated
	s.revision++
	return updated.Clone(), nil
}

// Remove deletes the entity. A missing id yields domain.ErrNotFound.
func (s *MemoryStore) Remove(id string) error {
	if _, ok := s.state.entities[id]; !ok {
		return domain.ErrNotFound{ID: id}
	}
	delete(s.state.entities, id)
	s.revision++
	return nil
}

// Get returns a copy of the entity with the given id.
func (s *MemoryStore) Get(id string) (domain.Entity, bool) {
	e, ok := s.state.entities[id]
	if !ok {
		return domain.Entity{}, false
	}
	return e.Clone(), true
}

// Query returns sorted copies of every entity accepted by predicate.
func (s *MemoryStore) Query(predicate func(domain.Entity) bool) []domain.Entity {
	return s.state.query(predicate)
}

// List returns sorted copies of all entities.
func (s *MemoryStore) List() []domain.Entity {
	return s.state.query(nil)
}

// Len returns the number of stored entities.
func (s *MemoryStore) Len() int { return len(s.state.entities) }

// Revision increments on every successful mutation or restore.
func (s *MemoryStore) Revision() uint64 { return s.revision }

// View returns a read-only rule view over the current state.
func (s *MemoryStore) View() domain.RuleView {
	return storeView{state: &s.state}
}

// fork returns an independent store over a deep copy of the state.
func (s *MemoryStore) fork() *MemoryStore {
	return &MemoryStore{state: s.state.clone(), revision: s.revision}
}

func (s *MemoryStore) restore(state entityState) {
	s.state = state
	s.revision++
}

type storeView struct {
	state *entityState
}

func (v storeView) ListEntities(kind domain.EntityKind) []domain.Entity {
	return v.state.query(func(e domain.Entity) bool { return e.Kind == kind })
}

func (v storeView) FindEntity(id string) (domain.Entity, bool) {
	e, ok := v.state.entities[id]
	if !ok {
		return domain.Entity{}, false
	}
	return e.Clone(), true
}
