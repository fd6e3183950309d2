// Package catalog holds the scenario catalog: definitions loaded from YAML
// documents, contributed by plugins, or authored at runtime.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

var validate = validator.New()

// Document is the YAML layout of a scenario catalog file.
type Document struct {
	Scenarios []domain.ScenarioDefinition `yaml:"scenarios" validate:"dive"`
}

// Parse decodes and structurally validates a catalog document. Field-level
// checks against a schema happen when definitions are added to a Catalog.
func Parse(data []byte) ([]domain.ScenarioDefinition, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a catalog document from r.
func Decode(r io.Reader) ([]domain.ScenarioDefinition, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}
	return doc.Scenarios, nil
}

// Catalog is an ordered set of validated scenarios keyed by ID.
type Catalog struct {
	scenarios map[string]domain.Scenario
}

// New constructs an empty catalog.
func New() *Catalog {
	return &Catalog{scenarios: make(map[string]domain.Scenario)}
}

// Add validates def against schema and stores the resulting scenario.
// An empty ID is replaced with a generated one.
func (c *Catalog) Add(def domain.ScenarioDefinition, schema domain.Schema) (domain.Scenario, error) {
	if strings.TrimSpace(def.ID) == "" {
		def.ID = uuid.NewString()
	}
	if _, exists := c.scenarios[def.ID]; exists {
		return domain.Scenario{}, fmt.Errorf("scenario %s already in catalog", def.ID)
	}
	if err := validate.Struct(def); err != nil {
		return domain.Scenario{}, fmt.Errorf("scenario %s: %w", def.ID, err)
	}
	sc, err := domain.NewScenario(def, schema)
	if err != nil {
		return domain.Scenario{}, err
	}
	c.scenarios[sc.ID()] = sc
	return sc, nil
}

// AddAll validates every definition and adds them together; on error the
// catalog is unchanged.
func (c *Catalog) AddAll(defs []domain.ScenarioDefinition, schema domain.Schema) ([]domain.Scenario, error) {
	staged := New()
	for id, sc := range c.scenarios {
		staged.scenarios[id] = sc
	}
	out := make([]domain.Scenario, 0, len(defs))
	for _, def := range defs {
		sc, err := staged.Add(def, schema)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	c.scenarios = staged.scenarios
	return out, nil
}

// Remove drops a scenario. It reports whether the scenario existed.
func (c *Catalog) Remove(id string) bool {
	if _, ok := c.scenarios[id]; !ok {
		return false
	}
	delete(c.scenarios, id)
	return true
}

// Find returns the scenario with the given ID.
func (c *Catalog) Find(id string) (domain.Scenario, bool) {
	sc, ok := c.scenarios[id]
	return sc, ok
}

// List returns all scenarios sorted by ID.
func (c *Catalog) List() []domain.Scenario {
	out := make([]domain.Scenario, 0, len(c.scenarios))
	for _, sc := range c.scenarios {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Len returns the number of scenarios.
func (c *Catalog) Len() int { return len(c.scenarios) }
