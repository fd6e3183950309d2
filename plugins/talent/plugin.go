// Package talent is a scenario pack for roster moves and role coverage.
package talent

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/catalog"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/core"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/metrics"
)

// Member fields contributed by the pack.
const (
	FieldDevelopment = "development"
	FieldTags        = "tags"
)

var (
	//go:embed scenarios.yaml
	scenariosYAML []byte
	//go:embed thresholds.yaml
	thresholdsYAML []byte

	validate = validator.New()
)

type thresholdDocument struct {
	Thresholds []metrics.Threshold `yaml:"thresholds" validate:"dive"`
}

// Plugin contributes the talent scenario pack.
type Plugin struct{}

// New constructs a talent plugin instance.
func New() Plugin {
	return Plugin{}
}

// Name returns the plugin identifier.
func (Plugin) Name() string { return "talent" }

// Version returns the plugin semantic version.
func (Plugin) Version() string { return "0.2.0" }

// Register wires member fields, role thresholds, the injury rule and the embedded scenarios.
func (Plugin) Register(registry *core.PluginRegistry) error {
	registry.RegisterFields(core.KindMember,
		core.FieldSpec{Name: FieldDevelopment, Kind: core.FieldAdditive, NonNegative: true},
		core.FieldSpec{Name: FieldTags, Kind: core.FieldList},
	)
	thresholds, err := Thresholds()
	if err != nil {
		return err
	}
	for _, th := range thresholds {
		registry.RegisterThreshold(th)
	}
	registry.RegisterRule(injuryLoadRule{})

	defs, err := catalog.Parse(scenariosYAML)
	if err != nil {
		return fmt.Errorf("talent scenarios: %w", err)
	}
	for _, def := range defs {
		if err := registry.RegisterScenario(def); err != nil {
			return err
		}
	}
	return nil
}

// Thresholds returns the embedded role thresholds.
func Thresholds() ([]metrics.Threshold, error) {
	var doc thresholdDocument
	dec := yaml.NewDecoder(bytes.NewReader(thresholdsYAML))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("talent thresholds: %w", err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("talent thresholds: %w", err)
	}
	return doc.Thresholds, nil
}

type injuryLoadRule struct{}

func (injuryLoadRule) Name() string { return "talent_injury_load" }

// Evaluate warns for every squad where at least half the members are injured.
func (injuryLoadRule) Evaluate(_ context.Context, view core.RuleView) (core.Result, error) {
	total := map[string]int{}
	injured := map[string]int{}
	var order []string
	for _, m := range view.ListEntities(core.KindMember) {
		if _, seen := total[m.Category]; !seen {
			order = append(order, m.Category)
		}
		total[m.Category]++
		if m.Status == core.StatusInjured {
			injured[m.Category]++
		}
	}
	var result core.Result
	for _, category := range order {
		if injured[category] == 0 || injured[category]*2 < total[category] {
			continue
		}
		result.Violations = append(result.Violations, core.Violation{
			Rule:     "talent_injury_load",
			Severity: core.SeverityWarn,
			Message:  fmt.Sprintf("%d of %d members injured in %s", injured[category], total[category], category),
			Kind:     core.KindMember,
		})
	}
	return result, nil
}
