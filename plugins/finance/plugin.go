// Package finance is a scenario pack for club income, cost and debt scenarios.
package finance

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/catalog"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/core"
)

// FieldLoanBalance is the outstanding debt carried on a period.
const FieldLoanBalance = "loan_balance"

//go:embed scenarios.yaml
var scenariosYAML []byte

// Plugin contributes the finance scenario pack.
type Plugin struct{}

// New constructs a finance plugin instance.
func New() Plugin {
	return Plugin{}
}

// Name returns the plugin identifier.
func (Plugin) Name() string { return "finance" }

// Version returns the plugin semantic version.
func (Plugin) Version() string { return "0.2.0" }

// Register adds the loan balance field, the leverage rule and the embedded scenarios.
func (Plugin) Register(registry *core.PluginRegistry) error {
	registry.RegisterFields(core.KindPeriod, core.FieldSpec{Name: FieldLoanBalance, Kind: core.FieldAdditive, NonNegative: true})
	registry.RegisterRule(leverageRule{})

	defs, err := catalog.Parse(scenariosYAML)
	if err != nil {
		return fmt.Errorf("finance scenarios: %w", err)
	}
	for _, def := range defs {
		if err := registry.RegisterScenario(def); err != nil {
			return err
		}
	}
	return nil
}

type leverageRule struct{}

func (leverageRule) Name() string { return "finance_leverage" }

// Evaluate warns for every period whose loan balance exceeds its income.
func (leverageRule) Evaluate(_ context.Context, view core.RuleView) (core.Result, error) {
	var result core.Result
	for _, period := range view.ListEntities(core.KindPeriod) {
		debt := period.Metric(FieldLoanBalance)
		income := period.Metric("income")
		if debt <= 0 || debt <= income {
			continue
		}
		result.Violations = append(result.Violations, core.Violation{
			Rule:     "finance_leverage",
			Severity: core.SeverityWarn,
			Message:  fmt.Sprintf("loan balance %.2f exceeds income %.2f in %s", debt, income, period.Category),
			Kind:     core.KindPeriod,
			EntityID: period.ID,
		})
	}
	return result, nil
}
