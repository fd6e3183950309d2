package core

import "github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"

type (
	Entity          = domain.Entity
	EntityKind      = domain.EntityKind
	Scenario        = domain.Scenario
	AppliedScenario = domain.AppliedScenario
	DerivedMetrics  = domain.DerivedMetrics
	Change          = domain.Change
	Rule            = domain.Rule
	RulesEngine     = domain.RulesEngine
	Result          = domain.Result
	Violation       = domain.Violation
	Severity        = domain.Severity
)

const (
	KindPeriod = domain.KindPeriod
	KindMember = domain.KindMember
	KindTeam   = domain.KindTeam
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

// NewRulesEngine constructs an empty rules engine.
func NewRulesEngine() *RulesEngine { return domain.NewRulesEngine() }

type (
	ScenarioDefinition = domain.ScenarioDefinition
	FieldSpec          = domain.FieldSpec
	RuleView           = domain.RuleView
)

const (
	FieldAdditive    = domain.FieldAdditive
	FieldReplacement = domain.FieldReplacement
	FieldList        = domain.FieldList
)

const (
	StatusActive   = domain.StatusActive
	StatusInjured  = domain.StatusInjured
	StatusDeparted = domain.StatusDeparted
)
