package core

import (
	"context"
	"fmt"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/metrics"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

// NewRunwayRule warns when the running balance reaches zero in any period.
func NewRunwayRule(startingBalance float64) domain.Rule {
	return runwayRule{starting: startingBalance}
}

type runwayRule struct {
	starting float64
}

func (runwayRule) Name() string { return "runway" }

func (r runwayRule) Evaluate(_ context.Context, view domain.RuleView) (domain.Result, error) {
	periods := view.ListEntities(domain.KindPeriod)
	t := metrics.PeriodTrajectory(r.starting, periods)
	idx, ok := t.BreakEven()
	if !ok {
		return domain.Result{}, nil
	}
	p := metrics.Periods(periods)[idx]
	return domain.Result{Violations: []domain.Violation{{
		Rule:     "runway",
		Severity: domain.SeverityWarn,
		Message:  fmt.Sprintf("balance reaches %.2f in period %s", t.Balances[idx], t.Periods[idx]),
		Kind:     domain.KindPeriod,
		EntityID: p.ID,
	}}}, nil
}
