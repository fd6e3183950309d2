// Package metrics implements the pure derived-metric functions computed over
// an entity set: running balances, concentration, role coverage gaps,
// composite health, and timeline spans. Nothing here holds state.
package metrics

import (
	"sort"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

// Period field names read by the balance trajectory.
const (
	FieldIncome     = "income"
	FieldExpense    = "expense"
	FieldAdjustment = "adjustment"
)

// Trajectory computes the running balance for the ordered net values.
// balance[0] = starting + net[0]; balance[i] = balance[i-1] + net[i].
// The break-even index is the first i with balance[i] <= 0.
func Trajectory(starting float64, net []float64) domain.Trajectory {
	t := domain.Trajectory{
		StartingBalance: starting,
		Net:             append([]float64(nil), net...),
		Balances:        make([]float64, len(net)),
		BreakEvenIndex:  domain.NoBreakEven,
	}
	balance := starting
	for i, n := range net {
		balance += n
		t.Balances[i] = balance
		if t.BreakEvenIndex == domain.NoBreakEven && balance <= 0 {
			t.BreakEvenIndex = i
		}
	}
	return t
}

// PeriodNet returns income - expense + adjustment for a period entity.
func PeriodNet(p domain.Entity) float64 {
	return p.Metric(FieldIncome) - p.Metric(FieldExpense) + p.Metric(FieldAdjustment)
}

// Periods filters and orders the period entities.
func Periods(entities []domain.Entity) []domain.Entity {
	out := make([]domain.Entity, 0, len(entities))
	for _, e := range entities {
		if e.Kind == domain.KindPeriod {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// PeriodTrajectory builds the trajectory over every period in entities.
func PeriodTrajectory(starting float64, entities []domain.Entity) domain.Trajectory {
	periods := Periods(entities)
	net := make([]float64, len(periods))
	labels := make([]string, len(periods))
	for i, p := range periods {
		net[i] = PeriodNet(p)
		labels[i] = p.Category
		if labels[i] == "" {
			labels[i] = p.ID
		}
	}
	t := Trajectory(starting, net)
	t.Periods = labels
	return t
}
