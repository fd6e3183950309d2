// Package export flattens session state into header-led table sections for
// downstream CSV/PDF encoders, and publishes encoded artifacts.
package export

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/metrics"
	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

// Section headers. Downstream consumers key on the first cell of each header row.
var (
	SummaryHeader     = []string{"metric", "value"}
	PeriodHeader      = []string{"period", "order", "income", "expense", "adjustment", "net", "balance"}
	EntityHeader      = []string{"id", "kind", "category", "status", "value", "roles"}
	ScenarioLogHeader = []string{"step", "scenario", "name", "risk", "applied_at", "targets", "deltas"}
	TimelineHeader    = []string{"entity", "label", "start", "end", "days", "unmatched"}
)

// Table renders the summary, periods, entities, scenario log and timeline
// sections in that order. Each section starts with its header row and
// sections are separated by one empty row.
func Table(entities []domain.Entity, stack []domain.AppliedScenario, m domain.DerivedMetrics) [][]string {
	sections := [][][]string{
		summaryRows(m),
		periodRows(entities, m.Trajectory),
		entityRows(entities),
		scenarioRows(stack),
		timelineRows(m.Spans),
	}
	var rows [][]string
	for i, section := range sections {
		if i > 0 {
			rows = append(rows, []string{})
		}
		rows = append(rows, section...)
	}
	return rows
}

// Sections splits a table back into its sections on empty rows.
func Sections(rows [][]string) [][][]string {
	var out [][][]string
	var current [][]string
	for _, row := range rows {
		if len(row) == 0 {
			out = append(out, current)
			current = nil
			continue
		}
		current = append(current, row)
	}
	if current != nil {
		out = append(out, current)
	}
	return out
}

// Money formats an amount with two decimal places.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func summaryRows(m domain.DerivedMetrics) [][]string {
	breakEven := "none"
	if idx, ok := m.Trajectory.BreakEven(); ok {
		breakEven = strconv.Itoa(idx)
	}
	rows := [][]string{
		append([]string(nil), SummaryHeader...),
		{"starting_balance", Money(m.Trajectory.StartingBalance)},
		{"break_even_index", breakEven},
		{"concentration", strconv.Itoa(m.Concentration)},
		{"health", strconv.FormatFloat(m.Health, 'f', 0, 64)},
	}
	for _, c := range m.Components {
		rows = append(rows, []string{"health." + c.Name, strconv.FormatFloat(c.Score, 'f', 2, 64)})
	}
	for _, w := range m.Warnings {
		rows = append(rows, []string{"warning", w})
	}
	for _, v := range m.Violations {
		rows = append(rows, []string{"violation." + v.Rule, v.Message})
	}
	return rows
}

func periodRows(entities []domain.Entity, t domain.Trajectory) [][]string {
	rows := [][]string{append([]string(nil), PeriodHeader...)}
	for i, p := range metrics.Periods(entities) {
		label := p.Category
		if label == "" {
			label = p.ID
		}
		balance := ""
		if i < len(t.Balances) {
			balance = Money(t.Balances[i])
		}
		rows = append(rows, []string{
			label,
			strconv.Itoa(p.Order),
			Money(p.Metric(metrics.FieldIncome)),
			Money(p.Metric(metrics.FieldExpense)),
			Money(p.Metric(metrics.FieldAdjustment)),
			Money(metrics.PeriodNet(p)),
			balance,
		})
	}
	return rows
}

func entityRows(entities []domain.Entity) [][]string {
	rows := [][]string{append([]string(nil), EntityHeader...)}
	for _, e := range entities {
		if e.Kind == domain.KindPeriod {
			continue
		}
		roles := append([]string(nil), e.Roles...)
		sort.Strings(roles)
		rows = append(rows, []string{e.ID, string(e.Kind), e.Category, e.Status, Money(e.Value), strings.Join(roles, ";")})
	}
	return rows
}

func scenarioRows(stack []domain.AppliedScenario) [][]string {
	rows := [][]string{append([]string(nil), ScenarioLogHeader...)}
	for i, a := range stack {
		deltas := a.Scenario.Deltas()
		parts := make([]string, len(deltas))
		for j, d := range deltas {
			parts[j] = d.String()
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			a.Scenario.ID(),
			a.Scenario.Name(),
			string(a.Scenario.Risk()),
			a.AppliedAt.UTC().Format(time.RFC3339),
			strconv.Itoa(len(a.Changes)),
			strings.Join(parts, ";"),
		})
	}
	return rows
}

func timelineRows(spans []domain.Span) [][]string {
	rows := [][]string{append([]string(nil), TimelineHeader...)}
	for _, s := range spans {
		rows = append(rows, []string{
			s.EntityID,
			s.Label,
			s.Start.UTC().Format(time.DateOnly),
			s.End.UTC().Format(time.DateOnly),
			strconv.FormatFloat(s.Duration().Hours()/24, 'f', 1, 64),
			strconv.FormatBool(s.Unmatched),
		})
	}
	return rows
}
