package metrics

import (
	"fmt"
	"sort"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

// Threshold bounds how many active members of Role each category should hold.
// Max of zero means unbounded.
type Threshold struct {
	Role string `yaml:"role" validate:"required"`
	Min  int    `yaml:"min" validate:"gte=0"`
	Max  int    `yaml:"max" validate:"gte=0"`
}

// GapKind classifies a threshold violation.
type GapKind string

// Gap kinds, one per message template.
const (
	GapMissing  GapKind = "missing"
	GapShort    GapKind = "gap"
	GapOverflow GapKind = "overflow"
)

// Gap is a single category x role threshold violation.
type Gap struct {
	Kind     GapKind
	Category string
	Role     string
	Count    int
	Message  string
}

// CoverageReport summarises role coverage across categories.
type CoverageReport struct {
	Gaps   []Gap
	Checks int
}

// Score is the fraction of category x role checks without a violation; 1 when nothing was checked.
func (r CoverageReport) Score() float64 {
	if r.Checks == 0 {
		return 1
	}
	violated := make(map[string]struct{}, len(r.Gaps))
	for _, g := range r.Gaps {
		violated[g.Category+"\x00"+g.Role] = struct{}{}
	}
	return float64(r.Checks-len(violated)) / float64(r.Checks)
}

// Messages returns the warning strings in report order.
func (r CoverageReport) Messages() []string {
	out := make([]string, 0, len(r.Gaps))
	for _, g := range r.Gaps {
		out = append(out, g.Message)
	}
	return out
}

// ActiveFunc decides whether a member counts toward coverage.
type ActiveFunc func(domain.Entity) bool

// ActiveStatuses returns an ActiveFunc accepting members whose status is empty or listed.
func ActiveStatuses(statuses ...string) ActiveFunc {
	allowed := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		allowed[s] = struct{}{}
	}
	return func(e domain.Entity) bool {
		if e.Status == "" {
			return true
		}
		_, ok := allowed[e.Status]
		return ok
	}
}

// Categories returns the sorted union of team and member categories.
func Categories(entities []domain.Entity) []string {
	seen := make(map[string]struct{})
	for _, e := range entities {
		if e.Kind != domain.KindTeam && e.Kind != domain.KindMember {
			continue
		}
		if e.Category == "" {
			continue
		}
		seen[e.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// DetectGaps compares active member counts per (category, role) against thresholds.
func DetectGaps(entities []domain.Entity, thresholds []Threshold, active ActiveFunc) CoverageReport {
	if active == nil {
		active = ActiveStatuses(domain.StatusActive)
	}
	counts := make(map[string]map[string]int)
	for _, e := range entities {
		if e.Kind != domain.KindMember || !active(e) {
			continue
		}
		if counts[e.Category] == nil {
			counts[e.Category] = make(map[string]int)
		}
		for _, role := range e.Roles {
			counts[e.Category][role]++
		}
	}

	var report CoverageReport
	for _, category := range Categories(entities) {
		for _, th := range thresholds {
			report.Checks++
			n := counts[category][th.Role]
			switch {
			case n == 0 && th.Min > 0:
				report.Gaps = append(report.Gaps, Gap{Kind: GapMissing, Category: category, Role: th.Role, Count: n,
					Message: fmt.Sprintf("No %s in %s", th.Role, category)})
			case n < th.Min:
				report.Gaps = append(report.Gaps, Gap{Kind: GapShort, Category: category, Role: th.Role, Count: n,
					Message: fmt.Sprintf("Gap: %s %s", category, th.Role)})
			}
			if th.Max > 0 && n > th.Max {
				report.Gaps = append(report.Gaps, Gap{Kind: GapOverflow, Category: category, Role: th.Role, Count: n,
					Message: fmt.Sprintf("Overflow: %s %s", category, th.Role)})
			}
		}
	}
	return report
}
