package core

import (
	"context"
	"fmt"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

// FieldSlots is the team field holding open roster capacity.
const FieldSlots = "slots"

// NewRosterSlotsRule warns when a team with a slots field has no open slots left.
func NewRosterSlotsRule() domain.Rule {
	return rosterSlotsRule{}
}

type rosterSlotsRule struct{}

func (rosterSlotsRule) Name() string { return "roster_slots" }

func (rosterSlotsRule) Evaluate(_ context.Context, view domain.RuleView) (domain.Result, error) {
	res := domain.Result{}
	for _, team := range view.ListEntities(domain.KindTeam) {
		slots, ok := team.Metrics[FieldSlots]
		if !ok || slots > 0 {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "roster_slots",
			Severity: domain.SeverityWarn,
			Message:  fmt.Sprintf("team %s (%s) has no open slots", team.Category, team.ID),
			Kind:     domain.KindTeam,
			EntityID: team.ID,
		})
	}
	return res, nil
}
