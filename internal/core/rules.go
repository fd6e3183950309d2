package core

import "github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"

// DefaultRules returns the built-in rule set for a session starting from the given balance.
func DefaultRules(startingBalance float64) []domain.Rule {
	return []domain.Rule{
		NewRunwayRule(startingBalance),
		NewRosterSlotsRule(),
	}
}
