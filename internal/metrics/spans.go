package metrics

import (
	"sort"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"
)

// PairSpans pairs open and close timeline events into spans. Events are
// processed in time order; a close matches the earliest pending open with the
// same label. A close with no pending open is dropped. An open that never sees
// a close is paired with itself and yields a zero-duration span marked Unmatched.
func PairSpans(entityID string, events []domain.TimelineEvent) []domain.Span {
	ordered := append([]domain.TimelineEvent(nil), events...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].At.Before(ordered[j].At) })

	pending := make(map[string][]domain.TimelineEvent)
	var spans []domain.Span
	for _, ev := range ordered {
		switch ev.Type {
		case domain.EventOpen:
			pending[ev.Label] = append(pending[ev.Label], ev)
		case domain.EventClose:
			queue := pending[ev.Label]
			if len(queue) == 0 {
				continue
			}
			open := queue[0]
			pending[ev.Label] = queue[1:]
			spans = append(spans, domain.Span{EntityID: entityID, Label: ev.Label, Start: open.At, End: ev.At})
		}
	}
	for label, queue := range pending {
		for _, open := range queue {
			spans = append(spans, domain.Span{EntityID: entityID, Label: label, Start: open.At, End: open.At, Unmatched: true})
		}
	}
	sortSpans(spans)
	return spans
}

// EntitySpans pairs the timeline of every entity that carries one.
func EntitySpans(entities []domain.Entity) []domain.Span {
	var spans []domain.Span
	for _, e := range entities {
		if len(e.Timeline) == 0 {
			continue
		}
		spans = append(spans, PairSpans(e.ID, e.Timeline)...)
	}
	sortSpans(spans)
	return spans
}

func sortSpans(spans []domain.Span) {
	sort.SliceStable(spans, func(i, j int) bool {
		a, b := spans[i], spans[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if a.EntityID != b.EntityID {
			return a.EntityID < b.EntityID
		}
		return a.Label < b.Label
	})
}
