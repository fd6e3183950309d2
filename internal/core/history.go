package core

import "github.com/CourtEvo/CourtEvoVeroHub-sub005/pkg/domain"

// HistoryState reports whether any committed scenario can be undone.
type HistoryState string

// History states.
const (
	HistoryClean HistoryState = "clean"
	HistoryDirty HistoryState = "dirty"
)

// Snapshot is a deep copy of entity state and the scenario stack.
type Snapshot struct {
	state entityState
	stack []domain.AppliedScenario
}

func (s Snapshot) clone() Snapshot {
	cp := Snapshot{state: s.state.clone(), stack: make([]domain.AppliedScenario, len(s.stack))}
	for i, a := range s.stack {
		cp.stack[i] = a.Clone()
	}
	return cp
}

// Len returns the number of applied scenarios captured in the snapshot.
func (s Snapshot) Len() int { return len(s.stack) }

// History is a linear snapshot-based undo/redo log. Snapshots handed to it
// become owned by it; snapshots it returns become owned by the caller.
type History struct {
	seed   Snapshot
	past   []Snapshot
	future []Snapshot
}

// NewHistory records seed as the state restored by Reset.
func NewHistory(seed Snapshot) *History {
	return &History{seed: seed.clone()}
}

// Commit pushes the pre-mutation snapshot onto past and discards future.
func (h *History) Commit(before Snapshot) {
	h.past = append(h.past, before)
	h.future = nil
}

// Undo pops the most recent snapshot and parks current on future.
// It returns false without side effects when past is empty.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.past) == 0 {
		return Snapshot{}, false
	}
	last := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, current)
	return last, true
}

// Redo is the mirror of Undo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.future) == 0 {
		return Snapshot{}, false
	}
	next := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, current)
	return next, true
}

// Reset clears both stacks and returns a copy of the seed snapshot.
func (h *History) Reset() Snapshot {
	h.past = nil
	h.future = nil
	return h.seed.clone()
}

// Depth returns the sizes of the past and future stacks.
func (h *History) Depth() (past, future int) {
	return len(h.past), len(h.future)
}

// State reports clean when past is empty.
func (h *History) State() HistoryState {
	if len(h.past) == 0 {
		return HistoryClean
	}
	return HistoryDirty
}
