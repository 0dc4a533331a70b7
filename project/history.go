package project

// MaxHistory bounds the undo depth. When the bound is reached the oldest
// snapshot is evicted first.
const MaxHistory = 50

// History is the undo/redo stack over Snapshot values. Present always equals
// the current state's snapshot; Future is cleared whenever a new undoable
// action is applied.
type History struct {
	Past    []Snapshot
	Present Snapshot
	Future  []Snapshot
}

// NewHistory starts a fresh history anchored at s.
func NewHistory(s *State) *History {
	return &History{Present: s.Snapshot()}
}

// ReduceWithHistory composes the inner reducer with history tracking. For
// undoable actions the previous snapshot is pushed (bounded at MaxHistory)
// and the redo stack is cleared. Undo and Redo move along the stack and
// restore only Staffs/Systems on the state, leaving every other field alone;
// past either end they return the identical state and history pointers.
// LoadDocument and Reset reinitialize history outright. Everything else
// passes the history reference through unchanged.
func ReduceWithHistory(s *State, h *History, a Action) (*State, *History) {
	switch a.(type) {
	case Undo:
		n := len(h.Past)
		if n == 0 {
			return s, h
		}
		prev := h.Past[n-1]
		next := *s
		next.Staffs = prev.Staffs
		next.Systems = prev.Systems
		return &next, &History{
			Past:    append([]Snapshot(nil), h.Past[:n-1]...),
			Present: prev,
			Future:  prependSnapshot(h.Present, h.Future),
		}

	case Redo:
		if len(h.Future) == 0 {
			return s, h
		}
		nextSnap := h.Future[0]
		next := *s
		next.Staffs = nextSnap.Staffs
		next.Systems = nextSnap.Systems
		return &next, &History{
			Past:    append(append([]Snapshot(nil), h.Past...), h.Present),
			Present: nextSnap,
			Future:  append([]Snapshot(nil), h.Future[1:]...),
		}

	case LoadDocument, Reset:
		next := Reduce(s, a)
		return next, NewHistory(next)
	}

	if !undoable(a) {
		return Reduce(s, a), h
	}

	past := append(append([]Snapshot(nil), h.Past...), h.Present)
	if len(past) > MaxHistory {
		past = past[len(past)-MaxHistory:]
	}
	next := Reduce(s, a)
	return next, &History{
		Past:    past,
		Present: next.Snapshot(),
	}
}

func prependSnapshot(s Snapshot, rest []Snapshot) []Snapshot {
	out := make([]Snapshot, 0, len(rest)+1)
	out = append(out, s)
	return append(out, rest...)
}
