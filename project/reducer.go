package project

// Reduce applies one action to the state and returns the next state. It is
// total and pure: it never fails, never mutates s, and returns the identical
// pointer for actions that change nothing (unrecognized actions, Undo/Redo,
// nil). History bookkeeping lives in ReduceWithHistory; this layer only
// transforms the edit-relevant fields.
func Reduce(s *State, a Action) *State {
	switch a := a.(type) {
	case SetStep:
		next := *s
		next.Step = a.Step
		next.CurrentPageIndex = 0
		return &next

	case LoadDocument:
		next := *s
		next.SourceFileName = a.SourceFileName
		next.SourcePDF = a.SourcePDF
		next.Doc = a.Doc
		next.PageCount = a.PageCount
		next.PageDimensions = a.PageDimensions
		next.Staffs = nil
		next.Systems = nil
		next.CurrentPageIndex = 0
		return &next

	case SetStaffs:
		next := *s
		next.Staffs = a.Staffs
		return &next

	case SetSystems:
		next := *s
		next.Systems = a.Systems
		return &next

	case SetStaffsAndSystems:
		next := *s
		next.Staffs = a.Staffs
		next.Systems = a.Systems
		return &next

	case UpdateStaff:
		next := *s
		staffs := make([]Staff, len(s.Staffs))
		copy(staffs, s.Staffs)
		for i := range staffs {
			if staffs[i].ID == a.Staff.ID {
				staffs[i] = a.Staff
			}
		}
		next.Staffs = staffs
		return &next

	case AddStaff:
		next := *s
		next.Staffs = append(append([]Staff(nil), s.Staffs...), a.Staff)
		return &next

	case DeleteStaff:
		next := *s
		staffs := make([]Staff, 0, len(s.Staffs))
		for _, st := range s.Staffs {
			if st.ID != a.ID {
				staffs = append(staffs, st)
			}
		}
		next.Staffs = staffs
		return &next

	case SetCurrentPage:
		next := *s
		next.CurrentPageIndex = a.Index
		return &next

	case RefreshDocument:
		next := *s
		next.Doc = a.Doc
		return &next

	case Reset:
		return NewState()

	default:
		return s
	}
}

// undoable reports whether an action takes part in undo/redo history.
// Exactly the structural edits do; workflow, document and cursor actions
// bypass history entirely.
func undoable(a Action) bool {
	switch a.(type) {
	case SetStaffs, SetSystems, SetStaffsAndSystems, UpdateStaff, AddStaff, DeleteStaff:
		return true
	}
	return false
}
