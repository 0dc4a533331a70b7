package project

// Action is a structural edit or workflow transition dispatched into the
// state machine. The set of actions is closed; the reducer treats anything
// it does not recognize as a no-op.
type Action interface {
	isAction()
}

// SetStep moves the workflow to a step and rewinds the page cursor.
type SetStep struct {
	Step Step
}

// LoadDocument replaces every document field and clears all detected
// structure. History is reinitialized, not pushed.
type LoadDocument struct {
	SourceFileName string
	SourcePDF      []byte
	Doc            interface{}
	PageCount      int
	PageDimensions []PageDimension
}

// SetStaffs replaces the staff list wholesale; systems are untouched.
type SetStaffs struct {
	Staffs []Staff
}

// SetSystems replaces the system list wholesale; staves are untouched.
type SetSystems struct {
	Systems []System
}

// SetStaffsAndSystems replaces both lists in one undo step, the shape a
// whole-page detection result arrives in.
type SetStaffsAndSystems struct {
	Staffs  []Staff
	Systems []System
}

// UpdateStaff replaces the staff whose ID matches; all other staves keep
// their original values.
type UpdateStaff struct {
	Staff Staff
}

// AddStaff appends one staff.
type AddStaff struct {
	Staff Staff
}

// DeleteStaff removes the staff with the given ID.
type DeleteStaff struct {
	ID string
}

// SetCurrentPage moves the page cursor. No bounds clamp happens at this
// layer; callers validate against PageCount.
type SetCurrentPage struct {
	Index int
}

// RefreshDocument swaps only the opaque document handle, preserving every
// other field including step and page cursor.
type RefreshDocument struct {
	Doc interface{}
}

// Reset returns the project to the empty state and reinitializes history.
type Reset struct{}

// Undo steps back one history entry; a no-op when there is none.
type Undo struct{}

// Redo steps forward one history entry; a no-op when there is none.
type Redo struct{}

func (SetStep) isAction()             {}
func (LoadDocument) isAction()        {}
func (SetStaffs) isAction()           {}
func (SetSystems) isAction()          {}
func (SetStaffsAndSystems) isAction() {}
func (UpdateStaff) isAction()         {}
func (AddStaff) isAction()            {}
func (DeleteStaff) isAction()         {}
func (SetCurrentPage) isAction()      {}
func (RefreshDocument) isAction()     {}
func (Reset) isAction()               {}
func (Undo) isAction()                {}
func (Redo) isAction()                {}
