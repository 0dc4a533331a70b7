// Package project holds the editable score model and reduces typed actions
// over it. The model tracks the systems and staves of a loaded document plus
// the wizard position; structural edits run through a pure reducer and a
// bounded undo/redo history. Nothing here is concurrent: the caller
// serializes dispatches, and every reduction is a plain function from one
// state value to the next.
package project

// Step identifies the caller's position in the splitting workflow.
type Step int

const (
	StepUpload Step = iota
	StepSystems
	StepStaffs
	StepLabels
	StepExport
)

// PageDimension is one page's size in document points.
type PageDimension struct {
	Width  float64
	Height float64
}

// System is a detected or edited group of staves on one page, in document
// space. The document axis points upward, so Top exceeds Bottom numerically.
// A system carries no substructure; staves reference it by ID.
type System struct {
	ID        string
	PageIndex int
	Top       float64
	Bottom    float64
}

// Staff is one labeled instrument line inside a system. SystemID must
// reference an existing System with the same PageIndex.
type Staff struct {
	ID        string
	PageIndex int
	Top       float64
	Bottom    float64
	Label     string
	SystemID  string
}

// State is the complete project model. Values are replaced wholesale or by
// identity-matched update, never mutated in place; the reducer returns the
// identical pointer when an action changes nothing, so callers can detect
// change by pointer comparison.
type State struct {
	Step           Step
	SourceFileName string
	SourcePDF      []byte
	// Doc is the caller's opaque document handle (renderer session, page
	// proxy table, ...). The state machine never looks inside it.
	Doc              interface{}
	PageCount        int
	PageDimensions   []PageDimension
	Staffs           []Staff
	Systems          []System
	CurrentPageIndex int
}

// NewState returns the empty project.
func NewState() *State { return &State{} }

// Snapshot is the undoable subset of the state.
type Snapshot struct {
	Staffs  []Staff
	Systems []System
}

// Snapshot captures the undoable subset of s.
func (s *State) Snapshot() Snapshot {
	return Snapshot{Staffs: s.Staffs, Systems: s.Systems}
}
