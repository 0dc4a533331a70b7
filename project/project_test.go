package project_test

import (
	"fmt"
	"testing"

	"github.com/wudi/scorekit/project"
)

func loaded() (*project.State, *project.History) {
	s := project.NewState()
	h := project.NewHistory(s)
	return project.ReduceWithHistory(s, h, project.LoadDocument{
		SourceFileName: "quartet.pdf",
		SourcePDF:      []byte("%PDF-1.7"),
		PageCount:      4,
		PageDimensions: []project.PageDimension{{595, 842}, {595, 842}, {595, 842}, {595, 842}},
	})
}

func staff(id, systemID string, page int) project.Staff {
	return project.Staff{ID: id, PageIndex: page, Top: 700, Bottom: 650, SystemID: systemID}
}

func TestReduce(t *testing.T) {
	t.Run("SetStepRewindsCursor", func(t *testing.T) {
		s := project.Reduce(project.NewState(), project.SetCurrentPage{Index: 2})
		s = project.Reduce(s, project.SetStep{Step: project.StepStaffs})
		if s.Step != project.StepStaffs || s.CurrentPageIndex != 0 {
			t.Fatalf("step %v cursor %d", s.Step, s.CurrentPageIndex)
		}
	})

	t.Run("LoadDocumentClearsStructure", func(t *testing.T) {
		s := project.Reduce(project.NewState(), project.SetStaffs{Staffs: []project.Staff{staff("s1", "sys1", 0)}})
		s = project.Reduce(s, project.LoadDocument{SourceFileName: "a.pdf", PageCount: 2})
		if len(s.Staffs) != 0 || len(s.Systems) != 0 {
			t.Fatal("load must clear staffs and systems")
		}
		if s.SourceFileName != "a.pdf" || s.PageCount != 2 || s.CurrentPageIndex != 0 {
			t.Fatalf("%+v", s)
		}
	})

	t.Run("SetStaffsLeavesSystemsAlone", func(t *testing.T) {
		systems := []project.System{{ID: "sys1", PageIndex: 0, Top: 800, Bottom: 600}}
		s := project.Reduce(project.NewState(), project.SetSystems{Systems: systems})
		s2 := project.Reduce(s, project.SetStaffs{Staffs: []project.Staff{staff("s1", "sys1", 0)}})
		if &s2.Systems[0] != &s.Systems[0] {
			t.Fatal("systems slice must keep the same backing array")
		}
	})

	t.Run("UpdateStaffTouchesOnlyMatch", func(t *testing.T) {
		s := project.Reduce(project.NewState(), project.SetStaffs{Staffs: []project.Staff{
			staff("s1", "sys1", 0), staff("s2", "sys1", 0), staff("s3", "sys1", 0),
		}})
		edited := staff("s2", "sys1", 0)
		edited.Label = "Viola"
		s2 := project.Reduce(s, project.UpdateStaff{Staff: edited})
		if s2.Staffs[1].Label != "Viola" {
			t.Fatalf("staff not updated: %+v", s2.Staffs[1])
		}
		if s2.Staffs[0] != s.Staffs[0] || s2.Staffs[2] != s.Staffs[2] {
			t.Fatal("untouched staves must be unchanged")
		}
	})

	t.Run("AddAndDeleteStaff", func(t *testing.T) {
		s := project.Reduce(project.NewState(), project.AddStaff{Staff: staff("s1", "sys1", 0)})
		s = project.Reduce(s, project.AddStaff{Staff: staff("s2", "sys1", 0)})
		s = project.Reduce(s, project.DeleteStaff{ID: "s1"})
		if len(s.Staffs) != 1 || s.Staffs[0].ID != "s2" {
			t.Fatalf("%+v", s.Staffs)
		}
	})

	t.Run("RefreshDocumentPreservesEverythingElse", func(t *testing.T) {
		s := project.Reduce(project.NewState(), project.SetStep{Step: project.StepSystems})
		s = project.Reduce(s, project.SetCurrentPage{Index: 3})
		s2 := project.Reduce(s, project.RefreshDocument{Doc: "handle-2"})
		if s2.Doc != "handle-2" {
			t.Fatalf("doc %v", s2.Doc)
		}
		if s2.Step != s.Step || s2.CurrentPageIndex != 3 {
			t.Fatal("refresh must preserve step and cursor")
		}
	})

	t.Run("ResetReturnsEmptyState", func(t *testing.T) {
		s, _ := loaded()
		s2 := project.Reduce(s, project.Reset{})
		if s2.PageCount != 0 || s2.SourceFileName != "" || len(s2.Staffs) != 0 {
			t.Fatalf("%+v", s2)
		}
	})

	t.Run("UnrecognizedActionIsIdentity", func(t *testing.T) {
		s := project.NewState()
		if project.Reduce(s, nil) != s {
			t.Fatal("nil action must return the identical state pointer")
		}
	})
}

func TestHistory(t *testing.T) {
	t.Run("UndoOnEmptyPastIsIdentity", func(t *testing.T) {
		s, h := loaded()
		s2, h2 := project.ReduceWithHistory(s, h, project.Undo{})
		if s2 != s || h2 != h {
			t.Fatal("undo with empty past must return identical references")
		}
	})

	t.Run("UndoRedoRoundTrip", func(t *testing.T) {
		s, h := loaded()
		before := s.Snapshot()
		staffs := []project.Staff{staff("s1", "sys1", 0)}
		s, h = project.ReduceWithHistory(s, h, project.SetStaffs{Staffs: staffs})
		after := s.Snapshot()

		s, h = project.ReduceWithHistory(s, h, project.Undo{})
		if len(s.Staffs) != len(before.Staffs) {
			t.Fatalf("undo did not restore staffs: %+v", s.Staffs)
		}
		if h.Present.Staffs != nil && len(h.Present.Staffs) != 0 {
			t.Fatalf("present after undo: %+v", h.Present)
		}

		s, h = project.ReduceWithHistory(s, h, project.Redo{})
		if len(s.Staffs) != len(after.Staffs) || s.Staffs[0].ID != "s1" {
			t.Fatalf("redo did not restore staffs: %+v", s.Staffs)
		}
		if len(h.Future) != 0 {
			t.Fatalf("future after redo: %+v", h.Future)
		}
	})

	t.Run("UndoPreservesDocumentFields", func(t *testing.T) {
		s, h := loaded()
		s, h = project.ReduceWithHistory(s, h, project.SetCurrentPage{Index: 2})
		s, h = project.ReduceWithHistory(s, h, project.AddStaff{Staff: staff("s1", "sys1", 2)})
		s, _ = project.ReduceWithHistory(s, h, project.Undo{})
		if s.PageCount != 4 || s.CurrentPageIndex != 2 || s.SourceFileName != "quartet.pdf" {
			t.Fatalf("undo touched non-undoable fields: %+v", s)
		}
	})

	t.Run("NewActionClearsFuture", func(t *testing.T) {
		s, h := loaded()
		s, h = project.ReduceWithHistory(s, h, project.AddStaff{Staff: staff("s1", "sys1", 0)})
		s, h = project.ReduceWithHistory(s, h, project.Undo{})
		if len(h.Future) != 1 {
			t.Fatalf("future: %+v", h.Future)
		}
		_, h = project.ReduceWithHistory(s, h, project.AddStaff{Staff: staff("s2", "sys1", 0)})
		if len(h.Future) != 0 {
			t.Fatal("new undoable action must clear the redo stack")
		}
	})

	t.Run("PastBoundedAtFifty", func(t *testing.T) {
		s, h := loaded()
		for i := 0; i < project.MaxHistory+20; i++ {
			s, h = project.ReduceWithHistory(s, h, project.AddStaff{Staff: staff(fmt.Sprintf("s%d", i), "sys1", 0)})
			if len(h.Past) > project.MaxHistory {
				t.Fatalf("past grew to %d after %d actions", len(h.Past), i+1)
			}
		}
		if len(h.Past) != project.MaxHistory {
			t.Fatalf("past %d", len(h.Past))
		}
		// The oldest snapshots were evicted: undoing everything available
		// lands on a state that still has staves.
		for len(h.Past) > 0 {
			s, h = project.ReduceWithHistory(s, h, project.Undo{})
		}
		if len(s.Staffs) == 0 {
			t.Fatal("eviction should have dropped the earliest snapshots")
		}
	})

	t.Run("NonUndoablePassesHistoryThrough", func(t *testing.T) {
		s, h := loaded()
		_, h2 := project.ReduceWithHistory(s, h, project.SetCurrentPage{Index: 1})
		if h2 != h {
			t.Fatal("non-undoable action must not touch history")
		}
		_, h3 := project.ReduceWithHistory(s, h, project.RefreshDocument{Doc: 1})
		if h3 != h {
			t.Fatal("refresh must not touch history")
		}
	})

	t.Run("LoadDocumentHardResetsHistory", func(t *testing.T) {
		s, h := loaded()
		s, h = project.ReduceWithHistory(s, h, project.AddStaff{Staff: staff("s1", "sys1", 0)})
		s, h = project.ReduceWithHistory(s, h, project.LoadDocument{SourceFileName: "b.pdf", PageCount: 1})
		if len(h.Past) != 0 || len(h.Future) != 0 {
			t.Fatalf("history not reinitialized: %+v", h)
		}
		s2, h2 := project.ReduceWithHistory(s, h, project.Undo{})
		if s2 != s || h2 != h {
			t.Fatal("undo across a load must be a no-op")
		}
	})

	t.Run("PresentTracksState", func(t *testing.T) {
		s, h := loaded()
		actions := []project.Action{
			project.AddStaff{Staff: staff("s1", "sys1", 0)},
			project.SetSystems{Systems: []project.System{{ID: "sys1", PageIndex: 0, Top: 800, Bottom: 600}}},
			project.Undo{},
			project.Redo{},
			project.DeleteStaff{ID: "s1"},
		}
		for i, a := range actions {
			s, h = project.ReduceWithHistory(s, h, a)
			if len(h.Present.Staffs) != len(s.Staffs) || len(h.Present.Systems) != len(s.Systems) {
				t.Fatalf("action %d: present %+v does not match state", i, h.Present)
			}
		}
	})
}
