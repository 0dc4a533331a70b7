// Package export turns the edited project model into per-instrument output.
// It consumes the staffs/systems the state machine exposes, groups them into
// parts, and cuts per-part documents from the retained source bytes. The
// wizard decides when to export; this package only writes.
package export

import (
	"fmt"
	"sort"

	"github.com/wudi/scorekit/project"
)

// Part is one instrument's slice of the document: a display name and the
// zero-based source pages the instrument appears on.
type Part struct {
	Name  string
	Pages []int
}

// Parts groups staves into instrument parts. Labeled staves group by label.
// An unlabeled staff groups by its ordinal position within its system, on
// the convention that the n-th staff of every system belongs to the same
// instrument. Parts come back in order of first appearance; page lists are
// sorted and deduplicated.
func Parts(staffs []project.Staff) []Part {
	ordinal := make(map[string]int)
	pages := make(map[string]map[int]struct{})
	var order []string

	for _, st := range staffs {
		name := st.Label
		if name == "" {
			name = fmt.Sprintf("Part %d", ordinal[st.SystemID]+1)
		}
		ordinal[st.SystemID]++

		if _, ok := pages[name]; !ok {
			pages[name] = make(map[int]struct{})
			order = append(order, name)
		}
		pages[name][st.PageIndex] = struct{}{}
	}

	out := make([]Part, 0, len(order))
	for _, name := range order {
		pp := make([]int, 0, len(pages[name]))
		for p := range pages[name] {
			pp = append(pp, p)
		}
		sort.Ints(pp)
		out = append(out, Part{Name: name, Pages: pp})
	}
	return out
}
