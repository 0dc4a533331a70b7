package segment_test

import (
	"errors"
	"testing"

	"github.com/wudi/scorekit/segment"
)

// page builds a white RGBA buffer and paints the given row ranges black.
// Ranges are [top, bottom) in pixel rows.
func page(width, height int, inkRows ...[2]int) []byte {
	data := make([]byte, width*height*4)
	for i := range data {
		data[i] = 0xff
	}
	for _, r := range inkRows {
		for y := r[0]; y < r[1]; y++ {
			for x := 0; x < width; x++ {
				i := (y*width + x) * 4
				data[i], data[i+1], data[i+2] = 0, 0, 0
			}
		}
	}
	return data
}

func TestDetectSystems(t *testing.T) {
	t.Run("AllWhite", func(t *testing.T) {
		got, err := segment.DetectSystems(page(100, 180), 100, 180, 50)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Fatalf("expected no systems, got %v", got)
		}
	})

	t.Run("TwoBandsSplitByGap", func(t *testing.T) {
		// Two 40-row bands separated by a 60-row white gap.
		buf := page(100, 180, [2]int{20, 60}, [2]int{120, 160})
		got, err := segment.DetectSystems(buf, 100, 180, 50)
		if err != nil {
			t.Fatal(err)
		}
		want := []segment.Boundary{{Top: 20, Bottom: 60}, {Top: 120, Bottom: 160}}
		if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
			t.Fatalf("got %v, want %v", got, want)
		}
	})

	t.Run("GapBelowThresholdMerges", func(t *testing.T) {
		buf := page(100, 180, [2]int{20, 60}, [2]int{120, 160})
		got, err := segment.DetectSystems(buf, 100, 180, 61)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 {
			t.Fatalf("expected one merged system, got %v", got)
		}
		if got[0] != (segment.Boundary{Top: 20, Bottom: 160}) {
			t.Fatalf("merged boundary %v", got[0])
		}
	})

	t.Run("SortedNonOverlapping", func(t *testing.T) {
		buf := page(50, 300, [2]int{10, 30}, [2]int{90, 110}, [2]int{200, 260})
		got, err := segment.DetectSystems(buf, 50, 300, 40)
		if err != nil {
			t.Fatal(err)
		}
		for i := 1; i < len(got); i++ {
			if got[i].Top < got[i-1].Bottom {
				t.Fatalf("boundaries overlap or unsorted: %v", got)
			}
		}
	})

	t.Run("BufferSizeMismatch", func(t *testing.T) {
		_, err := segment.DetectSystems(make([]byte, 10), 100, 180, 50)
		if !errors.Is(err, segment.ErrBufferSize) {
			t.Fatalf("expected ErrBufferSize, got %v", err)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		buf := page(100, 180, [2]int{20, 60}, [2]int{120, 160})
		a, _ := segment.DetectSystems(buf, 100, 180, 50)
		b, _ := segment.DetectSystems(buf, 100, 180, 50)
		if len(a) != len(b) {
			t.Fatalf("non-deterministic results: %v vs %v", a, b)
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("non-deterministic results: %v vs %v", a, b)
			}
		}
	})
}

func TestDetectStaffs(t *testing.T) {
	t.Run("OneListPerSystem", func(t *testing.T) {
		// Two systems, each holding two staves separated by 12 white rows.
		buf := page(80, 400,
			[2]int{20, 40}, [2]int{52, 72},
			[2]int{200, 220}, [2]int{232, 252})
		systems, err := segment.DetectSystems(buf, 80, 400, 50)
		if err != nil {
			t.Fatal(err)
		}
		if len(systems) != 2 {
			t.Fatalf("expected 2 systems, got %v", systems)
		}
		staffs, err := segment.DetectStaffs(buf, 80, 400, systems, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(staffs) != len(systems) {
			t.Fatalf("expected %d staff groups, got %d", len(systems), len(staffs))
		}
		want := [][]segment.Boundary{
			{{Top: 20, Bottom: 40}, {Top: 52, Bottom: 72}},
			{{Top: 200, Bottom: 220}, {Top: 232, Bottom: 252}},
		}
		for i := range want {
			if len(staffs[i]) != 2 {
				t.Fatalf("system %d: got %v", i, staffs[i])
			}
			for j := range want[i] {
				if staffs[i][j] != want[i][j] {
					t.Fatalf("system %d staff %d: got %v, want %v", i, j, staffs[i][j], want[i][j])
				}
			}
		}
	})

	t.Run("NoInternalGapYieldsSingleStaff", func(t *testing.T) {
		buf := page(80, 200, [2]int{30, 90})
		systems, _ := segment.DetectSystems(buf, 80, 200, 50)
		staffs, err := segment.DetectStaffs(buf, 80, 200, systems, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(staffs) != 1 || len(staffs[0]) != 1 {
			t.Fatalf("got %v", staffs)
		}
		if staffs[0][0] != systems[0] {
			t.Fatalf("staff %v does not span system %v", staffs[0][0], systems[0])
		}
	})

	t.Run("EmptySystemsInput", func(t *testing.T) {
		buf := page(80, 200)
		staffs, err := segment.DetectStaffs(buf, 80, 200, nil, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(staffs) != 0 {
			t.Fatalf("expected no staff groups, got %v", staffs)
		}
	})
}

func TestDetectPage(t *testing.T) {
	buf := page(80, 400,
		[2]int{20, 40}, [2]int{52, 72},
		[2]int{200, 220}, [2]int{232, 252})
	parts, err := segment.DetectPage(buf, 80, 400, 50, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(parts) != 2 {
		t.Fatalf("expected 2 systems, got %v", parts)
	}
	for i, p := range parts {
		if len(p.Staffs) != 2 {
			t.Fatalf("system %d: expected 2 staves, got %v", i, p.Staffs)
		}
		if p.Staffs[0].Top != p.System.Top || p.Staffs[len(p.Staffs)-1].Bottom != p.System.Bottom {
			t.Fatalf("system %d: staves %v exceed system %v", i, p.Staffs, p.System)
		}
	}
}

func TestBoundaryHeight(t *testing.T) {
	b := segment.Boundary{Top: 20, Bottom: 60}
	if b.Height() != 40 {
		t.Fatalf("height %d", b.Height())
	}
}
