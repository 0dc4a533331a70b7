// Package segment implements projection-based detection of staff systems and
// individual staves on rasterized score pages. Detection works on raw RGBA
// buffers: each pixel row is classified as ink or white, runs of ink rows are
// merged across small white gaps, and every surviving ink region becomes one
// boundary. The functions are pure; identical inputs always produce identical
// outputs, so results may be cached or recomputed freely.
package segment

import "errors"

// LuminanceCutoff is the per-channel value below which a pixel counts as ink.
// A pixel is ink when its R, G and B channels are all below the cutoff; the
// alpha channel is ignored.
const LuminanceCutoff = 32

// ErrBufferSize reports a pixel buffer whose length does not match the
// declared dimensions. Detection rejects such buffers instead of guessing a
// row stride.
var ErrBufferSize = errors.New("segment: buffer length does not match width*height*4")

// Boundary is a vertical pixel-row range on a page. Top is the first ink row
// of the region and Bottom is exclusive (last ink row + 1), so Top < Bottom
// always holds and Bottom-Top is the region height in rows.
type Boundary struct {
	Top    int
	Bottom int
}

// Height returns the number of rows covered by the boundary.
func (b Boundary) Height() int { return b.Bottom - b.Top }

// SystemParts pairs one detected system with the staves found inside it.
type SystemParts struct {
	System Boundary
	Staffs []Boundary
}

// DetectSystems locates staff systems in an RGBA page buffer. Ink regions
// separated by fewer than systemGap consecutive white rows are merged; a white
// run of systemGap rows or more is a hard boundary between systems. The result
// is sorted by ascending Top and the boundaries never overlap. An all-white
// buffer yields an empty slice.
func DetectSystems(data []byte, width, height, systemGap int) ([]Boundary, error) {
	if len(data) != width*height*4 {
		return nil, ErrBufferSize
	}
	return regions(data, width, 0, height, systemGap), nil
}

// DetectStaffs locates individual staves inside previously detected systems.
// Detection runs independently on each system's [Top, Bottom) row range using
// partGap as the merge threshold, so the result has exactly one entry per
// input system, positionally aligned. A system with no internal white run of
// at least partGap rows yields a single staff covering its whole ink extent.
func DetectStaffs(data []byte, width, height int, systems []Boundary, partGap int) ([][]Boundary, error) {
	if len(data) != width*height*4 {
		return nil, ErrBufferSize
	}
	out := make([][]Boundary, len(systems))
	for i, sys := range systems {
		out[i] = regions(data, width, sys.Top, sys.Bottom, partGap)
	}
	return out, nil
}

// DetectPage runs system and staff detection in one pass over the buffer.
func DetectPage(data []byte, width, height, systemGap, partGap int) ([]SystemParts, error) {
	systems, err := DetectSystems(data, width, height, systemGap)
	if err != nil {
		return nil, err
	}
	staffs, err := DetectStaffs(data, width, height, systems, partGap)
	if err != nil {
		return nil, err
	}
	out := make([]SystemParts, len(systems))
	for i, sys := range systems {
		out[i] = SystemParts{System: sys, Staffs: staffs[i]}
	}
	return out, nil
}

// regions classifies rows in [top, bottom), run-length encodes them and merges
// ink runs across white runs shorter than gap.
func regions(data []byte, width, top, bottom, gap int) []Boundary {
	var out []Boundary
	for y := top; y < bottom; y++ {
		if !inkRow(data, width, y) {
			continue
		}
		// Extend the previous region when the white run separating it
		// from this row is below the gap threshold.
		if n := len(out); n > 0 && y-out[n-1].Bottom < gap {
			out[n-1].Bottom = y + 1
			continue
		}
		out = append(out, Boundary{Top: y, Bottom: y + 1})
	}
	return out
}

// inkRow reports whether row y contains at least one near-black pixel.
func inkRow(data []byte, width, y int) bool {
	off := y * width * 4
	for x := 0; x < width; x++ {
		i := off + x*4
		if data[i] < LuminanceCutoff && data[i+1] < LuminanceCutoff && data[i+2] < LuminanceCutoff {
			return true
		}
	}
	return false
}
