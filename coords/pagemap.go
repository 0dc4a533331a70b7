package coords

import (
	"fmt"

	"github.com/wudi/scorekit/segment"
)

// PageMap converts vertical extents between the pixel space of one rendered
// page and the document space of the underlying page. PageHeight is the page
// height in points; Scale is the render resolution in pixels per point (the
// rendered image height divided by PageHeight).
type PageMap struct {
	PageHeight float64
	Scale      float64

	toDoc Matrix
	toPix Matrix
}

// NewPageMap builds the conversion for one page. Scale must be positive.
func NewPageMap(pageHeight, scale float64) (*PageMap, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("coords: non-positive scale %g", scale)
	}
	// Pixel rows grow downward; document y grows upward. The transform is
	// a y-flip composed with the resolution scale.
	toDoc := Scale(1/scale, -1/scale).Multiply(Translate(0, pageHeight))
	toPix, err := toDoc.Inverse()
	if err != nil {
		return nil, err
	}
	return &PageMap{PageHeight: pageHeight, Scale: scale, toDoc: toDoc, toPix: toPix}, nil
}

// ToDoc converts a pixel-row boundary into document-space top and bottom
// edges. Because the document axis points upward, the returned top exceeds
// the returned bottom numerically.
func (m *PageMap) ToDoc(b segment.Boundary) (top, bottom float64) {
	top = m.toDoc.Transform(Point{Y: float64(b.Top)}).Y
	bottom = m.toDoc.Transform(Point{Y: float64(b.Bottom)}).Y
	return top, bottom
}

// ToPixels converts document-space top and bottom edges back into a
// pixel-row boundary, rounding each edge to the nearest row.
func (m *PageMap) ToPixels(top, bottom float64) segment.Boundary {
	topPx := m.toPix.Transform(Point{Y: top}).Y
	bottomPx := m.toPix.Transform(Point{Y: bottom}).Y
	return segment.Boundary{
		Top:    int(topPx + 0.5),
		Bottom: int(bottomPx + 0.5),
	}
}
