// Package labeling suggests instrument names for detected staves by running
// text recognition over the label strip printed at the left edge of a staff.
// Only printed text is recognized; the notation itself is never interpreted.
// Engines are pluggable in the same way OCR providers usually are: a small
// interface, a nop default, and provider subpackages. Suggestions are never
// applied automatically; the state machine stays the source of truth.
package labeling

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/wudi/scorekit/raster"
	"github.com/wudi/scorekit/segment"
)

// Input is one label strip submitted for recognition.
type Input struct {
	// StaffID is echoed back on the suggestion for correlation.
	StaffID string
	// Image is the encoded PNG of the strip.
	Image []byte
	// Languages holds trained-data hints for the provider, e.g. "eng".
	Languages []string
}

// Suggestion is a recognized instrument name for one staff.
type Suggestion struct {
	StaffID    string
	Label      string
	Confidence float64
}

// Engine is the provider contract: one strip in, one suggestion out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input) (Suggestion, error)
}

type nopEngine struct{}

func (nopEngine) Name() string { return "nop" }

func (nopEngine) Recognize(_ context.Context, in Input) (Suggestion, error) {
	return Suggestion{StaffID: in.StaffID}, nil
}

// NopEngine returns an engine that suggests nothing. There is no ambient
// default engine; callers pass the engine they want explicitly.
func NopEngine() Engine { return nopEngine{} }

// StripInput cuts the label strip left of a staff boundary out of a rendered
// page and encodes it for recognition. stripWidth is in pixels and clamped
// to the page width.
func StripInput(p raster.Pixmap, staffID string, b segment.Boundary, stripWidth int) (Input, error) {
	if err := p.Validate(); err != nil {
		return Input{}, err
	}
	if b.Top < 0 || b.Bottom > p.Height || b.Top >= b.Bottom {
		return Input{}, fmt.Errorf("labeling: boundary %+v outside page height %d", b, p.Height)
	}
	if stripWidth <= 0 || stripWidth > p.Width {
		stripWidth = p.Width
	}

	src := &image.RGBA{
		Pix:    p.Data,
		Stride: p.Width * 4,
		Rect:   image.Rect(0, 0, p.Width, p.Height),
	}
	strip := image.NewRGBA(image.Rect(0, 0, stripWidth, b.Height()))
	draw.Draw(strip, strip.Bounds(), src, image.Pt(0, b.Top), draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, strip); err != nil {
		return Input{}, fmt.Errorf("labeling: encode strip: %w", err)
	}
	return Input{StaffID: staffID, Image: buf.Bytes()}, nil
}
