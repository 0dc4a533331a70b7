// Package raster defines the pixel-buffer contract between the rendering
// side of the toolkit and the detection pipeline, plus helpers for turning
// decoded images into detection-ready buffers. Rendering page content from a
// PDF is a collaborator concern; implementations of Rasterizer supply the
// buffers, this package never produces them from PDF data itself.
package raster

import (
	"context"
	"fmt"
	"image"
	gdraw "image/draw"

	"golang.org/x/image/draw"
)

// Pixmap is one rendered page: RGBA bytes, row-major, origin top-left,
// length Width*Height*4.
type Pixmap struct {
	Data   []byte
	Width  int
	Height int
}

// Validate checks that the buffer length matches the declared dimensions.
func (p Pixmap) Validate() error {
	if len(p.Data) != p.Width*p.Height*4 {
		return fmt.Errorf("raster: pixmap %dx%d wants %d bytes, has %d",
			p.Width, p.Height, p.Width*p.Height*4, len(p.Data))
	}
	return nil
}

// Rasterizer supplies rendered pages on demand. Implementations own the
// rendering resolution; callers learn it from the returned pixmap.
type Rasterizer interface {
	RenderPage(ctx context.Context, pageIndex int) (Pixmap, error)
}

// FromImage converts any decoded image into a Pixmap.
func FromImage(img image.Image) Pixmap {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	gdraw.Draw(rgba, rgba.Bounds(), img, b.Min, gdraw.Src)
	return Pixmap{Data: rgba.Pix, Width: b.Dx(), Height: b.Dy()}
}

// ScaleToWidth resamples img to the target width, preserving aspect ratio.
// Images already at the target width are returned unchanged.
func ScaleToWidth(img image.Image, width int) image.Image {
	b := img.Bounds()
	if b.Dx() == width || b.Dx() == 0 {
		return img
	}
	height := int(float64(b.Dy()) * float64(width) / float64(b.Dx()))
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
