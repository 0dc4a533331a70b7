package raster

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "image/jpeg"
	_ "image/png"
)

// Directory serves pre-rendered page images from a directory, one file per
// page in lexical filename order. PNG and JPEG files are recognized; other
// files are ignored during the scan.
type Directory struct {
	files       []string
	targetWidth int
}

// DirectoryOption configures a Directory rasterizer.
type DirectoryOption func(*Directory)

// WithTargetWidth rescales every page to the given pixel width before it is
// returned, which keeps detection thresholds comparable across pages
// rendered at different resolutions.
func WithTargetWidth(width int) DirectoryOption {
	return func(d *Directory) { d.targetWidth = width }
}

// OpenDirectory scans dir for page images. It fails when the directory holds
// no usable images.
func OpenDirectory(dir string, opts ...DirectoryOption) (*Directory, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("raster: read %s: %w", dir, err)
	}
	d := &Directory{}
	for _, opt := range opts {
		opt(d)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg":
			d.files = append(d.files, filepath.Join(dir, e.Name()))
		}
	}
	if len(d.files) == 0 {
		return nil, fmt.Errorf("raster: no page images in %s", dir)
	}
	sort.Strings(d.files)
	return d, nil
}

// PageCount reports how many page images the directory holds.
func (d *Directory) PageCount() int { return len(d.files) }

// RenderPage decodes the image for pageIndex, rescaling when a target width
// is configured.
func (d *Directory) RenderPage(ctx context.Context, pageIndex int) (Pixmap, error) {
	if pageIndex < 0 || pageIndex >= len(d.files) {
		return Pixmap{}, fmt.Errorf("raster: page %d out of range [0, %d)", pageIndex, len(d.files))
	}
	select {
	case <-ctx.Done():
		return Pixmap{}, ctx.Err()
	default:
	}
	f, err := os.Open(d.files[pageIndex])
	if err != nil {
		return Pixmap{}, fmt.Errorf("raster: open page %d: %w", pageIndex, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return Pixmap{}, fmt.Errorf("raster: decode %s: %w", d.files[pageIndex], err)
	}
	if d.targetWidth > 0 {
		img = ScaleToWidth(img, d.targetWidth)
	}
	return FromImage(img), nil
}
