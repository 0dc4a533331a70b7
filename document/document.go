// Package document loads source score documents and exposes the page-level
// metadata the state machine needs: page count and page dimensions. It also
// retains the raw source bytes so the export side can cut per-part files
// without re-reading the original. Parsing is delegated to pdfcpu; nothing
// here rasterizes page content.
package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/wudi/scorekit/project"
)

// Loader is the collaborator contract the session consumes. Implementations
// describe one loaded document and hand over its raw bytes for export; the
// session never asks them for pixels.
type Loader interface {
	FileName() string
	PageCount() int
	PageDimensions() []project.PageDimension
	Bytes() []byte
	LoadAction() project.LoadDocument
}

var _ Loader = (*File)(nil)

// File is a pdfcpu-backed Loader over an in-memory PDF.
type File struct {
	name      string
	data      []byte
	pageCount int
	dims      []project.PageDimension
}

// Open reads and validates the PDF at path.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("document: read %s: %w", path, err)
	}
	return OpenBytes(filepath.Base(path), data)
}

// OpenBytes validates an in-memory PDF. Validation is relaxed: scores from
// notation software frequently bend the letter of the PDF standard.
func OpenBytes(name string, data []byte) (*File, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("document: parse %s: %w", name, err)
	}
	rawDims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("document: page dimensions of %s: %w", name, err)
	}
	dims := make([]project.PageDimension, len(rawDims))
	for i, d := range rawDims {
		dims[i] = project.PageDimension{Width: d.Width, Height: d.Height}
	}
	return &File{
		name:      name,
		data:      data,
		pageCount: ctx.PageCount,
		dims:      dims,
	}, nil
}

func (f *File) FileName() string { return f.name }

func (f *File) PageCount() int { return f.pageCount }

func (f *File) PageDimensions() []project.PageDimension { return f.dims }

// Bytes returns the retained source document.
func (f *File) Bytes() []byte { return f.data }

// LoadAction builds the LoadDocument action for this file.
func (f *File) LoadAction() project.LoadDocument {
	return project.LoadDocument{
		SourceFileName: f.name,
		SourcePDF:      f.data,
		Doc:            f,
		PageCount:      f.pageCount,
		PageDimensions: f.dims,
	}
}
