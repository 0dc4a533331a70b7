package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Writer produces one part's document on w.
type Writer interface {
	WritePart(ctx context.Context, part Part, w io.Writer) error
}

// PDF cuts per-part page sets out of the retained source document with
// pdfcpu. The source bytes are shared, never copied per part.
type PDF struct {
	src  []byte
	conf *model.Configuration
}

// NewPDF builds a writer over the source document bytes.
func NewPDF(src []byte) *PDF {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDF{src: src, conf: conf}
}

// WritePart writes the part's pages, in order, as a standalone PDF.
func (p *PDF) WritePart(ctx context.Context, part Part, w io.Writer) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if len(part.Pages) == 0 {
		return fmt.Errorf("export: part %q has no pages", part.Name)
	}
	selected := make([]string, len(part.Pages))
	for i, page := range part.Pages {
		// pdfcpu selects 1-based pages.
		selected[i] = strconv.Itoa(page + 1)
	}
	if err := api.Trim(bytes.NewReader(p.src), w, selected, p.conf); err != nil {
		return fmt.Errorf("export: trim part %q: %w", part.Name, err)
	}
	return nil
}
