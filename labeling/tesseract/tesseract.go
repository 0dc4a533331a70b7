// Package tesseract provides a labeling engine backed by the gosseract
// client. It needs the native Tesseract library and trained data at runtime.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/wudi/scorekit/labeling"
)

// Engine implements labeling.Engine using Tesseract.
type Engine struct {
	clientFactory func() *gosseract.Client
}

// New constructs a Tesseract-backed labeling engine.
func New() *Engine {
	return &Engine{clientFactory: gosseract.NewClient}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize runs OCR on the label strip. Single-line page segmentation suits
// instrument names, which are short and horizontal.
func (e *Engine) Recognize(ctx context.Context, in labeling.Input) (labeling.Suggestion, error) {
	select {
	case <-ctx.Done():
		return labeling.Suggestion{}, ctx.Err()
	default:
	}
	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(in.Image); err != nil {
		return labeling.Suggestion{}, fmt.Errorf("tesseract: set image: %w", err)
	}
	if len(in.Languages) > 0 {
		if err := c.SetLanguage(in.Languages...); err != nil {
			return labeling.Suggestion{}, fmt.Errorf("tesseract: set language: %w", err)
		}
	}
	if err := c.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return labeling.Suggestion{}, fmt.Errorf("tesseract: set psm: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return labeling.Suggestion{}, fmt.Errorf("tesseract: recognize: %w", err)
	}
	return labeling.Suggestion{
		StaffID: in.StaffID,
		Label:   CleanLabel(text),
	}, nil
}

// CleanLabel normalizes raw OCR output into a usable instrument name:
// whitespace collapsed, stray punctuation from bracket lines trimmed.
func CleanLabel(raw string) string {
	fields := strings.Fields(raw)
	joined := strings.Join(fields, " ")
	return strings.Trim(joined, " .:|[]{}()-_")
}
