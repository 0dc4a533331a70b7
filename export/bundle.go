package export

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"strings"
)

// WriteBundle writes every part through wr into one ZIP archive on w, one
// PDF entry per part. Part names are sanitized into safe file names;
// duplicates get a numeric suffix.
func WriteBundle(ctx context.Context, wr Writer, parts []Part, w io.Writer) error {
	zw := zip.NewWriter(w)
	seen := make(map[string]int)
	for _, part := range parts {
		name := entryName(part.Name, seen)
		f, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("export: create %s: %w", name, err)
		}
		if err := wr.WritePart(ctx, part, f); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("export: close archive: %w", err)
	}
	return nil
}

func entryName(partName string, seen map[string]int) string {
	base := sanitize(partName)
	seen[base]++
	if n := seen[base]; n > 1 {
		return fmt.Sprintf("%s-%d.pdf", base, n)
	}
	return base + ".pdf"
}

// sanitize keeps part names usable as archive entry names.
func sanitize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "part"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}
