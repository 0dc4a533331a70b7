// Command scoresplit splits a multi-instrument score into per-instrument
// parts. It needs the source PDF plus a directory of pre-rendered page
// images (for example from pdftoppm), runs boundary detection over every
// page, assigns instrument names by staff position, and writes one PDF per
// part or a single ZIP bundle.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/wudi/scorekit/config"
	"github.com/wudi/scorekit/document"
	"github.com/wudi/scorekit/export"
	"github.com/wudi/scorekit/observability"
	"github.com/wudi/scorekit/project"
	"github.com/wudi/scorekit/raster"
	"github.com/wudi/scorekit/session"
)

type options struct {
	pdfPath     string
	pagesDir    string
	outDir      string
	configPath  string
	instruments []string
	bundle      bool
	verbose     bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "scoresplit: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "scoresplit: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	var instruments string
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: scoresplit -pdf score.pdf -pages rendered/ [flags]\n")
		flag.PrintDefaults()
	}
	flag.StringVar(&opts.pdfPath, "pdf", "", "source score PDF")
	flag.StringVar(&opts.pagesDir, "pages", "", "directory of pre-rendered page images (PNG/JPEG, lexical page order)")
	flag.StringVar(&opts.outDir, "out", "parts", "output directory")
	flag.StringVar(&opts.configPath, "config", "", "YAML configuration file (optional)")
	flag.StringVar(&instruments, "instruments", "", "comma-separated instrument names, top staff first")
	flag.BoolVar(&opts.bundle, "zip", false, "write one ZIP bundle instead of individual PDFs")
	flag.BoolVar(&opts.verbose, "v", false, "verbose logging")
	flag.Parse()

	if opts.pdfPath == "" || opts.pagesDir == "" {
		return options{}, fmt.Errorf("both -pdf and -pages are required")
	}
	if instruments != "" {
		for _, name := range strings.Split(instruments, ",") {
			opts.instruments = append(opts.instruments, strings.TrimSpace(name))
		}
	}
	return opts, nil
}

func run(opts options) error {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return err
		}
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := observability.NewSlogLogger(slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	doc, err := document.Open(opts.pdfPath)
	if err != nil {
		return err
	}
	pages, err := raster.OpenDirectory(opts.pagesDir,
		raster.WithTargetWidth(cfg.Detection.RenderWidth))
	if err != nil {
		return err
	}
	if pages.PageCount() != doc.PageCount() {
		return fmt.Errorf("%s has %d pages but %s holds %d images",
			opts.pdfPath, doc.PageCount(), opts.pagesDir, pages.PageCount())
	}

	s, err := session.New(cfg, pages, session.WithLogger(log))
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	s.LoadDocument(doc)
	if err := s.DetectAllPages(ctx); err != nil {
		return err
	}
	applyInstrumentNames(s, opts.instruments)

	st := s.State()
	parts := s.Parts()
	fmt.Printf("%s: %d pages, %d systems, %d staves, %d parts\n",
		doc.FileName(), st.PageCount, len(st.Systems), len(st.Staffs), len(parts))
	for _, p := range parts {
		fmt.Printf("  %-24s %d page(s)\n", p.Name, len(p.Pages))
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return err
	}
	if opts.bundle {
		return writeBundle(ctx, s, opts.outDir, doc.FileName())
	}
	return writeParts(ctx, doc, parts, opts.outDir)
}

// applyInstrumentNames labels staves by their position within each system:
// the n-th name goes to the n-th staff of every system.
func applyInstrumentNames(s *session.Session, names []string) {
	if len(names) == 0 {
		return
	}
	ordinal := make(map[string]int)
	for _, st := range s.State().Staffs {
		n := ordinal[st.SystemID]
		ordinal[st.SystemID]++
		if n >= len(names) {
			continue
		}
		st.Label = names[n]
		s.Dispatch(project.UpdateStaff{Staff: st})
	}
}

func writeBundle(ctx context.Context, s *session.Session, outDir, sourceName string) error {
	name := strings.TrimSuffix(sourceName, filepath.Ext(sourceName)) + "-parts.zip"
	f, err := os.Create(filepath.Join(outDir, name))
	if err != nil {
		return err
	}
	defer f.Close()
	if err := s.ExportBundle(ctx, f); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", filepath.Join(outDir, name))
	return nil
}

func writeParts(ctx context.Context, doc *document.File, parts []export.Part, outDir string) error {
	wr := export.NewPDF(doc.Bytes())
	for _, part := range parts {
		path := filepath.Join(outDir, safeName(part.Name)+".pdf")
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := wr.WritePart(ctx, part, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

func safeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}
