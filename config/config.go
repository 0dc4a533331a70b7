// Package config loads the toolkit's runtime configuration from YAML and
// supplies the defaults the detection pipeline was tuned with. Configuration
// is explicit: constructors take a Config value, there is no package-level
// state to mutate.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Detection holds the pixel-projection thresholds.
type Detection struct {
	// SystemGap is the minimum white-row run separating two systems.
	SystemGap int `yaml:"system_gap"`
	// PartGap is the minimum white-row run separating two staves inside
	// one system.
	PartGap int `yaml:"part_gap"`
	// RenderWidth is the pixel width pages are scaled to before
	// detection, keeping the gap thresholds comparable across sources.
	// Zero keeps the source resolution.
	RenderWidth int `yaml:"render_width"`
}

// Pool configures the detection task pool.
type Pool struct {
	// Size is the number of execution units; zero or less means the
	// hardware concurrency.
	Size int `yaml:"size"`
}

// Labeling configures instrument-name recognition.
type Labeling struct {
	// Languages lists trained-data hints for the OCR provider.
	Languages []string `yaml:"languages,omitempty"`
	// StripWidth is the pixel width of the label strip left of a staff.
	StripWidth int `yaml:"strip_width"`
}

// Config is the full runtime configuration.
type Config struct {
	Detection Detection `yaml:"detection"`
	Pool      Pool      `yaml:"pool"`
	Labeling  Labeling  `yaml:"labeling"`
}

// Default returns the tuned defaults.
func Default() Config {
	return Config{
		Detection: Detection{
			SystemGap:   50,
			PartGap:     10,
			RenderWidth: 0,
		},
		Pool:     Pool{Size: 0},
		Labeling: Labeling{StripWidth: 150},
	}
}

// Load reads a YAML file over the defaults: fields absent from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Detection.SystemGap <= 0 {
		return fmt.Errorf("detection.system_gap must be positive, got %d", c.Detection.SystemGap)
	}
	if c.Detection.PartGap <= 0 {
		return fmt.Errorf("detection.part_gap must be positive, got %d", c.Detection.PartGap)
	}
	if c.Detection.PartGap > c.Detection.SystemGap {
		return fmt.Errorf("detection.part_gap %d exceeds detection.system_gap %d",
			c.Detection.PartGap, c.Detection.SystemGap)
	}
	if c.Detection.RenderWidth < 0 {
		return fmt.Errorf("detection.render_width must not be negative, got %d", c.Detection.RenderWidth)
	}
	return nil
}
