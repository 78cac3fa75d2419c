// Package config holds the settings of a batch extraction run.
//
// Settings are layered: Default, then an optional JSON file (Load), then
// DWG_EXTRACT_* environment variables (ApplyEnv), then command-line flags set
// by the caller. Validate checks the result.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Output formats.
const (
	FormatWorkbook = "xlsx"
	FormatText     = "txt"
)

// Environment variables read by ApplyEnv.
const (
	EnvDir      = "DWG_EXTRACT_DIR"
	EnvFormat   = "DWG_EXTRACT_FORMAT"
	EnvOut      = "DWG_EXTRACT_OUT"
	EnvScale    = "DWG_EXTRACT_SCALE"
	EnvDebugDir = "DWG_EXTRACT_DEBUG_DIR"
	EnvLogLevel = "DWG_EXTRACT_LOG_LEVEL"
)

const (
	defaultScale     = 1.0
	defaultThreshold = 200
)

// Config is the configuration of one run.
type Config struct {
	// Dir is the directory searched for PDF files. Required.
	Dir       string `json:"dir"`
	Recursive bool   `json:"recursive"`

	// Format is "xlsx" or "txt".
	Format string `json:"format"`

	// Out is the workbook path for xlsx, or the output directory for txt.
	// Empty selects the format's default.
	Out string `json:"out"`

	// Scale is the rasterization scale in pixels per point; 1.0 is 72 DPI.
	Scale float64 `json:"scale"`

	// Threshold is the dark/light cutoff for segmentation (0-255).
	Threshold int `json:"threshold"`

	// MinWidth and MinHeight drop detected regions smaller than the given
	// pixel extents. Zero keeps every region.
	MinWidth  float64 `json:"min_width"`
	MinHeight float64 `json:"min_height"`

	// DebugDir, when set, receives a region overlay PNG for every page.
	DebugDir string `json:"debug_dir"`
}

// Default returns workbook output at 72 DPI with a dark threshold of 200.
func Default() Config {
	return Config{
		Format:    FormatWorkbook,
		Scale:     defaultScale,
		Threshold: defaultThreshold,
	}
}

// Load reads a JSON file over the defaults. Fields missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from DWG_EXTRACT_* variables that are set and
// non-empty.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvDir); v != "" {
		c.Dir = v
	}
	if v := os.Getenv(EnvFormat); v != "" {
		c.Format = strings.ToLower(v)
	}
	if v := os.Getenv(EnvOut); v != "" {
		c.Out = v
	}
	if v := os.Getenv(EnvScale); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvScale, err)
		}
		c.Scale = scale
	}
	if v := os.Getenv(EnvDebugDir); v != "" {
		c.DebugDir = v
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("input directory is required")
	}
	switch c.Format {
	case FormatWorkbook, FormatText:
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", c.Format, FormatWorkbook, FormatText)
	}
	if !(c.Scale > 0) {
		return fmt.Errorf("scale must be positive, got %v", c.Scale)
	}
	if c.Threshold < 0 || c.Threshold > 255 {
		return fmt.Errorf("threshold must be within 0-255, got %d", c.Threshold)
	}
	if c.MinWidth < 0 || c.MinHeight < 0 {
		return fmt.Errorf("minimum region size must not be negative, got %vx%v", c.MinWidth, c.MinHeight)
	}
	return nil
}
