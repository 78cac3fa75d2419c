package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Format != FormatWorkbook || cfg.Scale != 1.0 || cfg.Threshold != 200 {
		t.Errorf("Default() = %+v", cfg)
	}
	if cfg.Recursive || cfg.Dir != "" || cfg.Out != "" || cfg.DebugDir != "" {
		t.Errorf("Default() should leave optional fields unset: %+v", cfg)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"dir": "/srv/drawings", "format": "txt", "recursive": true, "min_width": 40}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Dir != "/srv/drawings" || cfg.Format != FormatText || !cfg.Recursive || cfg.MinWidth != 40 {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.Scale != 1.0 || cfg.Threshold != 200 || cfg.MinHeight != 0 {
		t.Errorf("missing fields should keep defaults: %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvDir, "/data")
	t.Setenv(EnvFormat, "TXT")
	t.Setenv(EnvOut, "/out")
	t.Setenv(EnvScale, "2.5")
	t.Setenv(EnvDebugDir, "/debug")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}
	if cfg.Dir != "/data" || cfg.Format != FormatText || cfg.Out != "/out" ||
		cfg.Scale != 2.5 || cfg.DebugDir != "/debug" {
		t.Errorf("ApplyEnv() = %+v", cfg)
	}
}

func TestApplyEnv_UnsetKeepsValues(t *testing.T) {
	t.Setenv(EnvDir, "")
	t.Setenv(EnvScale, "")

	cfg := Default()
	cfg.Dir = "/keep"
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}
	if cfg.Dir != "/keep" || cfg.Scale != 1.0 {
		t.Errorf("ApplyEnv() = %+v", cfg)
	}
}

func TestApplyEnv_BadScale(t *testing.T) {
	t.Setenv(EnvScale, "fast")
	cfg := Default()
	if err := cfg.ApplyEnv(); err == nil {
		t.Error("expected error for a non-numeric scale")
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.Dir = "."

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"txt format", func(c *Config) { c.Format = FormatText }, false},
		{"missing dir", func(c *Config) { c.Dir = "" }, true},
		{"unknown format", func(c *Config) { c.Format = "csv" }, true},
		{"zero scale", func(c *Config) { c.Scale = 0 }, true},
		{"negative scale", func(c *Config) { c.Scale = -1 }, true},
		{"threshold too high", func(c *Config) { c.Threshold = 256 }, true},
		{"threshold negative", func(c *Config) { c.Threshold = -1 }, true},
		{"min size", func(c *Config) { c.MinWidth, c.MinHeight = 40, 20 }, false},
		{"negative min width", func(c *Config) { c.MinWidth = -1 }, true},
		{"negative min height", func(c *Config) { c.MinHeight = -0.5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"WARN", logrus.WarnLevel},
		{" error ", logrus.ErrorLevel},
		{"", logrus.InfoLevel},
		{"chatty", logrus.InfoLevel},
	}
	for _, tt := range tests {
		if got := LogLevel(tt.in); got != tt.want {
			t.Errorf("LogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")

	var buf bytes.Buffer
	log := NewLogger(&buf)
	log.WithField("page", 3).Debug("segmented page")

	if !strings.Contains(buf.String(), "segmented page") || !strings.Contains(buf.String(), "page=3") {
		t.Errorf("unexpected log output %q", buf.String())
	}
}
