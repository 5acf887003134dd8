package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chronoline/internal/chrono"
	"chronoline/internal/viewport"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Layout.PointLabelWidth != 120 {
		t.Errorf("expected default point_label_width 120, got %v", cfg.Layout.PointLabelWidth)
	}
	if cfg.Era() != chrono.EraBCAD {
		t.Errorf("expected default era %q, got %q", chrono.EraBCAD, cfg.Era())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chronoline.yaml")

	original := DefaultConfig()
	original.EraLabels = string(chrono.EraBCECE)
	original.Layout.PersonRowHeight = 40
	original.Viewport.StartYear = -800
	original.Colors.Person = "#123456"

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.EraLabels != original.EraLabels {
		t.Errorf("era_labels: got %q, want %q", loaded.EraLabels, original.EraLabels)
	}
	if loaded.Layout.PersonRowHeight != 40 {
		t.Errorf("person_row_height: got %v, want 40", loaded.Layout.PersonRowHeight)
	}
	if loaded.Viewport.StartYear != -800 {
		t.Errorf("start_year: got %v, want -800", loaded.Viewport.StartYear)
	}
	if loaded.Colors.Person != "#123456" {
		t.Errorf("colors.person: got %q", loaded.Colors.Person)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yaml")
	if err := os.WriteFile(path, []byte("layout:\n  axis_height: 40\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Layout.AxisHeight != 40 {
		t.Errorf("axis_height: got %v, want 40", cfg.Layout.AxisHeight)
	}
	if cfg.Layout.PersonRowHeight != DefaultConfig().Layout.PersonRowHeight {
		t.Errorf("person_row_height should keep its default, got %v", cfg.Layout.PersonRowHeight)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Canvas.Width != 1200 {
		t.Errorf("expected default canvas width, got %d", cfg.Canvas.Width)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chronoline.yaml")

	t.Setenv("CHRONOLINE_ERA_LABELS", "BCE/CE")
	t.Setenv("CHRONOLINE_LAYOUT__LANE_PADDING", "3.5")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Era() != chrono.EraBCECE {
		t.Errorf("env override failed: got %q", loaded.EraLabels)
	}
	if loaded.Layout.LanePadding != 3.5 {
		t.Errorf("nested env override failed: got %v", loaded.Layout.LanePadding)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"era", func(c *Config) { c.EraLabels = "AH" }, "EraLabels"},
		{"row height", func(c *Config) { c.Layout.PersonRowHeight = 0 }, "PersonRowHeight"},
		{"bracket taller than row", func(c *Config) { c.Layout.PeriodBracketHeight = 99 }, "PeriodBracketHeight"},
		{"scale order", func(c *Config) { c.Viewport.MaxYearsPerPixel = 0.001 }, "MaxYearsPerPixel"},
		{"year order", func(c *Config) { c.Viewport.MaxYear = -20000 }, "MaxYear"},
		{"inverted initial window", func(c *Config) { c.Viewport.EndYear = -4000 }, "EndYear"},
		{"colour", func(c *Config) { c.Colors.Axis = "black" }, "Axis"},
		{"initial window outside bounds", func(c *Config) { c.Viewport.StartYear = -20000 }, "outside"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLayoutOptions(t *testing.T) {
	cfg := DefaultConfig()
	opt := cfg.LayoutOptions()
	if opt.PersonRowHeight != cfg.Layout.PersonRowHeight || opt.AxisHeight != cfg.Layout.AxisHeight {
		t.Errorf("layout options do not mirror config: %+v", opt)
	}
	b := cfg.Bounds()
	if b.MaxYearsPerPixel != cfg.Viewport.MaxYearsPerPixel || b.MinYear != cfg.Viewport.MinYear {
		t.Errorf("bounds do not mirror config: %+v", b)
	}
	if cfg.TerminalLayoutOptions().AxisHeight != 2 {
		t.Error("terminal axis takes two rows")
	}
}

func TestDefaultBoundsKeepZoomOutInRange(t *testing.T) {
	cfg := DefaultConfig()
	width := float64(cfg.Canvas.Width)
	c := viewport.New(cfg.Bounds(), cfg.Viewport.StartYear, cfg.Viewport.EndYear, width)
	c.Zoom(-100, width/2)

	vp := c.Viewport()
	if vp.StartYear < cfg.Viewport.MinYear || vp.EndYear > cfg.Viewport.MaxYear {
		t.Errorf("zoomed-out window [%g, %g] leaves [%g, %g]",
			vp.StartYear, vp.EndYear, cfg.Viewport.MinYear, cfg.Viewport.MaxYear)
	}
}
