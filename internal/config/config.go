// Package config loads, validates and saves chronoline configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"chronoline/internal/chrono"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides. Nested keys are separated by a double
// underscore: CHRONOLINE_LAYOUT__AXIS_HEIGHT sets layout.axis_height.
const EnvPrefix = "CHRONOLINE_"

// DefaultConfig returns the default configuration with sensible defaults for all
// parameters:
//   - 1200px wide canvas that grows to fit the stacked lanes
//   - 12px Arial font with a light palette
//   - 120px point label footprint, so points closer than that on screen stack
//   - an initial window of 3000 BC to AD 2000 within a 10000 BC to AD 3000 range
func DefaultConfig() *Config {
	return &Config{
		Layout: LayoutConfig{
			PersonRowHeight:     24,
			PointRowHeight:      22,
			PeriodRowHeight:     18,
			PeriodBracketHeight: 10,
			LanePadding:         8,
			AxisHeight:          24,
			PointLabelWidth:     120,
			PointMarginYears:    0,
		},
		Viewport: ViewportConfig{
			StartYear:        -3000,
			EndYear:          2000,
			MinYearsPerPixel: 0.01,
			MaxYearsPerPixel: 10,
			MinYear:          -10000,
			MaxYear:          3000,
		},
		EraLabels: string(chrono.EraBCAD),
		Canvas: CanvasConfig{
			Width:  1200,
			Height: 0,
		},
		Font: FontConfig{
			Family: "Arial, sans-serif",
			Size:   12,
		},
		Colors: ColorConfig{
			Background: "#ffffff",
			Axis:       "#333333",
			Text:       "#333333",
			Person:     "#4285f4",
			Point:      "#db4437",
			Period:     "#0f9d58",
			Highlight:  "#f4b400",
		},
		Marker: MarkerConfig{
			Size:        6,
			StrokeColor: "#333333",
			StrokeWidth: 1,
		},
		Terminal: TerminalConfig{
			PersonRowHeight: 1,
			PointRowHeight:  1,
			PeriodRowHeight: 1,
			LanePadding:     1,
			PointLabelWidth: 16,
		},
	}
}

// Load reads configuration from the given YAML file, then overlays environment variable
// overrides (CHRONOLINE_*). A missing file yields the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validate = validator.New()

// Validate checks that the configuration contains usable values. Struct tags cover single
// fields and same-struct comparisons; the checks below span sections.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (%v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Viewport.StartYear < c.Viewport.MinYear || c.Viewport.EndYear > c.Viewport.MaxYear {
		return fmt.Errorf("invalid config: initial viewport [%g, %g] is outside [%g, %g]",
			c.Viewport.StartYear, c.Viewport.EndYear, c.Viewport.MinYear, c.Viewport.MaxYear)
	}
	if c.Canvas.Width > 0 && float64(c.Canvas.Width)*c.Viewport.MinYearsPerPixel > c.Viewport.MaxYear-c.Viewport.MinYear {
		return fmt.Errorf("invalid config: canvas is wider than the year range even at min_years_per_pixel")
	}
	return nil
}

// Era returns the parsed era labels.
func (c *Config) Era() chrono.Era {
	era, err := chrono.ParseEra(c.EraLabels)
	if err != nil {
		return chrono.EraBCAD
	}
	return era
}
