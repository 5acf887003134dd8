package config

import (
	"chronoline/internal/layout"
	"chronoline/internal/viewport"
)

// Config represents the complete configuration for timeline layout and rendering.
// It maps directly to YAML configuration files and controls:
//   - Row heights and padding of the stacked lanes
//   - The initial viewport and the zoom/pan limits
//   - Era labels used on the axis and in item details
//   - Canvas size, font, colours and marker styling for the SVG and PNG outputs
//   - Cell-based geometry for the terminal viewer
//
// Key configuration patterns:
//   - Points that sit close together stack onto more rows when layout.point_label_width grows
//   - viewport.max_years_per_pixel bounds how far out a user can zoom
type Config struct {
	Layout   LayoutConfig   `yaml:"layout" koanf:"layout"`
	Viewport ViewportConfig `yaml:"viewport" koanf:"viewport"`

	// EraLabels is "BC/AD" or "BCE/CE".
	EraLabels string `yaml:"era_labels" koanf:"era_labels" validate:"oneof=BC/AD BCE/CE"`

	Canvas   CanvasConfig   `yaml:"canvas" koanf:"canvas"`
	Font     FontConfig     `yaml:"font" koanf:"font"`
	Colors   ColorConfig    `yaml:"colors" koanf:"colors"`
	Marker   MarkerConfig   `yaml:"marker" koanf:"marker"`
	Terminal TerminalConfig `yaml:"terminal" koanf:"terminal"`
}

// LayoutConfig holds lane geometry in pixels.
type LayoutConfig struct {
	PersonRowHeight     float64 `yaml:"person_row_height" koanf:"person_row_height" validate:"gt=0"`
	PointRowHeight      float64 `yaml:"point_row_height" koanf:"point_row_height" validate:"gt=0"`
	PeriodRowHeight     float64 `yaml:"period_row_height" koanf:"period_row_height" validate:"gt=0"`
	PeriodBracketHeight float64 `yaml:"period_bracket_height" koanf:"period_bracket_height" validate:"gt=0,ltefield=PeriodRowHeight"`
	LanePadding         float64 `yaml:"lane_padding" koanf:"lane_padding" validate:"gte=0"`
	AxisHeight          float64 `yaml:"axis_height" koanf:"axis_height" validate:"gt=0"`
	PointLabelWidth     float64 `yaml:"point_label_width" koanf:"point_label_width" validate:"gte=0"`
	PointMarginYears    float64 `yaml:"point_margin_years" koanf:"point_margin_years" validate:"gte=0"`
}

// ViewportConfig holds the initial window and the zoom/pan limits.
type ViewportConfig struct {
	StartYear        float64 `yaml:"start_year" koanf:"start_year"`
	EndYear          float64 `yaml:"end_year" koanf:"end_year" validate:"gtfield=StartYear"`
	MinYearsPerPixel float64 `yaml:"min_years_per_pixel" koanf:"min_years_per_pixel" validate:"gt=0"`
	MaxYearsPerPixel float64 `yaml:"max_years_per_pixel" koanf:"max_years_per_pixel" validate:"gtefield=MinYearsPerPixel"`
	MinYear          float64 `yaml:"min_year" koanf:"min_year"`
	MaxYear          float64 `yaml:"max_year" koanf:"max_year" validate:"gtfield=MinYear"`
}

// CanvasConfig is the output size of rendered images.
type CanvasConfig struct {
	Width  int `yaml:"width" koanf:"width" validate:"gt=0"`
	Height int `yaml:"height" koanf:"height" validate:"gte=0"` // 0 = fit the layout height
}

// FontConfig controls label text.
type FontConfig struct {
	Family string `yaml:"family" koanf:"family" validate:"required"`
	Size   int    `yaml:"size" koanf:"size" validate:"gt=0"`
}

// ColorConfig holds the chart colours as hex codes.
type ColorConfig struct {
	Background string `yaml:"background" koanf:"background" validate:"hexcolor"`
	Axis       string `yaml:"axis" koanf:"axis" validate:"hexcolor"`
	Text       string `yaml:"text" koanf:"text" validate:"hexcolor"`
	Person     string `yaml:"person" koanf:"person" validate:"hexcolor"`
	Point      string `yaml:"point" koanf:"point" validate:"hexcolor"`
	Period     string `yaml:"period" koanf:"period" validate:"hexcolor"`
	Highlight  string `yaml:"highlight" koanf:"highlight" validate:"hexcolor"`
}

// MarkerConfig styles point markers.
type MarkerConfig struct {
	Size        float64 `yaml:"size" koanf:"size" validate:"gt=0"`
	StrokeColor string  `yaml:"stroke_color" koanf:"stroke_color" validate:"hexcolor"`
	StrokeWidth float64 `yaml:"stroke_width" koanf:"stroke_width" validate:"gte=0"`
}

// TerminalConfig is lane geometry for the terminal viewer, in character cells.
type TerminalConfig struct {
	PersonRowHeight float64 `yaml:"person_row_height" koanf:"person_row_height" validate:"gte=1"`
	PointRowHeight  float64 `yaml:"point_row_height" koanf:"point_row_height" validate:"gte=1"`
	PeriodRowHeight float64 `yaml:"period_row_height" koanf:"period_row_height" validate:"gte=1"`
	LanePadding     float64 `yaml:"lane_padding" koanf:"lane_padding" validate:"gte=0"`
	PointLabelWidth float64 `yaml:"point_label_width" koanf:"point_label_width" validate:"gte=0"`
}

// LayoutOptions converts the pixel layout settings for the layout composer.
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{
		PersonRowHeight:  c.Layout.PersonRowHeight,
		PointRowHeight:   c.Layout.PointRowHeight,
		PeriodRowHeight:  c.Layout.PeriodRowHeight,
		LanePadding:      c.Layout.LanePadding,
		AxisHeight:       c.Layout.AxisHeight,
		PointLabelWidth:  c.Layout.PointLabelWidth,
		PointMarginYears: c.Layout.PointMarginYears,
	}
}

// TerminalLayoutOptions converts the cell-based settings. The axis takes two rows, one
// for the line and one for the tick labels.
func (c *Config) TerminalLayoutOptions() layout.Options {
	return layout.Options{
		PersonRowHeight:  c.Terminal.PersonRowHeight,
		PointRowHeight:   c.Terminal.PointRowHeight,
		PeriodRowHeight:  c.Terminal.PeriodRowHeight,
		LanePadding:      c.Terminal.LanePadding,
		AxisHeight:       2,
		PointLabelWidth:  c.Terminal.PointLabelWidth,
		PointMarginYears: c.Layout.PointMarginYears,
	}
}

// Bounds returns the zoom/pan limits.
func (c *Config) Bounds() viewport.Bounds {
	return viewport.Bounds{
		MinYearsPerPixel: c.Viewport.MinYearsPerPixel,
		MaxYearsPerPixel: c.Viewport.MaxYearsPerPixel,
		MinYear:          c.Viewport.MinYear,
		MaxYear:          c.Viewport.MaxYear,
	}
}
