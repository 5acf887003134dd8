package chart

import (
	"fmt"
	"io"
	"strings"

	"chronoline/internal/config"
	"chronoline/internal/render"
	"chronoline/internal/render/raster"
	"chronoline/internal/render/svg"
	"chronoline/internal/viewport"

	"github.com/hashicorp/go-hclog"
)

// Format is an image output format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat accepts "svg" or "png", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatSVG, FormatPNG:
		return f, nil
	default:
		return "", fmt.Errorf("unknown image format %q: must be svg or png", s)
	}
}

// ImageOptions overrides the configured canvas and initial window for one image. Zero
// values fall back to the configuration; a nil window fits the dataset.
type ImageOptions struct {
	Format Format
	Width  int
	Height int
	Start  *float64
	End    *float64
}

// Stats summarises a rendered image.
type Stats struct {
	Items         int
	Drawn         int
	Skipped       int
	Width         float64
	Height        float64
	StartYear     float64
	EndYear       float64
	YearsPerPixel float64
}

// PixelTheme maps configuration onto the theme used by the SVG and PNG backends.
func PixelTheme(cfg *config.Config) render.Theme {
	return render.Theme{
		Background:        cfg.Colors.Background,
		Axis:              cfg.Colors.Axis,
		Text:              cfg.Colors.Text,
		Person:            cfg.Colors.Person,
		Point:             cfg.Colors.Point,
		Period:            cfg.Colors.Period,
		Highlight:         cfg.Colors.Highlight,
		FontSize:          float64(cfg.Font.Size),
		MarkerSize:        cfg.Marker.Size,
		MarkerStroke:      cfg.Marker.StrokeColor,
		MarkerStrokeWidth: cfg.Marker.StrokeWidth,
		BracketHeight:     cfg.Layout.PeriodBracketHeight,
		BoxInset:          2,
		BoxRadius:         3,
		LabelGap:          4,
		TickLength:        5,
		MinSpan:           2,
	}
}

// window resolves the initial years shown by an image.
func (c *Chart) window(cfg *config.Config, opts ImageOptions) (float64, float64) {
	start, end := cfg.Viewport.StartYear, cfg.Viewport.EndYear
	if s, e, ok := c.Window(); ok {
		start, end = s, e
	}
	if opts.Start != nil {
		start = *opts.Start
	}
	if opts.End != nil {
		end = *opts.End
	}
	return start, end
}

// RenderImage draws the visible items to w as an SVG or PNG image.
func (c *Chart) RenderImage(w io.Writer, cfg *config.Config, opts ImageOptions, log hclog.Logger) (Stats, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	width := opts.Width
	if width <= 0 {
		width = cfg.Canvas.Width
	}
	start, end := c.window(cfg, opts)
	if end <= start {
		return Stats{}, fmt.Errorf("empty window: start %g is not before end %g", start, end)
	}

	ctrl := viewport.New(cfg.Bounds(), start, end, float64(width))
	st := ctrl.State()
	l, err := c.Layout(st.YearsPerPixel)
	if err != nil {
		return Stats{}, fmt.Errorf("composing layout: %w", err)
	}

	height := float64(opts.Height)
	if height <= 0 {
		height = float64(cfg.Canvas.Height)
	}
	if height <= 0 {
		height = l.TotalHeight
	}

	var (
		backend render.Backend
		measure render.Measurer = render.EstimateMeasurer{}
	)
	switch opts.Format {
	case FormatPNG:
		rb, err := raster.New(w, raster.Options{FontSize: float64(cfg.Font.Size)})
		if err != nil {
			return Stats{}, err
		}
		m, err := raster.NewMeasurer()
		if err != nil {
			return Stats{}, err
		}
		backend, measure = rb, m
	case FormatSVG, "":
		backend = svg.New(w, svg.Options{
			FontFamily: cfg.Font.Family,
			FontSize:   float64(cfg.Font.Size),
			TextColor:  cfg.Colors.Text,
		})
	default:
		return Stats{}, fmt.Errorf("unknown image format %q", opts.Format)
	}

	surf := render.NewSurface(backend, PixelTheme(cfg), nil, measure, log.Named("render"))
	frame := render.Frame{
		Layout:    l,
		Transform: st.Transform,
		Width:     float64(width),
		Height:    height,
		Era:       cfg.Era(),
	}
	if err := surf.Draw(frame); err != nil {
		return Stats{}, err
	}

	vp := ctrl.Viewport()
	return Stats{
		Items:         c.visible.Len(),
		Drawn:         surf.HitMap().Len(),
		Skipped:       l.Skipped,
		Width:         float64(width),
		Height:        height,
		StartYear:     vp.StartYear,
		EndYear:       vp.EndYear,
		YearsPerPixel: vp.YearsPerPixel,
	}, nil
}
