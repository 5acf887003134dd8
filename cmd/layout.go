package cmd

import (
	"encoding/json"
	"fmt"

	"chronoline/internal/chart"
	"chronoline/internal/viewport"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type layoutOptions struct {
	dataFlags
	Format        string
	Width         int
	YearsPerPixel float64
}

func newLayoutCmd(app *App) *cobra.Command {
	opts := &layoutOptions{}
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the computed lane layout",
		Long: `Prints where every item lands: its side of the axis, row and vertical
position, plus the height of each section. The scale comes from
--years-per-pixel, or fits the data into --width pixels.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd, app, opts)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "yaml", "output format: yaml or json")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "fit the data into this many pixels (overrides canvas.width)")
	cmd.Flags().Float64Var(&opts.YearsPerPixel, "years-per-pixel", 0, "explicit scale")
	return cmd
}

func runLayout(cmd *cobra.Command, app *App, opts *layoutOptions) error {
	if opts.Format != "yaml" && opts.Format != "json" {
		return fmt.Errorf("unknown layout format %q: must be yaml or json", opts.Format)
	}
	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}
	log := app.logger(cmd)

	data, err := opts.load(log)
	if err != nil {
		return err
	}
	data.warn(cmd.ErrOrStderr())

	c := chart.New(data.Snapshot, cfg.LayoutOptions(), log.Named("chart"))
	c.SetFilter(opts.filter())

	ypp := opts.YearsPerPixel
	if ypp <= 0 {
		width := opts.Width
		if width <= 0 {
			width = cfg.Canvas.Width
		}
		start, end := cfg.Viewport.StartYear, cfg.Viewport.EndYear
		if s, e, ok := c.Window(); ok {
			start, end = s, e
		}
		ypp = viewport.New(cfg.Bounds(), start, end, float64(width)).State().YearsPerPixel
	}

	l, err := c.Layout(ypp)
	if err != nil {
		return err
	}
	dump := chart.Dump(l, cfg.Era())

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(dump)
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(dump); err != nil {
		return err
	}
	return enc.Close()
}
