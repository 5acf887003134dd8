package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"chronoline/internal/chart"
	"chronoline/internal/chrono"

	"github.com/spf13/cobra"
)

type renderOptions struct {
	dataFlags
	Format string
	Output string
	Width  int
	Height int
}

func newRenderCmd(app *App) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a timeline image (SVG or PNG)",
		Long: `Loads the datasets, lays out the items at the scale that fits the requested
window into the image width, and writes an SVG or PNG. Without --output the
image is named after the first dataset; "-" writes to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, app, opts)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "image format: svg or png (default from --output, else svg)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file, or - for stdout")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "image width in pixels (overrides canvas.width)")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "image height in pixels (0 fits the layout)")
	cmd.Flags().String("start", "", "first year shown, e.g. '500 BC' (default fits the data)")
	cmd.Flags().String("end", "", "last year shown (default fits the data)")
	return cmd
}

func (o *renderOptions) format() (chart.Format, error) {
	if o.Format != "" {
		return chart.ParseFormat(o.Format)
	}
	if ext := strings.TrimPrefix(filepath.Ext(o.Output), "."); ext != "" && o.Output != "-" {
		return chart.ParseFormat(ext)
	}
	return chart.FormatSVG, nil
}

func runRender(cmd *cobra.Command, app *App, opts *renderOptions) error {
	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}
	log := app.logger(cmd)

	format, err := opts.format()
	if err != nil {
		return err
	}
	start, err := yearFlag(cmd, "start")
	if err != nil {
		return err
	}
	end, err := yearFlag(cmd, "end")
	if err != nil {
		return err
	}

	data, err := opts.load(log)
	if err != nil {
		return err
	}
	errOut := cmd.ErrOrStderr()
	data.warn(errOut)

	c := chart.New(data.Snapshot, cfg.LayoutOptions(), log.Named("chart"))
	c.SetFilter(opts.filter())

	path := outputFilename(data.Files[0], opts.Output, string(format))
	draw := func(w io.Writer) (chart.Stats, error) {
		return c.RenderImage(w, cfg, chart.ImageOptions{
			Format: format,
			Width:  opts.Width,
			Height: opts.Height,
			Start:  start,
			End:    end,
		}, log.Named("image"))
	}

	if path == "-" {
		if _, err := draw(cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("rendering: %w", err)
		}
		return nil
	}
	stats, err := writeFile(path, draw)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	colorSuccess().Fprintf(out, "Timeline %s generated successfully: %s\n", strings.ToUpper(string(format)), path)
	era := cfg.Era()
	colorDim().Fprintf(out, "  %d items from %d file(s), %d drawn, %d undated; %s to %s at %.3g years/px, %gx%g\n",
		stats.Items, len(data.Files), stats.Drawn, stats.Skipped,
		chrono.FormatFractionalYear(stats.StartYear, era), chrono.FormatFractionalYear(stats.EndYear, era),
		stats.YearsPerPixel, stats.Width, stats.Height)
	return nil
}

// writeFile renders into path. A failed render or close removes the partial file.
func writeFile(path string, draw func(io.Writer) (chart.Stats, error)) (chart.Stats, error) {
	f, err := os.Create(path)
	if err != nil {
		return chart.Stats{}, fmt.Errorf("creating %s: %w", path, err)
	}
	stats, err := draw(f)
	if err != nil {
		f.Close()
		os.Remove(path)
		return chart.Stats{}, fmt.Errorf("rendering %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return chart.Stats{}, fmt.Errorf("writing %s: %w", path, err)
	}
	return stats, nil
}
