package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"chronoline/internal/chrono"
	"chronoline/internal/config"
	"chronoline/internal/dataset"
	"chronoline/internal/item"
	"chronoline/internal/logging"
	"chronoline/internal/query"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

func colorSuccess() *color.Color { return color.New(color.FgGreen) }
func colorWarning() *color.Color { return color.New(color.FgYellow) }
func colorDim() *color.Color     { return color.New(color.FgHiBlack) }

// loadConfig loads and validates the config, providing a user-friendly error.
func (a *App) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `chronoline config init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *App) logger(cmd *cobra.Command) hclog.Logger {
	return logging.New("chronoline", a.Verbose, cmd.ErrOrStderr())
}

// dataFlags are the dataset selection flags shared by render, layout and view.
type dataFlags struct {
	Data   []string
	Hide   []string
	Where  string
	Strict bool
}

func (f *dataFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.Data, "data", "d", nil, "dataset files or globs (.yaml, .yml, .json, .csv; ** allowed)")
	cmd.Flags().StringSliceVar(&f.Hide, "hide", nil, "kinds (people, points, periods) or categories to hide")
	cmd.Flags().StringVar(&f.Where, "where", "", `filter expression, e.g. 'kind == "person" && duration > 50'`)
	cmd.Flags().BoolVar(&f.Strict, "strict", false, "fail on items whose start is after their end")
	_ = cmd.MarkFlagRequired("data")
}

// filter turns --hide values into a category filter. Values that name a kind hide that
// kind; anything else hides a category.
func (f *dataFlags) filter() item.Categories {
	var c item.Categories
	for _, h := range f.Hide {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if k, err := item.ParseKind(h); err == nil {
			if !c.Hides(k) {
				c = c.Toggle(k)
			}
			continue
		}
		c.HiddenCategories = append(c.HiddenCategories, h)
	}
	return c
}

// loaded is a snapshot together with what loading it reported.
type loaded struct {
	Snapshot item.Snapshot
	Diag     item.Diagnostics
	Files    []string
}

// load reads, ingests and filters the selected datasets.
func (f *dataFlags) load(log hclog.Logger) (loaded, error) {
	ds, files, err := dataset.LoadAll(f.Data)
	if err != nil {
		return loaded{}, err
	}
	log.Debug("datasets loaded", "files", len(files), "people", len(ds.People), "points", len(ds.Points), "periods", len(ds.Periods))

	snap, diag := item.Ingest(ds)
	if f.Strict {
		if err := diag.Err(); err != nil {
			return loaded{}, fmt.Errorf("invalid items: %w", err)
		}
	}
	if f.Where != "" {
		q, err := query.Compile(f.Where)
		if err != nil {
			return loaded{}, err
		}
		if snap, err = q.Filter(snap); err != nil {
			return loaded{}, err
		}
		log.Debug("query applied", "where", q.String(), "kept", snap.Len())
	}
	return loaded{Snapshot: snap, Diag: diag, Files: files}, nil
}

// warn prints what ingestion skipped, rejected or renamed.
func (l loaded) warn(w io.Writer) {
	for _, s := range l.Diag.Skipped {
		colorWarning().Fprintf(w, "warning: %q not placed: %s\n", s.Name, s.Reason)
	}
	for _, r := range l.Diag.Rejected {
		colorWarning().Fprintf(w, "warning: %v; item left out\n", r)
	}
	for _, d := range l.Diag.Duplicates {
		colorWarning().Fprintf(w, "warning: %v\n", d)
	}
}

// yearFlag parses an optional era-labelled year flag.
func yearFlag(cmd *cobra.Command, name string) (*float64, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	s, _ := cmd.Flags().GetString(name)
	y, err := chrono.ParseLabel(s)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	v := float64(y)
	return &v, nil
}

// outputFilename determines the output filename for a rendered image. If outputFile is
// set it is returned unchanged. Otherwise the name is derived from the first dataset by
// replacing its extension ("data.csv" becomes "data.svg").
func outputFilename(dataFile, outputFile, ext string) string {
	if outputFile != "" {
		return outputFile
	}
	base := filepath.Base(dataFile)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "." + ext
}
