// Package cmd is the chronoline command line.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// App holds the persistent flags shared by every command.
type App struct {
	ConfigFile string
	Verbose    bool
	NoColor    bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:   "chronoline",
		Short: "Lay out and draw timelines of people, events and periods",
		Long: `Chronoline packs lifespans, dated events and historical periods into
non-overlapping lanes above and below a year axis. It renders the result
to SVG or PNG, prints the computed layout, or opens an interactive
terminal viewer with zoom, pan and item details.`,
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Render a dataset to history.svg
  chronoline render --data history.yaml

  # Render every dataset under data/ to a PNG, people only
  chronoline render --data 'data/**/*.yaml' --format png --hide points,periods

  # Browse interactively
  chronoline view --data history.yaml
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if app.NoColor {
			color.NoColor = true
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigFile, "config", "chronoline.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&app.NoColor, "no-color", false, "disable colour output")

	cmd.AddCommand(newRenderCmd(app))
	cmd.AddCommand(newLayoutCmd(app))
	cmd.AddCommand(newViewCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	return cmd
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	exitOnError(NewRootCmd().Execute())
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
