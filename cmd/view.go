package cmd

import (
	"errors"
	"os"
	"strings"

	"chronoline/internal/logging"
	"chronoline/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// ErrNotTerminal is returned by view when stdout is not a terminal.
var ErrNotTerminal = errors.New("view needs an interactive terminal; use render or layout instead")

func newViewCmd(app *App) *cobra.Command {
	data := &dataFlags{}
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse the timeline in the terminal",
		Long: `Opens an interactive viewer. Scroll to zoom around the pointer, drag to pan
in time and across lanes, click an item for its details. Press ? for keys.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return ErrNotTerminal
			}
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			// The TUI owns the screen, so log to a file when asked for detail.
			log := app.logger(cmd)
			if app.Verbose {
				f, err := tea.LogToFile("chronoline-debug.log", "")
				if err == nil {
					defer f.Close()
					log = logging.New("chronoline", true, f)
				}
			}

			loaded, err := data.load(log)
			if err != nil {
				return err
			}
			loaded.warn(cmd.ErrOrStderr())
			applyColorProfile(app.NoColor)

			m := tui.New(loaded.Snapshot, cfg, data.filter(), log.Named("tui"))
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
			return err
		},
	}
	data.register(cmd)
	return cmd
}

// applyColorProfile honours --no-color and NO_COLOR, and otherwise trusts COLORTERM
// when the detector under-reports.
func applyColorProfile(noColor bool) {
	if noColor || strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(os.Getenv("COLORTERM"))
	if profile != termenv.Ascii && (strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit")) {
		profile = termenv.TrueColor
	}
	lipgloss.SetColorProfile(profile)
}
