// Package logging builds the hclog loggers handed to chronoline components.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mattn/go-isatty"
)

// New returns a named logger writing to w. Verbose enables debug output; otherwise only
// warnings and errors are shown. Colour is used when w is a terminal.
func New(name string, verbose bool, w io.Writer) hclog.Logger {
	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}
	color := hclog.ColorOff
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		color = hclog.AutoColor
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:            name,
		Level:           level,
		Output:          w,
		Color:           color,
		DisableTime:     !verbose,
		IncludeLocation: false,
	})
}

// Discard returns a logger that drops everything, for tests and library callers.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}
