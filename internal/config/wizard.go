package config

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"chronoline/internal/chrono"

	"github.com/manifoldco/promptui"
)

// palettes are the colour schemes offered by the wizard.
var palettes = []struct {
	Name   string
	Colors ColorConfig
}{
	{Name: "light", Colors: DefaultConfig().Colors},
	{Name: "dark", Colors: ColorConfig{
		Background: "#1e1e1e",
		Axis:       "#cccccc",
		Text:       "#e0e0e0",
		Person:     "#8ab4f8",
		Point:      "#f28b82",
		Period:     "#81c995",
		Highlight:  "#fdd663",
	}},
	{Name: "print", Colors: ColorConfig{
		Background: "#ffffff",
		Axis:       "#000000",
		Text:       "#000000",
		Person:     "#555555",
		Point:      "#000000",
		Period:     "#999999",
		Highlight:  "#000000",
	}},
}

// Answers are the values collected by the wizard.
type Answers struct {
	Era       chrono.Era
	Palette   string
	Width     int
	StartYear float64
	EndYear   float64
}

// Apply builds a validated Config from wizard answers on top of the defaults.
func (a Answers) Apply() (*Config, error) {
	cfg := DefaultConfig()
	cfg.EraLabels = string(a.Era)
	for _, p := range palettes {
		if p.Name == a.Palette {
			cfg.Colors = p.Colors
		}
	}
	if a.Width > 0 {
		cfg.Canvas.Width = a.Width
	}
	cfg.Viewport.StartYear = a.StartYear
	cfg.Viewport.EndYear = a.EndYear
	if a.StartYear < cfg.Viewport.MinYear {
		cfg.Viewport.MinYear = a.StartYear
	}
	if a.EndYear > cfg.Viewport.MaxYear {
		cfg.Viewport.MaxYear = a.EndYear
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateWidth(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("width must be a positive integer")
	}
	return nil
}

func validateYear(s string) error {
	_, err := chrono.ParseLabel(s)
	return err
}

// RunWizard asks for the common settings interactively and returns the resulting Config.
// in and out default to the terminal when nil.
func RunWizard(in io.ReadCloser, out io.WriteCloser) (*Config, error) {
	def := DefaultConfig()

	eraPrompt := promptui.Select{
		Label:  "Era labels",
		Items:  []string{string(chrono.EraBCAD), string(chrono.EraBCECE)},
		Stdin:  in,
		Stdout: out,
	}
	_, eraStr, err := eraPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("era selection: %w", err)
	}

	names := make([]string, len(palettes))
	for i, p := range palettes {
		names[i] = p.Name
	}
	palettePrompt := promptui.Select{
		Label:  "Colour palette",
		Items:  names,
		Stdin:  in,
		Stdout: out,
	}
	_, palette, err := palettePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("palette selection: %w", err)
	}

	widthPrompt := promptui.Prompt{
		Label:    "Image width in pixels",
		Default:  strconv.Itoa(def.Canvas.Width),
		Validate: validateWidth,
		Stdin:    in,
		Stdout:   out,
	}
	widthStr, err := widthPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("width: %w", err)
	}
	width, _ := strconv.Atoi(strings.TrimSpace(widthStr))

	era := chrono.Era(eraStr)
	startPrompt := promptui.Prompt{
		Label:    "First year shown (e.g. 3000 BC, -500, 1066)",
		Default:  chrono.FormatFractionalYear(def.Viewport.StartYear, era),
		Validate: validateYear,
		Stdin:    in,
		Stdout:   out,
	}
	startStr, err := startPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("start year: %w", err)
	}

	endPrompt := promptui.Prompt{
		Label:    "Last year shown",
		Default:  chrono.FormatFractionalYear(def.Viewport.EndYear, era),
		Validate: validateYear,
		Stdin:    in,
		Stdout:   out,
	}
	endStr, err := endPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("end year: %w", err)
	}

	start, _ := chrono.ParseLabel(startStr)
	end, _ := chrono.ParseLabel(endStr)
	return Answers{Era: era, Palette: palette, Width: width, StartYear: float64(start), EndYear: float64(end)}.Apply()
}
