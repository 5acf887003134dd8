package render

import "unicode/utf8"

// Measurer reports the rendered width of a label.
type Measurer interface {
	Measure(text string, size float64) float64
}

// EstimateMeasurer approximates label width as 0.6 times the font size per rune.
type EstimateMeasurer struct{}

// Measure implements Measurer.
func (EstimateMeasurer) Measure(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * size * 0.6
}
