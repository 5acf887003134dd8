package raster

import (
	"fmt"

	"chronoline/internal/render"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const measureSize = 64

// Measurer measures labels with the same Go Regular face the backend draws with.
type Measurer struct {
	face font.Face
}

var _ render.Measurer = (*Measurer)(nil)

// NewMeasurer parses the embedded font.
func NewMeasurer() (*Measurer, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing embedded font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{Size: measureSize, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("creating font face: %w", err)
	}
	return &Measurer{face: face}, nil
}

// Measure returns the advance width of text at size, scaled linearly from a reference
// face.
func (m *Measurer) Measure(text string, size float64) float64 {
	w := font.MeasureString(m.face, text)
	return float64(w) / 64 * size / measureSize
}
