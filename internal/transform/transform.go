/*
Package transform maps between calendar years and horizontal pixel offsets.

A Transform is a plain value: StartYear is the year drawn at x=0 and YearsPerPixel is the
inverse zoom scale. All operations return new values, which keeps the zoom/pan controller
free of nested state updates.
*/
package transform

import (
	"math"
)

// ZoomBase is the per-step zoom factor. A zoom delta of +1 shrinks YearsPerPixel by 1/1.1.
const ZoomBase = 1.1

// TargetLabelSpacing is the preferred distance in pixels between axis labels.
const TargetLabelSpacing = 100.0

// niceIntervals are the candidate label intervals below 1000 years.
var niceIntervals = []int{1, 5, 10, 25, 50, 100, 250, 500, 1000}

// Transform is a year<->pixel mapping.
type Transform struct {
	StartYear     float64
	YearsPerPixel float64
}

// Anchor returns the transform with the given scale that draws year at pixel x.
func Anchor(year, x, yearsPerPixel float64) Transform {
	return Transform{StartYear: year - x*yearsPerPixel, YearsPerPixel: yearsPerPixel}
}

// Fit returns the transform that shows [startYear, endYear] across width pixels.
func Fit(startYear, endYear, width float64) Transform {
	if width <= 0 || endYear <= startYear {
		return Transform{StartYear: startYear, YearsPerPixel: 1}
	}
	return Transform{StartYear: startYear, YearsPerPixel: (endYear - startYear) / width}
}

// YearToPixel returns the x offset of year.
func (t Transform) YearToPixel(year float64) float64 {
	return (year - t.StartYear) / t.YearsPerPixel
}

// PixelToYear returns the year drawn at x.
func (t Transform) PixelToYear(x float64) float64 {
	return t.StartYear + x*t.YearsPerPixel
}

// VisibleRange returns the first and last year visible across width pixels.
func (t Transform) VisibleRange(width float64) (float64, float64) {
	return t.StartYear, t.StartYear + width*t.YearsPerPixel
}

// ZoomAroundPoint scales by 1.1^(-delta) while keeping the year under pixel x fixed.
// Positive deltas zoom in.
func (t Transform) ZoomAroundPoint(delta, x float64) Transform {
	year := t.PixelToYear(x)
	return Anchor(year, x, t.YearsPerPixel*math.Pow(ZoomBase, -delta))
}

// LabelInterval picks a round year interval so that axis labels land roughly
// TargetLabelSpacing pixels apart. It never decreases as yearsPerPixel grows.
func LabelInterval(yearsPerPixel float64) int {
	raw := yearsPerPixel * TargetLabelSpacing
	for _, n := range niceIntervals {
		if float64(n) >= raw {
			return n
		}
	}
	return int(math.Ceil(raw/1000)) * 1000
}

// Ticks returns the label years that fall inside [0, width], aligned to LabelInterval.
func (t Transform) Ticks(width float64) []int {
	step := LabelInterval(t.YearsPerPixel)
	from, to := t.VisibleRange(width)
	first := int(math.Ceil(from/float64(step))) * step
	var ticks []int
	for y := first; float64(y) <= to; y += step {
		ticks = append(ticks, y)
	}
	return ticks
}
