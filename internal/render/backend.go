package render

import "chronoline/internal/item"

// Anchor aligns text horizontally on its x coordinate.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// Style describes how a shape is filled and stroked. Colours are "#rrggbb" strings; an
// empty colour means none.
type Style struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	Dashed      bool

	// ID tags the element with the item it belongs to, for backends that keep element
	// identity such as SVG.
	ID string
	// Class is a styling hook for the element.
	Class string
	// Title is a tooltip for backends that support one.
	Title string
}

// TextStyle describes a text run. The y coordinate passed to Backend.Text is the
// vertical middle of the line.
type TextStyle struct {
	Color  string
	Size   float64
	Anchor Anchor
	Bold   bool
	ID     string
	Class  string
}

// Glyph is a resolved point marker: one of the geometric shapes, or an icon outline.
type Glyph struct {
	Shape item.Shape
	// Outline is set for icon shapes, in unit coordinates within [-1, 1].
	Outline []Point
}

// Backend draws primitives. Surface issues one Begin, any number of primitives, then End.
type Backend interface {
	Begin(width, height float64, background string)
	Line(x1, y1, x2, y2 float64, s Style)
	// Box draws a rectangle with corners rounded by radius.
	Box(r Rect, radius float64, s Style)
	// Bracket draws the end ticks and bottom bar of a period span.
	Bracket(r Rect, s Style)
	// Marker draws g centred on (x, y) with half-size size.
	Marker(x, y, size float64, g Glyph, s Style)
	Text(x, y float64, text string, s TextStyle)
	End() error
}
