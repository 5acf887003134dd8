// Package svg is a render.Backend that writes an SVG document.
package svg

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"chronoline/internal/item"
	"chronoline/internal/render"
)

// Options controls document-wide text styling.
type Options struct {
	FontFamily string
	FontSize   float64
	TextColor  string
}

// Backend accumulates SVG markup and writes it to the output on End.
type Backend struct {
	out  io.Writer
	opts Options
	svg  strings.Builder
}

var _ render.Backend = (*Backend)(nil)

// New returns a backend writing to w. A nil w keeps the document in memory only; see
// String.
func New(w io.Writer, opts Options) *Backend {
	return &Backend{out: w, opts: opts}
}

// String returns the document built so far.
func (b *Backend) String() string {
	return b.svg.String()
}

func num(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}

func (b *Backend) Begin(width, height float64, background string) {
	b.svg.Reset()
	fmt.Fprintf(&b.svg, `<?xml version="1.0" encoding="UTF-8"?>
<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
<defs>
<style>
text { font-family: %s; font-size: %spx; fill: %s; }
.tick { font-size: %spx; }
.person-label { font-weight: bold; }
.connection { pointer-events: none; }
</style>
</defs>
`, num(width), num(height), num(width), num(height), background,
		escapeXML(b.opts.FontFamily), num(b.opts.FontSize), b.opts.TextColor,
		num(b.opts.FontSize-1))
}

// attrs renders the shared presentation and identity attributes of s.
func attrs(s render.Style) string {
	var a strings.Builder
	fill := s.Fill
	if fill == "" {
		fill = "none"
	}
	fmt.Fprintf(&a, ` fill="%s"`, fill)
	if s.Stroke != "" {
		fmt.Fprintf(&a, ` stroke="%s" stroke-width="%s"`, s.Stroke, num(s.StrokeWidth))
	}
	if s.Dashed {
		a.WriteString(` stroke-dasharray="4 3"`)
	}
	if s.Class != "" {
		fmt.Fprintf(&a, ` class="%s"`, escapeXML(s.Class))
	}
	if s.ID != "" {
		fmt.Fprintf(&a, ` data-id="%s"`, escapeXML(s.ID))
	}
	return a.String()
}

// element closes an opened tag, adding a <title> child when the style has one.
func (b *Backend) element(tag, open string, s render.Style) {
	b.svg.WriteString("<" + tag + open + attrs(s))
	if s.Title == "" {
		b.svg.WriteString("/>\n")
		return
	}
	fmt.Fprintf(&b.svg, "><title>%s</title></%s>\n", escapeXML(s.Title), tag)
}

func (b *Backend) Line(x1, y1, x2, y2 float64, s render.Style) {
	b.element("line", fmt.Sprintf(` x1="%s" y1="%s" x2="%s" y2="%s"`, num(x1), num(y1), num(x2), num(y2)), s)
}

func (b *Backend) Box(r render.Rect, radius float64, s render.Style) {
	b.element("rect", fmt.Sprintf(` x="%s" y="%s" width="%s" height="%s" rx="%s"`,
		num(r.X), num(r.Y), num(r.W), num(r.H), num(radius)), s)
}

func (b *Backend) Bracket(r render.Rect, s render.Style) {
	s.Fill = ""
	b.element("path", fmt.Sprintf(` d="M%s,%s L%s,%s L%s,%s L%s,%s"`,
		num(r.X), num(r.Y),
		num(r.X), num(r.Bottom()),
		num(r.Right()), num(r.Bottom()),
		num(r.Right()), num(r.Y)), s)
}

// Marker draws the glyph. Icons are polygons scaled from their unit outline; unknown
// shapes fall back to a circle.
func (b *Backend) Marker(x, y, size float64, g render.Glyph, s render.Style) {
	switch g.Shape {
	case item.ShapeCircle:
		b.element("circle", fmt.Sprintf(` cx="%s" cy="%s" r="%s"`, num(x), num(y), num(size)), s)

	case item.ShapeSquare:
		b.element("rect", fmt.Sprintf(` x="%s" y="%s" width="%s" height="%s"`,
			num(x-size), num(y-size), num(size*2), num(size*2)), s)

	case item.ShapeDiamond:
		b.element("polygon", fmt.Sprintf(` points="%s,%s %s,%s %s,%s %s,%s"`,
			num(x), num(y-size),
			num(x+size), num(y),
			num(x), num(y+size),
			num(x-size), num(y)), s)

	case item.ShapeTriangle:
		h := size * 1.5
		b.element("polygon", fmt.Sprintf(` points="%s,%s %s,%s %s,%s"`,
			num(x), num(y-h),
			num(x-size), num(y+h/2),
			num(x+size), num(y+h/2)), s)

	default:
		if len(g.Outline) < 3 {
			b.element("circle", fmt.Sprintf(` cx="%s" cy="%s" r="%s"`, num(x), num(y), num(size)), s)
			return
		}
		pts := make([]string, len(g.Outline))
		for i, p := range g.Outline {
			pts[i] = num(x+p.X*size) + "," + num(y+p.Y*size)
		}
		b.element("polygon", fmt.Sprintf(` points="%s"`, strings.Join(pts, " ")), s)
	}
}

func (b *Backend) Text(x, y float64, text string, s render.TextStyle) {
	anchor := "start"
	switch s.Anchor {
	case render.AnchorMiddle:
		anchor = "middle"
	case render.AnchorEnd:
		anchor = "end"
	}
	b.svg.WriteString(fmt.Sprintf(`<text x="%s" y="%s" text-anchor="%s" dominant-baseline="middle"`, num(x), num(y), anchor))
	if s.Color != "" {
		fmt.Fprintf(&b.svg, ` fill="%s"`, s.Color)
	}
	if s.Size > 0 && s.Size != b.opts.FontSize {
		fmt.Fprintf(&b.svg, ` font-size="%s"`, num(s.Size))
	}
	if s.Bold {
		b.svg.WriteString(` font-weight="bold"`)
	}
	if s.Class != "" {
		fmt.Fprintf(&b.svg, ` class="%s"`, escapeXML(s.Class))
	}
	if s.ID != "" {
		fmt.Fprintf(&b.svg, ` data-id="%s"`, escapeXML(s.ID))
	}
	fmt.Fprintf(&b.svg, ">%s</text>\n", escapeXML(text))
}

// End closes the document and writes it out.
func (b *Backend) End() error {
	b.svg.WriteString("</svg>\n")
	if b.out == nil {
		return nil
	}
	if _, err := io.WriteString(b.out, b.svg.String()); err != nil {
		return fmt.Errorf("writing svg: %w", err)
	}
	return nil
}

// escapeXML replaces the XML special characters (&, <, >, ", ') with entity references.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
