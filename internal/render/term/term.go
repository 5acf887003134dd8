/*
Package term is a render.Backend that draws into a grid of terminal cells.

One frame pixel is one cell. Colours are applied with lipgloss when the grid is rendered
to a string.
*/
package term

import (
	"math"
	"strings"

	"chronoline/internal/item"
	"chronoline/internal/render"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

type cell struct {
	r    rune
	fg   string
	bg   string
	bold bool
}

// Grid is the cell backend.
type Grid struct {
	w, h  int
	cells []cell
	bg    string
}

var _ render.Backend = (*Grid)(nil)

// New returns an empty grid. Begin sizes it.
func New() *Grid {
	return &Grid{}
}

// Size returns the grid dimensions in cells.
func (g *Grid) Size() (int, int) {
	return g.w, g.h
}

func cellIndex(v float64) int {
	return int(math.Floor(v))
}

func (g *Grid) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return nil
	}
	return &g.cells[y*g.w+x]
}

func (g *Grid) put(x, y int, r rune, fg string) {
	if c := g.at(x, y); c != nil {
		c.r = r
		if fg != "" {
			c.fg = fg
		}
	}
}

func (g *Grid) Begin(width, height float64, background string) {
	g.w, g.h = int(math.Max(0, math.Floor(width))), int(math.Max(0, math.Floor(height)))
	g.bg = background
	g.cells = make([]cell, g.w*g.h)
	for i := range g.cells {
		g.cells[i] = cell{r: ' ', bg: background}
	}
}

// Line draws horizontal and vertical runs with box-drawing characters. A zero-length
// line is a tick on the axis.
func (g *Grid) Line(x1, y1, x2, y2 float64, s render.Style) {
	c1, r1, c2, r2 := cellIndex(x1), cellIndex(y1), cellIndex(x2), cellIndex(y2)
	fg := s.Stroke
	switch {
	case c1 == c2 && r1 == r2:
		g.put(c1, r1, '┼', fg)
	case r1 == r2:
		ch := '─'
		if s.Dashed {
			ch = '╌'
		}
		for x := min(c1, c2); x <= max(c1, c2); x++ {
			g.put(x, r1, ch, fg)
		}
	case c1 == c2:
		ch := '│'
		if s.Dashed {
			ch = '╎'
		}
		for y := min(r1, r2); y <= max(r1, r2); y++ {
			g.put(c1, y, ch, fg)
		}
	default:
		steps := max(abs(c2-c1), abs(r2-r1))
		for i := 0; i <= steps; i++ {
			t := float64(i) / float64(steps)
			g.put(cellIndex(x1+(x2-x1)*t), cellIndex(y1+(y2-y1)*t), '·', fg)
		}
	}
}

// span returns the cells covered by [from, to), at least one.
func span(from, to float64) (int, int) {
	a := cellIndex(from)
	b := int(math.Ceil(to)) - 1
	if b < a {
		b = a
	}
	return a, b
}

func (g *Grid) Box(r render.Rect, radius float64, s render.Style) {
	x1, x2 := span(r.X, r.Right())
	y1, y2 := span(r.Y, r.Bottom())
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			if c := g.at(x, y); c != nil {
				c.r, c.bg = ' ', s.Fill
				c.bold = s.Stroke != ""
			}
		}
	}
}

func (g *Grid) Bracket(r render.Rect, s render.Style) {
	x1, x2 := span(r.X, r.Right())
	y := cellIndex(r.Y + r.H/2)
	for x := x1 + 1; x < x2; x++ {
		g.put(x, y, '─', s.Stroke)
	}
	g.put(x1, y, '├', s.Stroke)
	g.put(x2, y, '┤', s.Stroke)
	if x1 == x2 {
		g.put(x1, y, '┼', s.Stroke)
	}
}

// Glyph returns the single character used for a marker.
func Glyph(gl render.Glyph) rune {
	switch gl.Shape {
	case item.ShapeCircle:
		return '●'
	case item.ShapeSquare:
		return '■'
	case item.ShapeDiamond:
		return '◆'
	case item.ShapeTriangle:
		return '▲'
	}
	if name, ok := gl.Shape.Icon(); ok && len(gl.Outline) > 0 {
		if name == "star" {
			return '★'
		}
		return '✦'
	}
	return '●'
}

func (g *Grid) Marker(x, y, size float64, gl render.Glyph, s render.Style) {
	g.put(cellIndex(x), cellIndex(y), Glyph(gl), s.Fill)
	if c := g.at(cellIndex(x), cellIndex(y)); c != nil {
		c.bold = s.Stroke != ""
	}
}

// Text writes a label on row y, truncated at the right edge of the grid.
func (g *Grid) Text(x, y float64, text string, s render.TextStyle) {
	row := cellIndex(y)
	if row < 0 || row >= g.h {
		return
	}
	w := ansi.StringWidth(text)
	col := cellIndex(x)
	switch s.Anchor {
	case render.AnchorMiddle:
		col -= w / 2
	case render.AnchorEnd:
		col -= w
	}
	if col < 0 {
		text = ansi.Cut(text, -col, w)
		col = 0
	}
	if room := g.w - col; room <= 0 {
		return
	} else if ansi.StringWidth(text) > room {
		text = ansi.Truncate(text, room, "…")
	}
	for _, r := range text {
		rw := ansi.StringWidth(string(r))
		if rw == 0 {
			continue
		}
		if c := g.at(col, row); c != nil {
			c.r = r
			if s.Color != "" {
				c.fg = s.Color
			}
			c.bold = c.bold || s.Bold
		}
		// Wide runes occupy the following cell too.
		for i := 1; i < rw; i++ {
			if c := g.at(col+i, row); c != nil {
				c.r = 0
			}
		}
		col += rw
	}
}

func (g *Grid) End() error {
	return nil
}

// Plain returns the grid as text without colours.
func (g *Grid) Plain() string {
	var b strings.Builder
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			if r := g.cells[y*g.w+x].r; r != 0 {
				b.WriteRune(r)
			}
		}
		if y < g.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// String renders the grid with colours, one styled run per stretch of equal cells.
func (g *Grid) String() string {
	var b strings.Builder
	for y := 0; y < g.h; y++ {
		row := g.cells[y*g.w : (y+1)*g.w]
		for x := 0; x < len(row); {
			start := row[x]
			var run strings.Builder
			for x < len(row) && row[x].fg == start.fg && row[x].bg == start.bg && row[x].bold == start.bold {
				if row[x].r != 0 {
					run.WriteRune(row[x].r)
				}
				x++
			}
			b.WriteString(style(start).Render(run.String()))
		}
		if y < g.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func style(c cell) lipgloss.Style {
	st := lipgloss.NewStyle()
	if c.fg != "" {
		st = st.Foreground(lipgloss.Color(c.fg))
	}
	if c.bg != "" {
		st = st.Background(lipgloss.Color(c.bg))
	}
	if c.bold {
		st = st.Bold(true)
	}
	return st
}

// Measurer measures labels in terminal cells.
type Measurer struct{}

// Measure implements render.Measurer. The font size is ignored.
func (Measurer) Measure(text string, _ float64) float64 {
	return float64(ansi.StringWidth(text))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
