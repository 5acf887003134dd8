package term

import (
	"strings"
	"testing"

	"chronoline/internal/item"
	"chronoline/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridPrimitives(t *testing.T) {
	g := New()
	g.Begin(12, 4, "")
	g.Line(0, 3, 11, 3, render.Style{})
	g.Line(4, 3, 4, 3, render.Style{})
	g.Bracket(render.Rect{X: 1, Y: 0, W: 5, H: 1}, render.Style{})
	g.Marker(8, 1.5, 1, render.Glyph{Shape: item.ShapeDiamond}, render.Style{})
	g.Text(2, 2.2, "hello", render.TextStyle{})
	require.NoError(t, g.End())

	lines := strings.Split(g.Plain(), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, " ├───┤      ", lines[0])
	assert.Equal(t, "        ◆   ", lines[1])
	assert.Equal(t, "  hello     ", lines[2])
	assert.Equal(t, "────┼───────", lines[3])
}

func TestTextTruncatesAtEdge(t *testing.T) {
	g := New()
	g.Begin(8, 1, "")
	g.Text(4, 0, "Charlemagne", render.TextStyle{})
	assert.Equal(t, "    Cha…", g.Plain())

	g.Begin(8, 1, "")
	g.Text(-3, 0, "Charlemagne", render.TextStyle{})
	assert.Equal(t, "rlemagne", g.Plain())

	g.Begin(8, 1, "")
	g.Text(4, 0, "abcd", render.TextStyle{Anchor: render.AnchorMiddle})
	assert.Equal(t, "  abcd  ", g.Plain())
}

func TestBoxFillsCells(t *testing.T) {
	g := New()
	g.Begin(6, 2, "")
	g.Box(render.Rect{X: 1, Y: 0, W: 3, H: 1}, 0, render.Style{Fill: "#4285f4"})
	g.Text(1, 0.5, "ab", render.TextStyle{Color: "#ffffff"})

	for x := 1; x <= 3; x++ {
		assert.Equal(t, "#4285f4", g.at(x, 0).bg)
	}
	assert.Equal(t, "", g.at(4, 0).bg)
	assert.Equal(t, 'a', g.at(1, 0).r)
	assert.Equal(t, "#4285f4", g.at(1, 0).bg, "text keeps the box background")
	assert.Contains(t, g.String(), "ab")
}

func TestOutOfRangeIsIgnored(t *testing.T) {
	g := New()
	g.Begin(3, 1, "")
	g.Marker(-5, 0, 1, render.Glyph{Shape: item.ShapeCircle}, render.Style{})
	g.Text(0, 9, "x", render.TextStyle{})
	g.Box(render.Rect{X: 10, Y: 10, W: 2, H: 2}, 0, render.Style{Fill: "#000000"})
	assert.Equal(t, "   ", g.Plain())
}

func TestGlyph(t *testing.T) {
	assert.Equal(t, '★', Glyph(render.Glyph{Shape: item.IconShape("star"), Outline: []render.Point{{}, {}, {}}}))
	assert.Equal(t, '✦', Glyph(render.Glyph{Shape: item.IconShape("flag"), Outline: []render.Point{{}, {}, {}}}))
	assert.Equal(t, '●', Glyph(render.Glyph{Shape: "bogus"}))
}

func TestMeasurer(t *testing.T) {
	assert.Equal(t, 5.0, Measurer{}.Measure("hello", 12))
	assert.Equal(t, 4.0, Measurer{}.Measure("日本", 12))
}
