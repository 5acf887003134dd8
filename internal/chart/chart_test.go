package chart

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"chronoline/internal/chrono"
	"chronoline/internal/config"
	"chronoline/internal/item"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(t *testing.T) item.Snapshot {
	t.Helper()
	yes, no := true, false
	snap, diag := item.Ingest(item.Dataset{
		People: []item.Record{
			{ID: "caesar", Name: "Julius Caesar", StartDate: "-0099", EndDate: "-0043", Connections: []string{"cicero"}, Category: "politics"},
			{ID: "cicero", Name: "Cicero", StartDate: "-0105", EndDate: "-0042", Category: "letters"},
		},
		Points: []item.Record{
			{ID: "rubicon", Name: "Rubicon", StartDate: "-0048", Shape: "diamond", Above: &yes},
			{ID: "lost", Name: "Lost", StartDate: "circa 1200"},
		},
		Periods: []item.Record{
			{ID: "republic", Name: "Late Republic", StartDate: "-0133", EndDate: "-0027", Above: &no},
		},
	})
	require.NoError(t, diag.Err())
	require.Len(t, diag.Skipped, 1)
	return snap
}

func TestLayoutIsMemoised(t *testing.T) {
	cfg := config.DefaultConfig()
	c := New(testSnapshot(t), cfg.LayoutOptions(), nil)

	a, err := c.Layout(0.5)
	require.NoError(t, err)
	b, err := c.Layout(0.5)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, c.CacheLen())
	assert.Equal(t, 1, a.Skipped)

	c.Toggle(item.KindPoint)
	hidden, err := c.Layout(0.5)
	require.NoError(t, err)
	assert.NotSame(t, a, hidden)
	assert.Empty(t, hidden.Points)
	assert.Equal(t, 2, c.CacheLen())

	c.Toggle(item.KindPoint)
	again, err := c.Layout(0.5)
	require.NoError(t, err)
	assert.Same(t, a, again, "restoring the filter hits the memo")
}

func TestMemoIsBounded(t *testing.T) {
	c := New(testSnapshot(t), config.DefaultConfig().LayoutOptions(), nil)
	for i := 0; i < maxCachedLayouts+5; i++ {
		_, err := c.Layout(0.1 + float64(i))
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, c.CacheLen(), maxCachedLayouts)
}

func TestExtentIgnoresUndatedAndFilter(t *testing.T) {
	c := New(testSnapshot(t), config.DefaultConfig().LayoutOptions(), nil)
	c.SetFilter(item.Categories{HidePeriods: true})
	start, end, ok := c.Extent()
	require.True(t, ok)
	assert.Equal(t, -133.0, start)
	assert.Equal(t, -27.0, end)

	ws, we, _ := c.Window()
	assert.InDelta(t, -133-5.3, ws, 1e-9)
	assert.InDelta(t, -27+5.3, we, 1e-9)

	_, _, ok = New(item.Snapshot{}, config.DefaultConfig().LayoutOptions(), nil).Extent()
	assert.False(t, ok)
}

func TestRenderSVG(t *testing.T) {
	cfg := config.DefaultConfig()
	c := New(testSnapshot(t), cfg.LayoutOptions(), nil)

	var buf bytes.Buffer
	stats, err := c.RenderImage(&buf, cfg, ImageOptions{Format: FormatSVG, Width: 800}, nil)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	for _, id := range []string{"caesar", "cicero", "rubicon", "republic"} {
		assert.Contains(t, out, `data-id="`+id+`"`)
	}
	assert.NotContains(t, out, `data-id="lost"`)
	assert.Equal(t, 4, stats.Drawn)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 800.0, stats.Width)
	assert.Less(t, stats.StartYear, -133.0)
}

func TestRenderPNG(t *testing.T) {
	cfg := config.DefaultConfig()
	c := New(testSnapshot(t), cfg.LayoutOptions(), nil)

	var buf bytes.Buffer
	start, end := -200.0, 100.0
	stats, err := c.RenderImage(&buf, cfg, ImageOptions{Format: FormatPNG, Width: 300, Height: 150, Start: &start, End: &end}, nil)
	require.NoError(t, err)

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 150, img.Bounds().Dy())
	assert.InDelta(t, 1.0, stats.YearsPerPixel, 1e-9)
}

func TestRenderRejectsEmptyWindow(t *testing.T) {
	cfg := config.DefaultConfig()
	c := New(testSnapshot(t), cfg.LayoutOptions(), nil)
	start, end := 10.0, 10.0
	_, err := c.RenderImage(&bytes.Buffer{}, cfg, ImageOptions{Start: &start, End: &end}, nil)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" PNG ")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)
	_, err = ParseFormat("gif")
	assert.Error(t, err)
}

func TestDump(t *testing.T) {
	c := New(testSnapshot(t), config.DefaultConfig().LayoutOptions(), nil)
	l, err := c.Layout(1)
	require.NoError(t, err)

	d := Dump(l, chrono.EraBCECE)
	require.Len(t, d.Items, 4)
	assert.Equal(t, "person", d.Items[0].Kind)
	assert.Equal(t, l.TotalHeight, d.TotalHeight)
	for _, it := range d.Items {
		if it.ID == "caesar" {
			assert.Equal(t, "100 BCE – 44 BCE", it.Label)
		}
	}
	assert.Len(t, d.Sections, 6)
}
