package viewport

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBounds = Bounds{
	MinYearsPerPixel: 0.1,
	MaxYearsPerPixel: 10,
	MinYear:          -5000,
	MaxYear:          5000,
}

func newTestController() *Controller {
	return New(testBounds, -500, 1500, 1000)
}

func TestNew(t *testing.T) {
	c := newTestController()
	vp := c.Viewport()
	assert.InDelta(t, -500, vp.StartYear, 1e-9)
	assert.InDelta(t, 1500, vp.EndYear, 1e-9)
	assert.InDelta(t, 2, vp.YearsPerPixel, 1e-12)
	assert.False(t, c.Panning())
}

func TestZoomKeepsCursorYear(t *testing.T) {
	c := newTestController()
	before := c.Transform().PixelToYear(300)
	c.Zoom(3, 300)
	after := c.Transform().PixelToYear(300)
	assert.InDelta(t, before, after, 1e-9)
	assert.InDelta(t, 2*math.Pow(1.1, -3), c.Transform().YearsPerPixel, 1e-12)
}

func TestZoomOutClampsToMaxScale(t *testing.T) {
	c := New(testBounds, -100, 100, 800)
	c.Zoom(-100, 400)

	st := c.State()
	assert.Equal(t, testBounds.MaxYearsPerPixel, st.YearsPerPixel)
	assert.GreaterOrEqual(t, st.StartYear, testBounds.MinYear)
	assert.LessOrEqual(t, st.StartYear+800*st.YearsPerPixel, testBounds.MaxYear)
}

func TestZoomOutNeverShowsPastYearBounds(t *testing.T) {
	wide := Bounds{MinYearsPerPixel: 0.01, MaxYearsPerPixel: 50, MinYear: -10000, MaxYear: 3000}
	c := New(wide, -3000, 2000, 1200)
	c.Zoom(-100, 600)

	vp := c.Viewport()
	assert.InDelta(t, wide.MinYear, vp.StartYear, 1e-9)
	assert.InDelta(t, wide.MaxYear, vp.EndYear, 1e-6, "the widest view is the whole year range")

	c.Resize(2400)
	vp = c.Viewport()
	assert.GreaterOrEqual(t, vp.StartYear, wide.MinYear)
	assert.LessOrEqual(t, vp.EndYear, wide.MaxYear+1e-6, "widening narrows the scale")
}

func TestNewClampsScaleToYearRange(t *testing.T) {
	c := New(testBounds, -5000, 5000, 500)
	vp := c.Viewport()
	assert.InDelta(t, 10, vp.YearsPerPixel, 1e-12)

	narrow := testBounds
	narrow.MinYear, narrow.MaxYear = 0, 1000
	c = New(narrow, 0, 1000, 500)
	assert.InDelta(t, 2, c.Viewport().YearsPerPixel, 1e-12)
	c.Zoom(-50, 250)
	assert.InDelta(t, 2, c.Viewport().YearsPerPixel, 1e-12)
}

func TestZoomInClampRefixesCursorYear(t *testing.T) {
	c := newTestController()
	x := 250.0
	before := c.Transform().PixelToYear(x)
	c.Zoom(200, x)

	st := c.State()
	assert.Equal(t, testBounds.MinYearsPerPixel, st.YearsPerPixel)
	assert.InDelta(t, before, st.PixelToYear(x), 1e-9, "cursor year is re-fixed at the clamped scale")
}

func TestApplyZoomIsPure(t *testing.T) {
	st := State{}
	st.StartYear, st.YearsPerPixel = 0, 1
	next := ApplyZoom(st, testBounds, 2, 100, 500)
	assert.Equal(t, 1.0, st.YearsPerPixel)
	assert.NotEqual(t, st, next)
}

func TestApplyZoomClampsWindowToYearBounds(t *testing.T) {
	st := State{}
	st.StartYear, st.YearsPerPixel = 4500, 1
	next := ApplyZoom(st, testBounds, -5, 0, 1000)
	assert.LessOrEqual(t, next.StartYear+1000*next.YearsPerPixel, testBounds.MaxYear+1e-9)
}

func TestPanSignConvention(t *testing.T) {
	c := newTestController()
	start := c.State().StartYear

	c.StartPan(100, 100)
	require.True(t, c.Panning())
	c.UpdatePan(150, 100, 0)

	assert.InDelta(t, start-100, c.State().StartYear, 1e-9, "+50px at 2 years/px is 100 years earlier")

	c.EndPan()
	assert.False(t, c.Panning())
}

func TestUpdatePanIsRelativeToAnchor(t *testing.T) {
	c := newTestController()
	start := c.State().StartYear

	c.StartPan(0, 0)
	c.UpdatePan(10, 0, 0)
	c.UpdatePan(20, 0, 0)
	assert.InDelta(t, start-40, c.State().StartYear, 1e-9)
	c.UpdatePan(0, 0, 0)
	assert.InDelta(t, start, c.State().StartYear, 1e-9)
}

func TestUpdatePanWhenIdleIsNoop(t *testing.T) {
	c := newTestController()
	before := c.State()
	c.UpdatePan(500, 500, 1000)
	assert.Equal(t, before, c.State())
}

func TestVerticalPanClamps(t *testing.T) {
	c := newTestController()
	c.StartPan(0, 100)
	c.UpdatePan(0, 60, 300)
	assert.Equal(t, 40.0, c.State().PanOffsetY)

	c.UpdatePan(0, -1000, 300)
	assert.Equal(t, 300.0, c.State().PanOffsetY)

	c.UpdatePan(0, 1000, 300)
	assert.Equal(t, 0.0, c.State().PanOffsetY)
}

func TestHorizontalPanClampsToBounds(t *testing.T) {
	c := newTestController()
	c.StartPan(0, 0)
	c.UpdatePan(1e6, 0, 0)
	assert.Equal(t, testBounds.MinYear, c.State().StartYear)

	c.UpdatePan(-1e6, 0, 0)
	st := c.State()
	assert.InDelta(t, testBounds.MaxYear, st.StartYear+1000*st.YearsPerPixel, 1e-9)
}

func TestZoomDuringPanKeepsStateMachine(t *testing.T) {
	c := newTestController()
	c.StartPan(0, 0)
	c.UpdatePan(10, 0, 0)
	c.Zoom(1, 500)
	assert.True(t, c.Panning(), "zoom does not change the pan state")

	afterZoom := c.State().StartYear
	c.UpdatePan(10, 0, 0)
	assert.InDelta(t, afterZoom, c.State().StartYear, 1e-9, "drag re-anchors at the zoom")

	c.UpdatePan(20, 0, 0)
	c.JumpToYear(3000)
	afterJump := c.State().StartYear
	c.UpdatePan(21, 0, 0)
	assert.True(t, c.Panning())
	assert.InDelta(t, afterJump-c.State().YearsPerPixel, c.State().StartYear, 1e-9,
		"a 1px drag after a jump moves 1px from the jumped view")

	c.UpdatePan(30, 0, 0)
	c.Reset()
	afterReset := c.State()
	c.UpdatePan(30, 0, 0)
	assert.Equal(t, afterReset, c.State(), "drag re-anchors at the reset")

	c.UpdatePan(40, 0, 0)
	c.Resize(800)
	afterResize := c.State().StartYear
	c.UpdatePan(40, 0, 0)
	assert.InDelta(t, afterResize, c.State().StartYear, 1e-9, "drag re-anchors at the resize")
}

func TestResetAndJump(t *testing.T) {
	c := newTestController()
	initial := c.State()

	c.Zoom(4, 10)
	c.PanBy(0, 50, 100)
	c.JumpToYear(3000)
	vp := c.Viewport()
	assert.InDelta(t, 3000, (vp.StartYear+vp.EndYear)/2, 1e-9)

	c.StartPan(0, 0)
	c.Reset()
	assert.Equal(t, initial, c.State())
	assert.True(t, c.Panning(), "reset is valid while panning and keeps the state")
}

func TestJumpToYearClamps(t *testing.T) {
	c := newTestController()
	c.JumpToYear(1e9)
	st := c.State()
	assert.InDelta(t, testBounds.MaxYear, st.StartYear+1000*st.YearsPerPixel, 1e-9)
}

func TestViewportChangeEvents(t *testing.T) {
	c := newTestController()
	var events []Viewport
	c.OnViewportChange = func(v Viewport) { events = append(events, v) }

	c.Zoom(1, 0)
	require.Len(t, events, 1)

	c.PanBy(0, 10, 100)
	assert.Len(t, events, 1, "vertical scrolling does not change the visible years")

	c.StartPan(0, 0)
	c.UpdatePan(0, 0, 0)
	assert.Len(t, events, 1, "zero-distance drag changes nothing")

	c.Resize(500)
	require.Len(t, events, 2)
	assert.InDelta(t, events[1].StartYear+500*events[1].YearsPerPixel, events[1].EndYear, 1e-9)
}
