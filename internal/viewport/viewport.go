/*
Package viewport implements the zoom/pan controller.

Horizontal motion scrolls time, vertical motion scrolls lanes. Both can happen in one drag.
Out-of-range requests are clamped, never rejected.

The controller is a two-state machine, Idle and Panning. StartPan enters Panning and EndPan
returns to Idle; Zoom, JumpToYear, Reset and Resize work in either state and leave it as is.
When they run mid-drag, the drag is re-anchored at the last pointer position so the next
UpdatePan continues from the new view.

The widest usable scale is the smaller of MaxYearsPerPixel and the year range divided by
the width, so a full zoom-out never shows years outside [MinYear, MaxYear].
*/
package viewport

import (
	"math"

	"chronoline/internal/transform"
)

// Bounds limits the scale and the visible year window.
type Bounds struct {
	MinYearsPerPixel float64
	MaxYearsPerPixel float64
	MinYear          float64
	MaxYear          float64
}

// State is the mutable part of the view.
type State struct {
	transform.Transform
	PanOffsetY float64
}

// Viewport is the visible window reported to listeners.
type Viewport struct {
	StartYear     float64
	EndYear       float64
	YearsPerPixel float64
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// scaleRange returns the usable [lo, hi] years-per-pixel at width. hi never exceeds the
// scale at which the whole year range fills the width, unless MinYearsPerPixel forces it.
func scaleRange(b Bounds, width float64) (lo, hi float64) {
	lo, hi = b.MinYearsPerPixel, b.MaxYearsPerPixel
	if width > 0 {
		hi = math.Min(hi, (b.MaxYear-b.MinYear)/width)
	}
	return lo, math.Max(lo, hi)
}

// clampStart keeps [start, start+width*ypp] inside [MinYear, MaxYear]. When the window is
// wider than the bounds it is pinned to MinYear.
func clampStart(start, width, ypp float64, b Bounds) float64 {
	maxStart := b.MaxYear - width*ypp
	if maxStart < b.MinYear {
		return b.MinYear
	}
	return clamp(start, b.MinYear, maxStart)
}

// ApplyZoom zooms around pixel x and returns the new state. The scale is clamped to
// [MinYearsPerPixel, MaxYearsPerPixel] and to the year range at width; if clamping changed it, the start year is re-fixed
// so the year under x stays put at the clamped scale. Finally the start year is clamped
// so the visible window stays within the year bounds.
func ApplyZoom(s State, b Bounds, delta, x, width float64) State {
	cursorYear := s.PixelToYear(x)
	next := s.ZoomAroundPoint(delta, x)
	lo, hi := scaleRange(b, width)
	if clamped := clamp(next.YearsPerPixel, lo, hi); clamped != next.YearsPerPixel {
		next = transform.Anchor(cursorYear, x, clamped)
	}
	next.StartYear = clampStart(next.StartYear, width, next.YearsPerPixel, b)
	s.Transform = next
	return s
}

// Controller owns the view state between renders.
type Controller struct {
	bounds  Bounds
	initial State
	state   State
	width   float64

	panning      bool
	anchorX      float64
	anchorY      float64
	lastX, lastY float64
	anchorState  State

	// OnViewportChange is called whenever the visible window changes.
	OnViewportChange func(Viewport)
}

// New returns a controller showing [startYear, endYear] across width pixels. The initial
// scale is clamped to the bounds.
func New(b Bounds, startYear, endYear, width float64) *Controller {
	tr := transform.Fit(startYear, endYear, width)
	lo, hi := scaleRange(b, width)
	tr.YearsPerPixel = clamp(tr.YearsPerPixel, lo, hi)
	tr.StartYear = clampStart(tr.StartYear, width, tr.YearsPerPixel, b)
	st := State{Transform: tr}
	return &Controller{bounds: b, initial: st, state: st, width: width}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Transform returns the current year<->pixel mapping.
func (c *Controller) Transform() transform.Transform {
	return c.state.Transform
}

// Width returns the viewport width in pixels.
func (c *Controller) Width() float64 {
	return c.width
}

// Panning reports whether a drag is in progress.
func (c *Controller) Panning() bool {
	return c.panning
}

// Viewport returns the visible window.
func (c *Controller) Viewport() Viewport {
	from, to := c.state.VisibleRange(c.width)
	return Viewport{StartYear: from, EndYear: to, YearsPerPixel: c.state.YearsPerPixel}
}

func (c *Controller) set(next State) {
	before := c.Viewport()
	c.state = next
	if after := c.Viewport(); after != before && c.OnViewportChange != nil {
		c.OnViewportChange(after)
	}
}

// Zoom zooms by delta steps around pixel x. Positive deltas zoom in.
// A zoom during a drag re-anchors the drag at the last pointer position.
func (c *Controller) Zoom(delta, x float64) {
	c.set(ApplyZoom(c.state, c.bounds, delta, x, c.width))
	c.reanchor()
}

// reanchor restarts an in-progress drag from the current state.
func (c *Controller) reanchor() {
	if c.panning {
		c.anchorX, c.anchorY = c.lastX, c.lastY
		c.anchorState = c.state
	}
}

// StartPan begins a drag at (x, y).
func (c *Controller) StartPan(x, y float64) {
	c.panning = true
	c.anchorX, c.anchorY = x, y
	c.lastX, c.lastY = x, y
	c.anchorState = c.state
}

// UpdatePan moves the view by the distance from the drag anchor. Dragging right shows
// earlier years; dragging down shows lanes nearer the top. It is a no-op when idle.
func (c *Controller) UpdatePan(x, y, maxVerticalOffset float64) {
	if !c.panning {
		return
	}
	c.lastX, c.lastY = x, y
	next := c.state
	next.StartYear = clampStart(c.anchorState.StartYear-(x-c.anchorX)*next.YearsPerPixel, c.width, next.YearsPerPixel, c.bounds)
	next.PanOffsetY = clamp(c.anchorState.PanOffsetY-(y-c.anchorY), 0, math.Max(0, maxVerticalOffset))
	c.set(next)
}

// EndPan finishes a drag.
func (c *Controller) EndPan() {
	c.panning = false
}

// PanBy scrolls by a pixel distance without a drag, as used by keyboard navigation.
// Positive dx moves the view later in time; positive dy scrolls down.
func (c *Controller) PanBy(dx, dy, maxVerticalOffset float64) {
	next := c.state
	next.StartYear = clampStart(next.StartYear+dx*next.YearsPerPixel, c.width, next.YearsPerPixel, c.bounds)
	next.PanOffsetY = clamp(next.PanOffsetY+dy, 0, math.Max(0, maxVerticalOffset))
	c.set(next)
}

// ClampVertical re-clamps the vertical offset after the content height changed.
func (c *Controller) ClampVertical(maxVerticalOffset float64) {
	next := c.state
	next.PanOffsetY = clamp(next.PanOffsetY, 0, math.Max(0, maxVerticalOffset))
	c.set(next)
}

// Reset restores the initial start year and scale and clears the vertical offset.
func (c *Controller) Reset() {
	next := c.initial
	lo, hi := scaleRange(c.bounds, c.width)
	next.YearsPerPixel = clamp(next.YearsPerPixel, lo, hi)
	next.StartYear = clampStart(next.StartYear, c.width, next.YearsPerPixel, c.bounds)
	c.set(next)
	c.reanchor()
}

// JumpToYear centres the view on year.
func (c *Controller) JumpToYear(year float64) {
	next := c.state
	next.Transform = transform.Anchor(year, c.width/2, next.YearsPerPixel)
	next.StartYear = clampStart(next.StartYear, c.width, next.YearsPerPixel, c.bounds)
	c.set(next)
	c.reanchor()
}

// Resize changes the viewport width. The scale only changes when the wider window would
// no longer fit the year range; it is then narrowed around the centre year.
func (c *Controller) Resize(width float64) {
	if width <= 0 || width == c.width {
		return
	}
	before := c.Viewport()
	centre := c.state.PixelToYear(c.width / 2)
	c.width = width
	if _, hi := scaleRange(c.bounds, width); c.state.YearsPerPixel > hi {
		c.state.Transform = transform.Anchor(centre, width/2, hi)
	}
	c.state.StartYear = clampStart(c.state.StartYear, width, c.state.YearsPerPixel, c.bounds)
	if after := c.Viewport(); after != before && c.OnViewportChange != nil {
		c.OnViewportChange(after)
	}
	c.reanchor()
}
