/*
Package chart ties the pipeline together: snapshot, filter, packing, layout and drawing.

Layouts depend only on the filter and the scale, so they are memoised on that pair. Panning
reuses the cached layout; zooming or toggling a category computes a new one.
*/
package chart

import (
	"math"

	"chronoline/internal/item"
	"chronoline/internal/layout"

	"github.com/hashicorp/go-hclog"
)

// maxCachedLayouts bounds the memo. A zoom gesture produces one scale per wheel step, so
// the memo is cleared rather than grown without limit.
const maxCachedLayouts = 64

type cacheKey struct {
	filter        string
	yearsPerPixel float64
}

// Chart owns the loaded snapshot and the current filter.
type Chart struct {
	snap   item.Snapshot
	opt    layout.Options
	log    hclog.Logger
	filter item.Categories

	visible item.Snapshot
	cache   map[cacheKey]*layout.Layout
}

// New returns a chart over s. A nil log discards output.
func New(s item.Snapshot, opt layout.Options, log hclog.Logger) *Chart {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Chart{
		snap:    s,
		opt:     opt,
		log:     log,
		visible: s,
		cache:   make(map[cacheKey]*layout.Layout),
	}
}

// Snapshot returns every loaded item, hidden ones included.
func (c *Chart) Snapshot() item.Snapshot {
	return c.snap
}

// Visible returns the items that pass the current filter.
func (c *Chart) Visible() item.Snapshot {
	return c.visible
}

// Options returns the layout geometry.
func (c *Chart) Options() layout.Options {
	return c.opt
}

// Filter returns the current category filter.
func (c *Chart) Filter() item.Categories {
	return c.filter
}

// SetFilter replaces the category filter.
func (c *Chart) SetFilter(f item.Categories) {
	c.filter = f
	c.visible = c.snap.Filter(f)
	c.log.Debug("filter changed", "key", f.Key(), "visible", c.visible.Len())
}

// Toggle flips the visibility of kind k.
func (c *Chart) Toggle(k item.Kind) {
	c.SetFilter(c.filter.Toggle(k))
}

// Layout returns the layout of the visible items at yearsPerPixel. Repeated calls with the
// same filter and scale return the same value.
func (c *Chart) Layout(yearsPerPixel float64) (*layout.Layout, error) {
	key := cacheKey{filter: c.filter.Key(), yearsPerPixel: yearsPerPixel}
	if l, ok := c.cache[key]; ok {
		return l, nil
	}
	l, err := layout.Compose(c.visible, yearsPerPixel, c.opt)
	if err != nil {
		return nil, err
	}
	if len(c.cache) >= maxCachedLayouts {
		c.cache = make(map[cacheKey]*layout.Layout)
	}
	c.cache[key] = l
	c.log.Debug("layout computed", "years_per_pixel", yearsPerPixel, "height", l.TotalHeight, "skipped", l.Skipped)
	return l, nil
}

// CacheLen returns the number of memoised layouts.
func (c *Chart) CacheLen() int {
	return len(c.cache)
}

// Extent returns the earliest start and latest end of the dated items, hidden ones
// included so that toggling does not move the default window.
func (c *Chart) Extent() (start, end float64, ok bool) {
	start, end = math.Inf(1), math.Inf(-1)
	for _, k := range item.Kinds {
		for _, it := range c.snap.Of(k) {
			if it.Undated {
				continue
			}
			start = math.Min(start, float64(it.Start))
			end = math.Max(end, float64(it.End))
			ok = true
		}
	}
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

// Window returns the extent widened by 5% on each side, at least one year.
func (c *Chart) Window() (start, end float64, ok bool) {
	start, end, ok = c.Extent()
	if !ok {
		return 0, 0, false
	}
	pad := math.Max((end-start)*0.05, 1)
	return start - pad, end + pad, true
}
