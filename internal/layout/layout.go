/*
Package layout composes the independently packed people, points and periods into one
vertical arrangement around the horizontal axis.

Outward from the axis, on each side, sections are ordered periods, points, people. Row 0 of
every section is the row nearest the axis: below the axis that is simply the top row of the
section, above the axis the row-to-Y mapping is inverted.

	y (above) = baseY + (maxRow - row) * rowHeight
	y (below) = baseY + row * rowHeight

Composition is pure. The same snapshot and scale always produce the same layout.
*/
package layout

import (
	"fmt"

	"chronoline/internal/item"
	"chronoline/internal/pack"
)

// Options carries the geometry used by Compose. All values are in pixels except
// PointMarginYears.
type Options struct {
	PersonRowHeight float64
	PointRowHeight  float64
	PeriodRowHeight float64
	LanePadding     float64
	AxisHeight      float64

	// PointLabelWidth is the on-screen footprint of a point's label. Two points closer
	// than this at the current scale land on different rows.
	PointLabelWidth float64
	// PointMarginYears widens every point window by a fixed number of years per side.
	PointMarginYears float64
}

// RowHeight returns the row height for kind k.
func (o Options) RowHeight(k item.Kind) float64 {
	switch k {
	case item.KindPerson:
		return o.PersonRowHeight
	case item.KindPoint:
		return o.PointRowHeight
	case item.KindPeriod:
		return o.PeriodRowHeight
	default:
		panic(fmt.Sprintf("layout: unhandled kind %v", k))
	}
}

// Placed is an item with its packed row and vertical geometry.
type Placed struct {
	item.Item
	Row    int
	Y      float64
	Height float64
}

// Bottom returns the lower edge of the item's row.
func (p Placed) Bottom() float64 {
	return p.Y + p.Height
}

// Section describes the band one kind occupies on one side of the axis.
type Section struct {
	Kind   item.Kind
	Above  bool
	Top    float64
	Height float64
	Rows   int
}

// Layout is the unified output consumed by rendering.
type Layout struct {
	People  []Placed
	Points  []Placed
	Periods []Placed

	Sections []Section

	AxisY       float64
	AxisHeight  float64
	AboveHeight float64
	BelowHeight float64
	TotalHeight float64

	// Skipped counts undated items left out of packing.
	Skipped int
	// YearsPerPixel is the scale the point windows were computed at.
	YearsPerPixel float64
}

// Of returns the placed items of kind k.
func (l *Layout) Of(k item.Kind) []Placed {
	switch k {
	case item.KindPerson:
		return l.People
	case item.KindPoint:
		return l.Points
	case item.KindPeriod:
		return l.Periods
	default:
		panic(fmt.Sprintf("layout: unhandled kind %v", k))
	}
}

// Find returns the placed item with the given ID.
func (l *Layout) Find(id string) (Placed, bool) {
	for _, k := range item.Kinds {
		for _, p := range l.Of(k) {
			if p.ID == id {
				return p, true
			}
		}
	}
	return Placed{}, false
}

// Rows returns the row count of kind k on one side.
func (l *Layout) Rows(k item.Kind, above bool) int {
	for _, s := range l.Sections {
		if s.Kind == k && s.Above == above {
			return s.Rows
		}
	}
	return 0
}

// outward lists kinds from the axis outward.
var outward = []item.Kind{item.KindPeriod, item.KindPoint, item.KindPerson}

type packed struct {
	items []item.Item
	res   pack.Result
}

func packSide(items []item.Item, above bool, ypp float64, opt Options) (packed, int, error) {
	var (
		p       packed
		spans   []pack.Span
		skipped int
	)
	for _, it := range items {
		if it.Above != above {
			continue
		}
		sp, ok := pack.SpanFor(it, ypp, opt.PointLabelWidth, opt.PointMarginYears)
		if !ok {
			skipped++
			continue
		}
		p.items = append(p.items, it)
		spans = append(spans, sp)
	}
	res, err := pack.FirstFit(spans)
	if err != nil {
		return packed{}, 0, err
	}
	p.res = res
	return p, skipped, nil
}

func sectionHeight(rows int, rowHeight, padding float64) float64 {
	if rows == 0 {
		return 0
	}
	return float64(rows)*rowHeight + padding
}

// Compose packs every kind on both sides of the axis at scale yearsPerPixel and assigns
// absolute Y coordinates. Undated items are counted in Skipped and left out. An item with
// an inverted range fails the whole composition.
func Compose(s item.Snapshot, yearsPerPixel float64, opt Options) (*Layout, error) {
	l := &Layout{AxisHeight: opt.AxisHeight, YearsPerPixel: yearsPerPixel}

	type key struct {
		kind  item.Kind
		above bool
	}
	groups := make(map[key]packed, 6)
	for _, k := range item.Kinds {
		for _, above := range []bool{true, false} {
			p, skipped, err := packSide(s.Of(k), above, yearsPerPixel, opt)
			if err != nil {
				return nil, fmt.Errorf("packing %s (above=%t): %w", k, above, err)
			}
			l.Skipped += skipped
			groups[key{k, above}] = p
		}
	}

	place := func(k item.Kind, above bool, base float64) float64 {
		g := groups[key{k, above}]
		rowH := opt.RowHeight(k)
		h := sectionHeight(g.res.RowCount, rowH, opt.LanePadding)
		l.Sections = append(l.Sections, Section{Kind: k, Above: above, Top: base, Height: h, Rows: g.res.RowCount})

		maxRow := g.res.MaxRow()
		baseY := base
		if above {
			baseY = base + opt.LanePadding
		}
		out := make([]Placed, 0, len(g.items))
		for i, it := range g.items {
			row := g.res.Row(i)
			var y float64
			if above {
				y = baseY + float64(maxRow-row)*rowH
			} else {
				y = baseY + float64(row)*rowH
			}
			out = append(out, Placed{Item: it, Row: row, Y: y, Height: rowH})
		}
		switch k {
		case item.KindPerson:
			l.People = append(l.People, out...)
		case item.KindPoint:
			l.Points = append(l.Points, out...)
		case item.KindPeriod:
			l.Periods = append(l.Periods, out...)
		}
		return h
	}

	// Above the axis, sections are stacked top-down from the outermost kind.
	cursor := 0.0
	for i := len(outward) - 1; i >= 0; i-- {
		cursor += place(outward[i], true, cursor)
	}
	l.AboveHeight = cursor
	l.AxisY = l.AboveHeight + opt.LanePadding

	belowStart := l.AxisY + opt.AxisHeight + opt.LanePadding
	cursor = belowStart
	for _, k := range outward {
		cursor += place(k, false, cursor)
	}
	l.BelowHeight = cursor - belowStart
	l.TotalHeight = l.AboveHeight + opt.AxisHeight + l.BelowHeight + 2*opt.LanePadding
	return l, nil
}
