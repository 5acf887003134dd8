/*
Package render turns a layout into drawing primitives and keeps the hit map used for hover
and click.

One geometry pass feeds both the Backend and the HitMap, so what is hit-tested is exactly
what was drawn. Items whose box lies entirely outside the frame are neither drawn nor
hit-mapped.
*/
package render

import (
	"math"

	"chronoline/internal/chrono"
	"chronoline/internal/item"
	"chronoline/internal/layout"
	"chronoline/internal/transform"

	"github.com/hashicorp/go-hclog"
)

// Theme holds colours and sizes for one output medium.
type Theme struct {
	Background string
	Axis       string
	Text       string
	Person     string
	Point      string
	Period     string
	Highlight  string

	FontSize          float64
	MarkerSize        float64
	MarkerStroke      string
	MarkerStrokeWidth float64
	BracketHeight     float64
	BoxInset          float64
	BoxRadius         float64
	LabelGap          float64
	TickLength        float64
	MinSpan           float64
}

// KindColor returns the default colour for kind k.
func (t Theme) KindColor(k item.Kind) string {
	switch k {
	case item.KindPerson:
		return t.Person
	case item.KindPoint:
		return t.Point
	case item.KindPeriod:
		return t.Period
	default:
		panic("render: unhandled kind " + k.String())
	}
}

// Frame is everything needed to draw one picture.
type Frame struct {
	Layout     *layout.Layout
	Transform  transform.Transform
	Width      float64
	Height     float64
	PanOffsetY float64
	Era        chrono.Era
}

// Surface draws frames and answers pointer queries against the last one.
type Surface struct {
	backend Backend
	theme   Theme
	icons   *IconCache
	measure Measurer
	log     hclog.Logger

	hits     HitMap
	frame    Frame
	hovered  *Region
	selected *Region

	pointer   Point
	pointerIn bool

	// OnItemHover is called when the item under the pointer changes. it is nil when the
	// pointer left an item; k is then the kind of the item it left.
	OnItemHover func(k item.Kind, it *item.Item)
	// OnItemClick is called when an item is clicked.
	OnItemClick func(k item.Kind, it item.Item)
}

// NewSurface returns a surface drawing to b. A nil icons, m or log selects the built-in
// icons, EstimateMeasurer and a null logger.
func NewSurface(b Backend, theme Theme, icons *IconCache, m Measurer, log hclog.Logger) *Surface {
	if icons == nil {
		icons = NewIconCache(BuiltinIcons)
	}
	if m == nil {
		m = EstimateMeasurer{}
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Surface{backend: b, theme: theme, icons: icons, measure: m, log: log}
}

// HitMap returns the regions of the last drawn frame.
func (s *Surface) HitMap() *HitMap {
	return &s.hits
}

// Hovered returns the item under the pointer, if any.
func (s *Surface) Hovered() (Region, bool) {
	if s.hovered == nil {
		return Region{}, false
	}
	return *s.hovered, true
}

// Selected returns the clicked item, if any.
func (s *Surface) Selected() (Region, bool) {
	if s.selected == nil {
		return Region{}, false
	}
	return *s.selected, true
}

// itemGeometry is where an item lands in frame coordinates.
type itemGeometry struct {
	body  Rect // box, bracket or marker bounds
	hit   Rect
	label Point
	x     float64 // marker centre for points
	y     float64
}

func (s *Surface) span(t transform.Transform, p layout.Placed) (float64, float64) {
	x1 := t.YearToPixel(float64(p.Start))
	x2 := t.YearToPixel(float64(p.End))
	if x2-x1 < s.theme.MinSpan {
		x2 = x1 + s.theme.MinSpan
	}
	return x1, x2
}

// labelX keeps a label on screen while its item is partly scrolled off the left edge.
func (s *Surface) labelX(x1, x2 float64) float64 {
	x := math.Max(x1, 0) + s.theme.LabelGap
	if x > x2 {
		x = x1 + s.theme.LabelGap
	}
	return x
}

func (s *Surface) geometry(f Frame, p layout.Placed) itemGeometry {
	top := p.Y - f.PanOffsetY
	switch p.Kind {
	case item.KindPerson:
		x1, x2 := s.span(f.Transform, p)
		body := Rect{X: x1, Y: top, W: x2 - x1, H: p.Height}.Inset(s.theme.BoxInset)
		body.X, body.W = x1, x2-x1
		return itemGeometry{body: body, hit: body, label: Point{X: s.labelX(x1, x2), Y: body.Center().Y}}
	case item.KindPeriod:
		x1, x2 := s.span(f.Transform, p)
		bh := math.Min(s.theme.BracketHeight, p.Height)
		body := Rect{X: x1, Y: top + (p.Height-bh)/2, W: x2 - x1, H: bh}
		hit := Rect{X: x1, Y: top, W: x2 - x1, H: p.Height}
		return itemGeometry{body: body, hit: hit, label: Point{X: s.labelX(x1, x2), Y: body.Center().Y}}
	case item.KindPoint:
		x := f.Transform.YearToPixel(float64(p.Start))
		y := top + p.Height/2
		m := s.theme.MarkerSize
		body := Rect{X: x - m, Y: y - m, W: 2 * m, H: 2 * m}
		lx := x + m + s.theme.LabelGap
		w := s.measure.Measure(p.Name, s.theme.FontSize)
		text := Rect{X: lx, Y: y - s.theme.FontSize/2, W: w, H: s.theme.FontSize}
		return itemGeometry{body: body, hit: body.Union(text), label: Point{X: lx, Y: y}, x: x, y: y}
	default:
		panic("render: unhandled kind " + p.Kind.String())
	}
}

func (s *Surface) color(p layout.Placed) string {
	if p.Color != "" {
		return p.Color
	}
	return s.theme.KindColor(p.Kind)
}

func (s *Surface) glyph(shape item.Shape) Glyph {
	if name, ok := shape.Icon(); ok {
		ic, err := s.icons.Get(name)
		if err != nil {
			s.log.Debug("icon unavailable, drawing circle", "icon", name, "error", err)
			return Glyph{Shape: item.ShapeCircle}
		}
		return Glyph{Shape: shape, Outline: ic.Outline}
	}
	if !shape.Known() {
		s.log.Debug("unknown marker shape, drawing circle", "shape", shape)
		return Glyph{Shape: item.ShapeCircle}
	}
	return Glyph{Shape: shape}
}

func title(p layout.Placed, era chrono.Era) string {
	return p.Name + " (" + chrono.FormatRange(p.StartDate, p.EndDate, era) + ")"
}

// Draw renders f and rebuilds the hit map. Height 0 draws the whole layout.
func (s *Surface) Draw(f Frame) error {
	if f.Height <= 0 {
		f.Height = f.Layout.TotalHeight
	}
	s.frame = f
	s.hits.Reset()
	view := Rect{W: f.Width, H: f.Height}

	s.backend.Begin(f.Width, f.Height, s.theme.Background)
	s.drawAxis(f, view)
	s.drawConnections(f)

	var culled int
	for _, k := range []item.Kind{item.KindPeriod, item.KindPerson, item.KindPoint} {
		for _, p := range f.Layout.Of(k) {
			g := s.geometry(f, p)
			if !g.hit.Intersects(view) {
				culled++
				continue
			}
			s.drawItem(f, p, g)
			s.hits.Add(Region{ID: p.ID, Kind: k, Item: p.Item, Box: g.hit, Z: ZOf(k)})
		}
	}
	s.log.Debug("frame drawn", "regions", s.hits.Len(), "culled", culled,
		"width", f.Width, "height", f.Height, "years_per_pixel", f.Transform.YearsPerPixel)

	s.refresh()
	return s.backend.End()
}

func (s *Surface) drawAxis(f Frame, view Rect) {
	y := f.Layout.AxisY - f.PanOffsetY
	band := Rect{Y: y, W: f.Width, H: f.Layout.AxisHeight}
	if !band.Intersects(view) {
		return
	}
	axis := Style{Stroke: s.theme.Axis, StrokeWidth: 1, Class: "axis"}
	s.backend.Line(0, y, f.Width, y, axis)
	labelY := y + math.Max(s.theme.TickLength, f.Layout.AxisHeight-s.theme.FontSize/2)
	for _, year := range f.Transform.Ticks(f.Width) {
		x := f.Transform.YearToPixel(float64(year))
		s.backend.Line(x, y, x, y+s.theme.TickLength, axis)
		s.backend.Text(x, labelY, chrono.AxisLabel(year, f.Era), TextStyle{
			Color: s.theme.Axis, Size: s.theme.FontSize, Anchor: AnchorMiddle, Class: "tick",
		})
	}
}

// drawConnections links the selected person to the people and period it references.
func (s *Surface) drawConnections(f Frame) {
	if s.selected == nil || s.selected.Kind != item.KindPerson {
		return
	}
	from, ok := f.Layout.Find(s.selected.ID)
	if !ok || from.Person == nil {
		return
	}
	src := s.geometry(f, from).body.Center()
	targets := append([]string(nil), from.Person.Connections...)
	if from.Person.PeriodID != "" {
		targets = append(targets, from.Person.PeriodID)
	}
	style := Style{Stroke: s.theme.Highlight, StrokeWidth: 1.5, Dashed: true, Class: "connection"}
	for _, id := range targets {
		to, ok := f.Layout.Find(id)
		if !ok {
			s.log.Debug("connection target not in layout", "from", from.ID, "to", id)
			continue
		}
		dst := s.geometry(f, to).body.Center()
		s.backend.Line(src.X, src.Y, dst.X, dst.Y, style)
	}
}

func (s *Surface) drawItem(f Frame, p layout.Placed, g itemGeometry) {
	col := s.color(p)
	stroke := ""
	if s.selected != nil && s.selected.ID == p.ID {
		stroke = s.theme.Highlight
	}
	st := Style{ID: p.ID, Title: title(p, f.Era)}
	label := TextStyle{Color: s.theme.Text, Size: s.theme.FontSize, Anchor: AnchorStart, ID: p.ID}

	switch p.Kind {
	case item.KindPerson:
		st.Fill, st.Stroke, st.StrokeWidth, st.Class = col, stroke, 2, "person"
		s.backend.Box(g.body, s.theme.BoxRadius, st)
		label.Class = "person-label"
	case item.KindPeriod:
		st.Stroke, st.StrokeWidth, st.Class = col, 2, "period"
		if stroke != "" {
			st.Stroke = stroke
		}
		s.backend.Bracket(g.body, st)
		label.Class = "period-label"
	case item.KindPoint:
		st.Fill, st.Stroke, st.StrokeWidth, st.Class = col, s.theme.MarkerStroke, s.theme.MarkerStrokeWidth, "point"
		if stroke != "" {
			st.Stroke = stroke
		}
		s.backend.Marker(g.x, g.y, s.theme.MarkerSize, s.glyph(p.Shape), st)
		label.Class = "point-label"
	}
	s.backend.Text(g.label.X, g.label.Y, p.Name, label)
}

// refresh re-resolves selection against the new hit map, and hover against the last
// pointer position, so both keep pointing at live items.
func (s *Surface) refresh() {
	if s.selected != nil {
		if r, ok := s.find(s.selected.ID); ok {
			s.selected = &r
		} else if _, ok := s.frame.Layout.Find(s.selected.ID); !ok {
			s.selected = nil
		}
	}
	if s.pointerIn {
		r, ok := s.hits.At(s.pointer.X, s.pointer.Y)
		s.hover(r, ok)
	}
}

func (s *Surface) find(id string) (Region, bool) {
	for _, r := range s.hits.Regions() {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}

// PointerMove updates the hovered item and fires OnItemHover when it changed. The
// position is kept so the next Draw re-resolves the hover after a zoom or pan.
func (s *Surface) PointerMove(x, y float64) {
	s.pointer, s.pointerIn = Point{X: x, Y: y}, true
	s.hover(s.hits.At(x, y))
}

func (s *Surface) hover(r Region, ok bool) {
	switch {
	case ok && s.hovered != nil && s.hovered.ID == r.ID:
		s.hovered = &r
		return
	case !ok && s.hovered == nil:
		return
	}
	prev := s.hovered
	if ok {
		s.hovered = &r
	} else {
		s.hovered = nil
	}
	if s.OnItemHover == nil {
		return
	}
	if ok {
		it := r.Item
		s.OnItemHover(r.Kind, &it)
	} else {
		s.OnItemHover(prev.Kind, nil)
	}
}

// PointerClick selects the item at (x, y) and fires OnItemClick. Clicking empty space
// keeps the current selection.
func (s *Surface) PointerClick(x, y float64) (Region, bool) {
	r, ok := s.hits.At(x, y)
	if !ok {
		return Region{}, false
	}
	s.selected = &r
	if s.OnItemClick != nil {
		s.OnItemClick(r.Kind, r.Item)
	}
	return r, true
}

// Dismiss clears the selection.
func (s *Surface) Dismiss() {
	s.selected = nil
}

// Select selects the item with the given ID if it is in the last frame's layout.
func (s *Surface) Select(id string) bool {
	if r, ok := s.find(id); ok {
		s.selected = &r
		return true
	}
	if s.frame.Layout == nil {
		return false
	}
	p, ok := s.frame.Layout.Find(id)
	if !ok {
		return false
	}
	s.selected = &Region{ID: p.ID, Kind: p.Kind, Item: p.Item, Z: ZOf(p.Kind)}
	return true
}
