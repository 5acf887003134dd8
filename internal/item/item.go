// Package item defines the temporal items placed on a timeline and the immutable
// snapshot that flows through packing, layout and rendering.
package item

import (
	"fmt"
	"strings"
)

// Kind discriminates the three item variants.
type Kind int

const (
	KindPerson Kind = iota
	KindPoint
	KindPeriod
)

// Kinds lists every kind in declaration order.
var Kinds = []Kind{KindPerson, KindPoint, KindPeriod}

func (k Kind) String() string {
	switch k {
	case KindPerson:
		return "person"
	case KindPoint:
		return "point"
	case KindPeriod:
		return "period"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts the singular or plural form of a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "person", "people":
		return KindPerson, nil
	case "point", "points", "event", "events":
		return KindPoint, nil
	case "period", "periods":
		return KindPeriod, nil
	default:
		return 0, fmt.Errorf("unknown item kind %q", s)
	}
}

// Shape is the marker glyph used for points.
type Shape string

const (
	ShapeCircle   Shape = "circle"
	ShapeDiamond  Shape = "diamond"
	ShapeSquare   Shape = "square"
	ShapeTriangle Shape = "triangle"

	iconPrefix = "icon:"
)

// IconShape returns the shape that draws the named icon glyph.
func IconShape(name string) Shape {
	return Shape(iconPrefix + name)
}

// Icon returns the icon name for "icon:<name>" shapes.
func (s Shape) Icon() (string, bool) {
	if !strings.HasPrefix(string(s), iconPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(string(s), iconPrefix)
	return name, name != ""
}

// Known reports whether s is one of the built-in geometric shapes or an icon reference.
func (s Shape) Known() bool {
	switch s {
	case ShapeCircle, ShapeDiamond, ShapeSquare, ShapeTriangle:
		return true
	}
	_, ok := s.Icon()
	return ok
}

// Person carries the narrative metadata of a lifespan. None of it affects layout.
type Person struct {
	Connections []string
	PeriodID    string
	Description string
}

// Item is a temporal item. Exactly one of the variant payloads matching Kind is used;
// Person is only set for KindPerson.
type Item struct {
	ID       string
	Name     string
	Kind     Kind
	Start    int
	End      int
	Undated  bool
	Above    bool
	Color    string
	Shape    Shape
	Category string

	// StartDate and EndDate keep the source strings for display.
	StartDate string
	EndDate   string

	Description string
	Person      *Person
}

// Instant reports whether the item has zero length.
func (it Item) Instant() bool {
	return it.Start == it.End
}

// Snapshot is an immutable set of items for one render cycle.
type Snapshot struct {
	People  []Item
	Points  []Item
	Periods []Item
}

// Of returns the items of kind k.
func (s Snapshot) Of(k Kind) []Item {
	switch k {
	case KindPerson:
		return s.People
	case KindPoint:
		return s.Points
	case KindPeriod:
		return s.Periods
	default:
		panic(fmt.Sprintf("item: unhandled kind %v", k))
	}
}

// Len returns the number of items of all kinds.
func (s Snapshot) Len() int {
	return len(s.People) + len(s.Points) + len(s.Periods)
}

// Lookup finds an item by ID across all kinds.
func (s Snapshot) Lookup(id string) (Item, bool) {
	for _, k := range Kinds {
		for _, it := range s.Of(k) {
			if it.ID == id {
				return it, true
			}
		}
	}
	return Item{}, false
}

// Categories toggles which kinds and categories are visible. The zero value shows
// everything.
type Categories struct {
	HidePeople  bool
	HidePoints  bool
	HidePeriods bool

	// HiddenCategories hides items whose Category matches, case-insensitively.
	HiddenCategories []string
}

// Hides reports whether kind k is hidden.
func (c Categories) Hides(k Kind) bool {
	switch k {
	case KindPerson:
		return c.HidePeople
	case KindPoint:
		return c.HidePoints
	case KindPeriod:
		return c.HidePeriods
	default:
		panic(fmt.Sprintf("item: unhandled kind %v", k))
	}
}

// Toggle flips the visibility of kind k.
func (c Categories) Toggle(k Kind) Categories {
	switch k {
	case KindPerson:
		c.HidePeople = !c.HidePeople
	case KindPoint:
		c.HidePoints = !c.HidePoints
	case KindPeriod:
		c.HidePeriods = !c.HidePeriods
	}
	return c
}

// Key is a stable string form of the filter, used for memoisation.
func (c Categories) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%t/%t/%t", c.HidePeople, c.HidePoints, c.HidePeriods)
	for _, h := range c.HiddenCategories {
		b.WriteString("|")
		b.WriteString(strings.ToLower(h))
	}
	return b.String()
}

func (c Categories) hidesCategory(cat string) bool {
	for _, h := range c.HiddenCategories {
		if strings.EqualFold(h, cat) {
			return true
		}
	}
	return false
}

// Filter returns a new snapshot holding only the visible items. The receiver is not
// modified.
func (s Snapshot) Filter(c Categories) Snapshot {
	keep := func(k Kind, items []Item) []Item {
		if c.Hides(k) {
			return nil
		}
		out := make([]Item, 0, len(items))
		for _, it := range items {
			if it.Category != "" && c.hidesCategory(it.Category) {
				continue
			}
			out = append(out, it)
		}
		return out
	}
	return Snapshot{
		People:  keep(KindPerson, s.People),
		Points:  keep(KindPoint, s.Points),
		Periods: keep(KindPeriod, s.Periods),
	}
}
