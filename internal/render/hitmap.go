package render

import "chronoline/internal/item"

// Z orders overlapping regions for hit-testing. Higher wins.
const (
	ZPeriod = iota
	ZPerson
	ZPoint
)

// ZOf returns the hit priority of kind k.
func ZOf(k item.Kind) int {
	switch k {
	case item.KindPoint:
		return ZPoint
	case item.KindPerson:
		return ZPerson
	case item.KindPeriod:
		return ZPeriod
	default:
		panic("render: unhandled kind " + k.String())
	}
}

// Region is the hit area of one drawn item.
type Region struct {
	ID   string
	Kind item.Kind
	Item item.Item
	Box  Rect
	Z    int
}

// HitMap resolves pointer positions to items drawn in the last frame.
type HitMap struct {
	regions []Region
}

// Add appends a region. Insertion order breaks Z ties.
func (h *HitMap) Add(r Region) {
	h.regions = append(h.regions, r)
}

// Reset empties the map.
func (h *HitMap) Reset() {
	h.regions = h.regions[:0]
}

// Len returns the number of regions.
func (h *HitMap) Len() int {
	return len(h.regions)
}

// Regions returns the regions in insertion order.
func (h *HitMap) Regions() []Region {
	return h.regions
}

// At returns the topmost region containing (x, y): the highest Z, then the first added.
func (h *HitMap) At(x, y float64) (Region, bool) {
	var (
		best  Region
		found bool
	)
	for _, r := range h.regions {
		if !r.Box.Contains(x, y) {
			continue
		}
		if !found || r.Z > best.Z {
			best, found = r, true
		}
	}
	return best, found
}
