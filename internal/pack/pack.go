/*
Package pack assigns temporal items to rows so that no two items sharing a row overlap in
time.

The algorithm is greedy first-fit interval colouring:

 1. Sort spans by start year, breaking ties by case-insensitive name.
 2. Keep an ordered list of rows, each holding the spans already placed in it.
 3. Place each span in the lowest-index row where it overlaps nothing, appending a new row
    when no row fits.

Rows are never revisited or reordered within one call. The result is not guaranteed to use
the minimum number of rows; the layout relies on row order matching insertion order, so the
greedy behaviour is kept as is.
*/
package pack

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"chronoline/internal/chrono"
	"chronoline/internal/item"
)

var (
	// ErrInvertedRange is returned when a span starts after it ends. Spans are never
	// swapped or clamped.
	ErrInvertedRange = item.ErrInvertedRange

	// ErrUnknownYear is returned for spans with NaN or infinite bounds.
	ErrUnknownYear = errors.New("span has an unknown year")
)

// Span is the effective time range an item occupies for packing purposes.
type Span struct {
	ID    string
	Name  string
	Start float64
	End   float64
}

// Result holds the row chosen for every span.
type Result struct {
	// Index holds the row of each span, in input order. It is the authoritative
	// assignment; span IDs need not be unique.
	Index []int
	// Rows maps span ID to row index. When IDs repeat, the last placement wins.
	Rows map[string]int
	// RowCount is the number of rows in use.
	RowCount int
	// Order lists span IDs in the order they were placed.
	Order []string
}

// Row returns the row of the i-th input span.
func (r Result) Row(i int) int {
	return r.Index[i]
}

// MaxRow returns the highest row index, or -1 when nothing was placed.
func (r Result) MaxRow() int {
	return r.RowCount - 1
}

// SpanFor derives the packing span of an item. People and periods occupy exactly
// [Start, End]. Points get a synthetic window wide enough for their label at the current
// scale: half of labelWidthPx converted to years, plus marginYears, on each side.
// It returns false for undated items, which must not take part in packing.
func SpanFor(it item.Item, yearsPerPixel, labelWidthPx, marginYears float64) (Span, bool) {
	if it.Undated {
		return Span{}, false
	}
	sp := Span{ID: it.ID, Name: it.Name, Start: float64(it.Start), End: float64(it.End)}
	switch it.Kind {
	case item.KindPerson, item.KindPeriod:
	case item.KindPoint:
		hw := labelWidthPx/2*yearsPerPixel + marginYears
		sp.Start -= hw
		sp.End += hw
	default:
		panic(fmt.Sprintf("pack: unhandled kind %v", it.Kind))
	}
	return sp, true
}

// sortOrder orders span indices by start year, then name (case-insensitive, then exact),
// then ID, then input position.
func sortOrder(spans []Span, order []int) {
	sort.SliceStable(order, func(i, j int) bool {
		a, b := spans[order[i]], spans[order[j]]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if la != lb {
			return la < lb
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}

func validate(spans []Span) error {
	for _, sp := range spans {
		if math.IsNaN(sp.Start) || math.IsNaN(sp.End) || math.IsInf(sp.Start, 0) || math.IsInf(sp.End, 0) {
			return fmt.Errorf("span %q: %w", sp.ID, ErrUnknownYear)
		}
		if sp.Start > sp.End {
			return fmt.Errorf("span %q [%g, %g]: %w", sp.ID, sp.Start, sp.End, ErrInvertedRange)
		}
	}
	return nil
}

// FirstFit packs spans into rows. The input slice is not modified.
func FirstFit(spans []Span) (Result, error) {
	if err := validate(spans); err != nil {
		return Result{}, err
	}

	order := make([]int, len(spans))
	for i := range order {
		order[i] = i
	}
	sortOrder(spans, order)

	res := Result{
		Index: make([]int, len(spans)),
		Rows:  make(map[string]int, len(spans)),
		Order: make([]string, 0, len(spans)),
	}
	var rows [][]Span
	for _, idx := range order {
		sp := spans[idx]
		row := -1
		for i, members := range rows {
			if fits(members, sp) {
				row = i
				break
			}
		}
		if row < 0 {
			rows = append(rows, nil)
			row = len(rows) - 1
		}
		rows[row] = append(rows[row], sp)
		res.Index[idx] = row
		res.Rows[sp.ID] = row
		res.Order = append(res.Order, sp.ID)
	}
	res.RowCount = len(rows)
	return res, nil
}

func fits(members []Span, sp Span) bool {
	for _, m := range members {
		if chrono.RangesOverlap(m.Start, m.End, sp.Start, sp.End) {
			return false
		}
	}
	return true
}
