package pack

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"chronoline/internal/chrono"
	"chronoline/internal/item"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstFitScenario(t *testing.T) {
	spans := []Span{
		{ID: "c", Name: "c", Start: 0, End: 10},
		{ID: "a", Name: "a", Start: -100, End: -50},
		{ID: "b", Name: "b", Start: -60, End: -10},
	}

	res, err := FirstFit(spans)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, res.Order)
	assert.Equal(t, 0, res.Rows["a"])
	assert.Equal(t, 1, res.Rows["b"])
	assert.Equal(t, 0, res.Rows["c"], "c does not overlap a and reuses row 0")
	assert.Equal(t, 2, res.RowCount)
	assert.Equal(t, 1, res.MaxRow())
}

func TestFirstFitTiesAreAlphabetical(t *testing.T) {
	spans := []Span{
		{ID: "3", Name: "charlie", Start: 10, End: 20},
		{ID: "1", Name: "Alpha", Start: 10, End: 20},
		{ID: "2", Name: "bravo", Start: 10, End: 20},
	}
	res, err := FirstFit(spans)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, res.Order)
	assert.Equal(t, map[string]int{"1": 0, "2": 1, "3": 2}, res.Rows)
}

func TestFirstFitTouchingEndpointsCollide(t *testing.T) {
	res, err := FirstFit([]Span{
		{ID: "a", Name: "a", Start: 0, End: 10},
		{ID: "b", Name: "b", Start: 10, End: 20},
		{ID: "p", Name: "p", Start: 20, End: 20},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Rows["a"])
	assert.Equal(t, 1, res.Rows["b"])
	assert.Equal(t, 0, res.Rows["p"], "zero-length span at 20 overlaps b but not a")
}

func TestFirstFitReusesLowestRow(t *testing.T) {
	res, err := FirstFit([]Span{
		{ID: "a", Name: "a", Start: 0, End: 5},
		{ID: "b", Name: "b", Start: 1, End: 2},
		{ID: "c", Name: "c", Start: 3, End: 10},
		{ID: "d", Name: "d", Start: 6, End: 7},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 0, "b": 1, "c": 1, "d": 0}, res.Rows)
}

func TestFirstFitIndexIgnoresIDs(t *testing.T) {
	res, err := FirstFit([]Span{
		{ID: "x", Name: "beta", Start: 10, End: 60},
		{ID: "x", Name: "alpha", Start: 0, End: 50},
		{ID: "x", Name: "gamma", Start: 70, End: 80},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 0}, res.Index)
	assert.Equal(t, 1, res.Row(0))
	assert.Equal(t, 2, res.RowCount)
}

func TestFirstFitRejectsInvertedRange(t *testing.T) {
	_, err := FirstFit([]Span{{ID: "x", Start: 5, End: 1}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvertedRange))
	assert.True(t, errors.Is(err, item.ErrInvertedRange))
}

func TestFirstFitRejectsUnknownYear(t *testing.T) {
	_, err := FirstFit([]Span{{ID: "x", Start: math.NaN(), End: 1}})
	assert.ErrorIs(t, err, ErrUnknownYear)
}

func TestFirstFitEmpty(t *testing.T) {
	res, err := FirstFit(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.RowCount)
	assert.Equal(t, -1, res.MaxRow())
}

func randomSpans(r *rand.Rand, n int) []Span {
	spans := make([]Span, n)
	for i := range spans {
		start := float64(r.Intn(2000) - 1000)
		spans[i] = Span{
			ID:    string(rune('A'+i%26)) + string(rune('a'+i/26%26)),
			Name:  string(rune('a' + r.Intn(5))),
			Start: start,
			End:   start + float64(r.Intn(120)),
		}
	}
	return spans
}

func TestFirstFitProperties(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		spans := randomSpans(r, 60)

		first, err := FirstFit(spans)
		require.NoError(t, err)
		second, err := FirstFit(spans)
		require.NoError(t, err)
		require.Equal(t, first.Rows, second.Rows, "packing must be deterministic")

		byID := map[string]Span{}
		for _, sp := range spans {
			byID[sp.ID] = sp
		}
		for i, a := range spans {
			for _, b := range spans[i+1:] {
				if first.Rows[a.ID] == first.Rows[b.ID] {
					require.False(t, chrono.RangesOverlap(a.Start, a.End, b.Start, b.End),
						"%v and %v share row %d", a, b, first.Rows[a.ID])
				}
			}
		}

		// Every span in row r>0 must conflict with something in each lower row,
		// otherwise first-fit would have placed it there.
		for _, id := range first.Order {
			sp := byID[id]
			for lower := 0; lower < first.Rows[id]; lower++ {
				conflict := false
				for _, other := range first.Order {
					if first.Rows[other] != lower {
						continue
					}
					o := byID[other]
					if chrono.RangesOverlap(o.Start, o.End, sp.Start, sp.End) {
						conflict = true
						break
					}
				}
				require.True(t, conflict, "%s skipped row %d without a conflict", id, lower)
			}
		}
	}
}

func TestSpanFor(t *testing.T) {
	person := item.Item{ID: "p", Kind: item.KindPerson, Start: 100, End: 150}
	sp, ok := SpanFor(person, 2, 120, 5)
	require.True(t, ok)
	assert.Equal(t, Span{ID: "p", Start: 100, End: 150}, sp)

	point := item.Item{ID: "e", Kind: item.KindPoint, Start: 100, End: 100}
	sp, ok = SpanFor(point, 2, 120, 5)
	require.True(t, ok)
	assert.InDelta(t, 100-125, sp.Start, 1e-9)
	assert.InDelta(t, 100+125, sp.End, 1e-9)

	_, ok = SpanFor(item.Item{ID: "u", Kind: item.KindPeriod, Undated: true}, 1, 0, 0)
	assert.False(t, ok)
}

func TestNearbyPointsStackAtCoarseScale(t *testing.T) {
	a := item.Item{ID: "a", Name: "a", Kind: item.KindPoint, Start: 1000, End: 1000}
	b := item.Item{ID: "b", Name: "b", Kind: item.KindPoint, Start: 1010, End: 1010}

	pack := func(ypp float64) Result {
		sa, _ := SpanFor(a, ypp, 100, 0)
		sb, _ := SpanFor(b, ypp, 100, 0)
		res, err := FirstFit([]Span{sa, sb})
		require.NoError(t, err)
		return res
	}

	assert.Equal(t, 1, pack(0.05).RowCount, "zoomed in, labels are 5 years wide")
	assert.Equal(t, 2, pack(1).RowCount, "zoomed out, labels are 100 years wide")
}
