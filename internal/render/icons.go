package render

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownIcon is returned by fetchers for names they cannot supply.
var ErrUnknownIcon = errors.New("unknown icon")

// Icon is a named marker outline in unit coordinates within [-1, 1].
type Icon struct {
	Name    string
	Outline []Point
}

// IconFetcher loads an icon by name.
type IconFetcher func(name string) (Icon, error)

// IconCache holds fetched icons for the lifetime of a surface. A name is fetched at most
// once; failures are remembered as well so a broken icon is not retried on every frame.
type IconCache struct {
	fetch  IconFetcher
	icons  map[string]Icon
	failed map[string]error
}

// NewIconCache returns an empty cache backed by fetch.
func NewIconCache(fetch IconFetcher) *IconCache {
	return &IconCache{
		fetch:  fetch,
		icons:  make(map[string]Icon),
		failed: make(map[string]error),
	}
}

// Get returns the named icon, fetching and storing it on first use.
func (c *IconCache) Get(name string) (Icon, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if ic, ok := c.icons[key]; ok {
		return ic, nil
	}
	if err, ok := c.failed[key]; ok {
		return Icon{}, err
	}
	ic, err := c.fetch(key)
	if err != nil {
		err = fmt.Errorf("icon %q: %w", name, err)
		c.failed[key] = err
		return Icon{}, err
	}
	c.icons[key] = ic
	return ic, nil
}

// Len returns the number of icons stored.
func (c *IconCache) Len() int {
	return len(c.icons)
}

// BuiltinIcons supplies the icons bundled with chronoline: star, cross, flag, hexagon
// and crown.
func BuiltinIcons(name string) (Icon, error) {
	switch name {
	case "star":
		return Icon{Name: name, Outline: star(5, 0.45)}, nil
	case "cross":
		return Icon{Name: name, Outline: []Point{
			{-0.3, -1}, {0.3, -1}, {0.3, -0.3}, {1, -0.3}, {1, 0.3}, {0.3, 0.3},
			{0.3, 1}, {-0.3, 1}, {-0.3, 0.3}, {-1, 0.3}, {-1, -0.3}, {-0.3, -0.3},
		}}, nil
	case "flag":
		return Icon{Name: name, Outline: []Point{
			{-0.8, 1}, {-0.8, -1}, {0.9, -0.6}, {-0.5, -0.2}, {-0.5, 1},
		}}, nil
	case "hexagon":
		return Icon{Name: name, Outline: regular(6, 0)}, nil
	case "crown":
		return Icon{Name: name, Outline: []Point{
			{-1, 0.8}, {-1, -0.6}, {-0.5, 0}, {0, -0.9}, {0.5, 0}, {1, -0.6}, {1, 0.8},
		}}, nil
	default:
		return Icon{}, ErrUnknownIcon
	}
}

func regular(n int, phase float64) []Point {
	pts := make([]Point, n)
	for i := range pts {
		a := phase + 2*math.Pi*float64(i)/float64(n)
		pts[i] = Point{X: math.Cos(a), Y: math.Sin(a)}
	}
	return pts
}

func star(n int, inner float64) []Point {
	pts := make([]Point, 0, 2*n)
	for i := 0; i < 2*n; i++ {
		r := 1.0
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + math.Pi*float64(i)/float64(n)
		pts = append(pts, Point{X: r * math.Cos(a), Y: r * math.Sin(a)})
	}
	return pts
}
