/*
Package raster is a render.Backend that paints a PNG image.

The picture is drawn at Scale times the requested size and downsampled with Catmull-Rom
interpolation, which smooths edges and text without hinting.
*/
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	"chronoline/internal/item"
	"chronoline/internal/render"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Options configures PNG rendering.
type Options struct {
	FontSize float64
	// Scale is the supersampling factor. Values below 1 select 2.
	Scale int
}

// Backend paints primitives into an RGBA image and encodes it as PNG on End.
type Backend struct {
	out   io.Writer
	opts  Options
	scale float64

	font  *opentype.Font
	faces map[float64]font.Face

	img           *image.RGBA
	width, height int
	z             *vector.Rasterizer
}

var _ render.Backend = (*Backend)(nil)

// New returns a backend writing PNG data to w.
func New(w io.Writer, opts Options) (*Backend, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing embedded font: %w", err)
	}
	if opts.Scale < 1 {
		opts.Scale = 2
	}
	return &Backend{
		out:   w,
		opts:  opts,
		scale: float64(opts.Scale),
		font:  fnt,
		faces: make(map[float64]font.Face),
	}, nil
}

// Image returns the downsampled picture of the last completed frame.
func (b *Backend) Image() *image.RGBA {
	return b.downsample()
}

func (b *Backend) face(size float64) font.Face {
	if size <= 0 {
		size = b.opts.FontSize
	}
	if f, ok := b.faces[size]; ok {
		return f
	}
	f, err := opentype.NewFace(b.font, &opentype.FaceOptions{
		Size:    size * b.scale,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		// The embedded font always yields a face for a positive size.
		panic(err)
	}
	b.faces[size] = f
	return f
}

func (b *Backend) Begin(width, height float64, background string) {
	b.width, b.height = int(math.Ceil(width)), int(math.Ceil(height))
	w, h := int(float64(b.width)*b.scale), int(float64(b.height)*b.scale)
	b.img = image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(b.img, b.img.Bounds(), image.NewUniform(parseColor(background)), image.Point{}, draw.Src)
	b.z = vector.NewRasterizer(w, h)
}

// fill rasterises a closed polygon given in frame pixels.
func (b *Backend) fill(pts []render.Point, c color.Color) {
	if len(pts) < 3 || c == nil {
		return
	}
	b.z.Reset(b.img.Bounds().Dx(), b.img.Bounds().Dy())
	b.z.MoveTo(float32(pts[0].X*b.scale), float32(pts[0].Y*b.scale))
	for _, p := range pts[1:] {
		b.z.LineTo(float32(p.X*b.scale), float32(p.Y*b.scale))
	}
	b.z.ClosePath()
	b.z.Draw(b.img, b.img.Bounds(), image.NewUniform(c), image.Point{})
}

// segment draws a straight stroke as a thin quad.
func (b *Backend) segment(x1, y1, x2, y2, width float64, c color.Color) {
	dx, dy := x2-x1, y2-y1
	dist := math.Hypot(dx, dy)
	half := math.Max(width, 1/b.scale) / 2
	if dist == 0 {
		b.fill([]render.Point{{X: x1 - half, Y: y1 - half}, {X: x1 + half, Y: y1 - half}, {X: x1 + half, Y: y1 + half}, {X: x1 - half, Y: y1 + half}}, c)
		return
	}
	px, py := -dy/dist*half, dx/dist*half
	b.fill([]render.Point{
		{X: x1 + px, Y: y1 + py}, {X: x2 + px, Y: y2 + py},
		{X: x2 - px, Y: y2 - py}, {X: x1 - px, Y: y1 - py},
	}, c)
}

func (b *Backend) stroke(pts []render.Point, closed bool, s render.Style) {
	if s.Stroke == "" || s.StrokeWidth <= 0 {
		return
	}
	c := parseColor(s.Stroke)
	n := len(pts)
	last := n - 1
	if closed {
		last = n
	}
	for i := 0; i < last; i++ {
		p, q := pts[i], pts[(i+1)%n]
		if s.Dashed {
			b.dashed(p.X, p.Y, q.X, q.Y, s.StrokeWidth, c)
		} else {
			b.segment(p.X, p.Y, q.X, q.Y, s.StrokeWidth, c)
		}
	}
}

func (b *Backend) dashed(x1, y1, x2, y2, width float64, c color.Color) {
	const on, off = 4.0, 3.0
	dist := math.Hypot(x2-x1, y2-y1)
	if dist == 0 {
		return
	}
	ux, uy := (x2-x1)/dist, (y2-y1)/dist
	for t := 0.0; t < dist; t += on + off {
		e := math.Min(t+on, dist)
		b.segment(x1+ux*t, y1+uy*t, x1+ux*e, y1+uy*e, width, c)
	}
}

func (b *Backend) Line(x1, y1, x2, y2 float64, s render.Style) {
	b.stroke([]render.Point{{X: x1, Y: y1}, {X: x2, Y: y2}}, false, s)
}

func (b *Backend) Box(r render.Rect, radius float64, s render.Style) {
	pts := roundedRect(r, radius)
	if s.Fill != "" {
		b.fill(pts, parseColor(s.Fill))
	}
	b.stroke(pts, true, s)
}

func (b *Backend) Bracket(r render.Rect, s render.Style) {
	b.stroke([]render.Point{
		{X: r.X, Y: r.Y}, {X: r.X, Y: r.Bottom()},
		{X: r.Right(), Y: r.Bottom()}, {X: r.Right(), Y: r.Y},
	}, false, s)
}

func (b *Backend) Marker(x, y, size float64, g render.Glyph, s render.Style) {
	var pts []render.Point
	switch g.Shape {
	case item.ShapeSquare:
		pts = []render.Point{{X: x - size, Y: y - size}, {X: x + size, Y: y - size}, {X: x + size, Y: y + size}, {X: x - size, Y: y + size}}
	case item.ShapeDiamond:
		pts = []render.Point{{X: x, Y: y - size}, {X: x + size, Y: y}, {X: x, Y: y + size}, {X: x - size, Y: y}}
	case item.ShapeTriangle:
		h := size * 1.5
		pts = []render.Point{{X: x, Y: y - h}, {X: x + size, Y: y + h/2}, {X: x - size, Y: y + h/2}}
	case item.ShapeCircle:
		pts = circle(x, y, size)
	default:
		if len(g.Outline) < 3 {
			pts = circle(x, y, size)
			break
		}
		pts = make([]render.Point, len(g.Outline))
		for i, p := range g.Outline {
			pts[i] = render.Point{X: x + p.X*size, Y: y + p.Y*size}
		}
	}
	if s.Fill != "" {
		b.fill(pts, parseColor(s.Fill))
	}
	b.stroke(pts, true, s)
}

func (b *Backend) Text(x, y float64, text string, s render.TextStyle) {
	face := b.face(s.Size)
	width := font.MeasureString(face, text)
	px := fixed.Int26_6(x * b.scale * 64)
	switch s.Anchor {
	case render.AnchorMiddle:
		px -= width / 2
	case render.AnchorEnd:
		px -= width
	}
	// Centre the cap height on y.
	m := face.Metrics()
	baseline := fixed.Int26_6(y*b.scale*64) + m.Ascent*35/100
	d := &font.Drawer{
		Dst:  b.img,
		Src:  image.NewUniform(parseColor(s.Color)),
		Face: face,
		Dot:  fixed.Point26_6{X: px, Y: baseline},
	}
	d.DrawString(text)
}

func (b *Backend) downsample() *image.RGBA {
	final := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	if b.img != nil {
		draw.CatmullRom.Scale(final, final.Bounds(), b.img, b.img.Bounds(), draw.Over, nil)
	}
	return final
}

// End downsamples the frame and encodes it.
func (b *Backend) End() error {
	if b.out == nil {
		return nil
	}
	if err := png.Encode(b.out, b.downsample()); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

func circle(cx, cy, r float64) []render.Point {
	const n = 32
	pts := make([]render.Point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / n
		pts[i] = render.Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	return pts
}

func roundedRect(r render.Rect, radius float64) []render.Point {
	radius = math.Min(radius, math.Min(r.W, r.H)/2)
	if radius <= 0 {
		return []render.Point{{X: r.X, Y: r.Y}, {X: r.Right(), Y: r.Y}, {X: r.Right(), Y: r.Bottom()}, {X: r.X, Y: r.Bottom()}}
	}
	const steps = 6
	corners := []struct {
		cx, cy, from float64
	}{
		{r.Right() - radius, r.Y + radius, -math.Pi / 2},
		{r.Right() - radius, r.Bottom() - radius, 0},
		{r.X + radius, r.Bottom() - radius, math.Pi / 2},
		{r.X + radius, r.Y + radius, math.Pi},
	}
	pts := make([]render.Point, 0, 4*(steps+1))
	for _, c := range corners {
		for i := 0; i <= steps; i++ {
			a := c.from + math.Pi/2*float64(i)/steps
			pts = append(pts, render.Point{X: c.cx + radius*math.Cos(a), Y: c.cy + radius*math.Sin(a)})
		}
	}
	return pts
}

// parseColor reads "#rgb" or "#rrggbb". Anything else is opaque black.
func parseColor(s string) color.Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{A: 255}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
