// Package sigpad records freehand signature strokes and rasterizes them
// into a trimmed PNG suitable for embedding into a PDF page.
package sigpad

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/elayeboussama/University-Order-Management-System/model"
)

// Default pad dimensions, matching the drawing surface presented to signers.
const (
	DefaultWidth  = 400
	DefaultHeight = 200
)

// penRadius is the half-width of the drawn line in pixels.
const penRadius = 1

// Point is a single pointer position on the pad.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one continuous pointer-down to pointer-up movement.
type Stroke []Point

// Pad records freehand strokes. It has no network or persistence side
// effects; Export produces the raster and nothing else.
type Pad struct {
	width   int
	height  int
	strokes []Stroke
	open    bool
}

// New creates an empty pad with the given dimensions. Non-positive
// dimensions fall back to the defaults.
func New(width, height int) *Pad {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Pad{width: width, height: height}
}

// FromStrokes creates a pad pre-loaded with recorded strokes.
func FromStrokes(width, height int, strokes []Stroke) *Pad {
	p := New(width, height)
	for _, s := range strokes {
		if len(s) == 0 {
			continue
		}
		p.Begin(s[0].X, s[0].Y)
		for _, pt := range s[1:] {
			p.LineTo(pt.X, pt.Y)
		}
		p.End()
	}
	return p
}

// Begin starts a new stroke at the given position.
func (p *Pad) Begin(x, y float64) {
	p.strokes = append(p.strokes, Stroke{{X: x, Y: y}})
	p.open = true
}

// LineTo extends the current stroke. A LineTo without a preceding Begin
// starts a new stroke.
func (p *Pad) LineTo(x, y float64) {
	if !p.open {
		p.Begin(x, y)
		return
	}
	last := len(p.strokes) - 1
	p.strokes[last] = append(p.strokes[last], Point{X: x, Y: y})
}

// End finishes the current stroke.
func (p *Pad) End() {
	p.open = false
}

// Clear discards all strokes and resets the pad to its blank state.
func (p *Pad) Clear() {
	p.strokes = nil
	p.open = false
}

// IsEmpty reports whether no strokes have been recorded since creation or
// the last Clear.
func (p *Pad) IsEmpty() bool {
	return len(p.strokes) == 0
}

// Export rasterizes the recorded strokes and returns a PNG cropped to the
// ink's bounding box. Callers must check IsEmpty first; exporting a blank
// pad fails with ErrEmptySignature.
func (p *Pad) Export() ([]byte, error) {
	if p.IsEmpty() {
		return nil, model.ErrEmptySignature
	}

	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	ink := color.RGBA{0, 0, 0, 255}

	for _, stroke := range p.strokes {
		if len(stroke) == 1 {
			drawDot(img, stroke[0], ink)
			continue
		}
		for i := 1; i < len(stroke); i++ {
			drawLine(img, stroke[i-1], stroke[i], ink)
		}
	}

	trimmed := trim(img)

	var buf bytes.Buffer
	if err := png.Encode(&buf, trimmed); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawDot(img *image.RGBA, pt Point, c color.RGBA) {
	cx, cy := int(pt.X+0.5), int(pt.Y+0.5)
	for dy := -penRadius; dy <= penRadius; dy++ {
		for dx := -penRadius; dx <= penRadius; dx++ {
			x, y := cx+dx, cy+dy
			if image.Pt(x, y).In(img.Bounds()) {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// drawLine rasterizes a segment with Bresenham stepping, thickened by the
// pen radius.
func drawLine(img *image.RGBA, from, to Point, c color.RGBA) {
	x0, y0 := int(from.X+0.5), int(from.Y+0.5)
	x1, y1 := int(to.X+0.5), int(to.Y+0.5)

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		drawDot(img, Point{X: float64(x0), Y: float64(y0)}, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// trim crops the image to the bounding box of its non-transparent pixels.
// Strokes clipped entirely outside the pad yield a single blank pixel so
// the result is always a valid image.
func trim(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y).A != 0 {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}

	if maxX < minX || maxY < minY {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}

	cropped := image.NewRGBA(image.Rect(0, 0, maxX-minX+1, maxY-minY+1))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			cropped.SetRGBA(x-minX, y-minY, img.RGBAAt(x, y))
		}
	}
	return cropped
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
