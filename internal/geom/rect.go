// Package geom holds the rectangle type shared by the segmenter, the text layer
// and the record pipeline, plus the mapping between raster pixels and page
// coordinates.
//
// # Coordinate Spaces
//
// Two spaces are used:
//   - Pixel space: the raster produced by rendering a page. Origin at the
//     top-left pixel, X rightward, Y downward.
//   - Page space: PDF points (1/72 inch), also with the origin at the top-left of
//     the page and Y downward. The text layer reports glyph boxes in this space.
//
// A page rendered at scale s (pixels per point, 72*s DPI) maps between the two
// spaces by uniform division or multiplication by s.
package geom

import "fmt"

// Rect is an axis-aligned box. Min is the top-left corner, Max the bottom-right.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// NewRect returns the rectangle spanning the two corners in either order.
func NewRect(x0, y0, x1, y1 float64) Rect {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Rect{MinX: x0, MinY: y0, MaxX: x1, MaxY: y1}
}

// Width returns MaxX - MinX.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns MaxY - MinY.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Valid reports whether min <= max on both axes.
func (r Rect) Valid() bool {
	return r.MinX <= r.MaxX && r.MinY <= r.MaxY
}

// Degenerate reports whether the box has zero width or zero height.
func (r Rect) Degenerate() bool {
	return r.Width() == 0 || r.Height() == 0
}

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// ToPage converts a pixel-space box into page space for a raster rendered at
// scale pixels per point.
func (r Rect) ToPage(scale float64) Rect {
	mustScale(scale)
	return Rect{
		MinX: r.MinX / scale,
		MinY: r.MinY / scale,
		MaxX: r.MaxX / scale,
		MaxY: r.MaxY / scale,
	}
}

// ToPixel is the inverse of ToPage.
func (r Rect) ToPixel(scale float64) Rect {
	mustScale(scale)
	return Rect{
		MinX: r.MinX * scale,
		MinY: r.MinY * scale,
		MaxX: r.MaxX * scale,
		MaxY: r.MaxY * scale,
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%.2f,%.2f)-(%.2f,%.2f)", r.MinX, r.MinY, r.MaxX, r.MaxY)
}

// mustScale panics on a non-positive scale. Callers validate user input before
// it reaches the mapper, so a bad value here is a programming error.
func mustScale(scale float64) {
	if !(scale > 0) {
		panic(fmt.Sprintf("geom: scale must be positive, got %v", scale))
	}
}
