package document

import (
	"math"

	"github.com/ledongthuc/pdf"

	"github.com/ironsheep/drawing-extract/internal/geom"
)

// letter is the MediaBox assumed when a page does not declare one.
var letter = geom.Rect{MinX: 0, MinY: 0, MaxX: 612, MaxY: 792}

// maxTreeDepth bounds the walk up the page tree for inherited attributes.
const maxTreeDepth = 32

// Frame places PDF user space onto the page as it is rendered: the visible box
// (CropBox clipped to the MediaBox) moved to the origin with Y pointing down,
// then turned clockwise by the page's /Rotate.
type Frame struct {
	// Box is the visible area in user space (Y up).
	Box geom.Rect

	// Rotate is the clockwise display rotation: 0, 90, 180 or 270.
	Rotate int
}

// NewFrame returns the frame for a visible box and a /Rotate value. Rotations
// are normalized to a multiple of 90 in [0, 360).
func NewFrame(box geom.Rect, rotate int) Frame {
	rotate = ((rotate/90)*90%360 + 360) % 360
	return Frame{Box: box, Rotate: rotate}
}

// Size returns the width and height of the rendered page in points.
func (f Frame) Size() (float64, float64) {
	if f.Rotate == 90 || f.Rotate == 270 {
		return f.Box.Height(), f.Box.Width()
	}
	return f.Box.Width(), f.Box.Height()
}

// Upright converts a user-space point into the unrotated page: origin at the
// top-left corner of the visible box, Y down.
func (f Frame) Upright(x, y float64) (float64, float64) {
	return x - f.Box.MinX, f.Box.MaxY - y
}

// Turn applies the page rotation to a box given in unrotated page space.
func (f Frame) Turn(r geom.Rect) geom.Rect {
	x0, y0 := f.turnPoint(r.MinX, r.MinY)
	x1, y1 := f.turnPoint(r.MaxX, r.MaxY)
	return geom.NewRect(x0, y0, x1, y1)
}

func (f Frame) turnPoint(u, v float64) (float64, float64) {
	w, h := f.Box.Width(), f.Box.Height()
	switch f.Rotate {
	case 90:
		return h - v, u
	case 180:
		return w - u, h - v
	case 270:
		return v, w - u
	default:
		return u, v
	}
}

// pageFrame reads the inherited MediaBox, CropBox and Rotate of a page. A
// missing or empty CropBox falls back to the MediaBox, a missing MediaBox to US
// Letter.
func pageFrame(page pdf.Value) Frame {
	media, ok := boxValue(inherited(page, "MediaBox"))
	if !ok {
		media = letter
	}

	box := media
	if crop, ok := boxValue(inherited(page, "CropBox")); ok {
		if clipped, ok := intersect(crop, media); ok {
			box = clipped
		}
	}

	return NewFrame(box, int(math.Round(inherited(page, "Rotate").Float64())))
}

// inherited looks key up on v and then on its ancestors in the page tree.
func inherited(v pdf.Value, key string) pdf.Value {
	for depth := 0; v.Kind() == pdf.Dict && depth < maxTreeDepth; depth++ {
		if r := v.Key(key); !r.IsNull() {
			return r
		}
		v = v.Key("Parent")
	}
	return pdf.Value{}
}

func boxValue(v pdf.Value) (geom.Rect, bool) {
	if v.Kind() != pdf.Array || v.Len() != 4 {
		return geom.Rect{}, false
	}
	r := geom.NewRect(
		v.Index(0).Float64(),
		v.Index(1).Float64(),
		v.Index(2).Float64(),
		v.Index(3).Float64(),
	)
	return r, !r.Degenerate()
}

func intersect(a, b geom.Rect) (geom.Rect, bool) {
	r := geom.Rect{
		MinX: max(a.MinX, b.MinX),
		MinY: max(a.MinY, b.MinY),
		MaxX: min(a.MaxX, b.MaxX),
		MaxY: min(a.MaxY, b.MaxY),
	}
	return r, r.Valid() && !r.Degenerate()
}
