package detection

import (
	"image"
	"math"
	"sort"

	"github.com/ironsheep/drawing-extract/internal/geom"
)

// Options controls region segmentation.
type Options struct {
	// Threshold is the intensity cutoff (0-255). Samples strictly below it are dark.
	Threshold uint8

	// IsoLevel is the contour level traced on the 0/1 mask. Must lie in (0, 1).
	IsoLevel float64

	// MinWidth and MinHeight drop boxes smaller than the given pixel extents.
	// Zero keeps everything except zero-area boxes.
	MinWidth  float64
	MinHeight float64
}

// DefaultOptions returns the settings used for drawing extraction: threshold 200,
// iso level 0.5, no minimum size.
func DefaultOptions() Options {
	return Options{
		Threshold: DefaultThreshold,
		IsoLevel:  DefaultIsoLevel,
	}
}

// Segment finds dark regions in img using DefaultOptions.
func Segment(img image.Image) []geom.Rect {
	return SegmentWith(img, DefaultOptions())
}

// SegmentWith converts img to a binary mask, traces the dark contours and returns
// the bounding box of each one in pixel coordinates.
//
// Boxes with zero width or height are discarded. The result is sorted by top edge
// then left edge so that the output does not depend on tracing order. An image
// with no dark samples yields an empty, non-nil slice.
func SegmentWith(img image.Image, opts Options) []geom.Rect {
	if opts.IsoLevel <= 0 || opts.IsoLevel >= 1 {
		opts.IsoLevel = DefaultIsoLevel
	}

	mask := Threshold(img, opts.Threshold)
	return Regions(mask, opts)
}

// Regions traces mask and reduces each contour to its bounding box, applying the
// size filters from opts.
func Regions(mask *Mask, opts Options) []geom.Rect {
	regions := make([]geom.Rect, 0)
	if mask == nil || mask.CountDark() == 0 {
		return regions
	}

	for _, c := range TraceContours(mask, opts.IsoLevel) {
		box, ok := BoundingBox(c)
		if !ok || box.Degenerate() {
			continue
		}
		if box.Width() < opts.MinWidth || box.Height() < opts.MinHeight {
			continue
		}
		regions = append(regions, box)
	}

	SortRegions(regions)
	return regions
}

// BoundingBox returns the per-axis min/max of the contour's vertices.
func BoundingBox(c Contour) (geom.Rect, bool) {
	if len(c.Vertices) == 0 {
		return geom.Rect{}, false
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range c.Vertices {
		if v.X < minX {
			minX = v.X
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}

	return geom.Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}, true
}

// SortRegions orders boxes by (MinY, MinX) ascending, in place.
func SortRegions(regions []geom.Rect) {
	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].MinY != regions[j].MinY {
			return regions[i].MinY < regions[j].MinY
		}
		return regions[i].MinX < regions[j].MinX
	})
}
