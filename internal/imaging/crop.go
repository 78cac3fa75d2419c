package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/drawing-extract/internal/geom"
)

// CropResult contains the cropped image data and the pixel box it was taken from.
type CropResult struct {
	EncodedImage
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Crop extracts the pixels in [x1,x2) x [y1,y2), relative to the image origin,
// and optionally resizes them by scale.
func Crop(img image.Image, x1, y1, x2, y2 int, scale float64) (*CropResult, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if x1 < 0 || y1 < 0 || x2 > w || y2 > h {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (0,0)-(%d,%d)",
			x1, y1, x2, y2, w, h)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	cropped := imaging.Crop(img, image.Rect(x1, y1, x2, y2).Add(bounds.Min))

	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		if newWidth < 1 {
			newWidth = 1
		}
		if newHeight < 1 {
			newHeight = 1
		}
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	enc, err := EncodePNG(cropped)
	if err != nil {
		return nil, err
	}
	return &CropResult{EncodedImage: *enc, X1: x1, Y1: y1, X2: x2, Y2: y2}, nil
}

// CropRegion crops the pixels covered by a pixel-space region, padded by pad
// pixels on every side and clipped to the image.
func CropRegion(img image.Image, r geom.Rect, pad int, scale float64) (*CropResult, error) {
	if !r.Valid() || r.Degenerate() {
		return nil, fmt.Errorf("invalid region %v", r)
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	box := pixelBounds(r).Inset(-pad).Intersect(image.Rect(0, 0, w, h))
	if box.Empty() {
		return nil, fmt.Errorf("region %v lies outside the %dx%d image", r, w, h)
	}

	return Crop(img, box.Min.X, box.Min.Y, box.Max.X, box.Max.Y, scale)
}
