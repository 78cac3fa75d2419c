package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/drawing-extract/internal/geom"
)

// EncodedImage is a PNG ready to be returned over the wire.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// OverlayResult is an encoded overlay together with the regions drawn on it.
type OverlayResult struct {
	EncodedImage
	Regions []geom.Rect `json:"regions"`
}

// outlineWidth is the stroke of region outlines, in pixels.
const outlineWidth = 2

// Palette returns n visually distinct, fully opaque colours. The sequence is
// deterministic so that region i has the same colour on every run.
func Palette(n int) []color.Color {
	colors := make([]color.Color, n)
	for i := range colors {
		// golden-angle hue steps
		hue := math.Mod(float64(i)*137.508, 360)
		colors[i] = colorful.Hsv(hue, 0.85, 0.9).Clamped()
	}
	return colors
}

// RegionOverlay returns a copy of img with every pixel-space region outlined in
// its own colour and labelled with its 1-based index.
func RegionOverlay(img image.Image, regions []geom.Rect) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	palette := Palette(len(regions))
	for i, r := range regions {
		box := pixelBounds(r).Add(bounds.Min).Intersect(bounds)
		if box.Empty() {
			continue
		}
		drawOutline(out, box, palette[i])
		drawLabel(out, box.Min, strconv.Itoa(i+1), palette[i])
	}
	return out
}

// pixelBounds converts half-pixel region coordinates to the covered pixels.
func pixelBounds(r geom.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.MinX+0.5)),
		int(math.Floor(r.MinY+0.5)),
		int(math.Floor(r.MaxX+0.5)),
		int(math.Floor(r.MaxY+0.5)),
	)
}

func drawOutline(img *image.RGBA, box image.Rectangle, c color.Color) {
	src := &image.Uniform{c}
	w := outlineWidth
	edges := []image.Rectangle{
		image.Rect(box.Min.X, box.Min.Y, box.Max.X, box.Min.Y+w),
		image.Rect(box.Min.X, box.Max.Y-w, box.Max.X, box.Max.Y),
		image.Rect(box.Min.X, box.Min.Y, box.Min.X+w, box.Max.Y),
		image.Rect(box.Max.X-w, box.Min.Y, box.Max.X, box.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(img, e.Intersect(box), src, image.Point{}, draw.Src)
	}
}

// drawLabel writes text in white on a colour tag anchored at the box's
// top-left corner.
func drawLabel(img *image.RGBA, at image.Point, text string, bg color.Color) {
	face := basicfont.Face7x13
	tag := image.Rect(at.X, at.Y, at.X+len(text)*face.Advance+4, at.Y+face.Height+2)
	draw.Draw(img, tag.Intersect(img.Bounds()), &image.Uniform{bg}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(at.X+2, at.Y+face.Ascent+1),
	}
	d.DrawString(text)
}

// EncodePNG encodes img as a base64 PNG.
func EncodePNG(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// EncodeOverlay draws regions on img and encodes the result.
func EncodeOverlay(img image.Image, regions []geom.Rect) (*OverlayResult, error) {
	enc, err := EncodePNG(RegionOverlay(img, regions))
	if err != nil {
		return nil, err
	}
	return &OverlayResult{EncodedImage: *enc, Regions: regions}, nil
}

// SaveOverlay writes an overlay of regions on img to path. The format follows
// the file extension.
func SaveOverlay(path string, img image.Image, regions []geom.Rect) error {
	if err := imaging.Save(RegionOverlay(img, regions), path); err != nil {
		return fmt.Errorf("saving overlay %s: %w", path, err)
	}
	return nil
}
