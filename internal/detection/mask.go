package detection

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// DefaultThreshold is the intensity cutoff: samples strictly below it are dark.
const DefaultThreshold uint8 = 200

// ITU-R BT.601 luminance weights.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Mask is a binary image with the same dimensions as the raster it came from.
// Dark[y*Width+x] is true where the source sample fell below the threshold.
type Mask struct {
	Width  int
	Height int
	Dark   []bool
}

// NewMask returns an all-light mask of the given size.
func NewMask(width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{
		Width:  width,
		Height: height,
		Dark:   make([]bool, width*height),
	}
}

// At reports whether (x, y) is dark. Out-of-range coordinates are light.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Dark[y*m.Width+x]
}

// Set marks (x, y) dark or light. Out-of-range coordinates are ignored.
func (m *Mask) Set(x, y int, dark bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.Dark[y*m.Width+x] = dark
}

// CountDark returns the number of dark samples.
func (m *Mask) CountDark() int {
	n := 0
	for _, d := range m.Dark {
		if d {
			n++
		}
	}
	return n
}

// Threshold converts img to luminance and marks every sample below level as dark.
//
// The grayscale step uses BT.601 weights (0.299 R + 0.587 G + 0.114 B) so the
// cutoff behaves the same as a conventional "L" conversion. bild returns the
// luminance as an RGBA image with the value repeated in R, G and B; the mask is
// built from the R channel of each pixel.
//
// Parameters:
//   - img: Any image; its bounds may start anywhere
//   - level: Intensity cutoff (0-255). Samples strictly below it are dark
//
// Returns:
//   - *Mask: Same width and height as img, indexed from (0, 0) regardless of
//     img.Bounds().Min
//
// # Example Usage
//
//	mask := detection.Threshold(page, detection.DefaultThreshold)
//	fmt.Printf("%d dark pixels\n", mask.CountDark())
func Threshold(img image.Image, level uint8) *Mask {
	gray := effect.GrayscaleWithWeights(img, lumaR, lumaG, lumaB)

	// Compare the luminance bytes directly. bild's segment.Threshold ranks pixels
	// with its own weights and truncates, which moves the cutoff by one level.
	bounds := gray.Bounds()
	mask := NewMask(bounds.Dx(), bounds.Dy())
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			off := gray.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			mask.Dark[y*mask.Width+x] = gray.Pix[off] < level
		}
	}
	return mask
}
