package detection

import (
	"image/color"
	"testing"
)

func TestTraceContours_SinglePixel(t *testing.T) {
	m := NewMask(10, 10)
	m.Set(5, 5, true)

	contours := TraceContours(m, DefaultIsoLevel)
	if len(contours) != 1 {
		t.Fatalf("expected 1 contour, got %d", len(contours))
	}

	c := contours[0]
	if !c.Closed {
		t.Error("contour around an interior pixel should be closed")
	}
	if len(c.Vertices) != 5 {
		t.Fatalf("expected 4 vertices plus the closing one, got %d", len(c.Vertices))
	}
	if c.Vertices[0] != c.Vertices[len(c.Vertices)-1] {
		t.Errorf("closed contour should end at its start: %v", c.Vertices)
	}

	for _, v := range c.Vertices {
		dx, dy := v.X-5, v.Y-5
		if dx < 0 {
			dx = -dx
		}
		if dy < 0 {
			dy = -dy
		}
		if dx+dy != 0.5 {
			t.Errorf("vertex %v is not on the diamond around (5,5)", v)
		}
	}
}

func TestTraceContours_OpenAtBorder(t *testing.T) {
	m := NewMask(10, 10)
	m.Set(0, 0, true)

	contours := TraceContours(m, DefaultIsoLevel)
	if len(contours) != 1 {
		t.Fatalf("expected 1 contour, got %d", len(contours))
	}
	if contours[0].Closed {
		t.Error("contour at the image corner should be open")
	}
	if len(contours[0].Vertices) != 2 {
		t.Errorf("expected 2 vertices, got %v", contours[0].Vertices)
	}
}

func TestTraceContours_TwoSeparateBlobs(t *testing.T) {
	m := NewMask(20, 10)
	m.Set(3, 3, true)
	m.Set(4, 3, true)
	m.Set(14, 6, true)

	contours := TraceContours(m, DefaultIsoLevel)
	if len(contours) != 2 {
		t.Fatalf("expected 2 contours, got %d", len(contours))
	}
	for i, c := range contours {
		if !c.Closed {
			t.Errorf("contour %d should be closed", i)
		}
	}
}

func TestTraceContours_TinyMask(t *testing.T) {
	tests := []struct {
		name string
		mask *Mask
	}{
		{"nil", nil},
		{"single column", NewMask(1, 10)},
		{"single row", NewMask(10, 1)},
		{"empty", NewMask(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.mask != nil && tt.mask.Width > 0 && tt.mask.Height > 0 {
				tt.mask.Set(0, 0, true)
			}
			if got := TraceContours(tt.mask, DefaultIsoLevel); len(got) != 0 {
				t.Errorf("expected no contours, got %v", got)
			}
		})
	}
}

func TestBoundingBox_Empty(t *testing.T) {
	if _, ok := BoundingBox(Contour{}); ok {
		t.Error("empty contour should have no bounding box")
	}
}

func TestThreshold(t *testing.T) {
	img := createPage(4, 1)
	img.Set(0, 0, color.Black)
	img.Set(1, 0, color.Gray{Y: 120})
	img.Set(2, 0, color.Gray{Y: 240})
	img.Set(3, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255}) // luminance ~76

	m := Threshold(img, DefaultThreshold)
	if m.Width != 4 || m.Height != 1 {
		t.Fatalf("mask size = %dx%d, want 4x1", m.Width, m.Height)
	}

	want := []bool{true, true, false, true}
	for x, w := range want {
		if got := m.At(x, 0); got != w {
			t.Errorf("At(%d,0) = %v, want %v", x, got, w)
		}
	}
	if m.CountDark() != 3 {
		t.Errorf("CountDark() = %d, want 3", m.CountDark())
	}
}

func TestMask_OutOfRange(t *testing.T) {
	m := NewMask(3, 3)
	m.Set(-1, 0, true)
	m.Set(3, 3, true)
	if m.CountDark() != 0 {
		t.Error("out-of-range Set should be ignored")
	}
	if m.At(10, 10) {
		t.Error("out-of-range At should report light")
	}

	neg := NewMask(-2, 5)
	if neg.Width != 0 || len(neg.Dark) != 0 {
		t.Errorf("negative width should clamp to 0, got %+v", neg)
	}
}
