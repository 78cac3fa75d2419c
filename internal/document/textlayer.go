package document

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/ironsheep/drawing-extract/internal/geom"
)

// Glyph metrics relative to the font size, used to turn a baseline position into
// a box. Values are typical for the sans fonts found on drawing title blocks.
const (
	glyphAscent  = 0.8
	glyphDescent = 0.2
)

// Layout tolerances, as fractions of the font size.
const (
	rowTolerance = 0.5 // baselines closer than this share a row
	wordGap      = 0.2 // horizontal gaps wider than this become a space
)

// Glyph is one positioned run of text (usually a single character) in page space.
type Glyph struct {
	// Box is the glyph extent on the rendered page, origin at its top-left corner.
	Box geom.Rect

	// Upright is the glyph extent before the page rotation is applied. Lines
	// are rebuilt in this frame so that text keeps its reading order on
	// rotated pages.
	Upright geom.Rect

	// Baseline is the Y coordinate of the text baseline in the upright frame.
	Baseline float64

	// Size is the effective font size in points.
	Size float64

	// Text is the decoded content of the run.
	Text string
}

// NewGlyph builds an unrotated glyph from a top-left-origin baseline position.
func NewGlyph(x, baseline, width, size float64, text string) Glyph {
	box := geom.Rect{
		MinX: x,
		MinY: baseline - glyphAscent*size,
		MaxX: x + width,
		MaxY: baseline + glyphDescent*size,
	}
	return Glyph{
		Box:      box,
		Upright:  box,
		Baseline: baseline,
		Size:     size,
		Text:     text,
	}
}

func (g Glyph) centre() (float64, float64) {
	return (g.Box.MinX + g.Box.MaxX) / 2, (g.Box.MinY + g.Box.MaxY) / 2
}

// TextLayer is the positioned text of one page.
type TextLayer struct {
	// Frame is the placement used for the glyph boxes.
	Frame Frame

	Glyphs []Glyph
}

// In returns the text of every glyph whose centre lies inside r, rebuilt into
// lines: rows top to bottom, glyphs left to right, rows joined by "\n".
func (l *TextLayer) In(r geom.Rect) string {
	selected := make([]Glyph, 0)
	for _, g := range l.Glyphs {
		cx, cy := g.centre()
		if r.Contains(cx, cy) {
			selected = append(selected, g)
		}
	}
	return layoutText(selected)
}

type row struct {
	baseline float64
	size     float64
	glyphs   []Glyph
}

// layoutText groups glyphs into rows by baseline and joins them into text.
func layoutText(glyphs []Glyph) string {
	rows := make([]*row, 0)
	for _, g := range glyphs {
		if strings.TrimSpace(g.Text) == "" && g.Text != " " {
			continue
		}

		var target *row
		for _, r := range rows {
			tol := rowTolerance * math.Max(r.size, g.Size)
			if math.Abs(g.Baseline-r.baseline) <= tol {
				target = r
				break
			}
		}
		if target == nil {
			target = &row{baseline: g.Baseline, size: g.Size}
			rows = append(rows, target)
		}
		target.glyphs = append(target.glyphs, g)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].baseline < rows[j].baseline
	})

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		if line := r.text(); line != "" {
			lines = append(lines, line)
		}
	}

	return norm.NFC.String(strings.Join(lines, "\n"))
}

func (r *row) text() string {
	sort.SliceStable(r.glyphs, func(i, j int) bool {
		return r.glyphs[i].Upright.MinX < r.glyphs[j].Upright.MinX
	})

	var b strings.Builder
	prevEnd := math.Inf(-1)
	for _, g := range r.glyphs {
		gap := g.Upright.MinX - prevEnd
		if b.Len() > 0 && gap > wordGap*g.Size && !endsWithSpace(b.String()) && g.Text != " " {
			b.WriteByte(' ')
		}
		if g.Text == " " && (b.Len() == 0 || endsWithSpace(b.String())) {
			prevEnd = math.Max(prevEnd, g.Upright.MaxX)
			continue
		}
		b.WriteString(g.Text)
		prevEnd = math.Max(prevEnd, g.Upright.MaxX)
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}

func endsWithSpace(s string) bool {
	return s != "" && s[len(s)-1] == ' '
}
