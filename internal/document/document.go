package document

import (
	"fmt"
	"image"
	"os"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"

	"github.com/ironsheep/drawing-extract/internal/geom"
)

// PointsPerInch is the resolution of PDF page space.
const PointsPerInch = 72.0

// Document is an open PDF. It holds a MuPDF handle for rendering and full-page
// text, and a ledongthuc reader for positioned glyphs.
//
// A Document is not safe for concurrent use.
type Document struct {
	path   string
	fz     *fitz.Document
	file   *os.File
	reader *pdf.Reader
}

// Open opens the PDF at path with both engines.
func Open(path string) (*Document, error) {
	fz, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		fz.Close()
		return nil, fmt.Errorf("failed to read text layer of %s: %w", path, err)
	}

	return &Document{
		path:   path,
		fz:     fz,
		file:   f,
		reader: reader,
	}, nil
}

// Path returns the path the document was opened from.
func (d *Document) Path() string { return d.path }

// NumPages returns the page count reported by the renderer.
func (d *Document) NumPages() int { return d.fz.NumPage() }

// Page returns page n (1-based).
func (d *Document) Page(n int) (*Page, error) {
	if n < 1 || n > d.NumPages() {
		return nil, fmt.Errorf("page %d out of range 1..%d", n, d.NumPages())
	}
	return &Page{doc: d, number: n}, nil
}

// Close releases both engine handles.
func (d *Document) Close() error {
	fzErr := d.fz.Close()
	fileErr := d.file.Close()
	if fzErr != nil {
		return fzErr
	}
	return fileErr
}

// Page is a single page of a Document. The text layer is read on first use and
// kept for the lifetime of the Page.
type Page struct {
	doc    *Document
	number int
	layer  *TextLayer
}

// Number returns the 1-based page number.
func (p *Page) Number() int { return p.number }

// Render rasterizes the full page at scale pixels per point (72*scale DPI).
func (p *Page) Render(scale float64) (image.Image, error) {
	if !(scale > 0) {
		panic(fmt.Sprintf("document: scale must be positive, got %v", scale))
	}

	img, err := p.doc.fz.ImageDPI(p.number-1, PointsPerInch*scale)
	if err != nil {
		return nil, &RenderError{Page: p.number, Err: err}
	}
	if img == nil || img.Bounds().Empty() {
		return nil, &RenderError{Page: p.number, Err: fmt.Errorf("empty raster")}
	}
	return img, nil
}

// Text returns the full text of the page as extracted by MuPDF.
func (p *Page) Text() (string, error) {
	text, err := p.doc.fz.Text(p.number - 1)
	if err != nil {
		return "", &TextError{Page: p.number, Err: err}
	}
	return text, nil
}

// TextIn returns the text confined to r, given in page space.
func (p *Page) TextIn(r geom.Rect) (string, error) {
	layer, err := p.TextLayer()
	if err != nil {
		return "", err
	}
	return layer.In(r), nil
}

// TextLayer returns the positioned glyphs of the page.
func (p *Page) TextLayer() (*TextLayer, error) {
	if p.layer != nil {
		return p.layer, nil
	}

	layer, err := readTextLayer(p.doc.reader, p.number)
	if err != nil {
		return nil, &TextError{Page: p.number, Err: err}
	}
	p.layer = layer
	return layer, nil
}

// readTextLayer collects the glyphs of page n and places them in the frame the
// renderer draws: origin at the top-left of the visible box, page rotation
// applied.
func readTextLayer(reader *pdf.Reader, n int) (layer *TextLayer, err error) {
	// ledongthuc/pdf panics on malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			layer = nil
			err = fmt.Errorf("malformed content stream: %v", r)
		}
	}()

	page := reader.Page(n)
	if page.V.IsNull() {
		return &TextLayer{}, nil
	}

	frame := pageFrame(page.V)
	content := page.Content()

	glyphs := make([]Glyph, 0, len(content.Text))
	for _, t := range content.Text {
		if t.S == "" {
			continue
		}
		x, baseline := frame.Upright(t.X, t.Y)
		g := NewGlyph(x, baseline, t.W, t.FontSize, t.S)
		g.Box = frame.Turn(g.Upright)
		glyphs = append(glyphs, g)
	}

	return &TextLayer{Frame: frame, Glyphs: glyphs}, nil
}
