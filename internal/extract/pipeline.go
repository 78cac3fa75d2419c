package extract

import (
	"image"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/drawing-extract/internal/detection"
	"github.com/ironsheep/drawing-extract/internal/geom"
)

// Page is the view of a document page the pipeline needs.
type Page interface {
	// Number returns the 1-based page number.
	Number() int

	// Render rasterizes the whole page at scale pixels per point.
	Render(scale float64) (image.Image, error)

	// Text returns the full page text.
	Text() (string, error)

	// TextIn returns the text confined to r, given in page space.
	TextIn(r geom.Rect) (string, error)
}

// InspectFunc receives the raster of a page and the pixel-space regions found on
// it, before the raster is discarded.
type InspectFunc func(page int, img image.Image, regions []geom.Rect)

// Pipeline extracts records from one page at a time.
type Pipeline struct {
	// Scale is the rasterization scale in pixels per point. 1.0 renders at 72 DPI.
	Scale float64

	// Segment configures region detection.
	Segment detection.Options

	// Logger receives per-page diagnostics. Nil discards them.
	Logger logrus.FieldLogger

	// Inspect, when set, is called after segmentation.
	Inspect InspectFunc
}

// NewPipeline returns a pipeline with default segmentation settings.
func NewPipeline(scale float64, logger logrus.FieldLogger) *Pipeline {
	return &Pipeline{
		Scale:   scale,
		Segment: detection.DefaultOptions(),
		Logger:  logger,
	}
}

// PageResult is the outcome of running the pipeline on one page.
type PageResult struct {
	Page int `json:"page"`

	// Regions holds every box found by the segmenter, in pixel space.
	Regions []geom.Rect `json:"regions"`

	// Accepted holds the regions whose text passed the filters, in page space.
	Accepted []Accepted `json:"accepted"`

	DrawingNumber    string `json:"drawing_number"`
	HasDrawingNumber bool   `json:"has_drawing_number"`

	Records []Record `json:"records"`
}

// Run rasterizes, segments, extracts and correlates one page.
//
// The steps are:
//  1. Render the page at p.Scale pixels per point
//  2. Segment the raster into dark regions (pixel space)
//  3. Map each region to page space and read the text inside it
//  4. Keep regions whose text passes FilterRegionText, in region order
//  5. When any region was kept, read the drawing number from the page text
//  6. Pair every kept region with the drawing number
//
// Parameters:
//   - page: The page to process; its Number tags the records
//
// Returns:
//   - *PageResult: Every region found, the accepted ones and the records
//   - error: The render error, if the page could not be rasterized
//
// Errors:
//   - A render failure is returned as is and means no records for the page
//   - A text layer failure stops region extraction for the page and is logged
//   - A failure reading the full page text leaves the drawing number absent
//
// # Example Usage
//
//	p := extract.NewPipeline(2.0, log)
//	result, err := p.Run(page)
//	if err != nil {
//	    return err
//	}
//	for _, rec := range result.Records {
//	    fmt.Println(rec.DrawingNumber, rec.Text)
//	}
func (p *Pipeline) Run(page Page) (*PageResult, error) {
	log := p.logger().WithField("page", page.Number())

	img, err := page.Render(p.Scale)
	if err != nil {
		return nil, err
	}

	regions := detection.SegmentWith(img, p.Segment)
	if p.Inspect != nil {
		p.Inspect(page.Number(), img, regions)
	}
	log.WithField("regions", len(regions)).Debug("segmented page")

	result := &PageResult{
		Page:     page.Number(),
		Regions:  regions,
		Accepted: make([]Accepted, 0),
		Records:  make([]Record, 0),
	}

	for _, px := range regions {
		box := px.ToPage(p.Scale)
		text, err := page.TextIn(box)
		if err != nil {
			log.WithError(err).Warn("text layer unreadable, skipping remaining regions")
			break
		}

		filtered, ok := FilterRegionText(text)
		if !ok {
			continue
		}
		result.Accepted = append(result.Accepted, Accepted{Region: box, Text: filtered})
	}

	if len(result.Accepted) == 0 {
		return result, nil
	}

	pageText, err := page.Text()
	if err != nil {
		log.WithError(err).Warn("page text unreadable, drawing number left blank")
	}
	result.DrawingNumber, result.HasDrawingNumber = DrawingNumber(pageText)

	result.Records = Correlate(result.DrawingNumber, result.HasDrawingNumber, result.Accepted)
	for i := range result.Records {
		result.Records[i].Page = page.Number()
	}

	log.WithFields(logrus.Fields{
		"accepted": len(result.Accepted),
		"dwg":      result.DrawingNumber,
	}).Debug("extracted records")

	return result, nil
}

// ProcessPage runs the pipeline on page, tags its records with source and
// appends them to c. The result carries the tagged records.
func (p *Pipeline) ProcessPage(source string, page Page, c *Collector) (*PageResult, error) {
	result, err := p.Run(page)
	if err != nil {
		return nil, err
	}

	for i := range result.Records {
		result.Records[i].Source = source
	}
	c.Add(result.Records...)
	return result, nil
}

func (p *Pipeline) logger() logrus.FieldLogger {
	if p.Logger != nil {
		return p.Logger
	}
	return discard
}

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()
