// Package batch drives the extraction pipeline over a set of documents.
package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/drawing-extract/internal/document"
	"github.com/ironsheep/drawing-extract/internal/extract"
	"github.com/ironsheep/drawing-extract/internal/geom"
	"github.com/ironsheep/drawing-extract/internal/sink"
)

// Doc is an open document as seen by the runner.
type Doc interface {
	NumPages() int
	Page(n int) (extract.Page, error)
	Close() error
}

// Opener opens the document at path.
type Opener func(path string) (Doc, error)

// OpenPDF opens a PDF with the document package.
func OpenPDF(path string) (Doc, error) {
	d, err := document.Open(path)
	if err != nil {
		return nil, err
	}
	return pdfDoc{d}, nil
}

type pdfDoc struct {
	*document.Document
}

func (d pdfDoc) Page(n int) (extract.Page, error) {
	p, err := d.Document.Page(n)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// OpenError reports a document that could not be opened. It halts the batch.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// Stats summarizes a run.
type Stats struct {
	Documents int
	Pages     int
	Records   int

	// Aborted lists documents cut short by a page that could not be processed.
	Aborted []string
}

// Runner processes documents one after another, page by page.
type Runner struct {
	Opener   Opener
	Pipeline *extract.Pipeline

	// Sink, when set, receives each page that produced records.
	Sink sink.PageSink

	// Inspect, when set, receives every page raster and its regions.
	Inspect func(path string, page int, img image.Image, regions []geom.Rect)

	Logger logrus.FieldLogger
}

// Run processes paths in order and returns every record collected.
//
// Each document is opened, its pages are run through the pipeline one after
// another and every page that produced records is handed to the sink. The
// collector holds the records of all documents in page order.
//
// Parameters:
//   - ctx: Checked between documents; a cancelled context stops the run
//   - paths: PDF files to process, in order
//
// Returns:
//   - *extract.Collector: Every record gathered, including those collected
//     before a failure
//   - Stats: Documents, pages and records processed, and aborted documents
//   - error: The reason the run stopped early, or nil
//
// Errors:
//   - *OpenError: A document could not be opened; the run stops there
//   - Sink errors are returned as is and stop the run
//   - ctx.Err() when the context is cancelled
//
// A page that cannot be rendered is not an error of the run: the rest of its
// document is skipped, the document is listed in Stats.Aborted and the run
// moves on.
//
// # Example Usage
//
//	r := &batch.Runner{Sink: sink.NewTextFileSink("out"), Logger: log}
//	records, stats, err := r.Run(ctx, paths)
//	if err != nil {
//	    return err
//	}
//	log.Infof("%d records from %d pages", records.Len(), stats.Pages)
func (r *Runner) Run(ctx context.Context, paths []string) (*extract.Collector, Stats, error) {
	c := &extract.Collector{}
	var stats Stats
	log := r.logger()

	open := r.Opener
	if open == nil {
		open = OpenPDF
	}
	pipeline := r.Pipeline
	if pipeline == nil {
		pipeline = extract.NewPipeline(1.0, r.Logger)
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return c, stats, err
		}

		doc, err := open(path)
		if err != nil {
			return c, stats, &OpenError{Path: path, Err: err}
		}

		pages, records, err := r.runDocument(pipeline, path, doc, c)
		if closeErr := doc.Close(); closeErr != nil {
			log.WithError(closeErr).WithField("document", path).Warn("closing document")
		}

		stats.Documents++
		stats.Pages += pages
		stats.Records += records

		if err != nil {
			var sinkErr *sinkError
			if errors.As(err, &sinkErr) {
				return c, stats, sinkErr.Err
			}
			log.WithError(err).WithField("document", path).Warn("document aborted")
			stats.Aborted = append(stats.Aborted, path)
		}
	}

	return c, stats, nil
}

type sinkError struct{ Err error }

func (e *sinkError) Error() string { return e.Err.Error() }

func (r *Runner) runDocument(base *extract.Pipeline, path string, doc Doc, c *extract.Collector) (pages, records int, err error) {
	log := r.logger().WithField("document", path)
	log.WithField("pages", doc.NumPages()).Info("processing document")

	pipeline := *base
	if r.Inspect != nil {
		pipeline.Inspect = func(n int, img image.Image, regions []geom.Rect) {
			r.Inspect(path, n, img, regions)
		}
	}

	for n := 1; n <= doc.NumPages(); n++ {
		page, err := doc.Page(n)
		if err != nil {
			return pages, records, err
		}

		result, err := pipeline.ProcessPage(path, page, c)
		if err != nil {
			return pages, records, err
		}
		pages++

		if len(result.Records) == 0 {
			continue
		}
		records += len(result.Records)

		log.WithFields(logrus.Fields{
			"page":    n,
			"records": len(result.Records),
			"dwg":     result.DrawingNumber,
		}).Debug("page extracted")

		if r.Sink == nil {
			continue
		}
		err = r.Sink.WritePage(extract.PageRecords{
			Source:           path,
			Page:             n,
			DrawingNumber:    result.DrawingNumber,
			HasDrawingNumber: result.HasDrawingNumber,
			Records:          result.Records,
		})
		if err != nil {
			return pages, records, &sinkError{Err: err}
		}
	}

	return pages, records, nil
}

func (r *Runner) logger() logrus.FieldLogger {
	if r.Logger != nil {
		return r.Logger
	}
	return discard
}

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()
