// Package sink writes extracted records to their output formats.
//
// Two formats are supported: a single workbook with one row per record
// (WorkbookSink) and one plain-text file per drawing (TextFileSink). Both
// receive records page by page through the Sink interface; the workbook is only
// written when the sink is closed.
package sink

import "github.com/ironsheep/drawing-extract/internal/extract"

// PageSink receives the records of one page at a time.
type PageSink interface {
	WritePage(page extract.PageRecords) error
}

// Sink is a PageSink that must be closed after the last page.
type Sink interface {
	PageSink
	Close() error
}

var (
	_ Sink = (*WorkbookSink)(nil)
	_ Sink = (*TextFileSink)(nil)
)
