package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/drawing-extract/internal/extract"
)

// MissingDrawingNumber names the file of a page without a drawing number.
const MissingDrawingNumber = "None"

// TextFileSink writes one file per page, named after the page's drawing
// number. A later page with the same drawing number overwrites the file.
type TextFileSink struct {
	Dir string
}

// NewTextFileSink returns a sink writing into dir, or the working directory
// when dir is empty.
func NewTextFileSink(dir string) *TextFileSink {
	if dir == "" {
		dir = "."
	}
	return &TextFileSink{Dir: dir}
}

// FileName returns the file a page's records are written to.
func FileName(page extract.PageRecords) string {
	name := MissingDrawingNumber
	if page.HasDrawingNumber {
		name = page.DrawingNumber
	}
	return name + ".txt"
}

// WritePage writes "Box i:" entries for each record, numbered from 1. Pages
// without records produce no file.
func (s *TextFileSink) WritePage(page extract.PageRecords) error {
	if len(page.Records) == 0 {
		return nil
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(s.Dir, FileName(page))
	if err := os.WriteFile(path, []byte(FormatBoxes(page.Records)), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Close is a no-op; files are written as pages arrive.
func (s *TextFileSink) Close() error { return nil }

// FormatBoxes renders records as "Box i:\n<text>\n\n" entries using the
// filtered text with its line breaks.
func FormatBoxes(records []extract.Record) string {
	var b strings.Builder
	for i, r := range records {
		fmt.Fprintf(&b, "Box %d:\n%s\n\n", i+1, r.Filtered)
	}
	return b.String()
}
