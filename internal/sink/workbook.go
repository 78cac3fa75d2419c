package sink

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ironsheep/drawing-extract/internal/extract"
)

// Workbook layout.
const (
	DefaultSheet    = "Sheet1"
	DrawingHeader   = "DWG Number"
	TextHeader      = "Text"
	DefaultWorkbook = "extracted_data.xlsx"
	drawingColWidth = 16
	textColWidth    = 80
)

// WorkbookSink writes records to a single-sheet spreadsheet with the columns
// "DWG Number" and "Text". Records are buffered until Close.
type WorkbookSink struct {
	Path string

	records []extract.Record
}

// NewWorkbookSink returns a sink writing to path, or DefaultWorkbook when path
// is empty.
func NewWorkbookSink(path string) *WorkbookSink {
	if path == "" {
		path = DefaultWorkbook
	}
	return &WorkbookSink{Path: path}
}

// WritePage buffers the page's records.
func (w *WorkbookSink) WritePage(page extract.PageRecords) error {
	w.records = append(w.records, page.Records...)
	return nil
}

// Close writes every buffered record to Path.
func (w *WorkbookSink) Close() error {
	return w.WriteRecords(w.records)
}

// WriteRecords writes records to Path, replacing any existing file. A record
// without a drawing number leaves its first cell empty.
func (w *WorkbookSink) WriteRecords(records []extract.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeHeader(f); err != nil {
		return err
	}

	for i, r := range records {
		row := i + 2
		if r.HasDrawingNumber {
			if err := setCell(f, 1, row, r.DrawingNumber); err != nil {
				return err
			}
		}
		if err := setCell(f, 2, row, r.Text); err != nil {
			return err
		}
	}

	if err := f.SaveAs(w.Path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", w.Path, err)
	}
	return nil
}

func writeHeader(f *excelize.File) error {
	if err := setCell(f, 1, 1, DrawingHeader); err != nil {
		return err
	}
	if err := setCell(f, 2, 1, TextHeader); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	if err := f.SetCellStyle(DefaultSheet, "A1", "B1", style); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	if err := f.SetColWidth(DefaultSheet, "A", "A", drawingColWidth); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}
	if err := f.SetColWidth(DefaultSheet, "B", "B", textColWidth); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellStr(DefaultSheet, cell, value); err != nil {
		return fmt.Errorf("writing cell %s: %w", cell, err)
	}
	return nil
}
