package sink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ironsheep/drawing-extract/internal/extract"
)

func page(dwg string, records ...extract.Record) extract.PageRecords {
	p := extract.PageRecords{DrawingNumber: dwg, HasDrawingNumber: dwg != ""}
	for i := range records {
		records[i].DrawingNumber = dwg
		records[i].HasDrawingNumber = dwg != ""
	}
	p.Records = records
	return p
}

func record(filtered string) extract.Record {
	return extract.Record{Text: extract.Sanitize(filtered), Filtered: filtered}
}

func TestWorkbookSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	w := NewWorkbookSink(path)

	if err := w.WritePage(page("12-345", record("P100 SCHEDULE\nP100 10FT WOOD"), record("P101 STEEL 40FT CLASS 2"))); err != nil {
		t.Fatalf("WritePage() error: %v", err)
	}
	if err := w.WritePage(page("", record("P7 PROPOSED SERVICE ROUTE"))); err != nil {
		t.Fatalf("WritePage() error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(DefaultSheet)
	if err != nil {
		t.Fatalf("reading rows: %v", err)
	}

	want := [][]string{
		{"DWG Number", "Text"},
		{"12-345", "P100 SCHEDULEP100 10FT WOOD"},
		{"12-345", "P101 STEEL 40FT CLASS 2"},
		{"", "P7 PROPOSED SERVICE ROUTE"},
	}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d: %v", len(want), len(rows), rows)
	}
	for i := range want {
		for j := range want[i] {
			if rows[i][j] != want[i][j] {
				t.Errorf("cell (%d,%d) = %q, want %q", i, j, rows[i][j], want[i][j])
			}
		}
	}
}

func TestWorkbookSink_EmptyRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := NewWorkbookSink(path).Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(DefaultSheet)
	if err != nil {
		t.Fatalf("reading rows: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected header row only, got %v", rows)
	}
}

func TestWorkbookSink_DefaultPath(t *testing.T) {
	if got := NewWorkbookSink("").Path; got != DefaultWorkbook {
		t.Errorf("default path = %q, want %q", got, DefaultWorkbook)
	}
}

func TestWorkbookSink_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "out.xlsx")
	if err := NewWorkbookSink(path).WriteRecords(nil); err == nil {
		t.Error("expected error saving into a missing directory")
	}
}

func TestTextFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "drawings")
	s := NewTextFileSink(dir)

	if err := s.WritePage(page("12-345", record("P100 SCHEDULE\nP100 10FT WOOD"), record("P101 # STEEL 40FT"))); err != nil {
		t.Fatalf("WritePage() error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "12-345.txt"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	want := "Box 1:\nP100 SCHEDULE\nP100 10FT WOOD\n\nBox 2:\nP101 # STEEL 40FT\n\n"
	if string(data) != want {
		t.Errorf("file content = %q, want %q", data, want)
	}
}

func TestTextFileSink_MissingDrawingNumber(t *testing.T) {
	dir := t.TempDir()
	if err := NewTextFileSink(dir).WritePage(page("", record("P1 SOMETHING LONG ENOUGH"))); err != nil {
		t.Fatalf("WritePage() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "None.txt")); err != nil {
		t.Errorf("expected None.txt: %v", err)
	}
}

func TestTextFileSink_EmptyPage(t *testing.T) {
	dir := t.TempDir()
	if err := NewTextFileSink(dir).WritePage(page("1-1")); err != nil {
		t.Fatalf("WritePage() error: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no files, got %d", len(entries))
	}
}

func TestTextFileSink_SameDrawingOverwrites(t *testing.T) {
	dir := t.TempDir()
	s := NewTextFileSink(dir)

	if err := s.WritePage(page("5-5", record("FIRST"))); err != nil {
		t.Fatal(err)
	}
	if err := s.WritePage(page("5-5", record("SECOND"))); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "5-5.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Box 1:\nSECOND\n\n" {
		t.Errorf("expected second page to overwrite, got %q", data)
	}
}

func TestFileName(t *testing.T) {
	if got := FileName(page("99-100")); got != "99-100.txt" {
		t.Errorf("FileName() = %q", got)
	}
	if got := FileName(page("")); got != "None.txt" {
		t.Errorf("FileName() = %q", got)
	}
}
