package extract

import "github.com/ironsheep/drawing-extract/internal/geom"

// Accepted is a region whose text passed the record filters.
type Accepted struct {
	// Region is the box in page space.
	Region geom.Rect

	// Text is the trimmed region text with label lines removed, not yet sanitized.
	Text string
}

// Record is one extracted row: a drawing number paired with a region's text.
type Record struct {
	// DrawingNumber is the page's drawing identifier; empty when HasDrawingNumber
	// is false.
	DrawingNumber    string `json:"drawing_number"`
	HasDrawingNumber bool   `json:"has_drawing_number"`

	// Text is the sanitized region text.
	Text string `json:"text"`

	// Filtered is the region text before sanitizing, line breaks intact.
	Filtered string `json:"filtered"`

	Source string    `json:"source,omitempty"`
	Page   int       `json:"page"`
	Region geom.Rect `json:"region"`
}

// Correlate pairs every accepted region with the page's drawing number.
func Correlate(drawingNumber string, found bool, accepted []Accepted) []Record {
	if !found {
		drawingNumber = ""
	}

	records := make([]Record, 0, len(accepted))
	for _, a := range accepted {
		records = append(records, Record{
			DrawingNumber:    drawingNumber,
			HasDrawingNumber: found,
			Text:             Sanitize(a.Text),
			Filtered:         a.Text,
			Region:           a.Region,
		})
	}
	return records
}

// Collector accumulates records in page order. It is owned by a single driver
// and is not safe for concurrent use.
type Collector struct {
	records []Record
}

// Add appends records.
func (c *Collector) Add(records ...Record) {
	c.records = append(c.records, records...)
}

// Len returns the number of records collected.
func (c *Collector) Len() int { return len(c.records) }

// Records returns a copy of the collected records.
func (c *Collector) Records() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// PageRecords groups the records of one page.
type PageRecords struct {
	Source           string
	Page             int
	DrawingNumber    string
	HasDrawingNumber bool
	Records          []Record
}

// ByPage groups records by (source, page) in the order pages were first seen.
func (c *Collector) ByPage() []PageRecords {
	type key struct {
		source string
		page   int
	}

	index := make(map[key]int)
	groups := make([]PageRecords, 0)
	for _, r := range c.records {
		k := key{r.Source, r.Page}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, PageRecords{
				Source:           r.Source,
				Page:             r.Page,
				DrawingNumber:    r.DrawingNumber,
				HasDrawingNumber: r.HasDrawingNumber,
			})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}
