package extract

import "regexp"

// drawingNumberPattern matches "DWG NO. 12-345" and its spacing and case variants.
var drawingNumberPattern = regexp.MustCompile(`(?i)dwg\.?\s*no\.?\s*(\d+-\d+)`)

// DrawingNumber returns the first drawing number found in pageText. When a page
// carries several candidates the first one wins.
func DrawingNumber(pageText string) (string, bool) {
	m := drawingNumberPattern.FindStringSubmatch(pageText)
	if m == nil {
		return "", false
	}
	return m[1], true
}
