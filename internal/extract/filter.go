package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinRecordLength is the trimmed length a region's text must exceed.
const MinRecordLength = 20

// Record prefix rules.
const (
	recordPrefix   = "P"
	excludedPrefix = "POLE"
)

// labelWords mark header and label rows inside a schedule box.
var labelWords = []string{"DETAILS", "NUMBER", "NAME"}

// poleToken matches a pole identifier such as P123.
var poleToken = regexp.MustCompile(`\bP\d+\b`)

// allowedPunct is the punctuation kept by Sanitize in addition to letters and digits.
const allowedPunct = " ,._-/:;()"

// Accept reports whether text looks like a pole-schedule record:
//   - trimmed text starts with "P"
//   - trimmed text is longer than MinRecordLength characters
//   - trimmed text does not start with "POLE"
//   - text contains a token like "P123"
func Accept(text string) bool {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, recordPrefix) {
		return false
	}
	if utf8.RuneCountInString(trimmed) <= MinRecordLength {
		return false
	}
	if strings.HasPrefix(trimmed, excludedPrefix) {
		return false
	}
	return poleToken.MatchString(text)
}

// DropLabelLines removes every line containing DETAILS, NUMBER or NAME and
// joins the remaining lines with "\n". Applying it twice changes nothing.
func DropLabelLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if isLabelLine(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func isLabelLine(line string) bool {
	for _, w := range labelWords {
		if strings.Contains(line, w) {
			return true
		}
	}
	return false
}

// Sanitize keeps letters, digits and the characters ` ,._-/:;()`. Everything
// else, including newlines and tabs, is removed.
func Sanitize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || strings.ContainsRune(allowedPunct, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FilterRegionText applies the record filters to the text found in one region.
// On acceptance it returns the trimmed text with label lines removed; the caller
// sanitizes it for storage.
func FilterRegionText(text string) (string, bool) {
	if !Accept(text) {
		return "", false
	}
	return DropLabelLines(strings.TrimSpace(text)), true
}
