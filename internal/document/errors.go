package document

import "fmt"

// RenderError reports a page that could not be rasterized.
type RenderError struct {
	Page int // 1-based page number
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render page %d: %v", e.Page, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// TextError reports a page whose text layer could not be read.
type TextError struct {
	Page int // 1-based page number
	Err  error
}

func (e *TextError) Error() string {
	return fmt.Sprintf("read text of page %d: %v", e.Page, e.Err)
}

func (e *TextError) Unwrap() error { return e.Err }
