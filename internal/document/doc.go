// Package document opens drawing PDFs and exposes each page as a raster, a
// full-page text string and a positioned text layer.
//
// # Engines
//
// Two libraries read the same file:
//   - MuPDF (github.com/gen2brain/go-fitz) renders pages to RGBA images and
//     extracts full-page text.
//   - github.com/ledongthuc/pdf decodes the content stream into positioned
//     glyphs, which back TextIn.
//
// # Coordinates
//
// Page space is PDF points with the origin at the top-left corner of the
// MediaBox and Y increasing downward. Glyph positions from the content stream
// (origin bottom-left, Y up) are flipped on load. A page rendered at scale s has
// s pixels per point, so pixel boxes divided by s land in page space.
//
// # Errors
//
// Render failures return *RenderError; text layer failures, including panics
// raised by the content stream decoder, return *TextError.
package document
