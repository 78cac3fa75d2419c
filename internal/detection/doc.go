// Package detection finds dark rectangular regions ("black boxes") on rendered
// drawing pages.
//
// # Pipeline
//
//  1. Luminance: the raster is converted to gray with BT.601 weights (bild
//     returns it as RGBA with R=G=B).
//  2. Threshold: samples below the cutoff (200 by default) become dark in a Mask.
//  3. Contours: marching squares traces the iso-line at 0.5 between dark (1) and
//     light (0) samples, linking cell segments into open or closed polylines.
//  4. Boxes: each contour is reduced to the per-axis min/max of its vertices.
//
// Zero-width or zero-height boxes are dropped and the rest are sorted by top edge,
// then left edge, so results are reproducible.
//
// # Coordinate System
//
// Results are in pixel space of the raster that was segmented:
//   - Origin (0, 0) at the centre of the top-left sample
//   - X increases rightward, Y increases downward
//   - Contour vertices fall half-way between samples, so a dark block covering
//     columns 20..59 spans X 19.5..59.5
//
// # Limitations
//
// Only axis-aligned boxes are meaningful. Every dark blob (glyphs, rules, hatch
// patterns) yields a contour; callers filter boxes by the text they contain.
package detection
