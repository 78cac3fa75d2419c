// Package server implements the MCP (Model Context Protocol) server for drawing
// extraction tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the extraction
// pipeline step by step, so that a client can inspect how a drawing set is
// segmented and which regions become records.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Document information:
//   - drawing_page_count: Number of pages in a PDF
//
// Segmentation:
//   - drawing_detect_regions: Region boxes in pixel and page space
//   - drawing_region_overlay: Page raster with regions outlined
//   - drawing_crop_region: One region as PNG
//
// Extraction:
//   - drawing_drawing_number: Drawing identifier of a page
//   - drawing_extract_page: Records of one page
//   - drawing_extract_document: Records of every page
//
// # Page Caching
//
// Rendered pages are cached by (path, page, scale) for the lifetime of the
// process, so inspecting the same page with several tools rasterizes it once.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
package server
