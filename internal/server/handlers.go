package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/drawing-extract/internal/batch"
	"github.com/ironsheep/drawing-extract/internal/detection"
	"github.com/ironsheep/drawing-extract/internal/extract"
	"github.com/ironsheep/drawing-extract/internal/geom"
	"github.com/ironsheep/drawing-extract/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "drawing_extract_page").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, CodeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.WithError(err).WithField("tool", params.Name).Warn("tool failed")
		return s.errorResponse(req.ID, CodeToolFailure, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Opens the document and the requested page
//  4. Renders through the page cache and runs the extraction steps
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Document information
	case "drawing_page_count":
		return s.handlePageCount(args)

	// Segmentation
	case "drawing_detect_regions":
		return s.handleDetectRegions(args)
	case "drawing_region_overlay":
		return s.handleRegionOverlay(args)
	case "drawing_crop_region":
		return s.handleCropRegion(args)

	// Extraction
	case "drawing_drawing_number":
		return s.handleDrawingNumber(args)
	case "drawing_extract_page":
		return s.handleExtractPage(args)
	case "drawing_extract_document":
		return s.handleExtractDocument(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// pageArgs are the arguments shared by every per-page tool.
type pageArgs struct {
	Path      string  `json:"path"`
	Page      int     `json:"page"`
	Scale     float64 `json:"scale"`
	Threshold *int    `json:"threshold"`
	MinWidth  float64 `json:"min_width"`
	MinHeight float64 `json:"min_height"`
}

func (a *pageArgs) normalize() error {
	if a.Path == "" {
		return errors.New("path is required")
	}
	if a.Page == 0 {
		a.Page = 1
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	if !(a.Scale > 0) {
		return fmt.Errorf("scale must be positive, got %v", a.Scale)
	}
	if a.Threshold != nil && (*a.Threshold < 0 || *a.Threshold > 255) {
		return fmt.Errorf("threshold must be within 0-255, got %d", *a.Threshold)
	}
	if a.MinWidth < 0 || a.MinHeight < 0 {
		return fmt.Errorf("minimum region size must not be negative, got %vx%v", a.MinWidth, a.MinHeight)
	}
	return nil
}

func (a *pageArgs) segmentOptions() detection.Options {
	opts := detection.DefaultOptions()
	if a.Threshold != nil {
		opts.Threshold = uint8(*a.Threshold)
	}
	opts.MinWidth = a.MinWidth
	opts.MinHeight = a.MinHeight
	return opts
}

func (s *Server) pipeline(a *pageArgs) *extract.Pipeline {
	p := extract.NewPipeline(a.Scale, s.logger.WithField("document", a.Path))
	p.Segment = a.segmentOptions()
	return p
}

// cachedPage renders through the server's page cache.
type cachedPage struct {
	extract.Page
	path  string
	cache *imaging.PageCache
}

func (p cachedPage) Render(scale float64) (image.Image, error) {
	key := imaging.PageKey{Path: p.path, Page: p.Number(), Scale: scale}
	return p.cache.Load(key, func() (image.Image, error) {
		return p.Page.Render(scale)
	})
}

// withPage opens the document named by a, and calls fn with the requested page.
func (s *Server) withPage(a *pageArgs, fn func(page extract.Page) (interface{}, error)) (interface{}, error) {
	s.refresh(a.Path)
	doc, err := s.open(a.Path)
	if err != nil {
		return nil, &batch.OpenError{Path: a.Path, Err: err}
	}
	defer doc.Close()

	if a.Page < 1 || a.Page > doc.NumPages() {
		return nil, fmt.Errorf("page %d out of range (document has %d pages)", a.Page, doc.NumPages())
	}

	page, err := doc.Page(a.Page)
	if err != nil {
		return nil, err
	}
	return fn(cachedPage{Page: page, path: a.Path, cache: s.cache})
}

func decodePageArgs(args json.RawMessage) (*pageArgs, error) {
	var a pageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := a.normalize(); err != nil {
		return nil, err
	}
	return &a, nil
}

// === Document Information Handlers ===

type pageCountArgs struct {
	Path string `json:"path"`
}

// PageCountResult reports the number of pages in a document.
type PageCountResult struct {
	Path  string `json:"path"`
	Pages int    `json:"pages"`
}

func (s *Server) handlePageCount(args json.RawMessage) (interface{}, error) {
	var a pageCountArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}

	doc, err := s.open(a.Path)
	if err != nil {
		return nil, &batch.OpenError{Path: a.Path, Err: err}
	}
	defer doc.Close()

	return &PageCountResult{Path: a.Path, Pages: doc.NumPages()}, nil
}

// === Segmentation Handlers ===

// DetectedRegion is one segmented box in both coordinate spaces.
type DetectedRegion struct {
	Index int       `json:"index"`
	Pixel geom.Rect `json:"pixel"`
	Page  geom.Rect `json:"page"`
}

// DetectRegionsResult lists the regions found on a page.
type DetectRegionsResult struct {
	Page    int              `json:"page"`
	Scale   float64          `json:"scale"`
	Width   int              `json:"width"`
	Height  int              `json:"height"`
	Regions []DetectedRegion `json:"regions"`
}

func (s *Server) handleDetectRegions(args json.RawMessage) (interface{}, error) {
	a, err := decodePageArgs(args)
	if err != nil {
		return nil, err
	}

	return s.withPage(a, func(page extract.Page) (interface{}, error) {
		img, err := page.Render(a.Scale)
		if err != nil {
			return nil, err
		}

		regions := detection.SegmentWith(img, a.segmentOptions())
		result := &DetectRegionsResult{
			Page:    a.Page,
			Scale:   a.Scale,
			Width:   img.Bounds().Dx(),
			Height:  img.Bounds().Dy(),
			Regions: make([]DetectedRegion, 0, len(regions)),
		}
		for i, r := range regions {
			result.Regions = append(result.Regions, DetectedRegion{
				Index: i + 1,
				Pixel: r,
				Page:  r.ToPage(a.Scale),
			})
		}
		return result, nil
	})
}

func (s *Server) handleRegionOverlay(args json.RawMessage) (interface{}, error) {
	a, err := decodePageArgs(args)
	if err != nil {
		return nil, err
	}

	return s.withPage(a, func(page extract.Page) (interface{}, error) {
		img, err := page.Render(a.Scale)
		if err != nil {
			return nil, err
		}
		return imaging.EncodeOverlay(img, detection.SegmentWith(img, a.segmentOptions()))
	})
}

type cropRegionArgs struct {
	pageArgs
	Index   int `json:"index"`
	Padding int `json:"padding"`
}

func (s *Server) handleCropRegion(args json.RawMessage) (interface{}, error) {
	var a cropRegionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := a.normalize(); err != nil {
		return nil, err
	}
	if a.Padding < 0 {
		return nil, fmt.Errorf("padding must not be negative, got %d", a.Padding)
	}

	return s.withPage(&a.pageArgs, func(page extract.Page) (interface{}, error) {
		img, err := page.Render(a.Scale)
		if err != nil {
			return nil, err
		}

		regions := detection.SegmentWith(img, a.segmentOptions())
		if a.Index < 1 || a.Index > len(regions) {
			return nil, fmt.Errorf("region %d out of range (page has %d regions)", a.Index, len(regions))
		}
		return imaging.CropRegion(img, regions[a.Index-1], a.Padding, 1.0)
	})
}

// === Extraction Handlers ===

// DrawingNumberResult reports the drawing identifier of a page.
type DrawingNumberResult struct {
	Page          int    `json:"page"`
	DrawingNumber string `json:"drawing_number"`
	Found         bool   `json:"found"`
}

func (s *Server) handleDrawingNumber(args json.RawMessage) (interface{}, error) {
	a, err := decodePageArgs(args)
	if err != nil {
		return nil, err
	}

	return s.withPage(a, func(page extract.Page) (interface{}, error) {
		text, err := page.Text()
		if err != nil {
			return nil, err
		}
		dwg, found := extract.DrawingNumber(text)
		return &DrawingNumberResult{Page: a.Page, DrawingNumber: dwg, Found: found}, nil
	})
}

func (s *Server) handleExtractPage(args json.RawMessage) (interface{}, error) {
	a, err := decodePageArgs(args)
	if err != nil {
		return nil, err
	}

	return s.withPage(a, func(page extract.Page) (interface{}, error) {
		return s.pipeline(a).Run(page)
	})
}

// ExtractDocumentResult holds every record of a document.
type ExtractDocumentResult struct {
	Path    string           `json:"path"`
	Pages   int              `json:"pages"`
	Records []extract.Record `json:"records"`

	// AbortedAt is the page that could not be rendered, if any. Records from
	// earlier pages are still reported.
	AbortedAt int    `json:"aborted_at,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) handleExtractDocument(args json.RawMessage) (interface{}, error) {
	var a pageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := a.normalize(); err != nil {
		return nil, err
	}

	s.refresh(a.Path)
	doc, err := s.open(a.Path)
	if err != nil {
		return nil, &batch.OpenError{Path: a.Path, Err: err}
	}
	defer doc.Close()

	p := s.pipeline(&a)
	var c extract.Collector
	result := &ExtractDocumentResult{Path: a.Path, Pages: doc.NumPages()}

	for n := 1; n <= doc.NumPages(); n++ {
		page, err := doc.Page(n)
		if err == nil {
			_, err = p.ProcessPage(a.Path, cachedPage{Page: page, path: a.Path, cache: s.cache}, &c)
		}
		if err != nil {
			result.AbortedAt = n
			result.Error = err.Error()
			break
		}
	}

	result.Records = c.Records()
	return result, nil
}
