package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the PDF file",
	}
}

func pageProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "1-based page number",
		"default":     1,
		"minimum":     1,
	}
}

func scaleProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": "Rasterization scale in pixels per point (1.0 = 72 DPI)",
		"default":     1.0,
	}
}

func thresholdProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Intensity below which a pixel counts as dark (0-255)",
		"default":     200,
		"minimum":     0,
		"maximum":     255,
	}
}

func minSizeProperty(axis string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": "Drop regions narrower than this many pixels along " + axis,
		"default":     0,
		"minimum":     0,
	}
}

// pageSchema is the input schema shared by the per-page tools, extended with
// extra properties.
func pageSchema(extra map[string]interface{}, required ...string) map[string]interface{} {
	props := map[string]interface{}{
		"path":       pathProperty(),
		"page":       pageProperty(),
		"scale":      scaleProperty(),
		"threshold":  thresholdProperty(),
		"min_width":  minSizeProperty("x"),
		"min_height": minSizeProperty("y"),
	}
	for k, v := range extra {
		props[k] = v
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   append([]string{"path"}, required...),
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Document information
		{
			Name:        "drawing_page_count",
			Description: "Return the number of pages in a PDF drawing set.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Segmentation
		{
			Name:        "drawing_detect_regions",
			Description: "Render a page and return the bounding box of every dark region, in pixel space and in page space (points, top-left origin).",
			InputSchema: pageSchema(nil),
		},
		{
			Name:        "drawing_region_overlay",
			Description: "Render a page with every detected region outlined and numbered. Returns a base64-encoded PNG.",
			InputSchema: pageSchema(nil),
		},
		{
			Name:        "drawing_crop_region",
			Description: "Crop one detected region from the rendered page and return it as a base64-encoded PNG.",
			InputSchema: pageSchema(map[string]interface{}{
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "1-based region index as listed by drawing_detect_regions",
					"minimum":     1,
				},
				"padding": map[string]interface{}{
					"type":        "integer",
					"description": "Extra pixels to include around the region",
					"default":     0,
					"minimum":     0,
				},
			}, "index"),
		},

		// Extraction
		{
			Name:        "drawing_drawing_number",
			Description: "Find the drawing number (the first \"DWG. NO. <digits>-<digits>\" pattern) in a page's text.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"page": pageProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "drawing_extract_page",
			Description: "Run the full extraction on one page: segment, read each region's text, keep pole-schedule records and pair them with the drawing number.",
			InputSchema: pageSchema(nil),
		},
		{
			Name:        "drawing_extract_document",
			Description: "Run the extraction on every page of a PDF and return all records in page order. A page that cannot be rendered stops the document; earlier records are still returned.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty(),
					"scale":      scaleProperty(),
					"threshold":  thresholdProperty(),
					"min_width":  minSizeProperty("x"),
					"min_height": minSizeProperty("y"),
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
