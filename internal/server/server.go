package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/drawing-extract/internal/batch"
	"github.com/ironsheep/drawing-extract/internal/imaging"
)

// Version is reported in the initialize handshake.
var Version = "dev"

// Server handles MCP protocol communication
type Server struct {
	cache  *imaging.PageCache
	open   batch.Opener
	logger logrus.FieldLogger

	// stamps records the size and modification time of each file whose pages
	// are in the cache.
	stampMu sync.Mutex
	stamps  map[string]fileStamp
}

type fileStamp struct {
	size    int64
	modTime time.Time
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON-RPC error codes used by the server.
const (
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeToolFailure    = -32000
)

// New creates a server that opens PDFs from disk.
func New(logger logrus.FieldLogger) *Server {
	return NewWithOpener(batch.OpenPDF, logger)
}

// NewWithOpener creates a server that opens documents with open.
func NewWithOpener(open batch.Opener, logger logrus.FieldLogger) *Server {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Server{
		cache:  imaging.NewPageCache(),
		open:   open,
		logger: logger,
		stamps: make(map[string]fileStamp),
	}
}

// refresh drops the cached rasters of path when the file has changed since it
// was last seen. Paths that cannot be stat'ed are left alone; opening them
// reports the error.
func (s *Server) refresh(path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	stamp := fileStamp{size: info.Size(), modTime: info.ModTime()}

	s.stampMu.Lock()
	defer s.stampMu.Unlock()

	if old, ok := s.stamps[path]; ok && (old.size != stamp.size || !old.modTime.Equal(stamp.modTime)) {
		s.cache.Evict(path)
		s.logger.WithField("document", path).Debug("document changed, cached pages dropped")
	}
	s.stamps[path] = stamp
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads line-delimited requests from r and writes responses to w until r
// is exhausted.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.WithError(err).Warn("failed to parse request")
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.logger.WithError(err).Error("failed to encode response")
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.logger.WithField("method", req.Method).Debug("request")

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    CodeMethodNotFound,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "drawing-extract-mcp",
				"version": Version,
			},
		},
	}
}
