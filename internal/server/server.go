package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/ocrtools/paddleocr-mcp/internal/config"
	"github.com/ocrtools/paddleocr-mcp/internal/pipeline"
	"github.com/ocrtools/paddleocr-mcp/internal/preprocess"
	"github.com/ocrtools/paddleocr-mcp/internal/recognize"
)

// Server handles MCP protocol communication
type Server struct {
	cfg        *config.Config
	dispatcher *pipeline.Dispatcher
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

// New creates an MCP server wired with the tesseract-backed recognition
// pipeline.
func New(cfg *config.Config) *Server {
	cache := recognize.NewCache(func(language string) (recognize.Handle, error) {
		return recognize.NewTesseractHandle(language, cfg.TessdataPrefix)
	})
	normalizer := preprocess.New(cfg.MaxImageSize, cfg.JPEGQuality)
	dispatcher := pipeline.New(normalizer, cache, cfg.DefaultLanguage, cfg.EnableSnapshot)
	return NewWithDispatcher(cfg, dispatcher)
}

// NewWithDispatcher creates a server around an existing dispatcher. Tests
// use this to substitute fake recognizers.
func NewWithDispatcher(cfg *config.Config, dispatcher *pipeline.Dispatcher) *Server {
	return &Server{
		cfg:        cfg,
		dispatcher: dispatcher,
	}
}

// Run starts the MCP server, reading requests from stdin and writing
// responses to stdout. Requests are processed synchronously, one at a
// time, in arrival order.
func (s *Server) Run() error {
	scanner := bufio.NewScanner(os.Stdin)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(os.Stdout)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("Failed to parse request: %v", err)
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				log.Printf("Failed to encode response: %v", err)
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
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request with the advertised
// server name and version.
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
				"name":    s.cfg.ServerName,
				"version": s.cfg.ServerVersion,
			},
		},
	}
}
