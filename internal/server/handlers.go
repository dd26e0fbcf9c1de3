package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ocrtools/paddleocr-mcp/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke.
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// ContentItem is one entry of a tool result's content list.
type ContentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ocrImageArgs are the arguments of the ocr_image tool. A wrongly typed
// language value fails JSON unmarshaling and is reported as invalid params.
type ocrImageArgs struct {
	ImagePath string `json:"image_path"`
	Language  string `json:"language"`
}

// handleToolsCall processes a tools/call request.
//
// The success response wraps the output file path(s) in MCP's content
// format:
//
//	{"content": [{"type": "text", "text": "/path/to/image.png.md"}]}
//
// Validation failures return a JSON-RPC error with code -32602; everything
// else fails with -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	if params.Name != ToolOCRImage {
		return s.errorResponse(req.ID, -32602, "Unknown tool",
			fmt.Sprintf("unknown tool: %s", params.Name))
	}

	var args ocrImageArgs
	if err := json.Unmarshal(params.Arguments, &args); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	out, err := s.dispatcher.Handle(args.ImagePath, args.Language)
	if err != nil {
		if errors.Is(err, pipeline.ErrInvalidArgument) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	content := []ContentItem{{Type: "text", Text: out.MarkdownPath}}
	if out.SnapshotPath != "" {
		content = append(content, ContentItem{Type: "text", Text: out.SnapshotPath})
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": content,
		},
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
