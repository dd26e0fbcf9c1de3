package server

// ToolOCRImage is the name of the single tool this server exposes.
const ToolOCRImage = "ocr_image"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// toolDefinitions returns all available tools.
//
// The language parameter is declared optional with a documented default
// rather than required; the server fills in the default when it is absent.
func (s *Server) toolDefinitions() []Tool {
	return []Tool{
		{
			Name: ToolOCRImage,
			Description: "Extract text from an image using OCR with automatic preprocessing " +
				"(downsampling and sharpening). Writes a markdown summary next to the input " +
				"image and returns its path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_path": map[string]interface{}{
						"type":        "string",
						"description": "Path to the input image file",
					},
					"language": map[string]interface{}{
						"type": "string",
						"description": "Language code for OCR (e.g., 'ch' for Chinese+English, " +
							"'en' for English, 'japan' for Japanese, 'korean' for Korean)",
						"default": s.cfg.DefaultLanguage,
					},
				},
				"required": []string{"image_path"},
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
			"tools": s.toolDefinitions(),
		},
	}
}
