package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var (
	pathProperty = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to a PNG or BMP image file",
	}
	bitsProperty = map[string]interface{}{
		"type":        "string",
		"description": "Low bits used per channel as \"R,G,B\", each 0-8 and not all zero (default from server configuration, normally \"1,1,1\")",
	}
	seedProperty = map[string]interface{}{
		"type":        "string",
		"description": "Pixel-order seed. Omit to use the configured default; an empty string visits pixels in row order",
	}
)

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, mode and message capacity. RGB and RGBA images in PNG or BMP format are supported.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"bits": bitsProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "stego_capacity",
			Description: "Return the number of ASCII characters that can be hidden in an image with the given bit configuration.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"bits": bitsProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "stego_embed",
			Description: "Hide an ASCII message in the low bits of an image and write the result to a new file. Returns capacity and distortion statistics.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path for the stego image; .png or .bmp",
					},
					"message": map[string]interface{}{
						"type":        "string",
						"description": "ASCII message to hide",
					},
					"bits": bitsProperty,
					"seed": seedProperty,
				},
				"required": []string{"path", "output", "message"},
			},
		},
		{
			Name:        "stego_extract",
			Description: "Recover a hidden message from an image. With brute=true every bit configuration is tried and the first match is returned.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"bits": bitsProperty,
					"brute": map[string]interface{}{
						"type":        "boolean",
						"description": "Search all 728 bit configurations instead of using bits",
						"default":     false,
					},
					"seed": seedProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "stego_diff",
			Description: "Compare a cover image with its stego version. Returns CIEDE2000 and PSNR statistics and an amplified difference image as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"cover": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the original image",
					},
					"stego": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image with the hidden message",
					},
					"gain": map[string]interface{}{
						"type":        "integer",
						"description": "Multiplier applied to channel differences in the diff image (default: 64)",
						"default":     64,
					},
				},
				"required": []string{"cover", "stego"},
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
