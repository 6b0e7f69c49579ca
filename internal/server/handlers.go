package server

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/ironsheep/image-stego/internal/imaging"
	"github.com/ironsheep/image-stego/internal/stego"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "stego_embed").
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
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if s.cfg.Debug() {
		log.Printf("Tool call: %s %s", name, args)
	}

	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "stego_capacity":
		return s.handleStegoCapacity(args)
	case "stego_embed":
		return s.handleStegoEmbed(args)
	case "stego_extract":
		return s.handleStegoExtract(args)
	case "stego_diff":
		return s.handleStegoDiff(args)
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
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// bits parses a tool's "bits" argument, falling back to the configured default.
func (s *Server) bits(arg string) (stego.BitConfig, error) {
	if arg == "" {
		return s.cfg.BitConfig(), nil
	}
	return stego.ParseBitConfig(arg)
}

// seed returns the tool's seed, or the configured default when omitted.
// An explicit empty string selects sequential order.
func (s *Server) seed(arg *string) string {
	if arg == nil {
		return s.cfg.Seed
	}
	return *arg
}

// loadGrid loads path through the cache and copies its pixels into a grid.
func (s *Server) loadGrid(path string) (*stego.Grid, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	return imaging.ToGrid(img)
}

// === Image Information ===

type imageLoadArgs struct {
	Path string `json:"path"`
	Bits string `json:"bits,omitempty"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := s.bits(a.Bits)
	if err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path, cfg)
}

// === Steganography ===

// CapacityResult reports how many characters fit in an image.
type CapacityResult struct {
	Path         string `json:"path"`
	Pixels       int    `json:"pixels"`
	Bits         string `json:"bits"`
	BitsPerPixel int    `json:"bits_per_pixel"`
	Capacity     int    `json:"capacity"`
}

func (s *Server) handleStegoCapacity(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := s.bits(a.Bits)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	if _, err := imaging.ChannelCount(img); err != nil {
		return nil, err
	}

	pixels := img.Bounds().Dx() * img.Bounds().Dy()
	return &CapacityResult{
		Path:         a.Path,
		Pixels:       pixels,
		Bits:         cfg.String(),
		BitsPerPixel: cfg.BitsPerPixel(),
		Capacity:     stego.Capacity(pixels, cfg, stego.Terminator),
	}, nil
}

type stegoEmbedArgs struct {
	Path    string  `json:"path"`
	Output  string  `json:"output"`
	Message string  `json:"message"`
	Bits    string  `json:"bits,omitempty"`
	Seed    *string `json:"seed,omitempty"`
}

// EmbedResult describes a written stego image.
type EmbedResult struct {
	Output        string                    `json:"output"`
	Bits          string                    `json:"bits"`
	Seeded        bool                      `json:"seeded"`
	MessageLength int                       `json:"message_length"`
	Capacity      int                       `json:"capacity"`
	Distortion    *imaging.DistortionResult `json:"distortion"`
}

func (s *Server) handleStegoEmbed(args json.RawMessage) (interface{}, error) {
	var a stegoEmbedArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Output == "" {
		return nil, fmt.Errorf("output path is required")
	}
	if _, err := imaging.FormatFromPath(a.Output); err != nil {
		return nil, err
	}
	cfg, err := s.bits(a.Bits)
	if err != nil {
		return nil, err
	}
	seed := s.seed(a.Seed)

	cover, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	grid, err := imaging.ToGrid(cover)
	if err != nil {
		return nil, err
	}
	if err := stego.Hide(grid, cfg, a.Message, seed); err != nil {
		return nil, err
	}
	out, err := imaging.FromGrid(grid, cover.Bounds())
	if err != nil {
		return nil, err
	}
	if err := imaging.SaveImage(a.Output, out); err != nil {
		return nil, err
	}
	s.cache.Evict(a.Output)

	dist, err := imaging.Distortion(cover, out)
	if err != nil {
		return nil, err
	}

	return &EmbedResult{
		Output:        a.Output,
		Bits:          cfg.String(),
		Seeded:        seed != "",
		MessageLength: len(a.Message),
		Capacity:      stego.Capacity(grid.Pixels(), cfg, stego.Terminator),
		Distortion:    dist,
	}, nil
}

type stegoExtractArgs struct {
	Path  string  `json:"path"`
	Bits  string  `json:"bits,omitempty"`
	Brute bool    `json:"brute,omitempty"`
	Seed  *string `json:"seed,omitempty"`
}

// ExtractResult carries a recovered message.
type ExtractResult struct {
	Message string `json:"message"`
	Bits    string `json:"bits"`

	// Attempts is the number of configurations tried by a brute-force search.
	Attempts int `json:"attempts,omitempty"`
}

func (s *Server) handleStegoExtract(args json.RawMessage) (interface{}, error) {
	var a stegoExtractArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	seed := s.seed(a.Seed)

	grid, err := s.loadGrid(a.Path)
	if err != nil {
		return nil, err
	}

	if a.Brute {
		m, err := stego.RevealBrute(grid, seed)
		if err != nil {
			return nil, err
		}
		return &ExtractResult{Message: m.Message, Bits: m.Config.String(), Attempts: m.Attempts}, nil
	}

	cfg, err := s.bits(a.Bits)
	if err != nil {
		return nil, err
	}
	msg, err := stego.Reveal(grid, cfg, seed)
	if err != nil {
		return nil, err
	}
	return &ExtractResult{Message: msg, Bits: cfg.String()}, nil
}

type stegoDiffArgs struct {
	Cover string `json:"cover"`
	Stego string `json:"stego"`
	Gain  int    `json:"gain,omitempty"`
}

// DiffResult pairs distortion statistics with an amplified difference image.
type DiffResult struct {
	Distortion *imaging.DistortionResult `json:"distortion"`
	Image      *imaging.DiffImageResult  `json:"image"`
}

func (s *Server) handleStegoDiff(args json.RawMessage) (interface{}, error) {
	var a stegoDiffArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Gain == 0 {
		a.Gain = 64
	}

	cover, err := s.cache.Load(a.Cover)
	if err != nil {
		return nil, err
	}
	stegoImg, err := s.cache.Load(a.Stego)
	if err != nil {
		return nil, err
	}

	dist, err := imaging.Distortion(cover, stegoImg)
	if err != nil {
		return nil, err
	}
	diff, err := imaging.DiffImage(cover, stegoImg, a.Gain)
	if err != nil {
		return nil, err
	}
	return &DiffResult{Distortion: dist, Image: diff}, nil
}
