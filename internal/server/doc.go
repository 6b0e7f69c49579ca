// Package server implements the MCP (Model Context Protocol) server for the
// steganography tools.
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
//   - image_load: Load an image and report its mode and capacity
//   - stego_capacity: Characters that fit for a bit configuration
//   - stego_embed: Hide a message and write the stego image
//   - stego_extract: Recover a message, optionally by brute force
//   - stego_diff: Distortion statistics and an amplified diff image
//
// Bit configurations are passed as "R,G,B" strings. When "bits" or "seed"
// is omitted the value from the server's configuration is used.
//
// # Image Caching
//
// Loaded images are cached by path for the lifetime of the process. A path
// written by stego_embed is evicted so later calls see the new file.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with
// code -32000 and the Go error string in data, for example
// "character overflow: 12" or "no embedded message found".
//
// # Usage
//
//	srv := server.New(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
