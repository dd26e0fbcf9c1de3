// Package server implements the MCP (Model Context Protocol) server for OCR.
//
// This package provides a JSON-RPC 2.0 server that exposes the ocr_image
// tool through the MCP protocol, enabling MCP-compatible clients to run
// text recognition on local image files.
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
// The server provides a single tool:
//   - ocr_image: preprocess an image, recognize its text, and write a
//     markdown summary at <image_path>.md. Arguments are image_path
//     (required) and language (optional, defaults to "ch").
//
// # Request Processing
//
// Requests are processed synchronously one at a time: a request is read,
// handled to completion (including all filesystem and recognition work),
// and only then is the next request read. There is no cancellation; a slow
// recognition call blocks the loop.
//
// Recognizer handles are cached per language inside the dispatcher and
// persist for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32602 for invalid or unknown parameters, -32000 for
//     execution failures
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
