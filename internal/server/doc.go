// Package server implements the MCP (Model Context Protocol) server for image generation.
//
// This package provides a JSON-RPC 2.0 server that exposes a single tool,
// generate_image, which turns a text prompt into an image URL through the
// OpenAI Images API.
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
//   - resources/list: Always empty
//   - ping: Health check
//
// Notifications (methods under notifications/) are accepted and never answered.
//
// # Error Handling
//
// Two kinds of failure are reported differently:
//
//   - Protocol errors are JSON-RPC error responses. An unknown tool name gives
//     -32601, arguments that are not an object with a string prompt (and an
//     optional string size) give -32602. The image service is not contacted.
//   - Image service errors (network, quota, rejected prompt or size) are caught
//     and returned as an ordinary tool result with isError set and the service's
//     message in the text.
//
// # Usage
//
//	srv := server.New(generator, server.Options{Logger: logger})
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
