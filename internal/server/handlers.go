package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ironsheep/dalle-image-mcp/internal/generate"
	"github.com/ironsheep/dalle-image-mcp/internal/inspect"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke.
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request.
//
// An unknown tool or malformed arguments produce a JSON-RPC error. A failure
// of the image service does not: it is returned as a normal result with
// isError set so the client can show the message.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, mcp.INVALID_PARAMS, "Invalid params", err.Error())
	}

	result, err := s.Invoke(ctx, params.Name, params.Arguments)
	if err != nil {
		var rpcErr *MCPError
		if errors.As(err, &rpcErr) {
			return &MCPResponse{JSONRPC: jsonrpcVersion, ID: req.ID, Error: rpcErr}
		}
		return s.errorResponse(req.ID, mcp.INTERNAL_ERROR, "Internal error", err.Error())
	}

	return s.result(req.ID, result)
}

// Invoke runs the named tool with raw JSON arguments.
//
// The returned error is always an *MCPError: METHOD_NOT_FOUND for a name other
// than generate_image, INVALID_PARAMS for arguments that do not validate. In
// both cases the generator is not called.
func (s *Server) Invoke(ctx context.Context, name string, rawArgs json.RawMessage) (*mcp.CallToolResult, error) {
	if name != ToolName {
		return nil, &MCPError{
			Code:    mcp.METHOD_NOT_FOUND,
			Message: fmt.Sprintf("Unknown tool: %s", name),
		}
	}

	var args interface{}
	if len(rawArgs) > 0 {
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			args = nil
		}
	}

	req, ok := generate.ParseArgs(args)
	if !ok {
		return nil, &MCPError{
			Code:    mcp.INVALID_PARAMS,
			Message: "Invalid image generation arguments",
		}
	}

	return s.generateImage(ctx, req), nil
}

// generateImage calls the generator and renders its outcome as tool output.
// The external call is not cancelled with ctx; it runs to completion or to
// the client's own failure.
func (s *Server) generateImage(ctx context.Context, req generate.Request) *mcp.CallToolResult {
	logger := s.logger.With("tool", ToolName, "size", req.Size)
	if !generate.IsSupportedSize(req.Size) {
		logger.Debug("size outside advertised set, passing through")
	}

	img, err := s.generator.Generate(context.WithoutCancel(ctx), req)
	if err != nil {
		logger.Warn("image generation failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Image generation API error: %v", err))
	}
	logger.Info("image generated", "url", img.URL)

	var report *inspect.Report
	if s.inspector != nil {
		report, err = s.inspector.Inspect(ctx, img.URL)
		if err != nil {
			logger.Warn("image inspection failed", "error", err)
			report = nil
		}
	}

	return mcp.NewToolResultText(formatSuccess(req, img, report))
}

func formatSuccess(req generate.Request, img *generate.Image, report *inspect.Report) string {
	var b strings.Builder

	b.WriteString("Image generated successfully!\n\n")
	b.WriteString("To view the image:\n")
	fmt.Fprintf(&b, "1. Copy the following URL: %s\n", img.URL)
	b.WriteString("2. Paste it into a web browser's address bar\n")
	b.WriteString("3. Press Enter to load the image\n\n")

	b.WriteString("Image details:\n")
	fmt.Fprintf(&b, "- Prompt: %q\n", req.Prompt)
	if img.RevisedPrompt != "" && img.RevisedPrompt != req.Prompt {
		fmt.Fprintf(&b, "- Revised prompt: %q\n", img.RevisedPrompt)
	}
	fmt.Fprintf(&b, "- Size: %s\n", req.Size)
	if report != nil {
		fmt.Fprintf(&b, "- Actual dimensions: %dx%d\n", report.Width, report.Height)
		if len(report.Colors) > 0 {
			hexes := make([]string, len(report.Colors))
			for i, c := range report.Colors {
				hexes[i] = fmt.Sprintf("%s (%.0f%%)", c.Hex, c.Percentage)
			}
			fmt.Fprintf(&b, "- Dominant colors: %s\n", strings.Join(hexes, ", "))
		}
	}
	fmt.Fprintf(&b, "- Direct link: %s\n\n", img.URL)

	b.WriteString("Note: The generated image will be available for a limited time.")
	return b.String()
}
