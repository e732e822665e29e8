package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ironsheep/dalle-image-mcp/internal/generate"
	"github.com/ironsheep/dalle-image-mcp/internal/inspect"
	"github.com/ironsheep/dalle-image-mcp/internal/log"
)

const (
	jsonrpcVersion  = "2.0"
	protocolVersion = "2024-11-05"
)

// Inspector summarizes a generated image. *inspect.Inspector satisfies it.
type Inspector interface {
	Inspect(ctx context.Context, url string) (*inspect.Report, error)
}

// Options configures a Server.
type Options struct {
	// Name and Version are reported in the initialize handshake.
	Name    string
	Version string

	// Inspector, when non-nil, is run on every successfully generated image.
	Inspector Inspector

	// Logger receives diagnostics. Defaults to a discarding logger.
	Logger *slog.Logger
}

// Server handles MCP protocol communication
type Server struct {
	tools     []mcp.Tool
	generator generate.Generator
	inspector Inspector
	logger    *slog.Logger
	name      string
	version   string

	mu    sync.Mutex
	input io.Closer
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

// MCPError represents a JSON-RPC error. It doubles as the Go error returned
// for protocol-level failures.
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// New creates a new MCP server that generates images with gen.
func New(gen generate.Generator, opts Options) *Server {
	s := &Server{
		tools:     []mcp.Tool{newGenerateImageTool()},
		generator: gen,
		inspector: opts.Inspector,
		logger:    opts.Logger,
		name:      opts.Name,
		version:   opts.Version,
	}
	if s.logger == nil {
		s.logger = log.FromContextOrDiscard(context.Background())
	}
	if s.name == "" {
		s.name = "dalle-image-mcp"
	}
	if s.version == "" {
		s.version = "dev"
	}
	return s
}

// Run serves on stdin and stdout until stdin closes or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	s.input = os.Stdin
	s.mu.Unlock()

	s.logger.Info("serving on stdio", "name", s.name, "version", s.version)
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads one request per line from r and writes each response to w.
// Requests are handled one at a time, in order.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	ctx = log.NewContext(ctx, s.logger)

	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var resp *MCPResponse
		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("failed to parse request", "error", err)
			resp = s.errorResponse(nil, mcp.PARSE_ERROR, "Parse error", err.Error())
		} else {
			resp = s.handleRequest(ctx, &req)
		}

		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				return fmt.Errorf("encode response: %w", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, os.ErrClosed) {
			return nil
		}
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// Shutdown closes the input stream. A read already blocked on a non-pollable
// stdin is not interrupted by the close; it ends when the process exits.
// A request already being handled is not waited for.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.input == nil {
		return nil
	}
	err := s.input.Close()
	s.input = nil
	s.logger.Info("server shut down")
	return err
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	s.logger.Debug("request", "method", req.Method, "id", req.ID)

	switch {
	case strings.HasPrefix(req.Method, "notifications/"):
		// Client notifications, no response needed
		return nil
	case req.Method == "initialize":
		return s.handleInitialize(req)
	case req.Method == "ping":
		return s.result(req.ID, map[string]interface{}{})
	case req.Method == "tools/list":
		return s.result(req.ID, mcp.ListToolsResult{Tools: s.Tools()})
	case req.Method == "tools/call":
		return s.handleToolsCall(ctx, req)
	case req.Method == "resources/list":
		return s.result(req.ID, mcp.ListResourcesResult{Resources: []mcp.Resource{}})
	default:
		return s.errorResponse(req.ID, mcp.METHOD_NOT_FOUND, fmt.Sprintf("Method not found: %s", req.Method), "")
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return s.result(req.ID, map[string]interface{}{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]interface{}{
			"tools":     map[string]interface{}{},
			"resources": map[string]interface{}{},
		},
		"serverInfo": mcp.Implementation{
			Name:    s.name,
			Version: s.version,
		},
	})
}

func (s *Server) result(id interface{}, result interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: jsonrpcVersion,
		ID:      id,
		Result:  result,
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: jsonrpcVersion,
		ID:      id,
		Error:   e,
	}
}
