package server

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ironsheep/dalle-image-mcp/internal/generate"
)

// ToolName is the only tool this server offers.
const ToolName = "generate_image"

func newGenerateImageTool() mcp.Tool {
	sizes := generate.Sizes()
	return mcp.NewTool(ToolName,
		mcp.WithDescription("Generate an image using DALL·E based on a text description"),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("Text description of the image to generate"),
		),
		mcp.WithString("size",
			mcp.Description(fmt.Sprintf("Size of the image (%s, or %s)",
				strings.Join(sizes[:len(sizes)-1], ", "), sizes[len(sizes)-1])),
			mcp.Enum(sizes...),
		),
	)
}

// Tools returns the tool descriptors advertised by tools/list.
// The returned slice is a copy.
func (s *Server) Tools() []mcp.Tool {
	return append([]mcp.Tool(nil), s.tools...)
}
