package generate

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/ironsheep/dalle-image-mcp/internal/log"
)

// ErrNoImage is returned when the service answers without any image data.
var ErrNoImage = errors.New("no image returned")

// Image is the first image produced for a request.
type Image struct {
	URL           string `json:"url"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// Generator produces one image for a validated request.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Image, error)
}

// ImageCreator is the subset of *openai.Client used by OpenAIGenerator.
type ImageCreator interface {
	CreateImage(ctx context.Context, request openai.ImageRequest) (openai.ImageResponse, error)
}

// OpenAIGenerator generates images through the OpenAI Images API.
type OpenAIGenerator struct {
	Client ImageCreator
	Model  string
}

// NewOpenAIGenerator returns a generator backed by client using model.
func NewOpenAIGenerator(client ImageCreator, model string) *OpenAIGenerator {
	return &OpenAIGenerator{Client: client, Model: model}
}

// Generate requests exactly one image and returns its URL.
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (*Image, error) {
	logger := log.FromContextOrDiscard(ctx).With("model", g.Model, "size", req.Size)
	logger.Debug("requesting image", "prompt", req.Prompt)

	resp, err := g.Client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          g.Model,
		N:              1,
		Size:           req.Size,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create image: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, ErrNoImage
	}

	first := resp.Data[0]
	logger.Debug("image created", "url", first.URL)

	return &Image{URL: first.URL, RevisedPrompt: first.RevisedPrompt}, nil
}
