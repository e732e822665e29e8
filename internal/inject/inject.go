// Package inject assembles the server's dependencies.
package inject

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/samber/do"
	"github.com/sashabaranov/go-openai"

	"github.com/ironsheep/dalle-image-mcp/internal/config"
	"github.com/ironsheep/dalle-image-mcp/internal/generate"
	"github.com/ironsheep/dalle-image-mcp/internal/inspect"
	"github.com/ironsheep/dalle-image-mcp/internal/log"
	"github.com/ironsheep/dalle-image-mcp/internal/server"
)

// BuildInfo identifies the running binary in the initialize handshake.
type BuildInfo struct {
	Name    string
	Version string
}

// Setup registers every service with a new injector. Services are built
// lazily on first invocation; Shutdown on the returned injector tears down
// whatever was built, including the server's stdio input.
func Setup(ctx context.Context, cfg *config.Config, info BuildInfo) *do.Injector {
	logger := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		},
	})

	do.ProvideValue[*config.Config](injector, cfg)
	do.ProvideValue[*slog.Logger](injector, logger)
	do.ProvideValue[*http.Client](injector, http.DefaultClient)

	do.Provide[*openai.Client](injector, func(i *do.Injector) (*openai.Client, error) {
		return openai.NewClientWithConfig(do.MustInvoke[*config.Config](i).OpenAIConfig()), nil
	})
	do.Provide[generate.Generator](injector, func(i *do.Injector) (generate.Generator, error) {
		client := do.MustInvoke[*openai.Client](i)
		return generate.NewOpenAIGenerator(client, do.MustInvoke[*config.Config](i).Model), nil
	})
	do.Provide[*inspect.Inspector](injector, func(i *do.Injector) (*inspect.Inspector, error) {
		return inspect.New(do.MustInvoke[*http.Client](i)), nil
	})
	do.Provide[*server.Server](injector, func(i *do.Injector) (*server.Server, error) {
		opts := server.Options{
			Name:    info.Name,
			Version: info.Version,
			Logger:  do.MustInvoke[*slog.Logger](i),
		}
		if do.MustInvoke[*config.Config](i).Inspect {
			opts.Inspector = do.MustInvoke[*inspect.Inspector](i)
		}
		return server.New(do.MustInvoke[generate.Generator](i), opts), nil
	})

	return injector
}
