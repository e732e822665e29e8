package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do"

	"github.com/ironsheep/dalle-image-mcp/internal/config"
	"github.com/ironsheep/dalle-image-mcp/internal/inject"
	"github.com/ironsheep/dalle-image-mcp/internal/log"
	"github.com/ironsheep/dalle-image-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const serverName = "dalle-image-mcp"

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("%s %s\n", serverName, Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("dalle-image-mcp - MCP server for DALL·E image generation")
			fmt.Println()
			fmt.Println("Usage: dalle-image-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from ./.env):")
			fmt.Println("  OPENAI_API_KEY=...           Required. OpenAI API key")
			fmt.Println("  OPENAI_BASE_URL=...          Override the API endpoint")
			fmt.Println("  OPENAI_ORG_ID=...            OpenAI organization")
			fmt.Println("  DALLE_MCP_MODEL=dall-e-2     Image model")
			fmt.Println("  DALLE_MCP_LOG_LEVEL=debug    Log level (debug, info, warn, error)")
			fmt.Println("  DALLE_MCP_INSPECT=true       Download each image and report size and colors")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serverName, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Logging goes to stderr (stdout is for MCP protocol)
	logger := log.New(os.Stderr, cfg.LogLevel)
	logger.Debug("starting", "version", Version, "built", BuildTime, "commit", GitCommit, "model", cfg.Model)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.NewContext(ctx, logger)

	injector := inject.Setup(ctx, cfg, inject.BuildInfo{Name: serverName, Version: Version})
	srv, err := do.Invoke[*server.Server](injector)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(ctx)
	}()

	select {
	case err = <-errCh:
	case <-ctx.Done():
		logger.Info("termination requested")
	}

	if shutdownErr := injector.Shutdown(); shutdownErr != nil && !errors.Is(shutdownErr, os.ErrClosed) {
		logger.Warn("shutdown", "error", shutdownErr)
	}
	return err
}
