// Package main provides the MCP server entry point for competitor intelligence.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/rsteadman/rivalscope/internal/chunker"
	"github.com/rsteadman/rivalscope/internal/collector"
	"github.com/rsteadman/rivalscope/internal/config"
	"github.com/rsteadman/rivalscope/internal/embedding"
	mcpserver "github.com/rsteadman/rivalscope/internal/mcp"
	"github.com/rsteadman/rivalscope/internal/pipeline"
	"github.com/rsteadman/rivalscope/internal/retriever"
	"github.com/rsteadman/rivalscope/internal/storage"
	"github.com/rsteadman/rivalscope/internal/summarizer"
)

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// The stdio transport owns stdout, so all logging goes to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// Create context that cancels on SIGTERM/SIGINT
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := config.Load(os.Getenv("RIVALSCOPE_CONFIG"))
	if err != nil {
		log.Printf("config load failed, using defaults: %v", err)
		cfg = config.Defaults()
	}

	// Initialize storage
	store, err := storage.NewStore(cfg.Qdrant.Host, cfg.Qdrant.Port, cfg.Qdrant.Collection)
	if err != nil {
		log.Fatalf("failed to connect to Qdrant: %v", err)
	}
	defer store.Close()

	// Ensure collection exists
	if err := store.EnsureCollection(ctx); err != nil {
		log.Fatalf("failed to ensure collection: %v", err)
	}

	// Initialize OpenAI-backed components
	client, err := embedding.NewClient(cfg.OpenAI.APIKey)
	if err != nil {
		log.Fatalf("failed to create embedding client: %v", err)
	}
	embedder := embedding.NewEmbedder(client, 0) // Use default batch size

	split := chunker.New(cfg.Pipeline.ChunkSize, cfg.Pipeline.ChunkOverlap, logger)
	retr := retriever.New(embedder, store, logger)
	pipe := pipeline.New(split, embedder, store, retr, pipeline.Config{
		RetrievalK:  cfg.Pipeline.RetrievalK,
		ContextSize: cfg.Pipeline.ContextSize,
	}, logger)

	// Create MCP server
	server := mcpserver.NewServer(&mcpserver.Deps{
		Store:      store,
		News:       collector.NewNewsClient(cfg.NewsAPI.APIKey, cfg.NewsAPI.MaxResults, logger),
		Website:    collector.NewWebsiteCollector(cfg.Scraper.UserAgent, cfg.Scraper.Timeout, logger),
		Pipeline:   pipe,
		Retriever:  retr,
		Summarizer: summarizer.New(client.Client(), cfg.OpenAI.ChatModel, logger),
		DaysBack:   cfg.Pipeline.DaysBack,
		Logger:     logger,
	})

	// Create HTTP server with multiple endpoints
	mux := http.NewServeMux()

	// Landing page for browsers hitting the root
	mux.HandleFunc("/", mcpserver.NewLandingHandler())

	// Health endpoint (for deployment health checks)
	mux.HandleFunc("/health", mcpserver.NewHealthHandler(store))

	// MCP HTTP endpoint (for remote client connections)
	mcpHTTPHandler := mcpserver.NewHTTPHandler(server, &mcpserver.HTTPHandlerOptions{Stateless: true})
	mux.Handle("/mcp", mcpHTTPHandler)

	port := getEnv("PORT", "8080")

	// Check if running in server mode (HTTP) or stdio mode (local development)
	serverMode := getEnv("SERVER_MODE", "false") == "true"

	if serverMode {
		// HTTP mode: serve MCP over HTTP for remote clients
		addr := "0.0.0.0:" + port
		log.Printf("Starting HTTP server on %s (MCP at /mcp, health at /health)", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	} else {
		// Stdio mode: run MCP server over stdin/stdout for local clients
		// Also start HTTP health endpoint in background for local testing
		go func() {
			addr := "0.0.0.0:" + port
			log.Printf("Starting health server on %s", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Printf("Health server error: %v", err)
			}
		}()

		log.Println("Starting Rivalscope MCP Server (stdio mode)...")
		if err := server.Run(ctx); err != nil {
			log.Printf("server error: %v", err)
			os.Exit(1)
		}
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
