package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rsteadman/rivalscope/internal/chunker"
	"github.com/rsteadman/rivalscope/internal/collector"
	"github.com/rsteadman/rivalscope/internal/embedding"
	"github.com/rsteadman/rivalscope/internal/pipeline"
	"github.com/rsteadman/rivalscope/internal/retriever"
	"github.com/rsteadman/rivalscope/internal/summarizer"
)

var (
	reportWebsite string
	reportDays    int
)

var reportCmd = &cobra.Command{
	Use:   "report [competitor]",
	Short: "Build a competitor intelligence report",
	Long: `Collects recent news about a competitor, optionally scrapes its website,
indexes everything in Qdrant, and summarizes the freshest relevant content.

This command:
1. Connects to Qdrant and verifies health
2. Collects news articles from NewsAPI (plus the website when --website is set)
3. Chunks, embeds, and indexes the documents
4. Retrieves the most relevant chunks and filters stale news
5. Summarizes the context set into the report

Examples:
  # News-only report over the default window
  rivalscope report "Acme Corp"

  # Include the competitor website, look back 14 days
  rivalscope report "Acme Corp" --website https://acme.example.com --days 14

Environment variables:
  OPENAI_API_KEY          OpenAI API key for embeddings and summaries (required)
  NEWS_API_KEY            NewsAPI key for article collection (required)
  RIVALSCOPE_QDRANT_HOST  Qdrant hostname (default: localhost)
  RIVALSCOPE_QDRANT_PORT  Qdrant gRPC port (default: 6334)`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportWebsite, "website", "", "competitor website URL to include")
	reportCmd.Flags().IntVar(&reportDays, "days", 0, "recency window in days, 0 means today only (default from config)")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	competitor := strings.TrimSpace(args[0])
	if competitor == "" {
		return fmt.Errorf("competitor name is required")
	}

	// Zero is a valid window (today only), so only an explicit flag overrides
	// the configured default.
	daysBack := cfg.Pipeline.DaysBack
	if cmd.Flags().Changed("days") {
		daysBack = reportDays
	}
	if daysBack < 0 {
		daysBack = 0
	}

	fmt.Printf("Building report for %s (last %d days)...\n", competitor, daysBack)
	fmt.Println()

	// 1. Connect to Qdrant
	fmt.Printf("Connecting to Qdrant at %s:%d...\n", cfg.Qdrant.Host, cfg.Qdrant.Port)
	store, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	fmt.Println("Qdrant healthy")

	// 2. Initialize OpenAI-backed components
	client, err := embedding.NewClient(cfg.OpenAI.APIKey)
	if err != nil {
		return fmt.Errorf("create embedding client: %w", err)
	}
	embedder := embedding.NewEmbedder(client, 0) // Use default batch size
	summ := summarizer.New(client.Client(), cfg.OpenAI.ChatModel, slog.Default())

	// 3. Collect documents
	fmt.Println()
	fmt.Println("Collecting news articles...")
	news := collector.NewNewsClient(cfg.NewsAPI.APIKey, cfg.NewsAPI.MaxResults, slog.Default())
	docs, err := news.Collect(ctx, competitor, daysBack)
	if err != nil {
		return fmt.Errorf("collect news: %w", err)
	}
	fmt.Printf("  Articles: %d\n", len(docs))

	if reportWebsite != "" {
		fmt.Printf("Fetching website %s...\n", reportWebsite)
		web := collector.NewWebsiteCollector(cfg.Scraper.UserAgent, cfg.Scraper.Timeout, slog.Default())
		webDocs, err := web.Collect(ctx, reportWebsite)
		if err != nil {
			fmt.Printf("  Warning: website fetch failed: %v\n", err)
		} else {
			docs = append(docs, webDocs...)
			fmt.Printf("  Pages: %d\n", len(webDocs))
		}
	}

	// 4. Index, retrieve, and filter
	fmt.Println()
	fmt.Println("Indexing and retrieving...")
	split := chunker.New(cfg.Pipeline.ChunkSize, cfg.Pipeline.ChunkOverlap, slog.Default())
	retr := retriever.New(embedder, store, slog.Default())
	pipe := pipeline.New(split, embedder, store, retr, pipeline.Config{
		RetrievalK:  cfg.Pipeline.RetrievalK,
		ContextSize: cfg.Pipeline.ContextSize,
	}, slog.Default())

	result, err := pipe.Run(ctx, docs, competitor, daysBack)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}
	fmt.Printf("  Chunks indexed: %d\n", result.ChunksIndexed)
	fmt.Printf("  Retrieved: %d (fresh news %d, website %d)\n", result.Retrieved, result.NewsKept, result.WebKept)
	fmt.Printf("  Context chunks: %d\n", len(result.Context))

	// 5. Summarize
	fmt.Println()
	fmt.Println("Summarizing...")
	report, err := summ.Summarize(ctx, competitor, result.Context)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	fmt.Println()
	fmt.Println(strings.Repeat("─", 72))
	fmt.Println(report)
	fmt.Println(strings.Repeat("─", 72))
	fmt.Println()
	fmt.Printf("Total time: %s\n", time.Since(start).Round(time.Second))

	return nil
}
