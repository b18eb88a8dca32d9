package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rsteadman/rivalscope/internal/chunker"
	"github.com/rsteadman/rivalscope/internal/collector"
	"github.com/rsteadman/rivalscope/internal/embedding"
	"github.com/rsteadman/rivalscope/internal/pipeline"
	"github.com/rsteadman/rivalscope/internal/retriever"
)

var (
	indexWebsite string
	indexDays    int
)

var indexCmd = &cobra.Command{
	Use:   "index [competitor]",
	Short: "Collect and index content without summarizing",
	Long: `Collects recent news about a competitor (plus the website when --website
is set) and indexes the chunks in Qdrant. Useful for building up the index
across several competitors before searching or reporting.

Examples:
  rivalscope index "Acme Corp"
  rivalscope index "Acme Corp" --website https://acme.example.com --days 30`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().StringVar(&indexWebsite, "website", "", "competitor website URL to include")
	indexCmd.Flags().IntVar(&indexDays, "days", 0, "news lookback window in days (default from config)")
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	competitor := strings.TrimSpace(args[0])
	if competitor == "" {
		return fmt.Errorf("competitor name is required")
	}

	daysBack := cfg.Pipeline.DaysBack
	if cmd.Flags().Changed("days") {
		daysBack = indexDays
	}
	if daysBack < 0 {
		daysBack = 0
	}

	fmt.Printf("Connecting to Qdrant at %s:%d...\n", cfg.Qdrant.Host, cfg.Qdrant.Port)
	store, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	client, err := embedding.NewClient(cfg.OpenAI.APIKey)
	if err != nil {
		return fmt.Errorf("create embedding client: %w", err)
	}
	embedder := embedding.NewEmbedder(client, 0)

	fmt.Printf("Collecting news for %s (last %d days)...\n", competitor, daysBack)
	news := collector.NewNewsClient(cfg.NewsAPI.APIKey, cfg.NewsAPI.MaxResults, slog.Default())
	docs, err := news.Collect(ctx, competitor, daysBack)
	if err != nil {
		return fmt.Errorf("collect news: %w", err)
	}
	fmt.Printf("  Articles: %d\n", len(docs))

	if indexWebsite != "" {
		fmt.Printf("Fetching website %s...\n", indexWebsite)
		web := collector.NewWebsiteCollector(cfg.Scraper.UserAgent, cfg.Scraper.Timeout, slog.Default())
		webDocs, err := web.Collect(ctx, indexWebsite)
		if err != nil {
			fmt.Printf("  Warning: website fetch failed: %v\n", err)
		} else {
			docs = append(docs, webDocs...)
			fmt.Printf("  Pages: %d\n", len(webDocs))
		}
	}

	split := chunker.New(cfg.Pipeline.ChunkSize, cfg.Pipeline.ChunkOverlap, slog.Default())
	retr := retriever.New(embedder, store, slog.Default())
	pipe := pipeline.New(split, embedder, store, retr, pipeline.Config{}, slog.Default())

	indexed, err := pipe.Index(ctx, docs)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	total, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count points: %w", err)
	}

	fmt.Println()
	fmt.Printf("Indexed %d chunks (collection now holds %d)\n", indexed, total)

	return nil
}
