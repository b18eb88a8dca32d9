package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rsteadman/rivalscope/internal/embedding"
	"github.com/rsteadman/rivalscope/internal/retriever"
	"github.com/rsteadman/rivalscope/internal/storage"
)

var (
	searchLimit  int
	searchSource string
	searchFormat string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Similarity search over indexed content",
	Long: `Search everything indexed so far, across all competitors and sources.
No recency filtering is applied.

Examples:
  # Basic search
  rivalscope search "pricing changes"

  # Only news chunks, more results
  rivalscope search "funding round" --source newsapi --limit 10

  # JSON output for scripting
  rivalscope search "product launch" --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum number of results")
	searchCmd.Flags().StringVar(&searchSource, "source", "", `Restrict to "newsapi" or "website"`)
	searchCmd.Flags().StringVar(&searchFormat, "format", "text", "Output format: text or json")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	query := args[0]

	if searchSource != "" && searchSource != storage.SourceNews && searchSource != storage.SourceWebsite {
		return fmt.Errorf("unknown source %q (use %q or %q)", searchSource, storage.SourceNews, storage.SourceWebsite)
	}

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
	retr := retriever.New(embedder, store, slog.Default())

	results, err := retr.Search(ctx, query, searchLimit, searchSource)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	if searchFormat == "json" {
		output, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Found %d results:\n\n", len(results))
	for i, sc := range results {
		meta := sc.Chunk.Metadata
		fmt.Printf("─── Result %d (score %.3f) ───\n", i+1, sc.Score)
		fmt.Printf("Source:     %s\n", meta.Source)
		if meta.Competitor != "" {
			fmt.Printf("Competitor: %s\n", meta.Competitor)
		}
		if meta.Title != "" {
			fmt.Printf("Title:      %s\n", meta.Title)
		}
		fmt.Printf("URL:        %s\n", meta.URL)
		if meta.PublishDate != "" {
			fmt.Printf("Published:  %s\n", meta.PublishDate)
		}

		// Truncate content for display
		content := sc.Chunk.Content
		if len(content) > 500 {
			content = content[:500] + "..."
		}
		fmt.Printf("Content:\n%s\n\n", content)
	}

	return nil
}
