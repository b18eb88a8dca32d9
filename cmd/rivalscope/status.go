package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rsteadman/rivalscope/internal/embedding"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index health and size",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	count, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count points: %w", err)
	}

	fmt.Printf("Qdrant:     %s:%d (healthy)\n", cfg.Qdrant.Host, cfg.Qdrant.Port)
	fmt.Printf("Collection: %s\n", store.Collection())
	fmt.Printf("Chunks:     %d\n", count)
	fmt.Printf("Embeddings: %s (%d dimensions)\n", embedding.EmbeddingModel, embedding.EmbeddingDimension)

	return nil
}
