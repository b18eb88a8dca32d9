// Package main provides the rivalscope CLI for competitor intelligence reports.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rsteadman/rivalscope/internal/config"
	"github.com/rsteadman/rivalscope/internal/storage"
)

var (
	cfgFile string
	verbose bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "rivalscope",
	Short: "Competitor intelligence from news and website content",
	Long: `Rivalscope collects recent news and website content about a competitor,
indexes it in Qdrant, and produces an LLM-written intelligence report.

Commands:
  report  Build a competitor report end to end
  index   Collect and index content without summarizing
  search  Similarity search over the indexed content
  status  Show index health and size`,
}

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Defaults()
	}
}

func initLogger() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// connectStore opens the Qdrant connection and makes sure the collection
// exists. The constructor already verifies health.
func connectStore(ctx context.Context) (*storage.Store, error) {
	store, err := storage.NewStore(cfg.Qdrant.Host, cfg.Qdrant.Port, cfg.Qdrant.Collection)
	if err != nil {
		return nil, fmt.Errorf("connect to Qdrant: %w", err)
	}
	if err := store.EnsureCollection(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("ensure collection: %w", err)
	}
	return store, nil
}
