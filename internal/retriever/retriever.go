// Package retriever embeds queries and runs nearest-neighbor search over
// the chunk index.
package retriever

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rsteadman/rivalscope/internal/storage"
)

// DefaultK is the number of chunks fetched per query, before recency
// filtering and context truncation shrink the set.
const DefaultK = 15

// Embedder turns query text into vectors.
type Embedder interface {
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// Searcher performs k-NN search over the chunk index. An empty source
// searches all sources.
type Searcher interface {
	SearchChunks(ctx context.Context, embedding []float32, limit int, source string) ([]*storage.ScoredChunk, error)
}

// Retriever answers similarity queries against the chunk index.
type Retriever struct {
	embedder Embedder
	store    Searcher
	logger   *slog.Logger
}

// New creates a Retriever. If logger is nil, slog.Default() is used.
func New(embedder Embedder, store Searcher, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// Search embeds the query and returns up to k chunks ordered by descending
// similarity, with scores. A non-empty source restricts results to that
// source kind. A k of 0 or less selects DefaultK.
func (r *Retriever) Search(ctx context.Context, query string, k int, source string) ([]*storage.ScoredChunk, error) {
	if k <= 0 {
		k = DefaultK
	}

	embeddings, err := r.embedder.GenerateEmbeddings(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(embeddings) != 1 {
		return nil, fmt.Errorf("expected 1 query embedding, got %d", len(embeddings))
	}

	scored, err := r.store.SearchChunks(ctx, embeddings[0], k, source)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}

	r.logger.Debug("Retrieved chunks",
		"query", query,
		"k", k,
		"source", source,
		"results", len(scored))

	return scored, nil
}

// Retrieve returns up to k chunks for the query with scores dropped,
// searching all sources. The slice keeps the store's similarity order.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]storage.Chunk, error) {
	scored, err := r.Search(ctx, query, k, "")
	if err != nil {
		return nil, err
	}

	chunks := make([]storage.Chunk, 0, len(scored))
	for _, sc := range scored {
		chunks = append(chunks, *sc.Chunk)
	}
	return chunks, nil
}
