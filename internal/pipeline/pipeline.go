// Package pipeline turns collected documents into the bounded context set
// handed to the summarizer. One run chunks and embeds the input, upserts
// the chunks into the vector index, retrieves the nearest neighbors for
// the competitor query, and applies the recency window.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rsteadman/rivalscope/internal/recency"
	"github.com/rsteadman/rivalscope/internal/retriever"
	"github.com/rsteadman/rivalscope/internal/storage"
)

// DefaultContextSize caps how many chunks reach the summarizer.
const DefaultContextSize = 7

// queryTemplate is the retrieval query built for every report run.
const queryTemplate = "Recent news and website information about %s"

// Chunker splits documents into overlapping chunks.
type Chunker interface {
	Split(docs []storage.Document) []storage.Chunk
}

// Embedder turns chunk text into vectors.
type Embedder interface {
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// Indexer persists embedded chunks.
type Indexer interface {
	UpsertChunks(ctx context.Context, chunks []*storage.Chunk) error
}

// Retriever answers similarity queries over the index.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]storage.Chunk, error)
}

// Config tunes retrieval breadth and context size. Zero values select the
// defaults.
type Config struct {
	RetrievalK  int
	ContextSize int
}

// Result contains the context set and statistics for one pipeline run.
type Result struct {
	Competitor    string
	DocsCollected int
	ChunksIndexed int
	Retrieved     int
	NewsKept      int
	WebKept       int
	Context       []storage.Chunk
	Duration      time.Duration
}

// Pipeline orchestrates chunking, embedding, indexing, retrieval, and
// recency filtering for a competitor report.
type Pipeline struct {
	chunker   Chunker
	embedder  Embedder
	index     Indexer
	retriever Retriever
	filter    *recency.Filter
	cfg       Config
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a Pipeline with the given components. If logger is nil,
// slog.Default() is used.
func New(
	chunker Chunker,
	embedder Embedder,
	index Indexer,
	retr Retriever,
	cfg Config,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RetrievalK <= 0 {
		cfg.RetrievalK = retriever.DefaultK
	}
	if cfg.ContextSize <= 0 {
		cfg.ContextSize = DefaultContextSize
	}
	return &Pipeline{
		chunker:   chunker,
		embedder:  embedder,
		index:     index,
		retriever: retr,
		filter:    recency.NewFilter(logger),
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes the full pipeline for one competitor. An empty document set
// short-circuits to an empty context set without touching the index. Fatal
// failures from the embedder or the store abort the run; recency filtering
// never does.
func (p *Pipeline) Run(ctx context.Context, docs []storage.Document, competitor string, daysBack int) (*Result, error) {
	start := time.Now()
	result := &Result{
		Competitor:    competitor,
		DocsCollected: len(docs),
	}
	p.logger.Info("Starting pipeline", "competitor", competitor, "docs", len(docs), "days_back", daysBack)

	if len(docs) == 0 {
		p.logger.Warn("No documents collected, nothing to index", "competitor", competitor)
		result.Duration = time.Since(start)
		return result, nil
	}

	indexed, err := p.Index(ctx, docs)
	if err != nil {
		return nil, err
	}
	if indexed == 0 {
		result.Duration = time.Since(start)
		return result, nil
	}
	result.ChunksIndexed = indexed

	query := fmt.Sprintf(queryTemplate, competitor)
	retrieved, err := p.retriever.Retrieve(ctx, query, p.cfg.RetrievalK)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	result.Retrieved = len(retrieved)

	if daysBack < 0 {
		daysBack = 0
	}
	cutoff := recency.Cutoff(p.now(), daysBack)
	news, other := p.filter.Apply(retrieved, cutoff)
	result.NewsKept = len(news)
	result.WebKept = len(other)

	// Fresh news leads the context; website chunks fill the remainder.
	combined := append(news, other...)
	if len(combined) > p.cfg.ContextSize {
		combined = combined[:p.cfg.ContextSize]
	}
	result.Context = combined
	result.Duration = time.Since(start)

	p.logger.Info("Pipeline complete",
		"competitor", competitor,
		"indexed", result.ChunksIndexed,
		"retrieved", result.Retrieved,
		"news_kept", result.NewsKept,
		"web_kept", result.WebKept,
		"context", len(result.Context),
		"duration", result.Duration,
	)

	return result, nil
}

// Index chunks, embeds, and upserts documents without retrieving anything.
// It returns the number of chunks written. Documents that produce no chunks
// are not an error.
func (p *Pipeline) Index(ctx context.Context, docs []storage.Document) (int, error) {
	chunks := p.chunker.Split(docs)
	if len(chunks) == 0 {
		p.logger.Warn("Documents produced no chunks", "docs", len(docs))
		return 0, nil
	}
	p.logger.Debug("Chunked documents", "chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	embeddings, err := p.embedder.GenerateEmbeddings(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("generate embeddings: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("embedding count mismatch: %d chunks, %d embeddings", len(chunks), len(embeddings))
	}

	stored := make([]*storage.Chunk, len(chunks))
	for i, chunk := range chunks {
		chunk.ID = chunkID(chunk.Metadata.URL, chunk.Content)
		chunk.Embedding = embeddings[i]
		stored[i] = &chunk
	}

	if err := p.index.UpsertChunks(ctx, stored); err != nil {
		return 0, fmt.Errorf("index chunks: %w", err)
	}
	p.logger.Info("Indexed chunks", "count", len(stored))
	return len(stored), nil
}

// chunkID derives a stable UUID from the chunk's source URL and content.
// Re-indexing identical text overwrites the existing point instead of
// accumulating duplicates.
func chunkID(url, content string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(url+"\x00"+content)).String()
}
