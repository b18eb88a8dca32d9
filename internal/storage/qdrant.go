package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/qdrant/go-client/qdrant"
)

// Store wraps the Qdrant client with connection management and health
// checks. One Store owns one collection; concurrent use relies on Qdrant's
// own guarantees.
type Store struct {
	client     *qdrant.Client
	collection string
}

// NewStore creates a Qdrant-backed store for the given collection and
// verifies the server is reachable. The health check retries with
// exponential backoff for up to 30 seconds; after construction no
// operation is retried, failures surface to the caller.
func NewStore(host string, port int, collection string) (*Store, error) {
	if collection == "" {
		collection = DefaultCollection
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}

	store := &Store{
		client:     client,
		collection: collection,
	}

	if err := store.healthCheckWithRetry(context.Background()); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return store, nil
}

// healthCheckWithRetry performs health check with exponential backoff.
// Initial interval 500ms, max interval 10s, max elapsed 30s.
func (s *Store) healthCheckWithRetry(ctx context.Context) error {
	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = 500 * time.Millisecond
	exponentialBackoff.MaxInterval = 10 * time.Second
	exponentialBackoff.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		return s.Health(ctx)
	}, backoff.WithContext(exponentialBackoff, ctx))
}

// Health performs a single health check against Qdrant.
func (s *Store) Health(ctx context.Context) error {
	result, err := s.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	if result == nil || result.Title == "" {
		return fmt.Errorf("health check returned invalid response")
	}

	return nil
}

// EnsureCollection creates the collection on first use with 1536-dimension
// cosine vectors and payload indexes. Idempotent - safe to call on every
// startup.
func (s *Store) EnsureCollection(ctx context.Context) error {
	collections, err := s.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("%w: list collections: %w", ErrUnavailable, err)
	}

	for _, name := range collections {
		if name == s.collection {
			return nil
		}
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     VectorDimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("%w: create collection: %w", ErrUnavailable, err)
	}

	if err := s.createPayloadIndexes(ctx); err != nil {
		return fmt.Errorf("%w: create payload indexes: %w", ErrUnavailable, err)
	}

	return nil
}

// createPayloadIndexes indexes the fields search can filter on.
func (s *Store) createPayloadIndexes(ctx context.Context) error {
	fields := []string{
		"source",     // "newsapi" vs "website"
		"competitor", // Scope search to one competitor's accumulated runs
	}

	for _, field := range fields {
		_, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: s.collection,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		if err != nil {
			return fmt.Errorf("index field %s: %w", field, err)
		}
	}

	return nil
}

// Close closes the Qdrant client connection.
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// UpsertChunks stores chunks with their embeddings, batched in groups of
// 100. Point IDs are the chunks' deterministic UUIDs, so re-submitting
// identical content overwrites the existing point instead of duplicating it.
func (s *Store) UpsertChunks(ctx context.Context, chunks []*Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	for i, chunk := range chunks {
		if len(chunk.Embedding) != VectorDimension {
			return fmt.Errorf("%w: chunk %d has %d dimensions, expected %d",
				ErrDimensionMismatch, i, len(chunk.Embedding), VectorDimension)
		}
	}

	batchSize := 100
	for i := 0; i < len(chunks); i += batchSize {
		end := min(i+batchSize, len(chunks))

		batch := chunks[i:end]
		points := make([]*qdrant.PointStruct, len(batch))

		for j, chunk := range batch {
			points[j] = &qdrant.PointStruct{
				Id:      qdrant.NewIDUUID(chunk.ID),
				Vectors: qdrant.NewVectors(chunk.Embedding...),
				Payload: qdrant.NewValueMap(map[string]any{
					"content":      chunk.Content,
					"source":       chunk.Metadata.Source,
					"competitor":   chunk.Metadata.Competitor,
					"title":        chunk.Metadata.Title,
					"url":          chunk.Metadata.URL,
					"publish_date": chunk.Metadata.PublishDate,
					"fetch_date":   chunk.Metadata.FetchDate,
				}),
			}
		}

		if _, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: s.collection,
			Points:         points,
		}); err != nil {
			return fmt.Errorf("%w: upsert batch %d-%d: %w", ErrUnavailable, i, end, err)
		}
	}

	return nil
}

// SearchChunks performs vector similarity search over stored chunks.
// Results are ordered by score descending; fewer than limit come back when
// the collection is smaller. An empty source matches every source.
func (s *Store) SearchChunks(ctx context.Context, embedding []float32, limit int, source string) ([]*ScoredChunk, error) {
	if len(embedding) != VectorDimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, expected %d",
			ErrDimensionMismatch, len(embedding), VectorDimension)
	}

	var filter *qdrant.Filter
	if source != "" {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("source", source),
			},
		}
	}

	results, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(embedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(false),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: search chunks: %w", ErrUnavailable, err)
	}

	scored := make([]*ScoredChunk, 0, len(results))
	for _, result := range results {
		payload := result.Payload

		chunk := &Chunk{
			ID:      result.Id.GetUuid(),
			Content: payload["content"].GetStringValue(),
			Metadata: Metadata{
				Source:      payload["source"].GetStringValue(),
				Competitor:  payload["competitor"].GetStringValue(),
				Title:       payload["title"].GetStringValue(),
				URL:         payload["url"].GetStringValue(),
				PublishDate: payload["publish_date"].GetStringValue(),
				FetchDate:   payload["fetch_date"].GetStringValue(),
			},
		}

		scored = append(scored, &ScoredChunk{
			Chunk: chunk,
			Score: float64(result.Score),
		})
	}

	return scored, nil
}

// Count returns the number of points in the collection.
func (s *Store) Count(ctx context.Context) (uint64, error) {
	collection, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return 0, fmt.Errorf("%w: get collection: %w", ErrUnavailable, err)
	}

	return collection.GetPointsCount(), nil
}

// Collection returns the name of the collection this store writes to.
func (s *Store) Collection() string {
	return s.collection
}
