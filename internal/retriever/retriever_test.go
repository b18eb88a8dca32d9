package retriever

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rsteadman/rivalscope/internal/storage"
)

type fakeEmbedder struct {
	texts []string
	err   error
}

func (f *fakeEmbedder) GenerateEmbeddings(_ context.Context, texts []string) ([][]float32, error) {
	f.texts = append(f.texts, texts...)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

type fakeSearcher struct {
	limit   int
	source  string
	results []*storage.ScoredChunk
	err     error
}

func (f *fakeSearcher) SearchChunks(_ context.Context, _ []float32, limit int, source string) ([]*storage.ScoredChunk, error) {
	f.limit = limit
	f.source = source
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func scoredResults(n int) []*storage.ScoredChunk {
	out := make([]*storage.ScoredChunk, n)
	for i := range out {
		out[i] = &storage.ScoredChunk{
			Chunk: &storage.Chunk{
				Content: fmt.Sprintf("chunk %d", i),
				Metadata: storage.Metadata{
					Source:     storage.SourceNews,
					Competitor: "Acme Corp",
					URL:        fmt.Sprintf("https://example.com/%d", i),
				},
			},
			Score: 1.0 - float64(i)*0.1,
		}
	}
	return out
}

// TestRetrieve verifies the query is embedded once and results come back
// in store order with scores dropped.
func TestRetrieve(t *testing.T) {
	embedder := &fakeEmbedder{}
	searcher := &fakeSearcher{results: scoredResults(3)}
	r := New(embedder, searcher, nil)

	chunks, err := r.Retrieve(context.Background(), "Recent news and website information about Acme Corp", 15)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	if len(embedder.texts) != 1 {
		t.Errorf("Expected 1 embedded text, got %d", len(embedder.texts))
	}
	if searcher.limit != 15 {
		t.Errorf("Search limit = %d, want 15", searcher.limit)
	}
	if searcher.source != "" {
		t.Errorf("Report retrieval should not filter by source, got %q", searcher.source)
	}
	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if want := fmt.Sprintf("chunk %d", i); chunk.Content != want {
			t.Errorf("Chunk %d content = %q, want %q", i, chunk.Content, want)
		}
	}
}

// TestSearch_DefaultsAndSourceFilter verifies k defaults to DefaultK and
// the source filter reaches the store.
func TestSearch_DefaultsAndSourceFilter(t *testing.T) {
	searcher := &fakeSearcher{results: scoredResults(1)}
	r := New(&fakeEmbedder{}, searcher, nil)

	scored, err := r.Search(context.Background(), "pricing changes", 0, storage.SourceNews)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if searcher.limit != DefaultK {
		t.Errorf("Search limit = %d, want DefaultK (%d)", searcher.limit, DefaultK)
	}
	if searcher.source != storage.SourceNews {
		t.Errorf("Source filter = %q, want %q", searcher.source, storage.SourceNews)
	}
	if len(scored) != 1 || scored[0].Score != 1.0 {
		t.Errorf("Expected scored results to pass through, got %+v", scored)
	}
}

// TestRetrieve_ErrorPropagation verifies embedder and store failures keep
// their sentinel identity through the wrapping.
func TestRetrieve_ErrorPropagation(t *testing.T) {
	embedErr := errors.New("boom")
	r := New(&fakeEmbedder{err: embedErr}, &fakeSearcher{}, nil)
	if _, err := r.Retrieve(context.Background(), "q", 5); !errors.Is(err, embedErr) {
		t.Errorf("Expected embedder error to propagate, got %v", err)
	}

	storeErr := fmt.Errorf("%w: query failed", storage.ErrUnavailable)
	r = New(&fakeEmbedder{}, &fakeSearcher{err: storeErr}, nil)
	if _, err := r.Retrieve(context.Background(), "q", 5); !errors.Is(err, storage.ErrUnavailable) {
		t.Errorf("Expected storage.ErrUnavailable to propagate, got %v", err)
	}
}
