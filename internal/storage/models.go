package storage

import "fmt"

// Source values attached by the collectors. The temporal filter keys off
// Source, so documents from any future source default to passthrough.
const (
	SourceNews    = "newsapi"
	SourceWebsite = "website"
)

// Document is a unit of collected text with provenance metadata.
// Collectors create documents; the chunker derives child documents from them.
type Document struct {
	Content  string // Cleaned text body, never empty
	Metadata Metadata
}

// Metadata carries provenance for a document. Required fields vary by
// source: news articles carry Competitor, Title and PublishDate; website
// pages carry FetchDate. Chunks inherit the parent's metadata verbatim.
type Metadata struct {
	Source      string // "newsapi" or "website"
	Competitor  string // Name used for the original collection query
	Title       string // Article headline or page title
	URL         string // Where the content came from
	PublishDate string // ISO-8601 or YYYY-MM-DD, news only; may be absent
	FetchDate   string // YYYY-MM-DD when scraped, website only
}

// Validate checks the per-source required fields. PublishDate is not
// required here: a news article without one still enters the index and is
// excluded later by the recency filter.
func (m Metadata) Validate() error {
	switch m.Source {
	case SourceNews:
		if m.Competitor == "" {
			return fmt.Errorf("news document missing competitor")
		}
		if m.URL == "" {
			return fmt.Errorf("news document missing url")
		}
	case SourceWebsite:
		if m.URL == "" {
			return fmt.Errorf("website document missing url")
		}
		if m.FetchDate == "" {
			return fmt.Errorf("website document missing fetch date")
		}
	case "":
		return fmt.Errorf("document missing source")
	}
	return nil
}

// Chunk is a bounded sub-span of a document prepared for indexing.
// Content is a contiguous substring of the parent document and Metadata is
// copied from it unchanged.
type Chunk struct {
	ID        string    // Deterministic UUID derived from URL and content
	Content   string    // Chunk text content
	Metadata  Metadata  // Inherited from the parent document
	Embedding []float32 // 1536-dim vector (text-embedding-3-small)
}

// ScoredChunk pairs a chunk with its similarity score from a search.
type ScoredChunk struct {
	Chunk *Chunk
	Score float64
}

// DefaultCollection is the Qdrant collection that accumulates chunks across
// runs. It is never cleared by the pipeline.
const DefaultCollection = "competitor_news"

// VectorDimension is the embedding size for text-embedding-3-small.
const VectorDimension = 1536
