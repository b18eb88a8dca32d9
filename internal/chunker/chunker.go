// Package chunker splits documents into overlapping fixed-size text windows.
package chunker

import (
	"log/slog"
	"strings"

	"github.com/rsteadman/rivalscope/internal/storage"
)

// DefaultChunkSize is the default window size in characters.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of characters a chunk shares
// with the previous one.
const DefaultChunkOverlap = 200

// boundaries are the window cut points in preference order: paragraph
// break, line break, sentence end, word break. A hard character cut is the
// fallback when none appear in the window.
var boundaries = []string{"\n\n", "\n", ". ", " "}

// Chunker splits documents into overlapping character windows, preserving
// each parent's metadata on every derived chunk.
type Chunker struct {
	size    int
	overlap int
	logger  *slog.Logger
}

// New creates a Chunker. Non-positive size or negative overlap fall back to
// the defaults; an overlap that would keep the window from advancing is
// reduced to a quarter of the size.
func New(size, overlap int, logger *slog.Logger) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}
	if overlap >= size {
		overlap = size / 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Chunker{size: size, overlap: overlap, logger: logger}
}

// Split chunks every document in order. Documents no longer than one window
// pass through as a single chunk; empty or all-whitespace documents yield
// zero chunks and log a warning. IDs and embeddings are assigned later in
// the pipeline.
func (c *Chunker) Split(docs []storage.Document) []storage.Chunk {
	var chunks []storage.Chunk
	for _, doc := range docs {
		if strings.TrimSpace(doc.Content) == "" {
			c.logger.Warn("document has no content after cleaning, skipping",
				"source", doc.Metadata.Source, "url", doc.Metadata.URL)
			continue
		}
		chunks = append(chunks, c.splitDocument(doc)...)
	}
	return chunks
}

// splitDocument produces successive overlapping windows over one document.
// Windows are measured in runes so multi-byte text never splits
// mid-character.
func (c *Chunker) splitDocument(doc storage.Document) []storage.Chunk {
	runes := []rune(doc.Content)
	if len(runes) <= c.size {
		return []storage.Chunk{{Content: doc.Content, Metadata: doc.Metadata}}
	}

	var chunks []storage.Chunk
	start := 0
	for start < len(runes) {
		end := start + c.size
		if end >= len(runes) {
			chunks = append(chunks, storage.Chunk{
				Content:  string(runes[start:]),
				Metadata: doc.Metadata,
			})
			break
		}

		cut := c.cutPoint(runes, start, end)
		chunks = append(chunks, storage.Chunk{
			Content:  string(runes[start:cut]),
			Metadata: doc.Metadata,
		})
		start = cut - c.overlap
	}
	return chunks
}

// cutPoint picks where to end the window starting at start. It scans
// backward from the hard limit for the best boundary, never retreating past
// the point where the next window could stall.
func (c *Chunker) cutPoint(runes []rune, start, end int) int {
	floor := start + c.size/2
	if m := start + c.overlap + 1; m > floor {
		floor = m
	}

	for _, sep := range boundaries {
		if cut := lastBoundary(runes, floor, end, []rune(sep)); cut > 0 {
			return cut
		}
	}
	return end
}

// lastBoundary returns the position just after the last occurrence of sep
// within runes[floor:end], or -1 if sep does not occur there. The separator
// stays inside the earlier chunk.
func lastBoundary(runes []rune, floor, end int, sep []rune) int {
	for i := end - len(sep); i >= floor; i-- {
		match := true
		for j := range sep {
			if runes[i+j] != sep[j] {
				match = false
				break
			}
		}
		if match {
			return i + len(sep)
		}
	}
	return -1
}
