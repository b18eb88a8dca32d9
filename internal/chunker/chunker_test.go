package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rsteadman/rivalscope/internal/storage"
)

func newsDoc(content string) storage.Document {
	return storage.Document{
		Content: content,
		Metadata: storage.Metadata{
			Source:      storage.SourceNews,
			Competitor:  "Acme Corp",
			Title:       "Acme expands",
			URL:         "https://example.com/acme",
			PublishDate: "2026-08-20T09:30:00Z",
		},
	}
}

// reconstruct rebuilds the original content from overlapping chunks by
// dropping each chunk's leading overlap runes.
func reconstruct(chunks []storage.Chunk, overlap int) string {
	var b strings.Builder
	for i, chunk := range chunks {
		runes := []rune(chunk.Content)
		if i == 0 {
			b.WriteString(chunk.Content)
			continue
		}
		b.WriteString(string(runes[overlap:]))
	}
	return b.String()
}

// TestSplit_ShortDocumentPassthrough verifies a document within one window
// becomes exactly one chunk with unchanged content.
func TestSplit_ShortDocumentPassthrough(t *testing.T) {
	c := New(1000, 200, nil)
	doc := newsDoc("Acme Corp raised a Series B round this week.")

	chunks := c.Split([]storage.Document{doc})
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != doc.Content {
		t.Errorf("Chunk content changed: %q", chunks[0].Content)
	}
}

// TestSplit_CoverageReconstruction verifies that concatenating chunks with
// the overlap removed reproduces the original content exactly.
func TestSplit_CoverageReconstruction(t *testing.T) {
	overlap := 20
	c := New(100, overlap, nil)
	content := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20)
	content = strings.TrimSuffix(content, " ")

	chunks := c.Split([]storage.Document{newsDoc(content)})
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks for %d chars, got %d", len(content), len(chunks))
	}

	for i, chunk := range chunks {
		if n := len([]rune(chunk.Content)); n > 100 {
			t.Errorf("Chunk %d has %d runes, window is 100", i, n)
		}
	}

	if got := reconstruct(chunks, overlap); got != content {
		t.Errorf("Reconstruction mismatch:\nwant %d chars\ngot  %d chars", len(content), len(got))
	}
}

// TestSplit_OverlapContinuity verifies each chunk starts with the tail of
// the previous one.
func TestSplit_OverlapContinuity(t *testing.T) {
	overlap := 15
	c := New(80, overlap, nil)
	content := strings.Repeat("Competitors ship features and publish announcements. ", 15)

	chunks := c.Split([]storage.Document{newsDoc(content)})
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}

	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Content)
		curr := []rune(chunks[i].Content)
		tail := string(prev[len(prev)-overlap:])
		head := string(curr[:overlap])
		if tail != head {
			t.Errorf("Chunk %d head %q does not match chunk %d tail %q", i, head, i-1, tail)
		}
	}
}

// TestSplit_MetadataInheritance verifies every chunk carries the parent
// document's metadata unchanged.
func TestSplit_MetadataInheritance(t *testing.T) {
	c := New(60, 10, nil)
	doc := newsDoc(strings.Repeat("Acme shipped something new today. ", 10))

	chunks := c.Split([]storage.Document{doc})
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if chunk.Metadata != doc.Metadata {
			t.Errorf("Chunk %d metadata = %+v, want %+v", i, chunk.Metadata, doc.Metadata)
		}
	}
}

// TestSplit_EmptyDocument verifies empty and all-whitespace documents yield
// zero chunks without erroring.
func TestSplit_EmptyDocument(t *testing.T) {
	c := New(1000, 200, nil)

	chunks := c.Split([]storage.Document{newsDoc(""), newsDoc("   \n\t  ")})
	if len(chunks) != 0 {
		t.Errorf("Expected 0 chunks for empty documents, got %d", len(chunks))
	}
}

// TestSplit_PrefersParagraphBoundary verifies windows cut at a paragraph
// break when one is available.
func TestSplit_PrefersParagraphBoundary(t *testing.T) {
	c := New(50, 10, nil)
	content := strings.Repeat("a", 30) + "\n\n" + strings.Repeat("b", 60)

	chunks := c.Split([]storage.Document{newsDoc(content)})
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0].Content, "\n\n") {
		t.Errorf("First chunk should end at paragraph break, got %q", chunks[0].Content)
	}
}

// TestSplit_HardCutWithoutSeparators verifies separator-free content falls
// back to full-size windows.
func TestSplit_HardCutWithoutSeparators(t *testing.T) {
	c := New(50, 10, nil)
	content := strings.Repeat("x", 200)

	chunks := c.Split([]storage.Document{newsDoc(content)})
	if len(chunks) != 5 {
		t.Fatalf("Expected 5 chunks, got %d", len(chunks))
	}
	for i := 0; i < len(chunks)-1; i++ {
		if n := len(chunks[i].Content); n != 50 {
			t.Errorf("Chunk %d length = %d, want 50", i, n)
		}
	}
	if got := reconstruct(chunks, 10); got != content {
		t.Errorf("Reconstruction mismatch for hard cuts")
	}
}

// TestSplit_MultiByteContent verifies chunks never split a rune and the
// content still reconstructs exactly.
func TestSplit_MultiByteContent(t *testing.T) {
	overlap := 12
	c := New(64, overlap, nil)
	content := strings.Repeat("Größe überprüfen und 数据检查 da capo. ", 12)

	chunks := c.Split([]storage.Document{newsDoc(content)})
	for i, chunk := range chunks {
		if !utf8.ValidString(chunk.Content) {
			t.Errorf("Chunk %d is not valid UTF-8", i)
		}
	}
	if got := reconstruct(chunks, overlap); got != content {
		t.Errorf("Reconstruction mismatch for multi-byte content")
	}
}

// TestSplit_MultipleDocuments verifies chunks keep document order.
func TestSplit_MultipleDocuments(t *testing.T) {
	c := New(1000, 200, nil)
	first := newsDoc("First document body.")
	second := storage.Document{
		Content: "Second document body.",
		Metadata: storage.Metadata{
			Source:    storage.SourceWebsite,
			URL:       "https://competitor.example.com",
			FetchDate: "2026-08-25",
		},
	}

	chunks := c.Split([]storage.Document{first, second})
	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Metadata.Source != storage.SourceNews {
		t.Errorf("Chunk 0 source = %q, want news first", chunks[0].Metadata.Source)
	}
	if chunks[1].Metadata.Source != storage.SourceWebsite {
		t.Errorf("Chunk 1 source = %q, want website second", chunks[1].Metadata.Source)
	}
}

// TestNew_OverlapGuard verifies an overlap at or above the window size is
// reduced instead of stalling the window.
func TestNew_OverlapGuard(t *testing.T) {
	c := New(100, 100, nil)
	if c.overlap != 25 {
		t.Errorf("Overlap = %d, want 25 (size/4)", c.overlap)
	}

	content := strings.Repeat("y", 350)
	chunks := c.Split([]storage.Document{newsDoc(content)})
	if len(chunks) == 0 {
		t.Fatal("Expected chunks, got none")
	}
	if got := reconstruct(chunks, c.overlap); got != content {
		t.Errorf("Reconstruction mismatch with guarded overlap")
	}
}
