package collector

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/rsteadman/rivalscope/internal/storage"
)

func testNewsClient(apiKey, endpoint string) *NewsClient {
	c := NewNewsClient(apiKey, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.endpoint = endpoint
	return c
}

// TestNewsCollect verifies request shape and that articles map onto news
// documents with cleaned content.
func TestNewsCollect(t *testing.T) {
	var gotQuery map[string]string
	var gotKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		gotQuery = map[string]string{
			"q":        r.URL.Query().Get("q"),
			"language": r.URL.Query().Get("language"),
			"from":     r.URL.Query().Get("from"),
			"sortBy":   r.URL.Query().Get("sortBy"),
			"pageSize": r.URL.Query().Get("pageSize"),
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"status": "ok",
			"totalResults": 2,
			"articles": [
				{
					"title": "Acme raises Series C",
					"url": "https://news.example.com/acme-series-c",
					"publishedAt": "2026-08-22T10:15:00Z",
					"content": "Acme Corp raised\n $100M today. [+512 chars]"
				},
				{
					"title": "Acme ships anvils",
					"description": "The anvil line is back.",
					"url": "https://news.example.com/acme-anvils",
					"publishedAt": "2026-08-21T08:00:00Z"
				}
			]
		}`)
	}))
	defer server.Close()

	client := testNewsClient("test-key", server.URL)
	docs, err := client.Collect(context.Background(), "Acme Corp", 7)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if gotKey != "test-key" {
		t.Errorf("X-Api-Key = %q, want test-key", gotKey)
	}
	if gotQuery["q"] != "Acme Corp" || gotQuery["language"] != "en" || gotQuery["sortBy"] != "relevancy" {
		t.Errorf("Unexpected query params: %+v", gotQuery)
	}
	if gotQuery["pageSize"] != "20" {
		t.Errorf("pageSize = %q, want default 20", gotQuery["pageSize"])
	}
	if ok, _ := regexp.MatchString(`^\d{4}-\d{2}-\d{2}$`, gotQuery["from"]); !ok {
		t.Errorf("from = %q, want YYYY-MM-DD", gotQuery["from"])
	}

	if len(docs) != 2 {
		t.Fatalf("Expected 2 documents, got %d", len(docs))
	}

	first := docs[0]
	if first.Content != "Acme Corp raised $100M today." {
		t.Errorf("Content not cleaned: %q", first.Content)
	}
	if first.Metadata.Source != storage.SourceNews {
		t.Errorf("Source = %q, want %q", first.Metadata.Source, storage.SourceNews)
	}
	if first.Metadata.Competitor != "Acme Corp" {
		t.Errorf("Competitor = %q", first.Metadata.Competitor)
	}
	if first.Metadata.PublishDate != "2026-08-22T10:15:00Z" {
		t.Errorf("PublishDate = %q", first.Metadata.PublishDate)
	}

	if docs[1].Content != "The anvil line is back." {
		t.Errorf("Description fallback failed: %q", docs[1].Content)
	}
}

// TestNewsCollect_SkipsUnusableArticles verifies articles without text or
// without a URL are dropped without failing the collection.
func TestNewsCollect_SkipsUnusableArticles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"status": "ok",
			"totalResults": 3,
			"articles": [
				{"title": "No text", "url": "https://news.example.com/empty", "publishedAt": "2026-08-22T10:00:00Z"},
				{"title": "No URL", "content": "Some body.", "publishedAt": "2026-08-22T10:00:00Z"},
				{"title": "Good", "url": "https://news.example.com/good", "content": "Usable body.", "publishedAt": "2026-08-22T10:00:00Z"}
			]
		}`)
	}))
	defer server.Close()

	client := testNewsClient("test-key", server.URL)
	docs, err := client.Collect(context.Background(), "Acme Corp", 7)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(docs) != 1 || docs[0].Metadata.URL != "https://news.example.com/good" {
		t.Errorf("Expected only the complete article, got %d docs", len(docs))
	}
}

// TestNewsCollect_APIError verifies the error envelope fails immediately
// with the API's code and message.
func TestNewsCollect_APIError(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid."}`)
	}))
	defer server.Close()

	client := testNewsClient("bad-key", server.URL)
	_, err := client.Collect(context.Background(), "Acme Corp", 7)
	if err == nil {
		t.Fatal("Expected error for invalid key")
	}
	if !strings.Contains(err.Error(), "apiKeyInvalid") {
		t.Errorf("Error should carry the API code, got %v", err)
	}
	if requests != 1 {
		t.Errorf("Client errors must not retry, got %d requests", requests)
	}
}

// TestNewsCollect_RetriesServerErrors verifies a transient 5xx is retried
// until the API recovers.
func TestNewsCollect_RetriesServerErrors(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"ok","totalResults":0,"articles":[]}`)
	}))
	defer server.Close()

	client := testNewsClient("test-key", server.URL)
	docs, err := client.Collect(context.Background(), "Acme Corp", 7)
	if err != nil {
		t.Fatalf("Collect should recover after retry: %v", err)
	}
	if requests != 2 {
		t.Errorf("Expected 2 requests, got %d", requests)
	}
	if len(docs) != 0 {
		t.Errorf("Expected 0 documents, got %d", len(docs))
	}
}

// TestNewsCollect_MissingKey verifies collection refuses to run without an
// API key.
func TestNewsCollect_MissingKey(t *testing.T) {
	client := testNewsClient("", "http://unused.invalid")
	if _, err := client.Collect(context.Background(), "Acme Corp", 7); err == nil {
		t.Fatal("Expected error when API key is empty")
	}
}
