// Package collector gathers raw documents about a competitor from NewsAPI
// and from the competitor's own website.
package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/rsteadman/rivalscope/internal/recency"
	"github.com/rsteadman/rivalscope/internal/storage"
)

const (
	// DefaultNewsEndpoint is NewsAPI's article search endpoint.
	DefaultNewsEndpoint = "https://newsapi.org/v2/everything"

	// DefaultMaxArticles caps how many articles one collection requests.
	DefaultMaxArticles = 20
)

// newsResponse is the NewsAPI envelope. Code and Message are only set when
// Status is "error".
type newsResponse struct {
	Status       string    `json:"status"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
	TotalResults int       `json:"totalResults"`
	Articles     []article `json:"articles"`
}

type article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// NewsClient collects recent English-language articles mentioning a
// competitor from NewsAPI.
type NewsClient struct {
	apiKey     string
	endpoint   string
	maxResults int
	httpClient *http.Client
	logger     *slog.Logger
}

// NewNewsClient creates a NewsClient. A maxResults of 0 or less selects
// DefaultMaxArticles. If logger is nil, slog.Default() is used.
func NewNewsClient(apiKey string, maxResults int, logger *slog.Logger) *NewsClient {
	if maxResults <= 0 {
		maxResults = DefaultMaxArticles
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NewsClient{
		apiKey:     apiKey,
		endpoint:   DefaultNewsEndpoint,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// Collect fetches articles about the competitor published within the last
// daysBack days, sorted by relevancy. Articles without usable text or with
// incomplete metadata are skipped with a log entry, never fatally.
func (c *NewsClient) Collect(ctx context.Context, competitor string, daysBack int) ([]storage.Document, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("NewsAPI key not set")
	}

	params := url.Values{}
	params.Set("q", competitor)
	params.Set("language", "en")
	params.Set("from", recency.Cutoff(time.Now(), daysBack).Format("2006-01-02"))
	params.Set("sortBy", "relevancy")
	params.Set("pageSize", strconv.Itoa(c.maxResults))

	resp, err := c.fetch(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("fetch articles for %q: %w", competitor, err)
	}

	docs := make([]storage.Document, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		content := a.Content
		if content == "" {
			content = a.Description
		}
		content = CleanText(content)
		if content == "" {
			c.logger.Debug("Skipping article without text", "url", a.URL)
			continue
		}

		doc := storage.Document{
			Content: content,
			Metadata: storage.Metadata{
				Source:      storage.SourceNews,
				Competitor:  competitor,
				Title:       a.Title,
				URL:         a.URL,
				PublishDate: a.PublishedAt,
			},
		}
		if err := doc.Metadata.Validate(); err != nil {
			c.logger.Warn("Skipping article with incomplete metadata", "url", a.URL, "error", err)
			continue
		}
		docs = append(docs, doc)
	}

	c.logger.Info("Collected news articles",
		"competitor", competitor,
		"returned", len(resp.Articles),
		"kept", len(docs))

	return docs, nil
}

// fetch performs the search request, retrying network failures, HTTP 429,
// and server errors with exponential backoff. Other client errors and API
// error envelopes are permanent.
func (c *NewsClient) fetch(ctx context.Context, params url.Values) (*newsResponse, error) {
	var out *newsResponse

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("X-Api-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("newsapi returned HTTP %d", resp.StatusCode)
		}

		var decoded newsResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		if decoded.Status != "ok" {
			return backoff.Permanent(fmt.Errorf("newsapi error %s: %s", decoded.Code, decoded.Message))
		}

		out = &decoded
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}
	return out, nil
}
