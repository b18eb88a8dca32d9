package collector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/gocolly/colly/v2"
	"golang.org/x/net/html"

	"github.com/rsteadman/rivalscope/internal/storage"
)

const (
	// DefaultUserAgent mirrors a desktop browser so marketing sites serve
	// the full page instead of a bot splash.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// DefaultFetchTimeout bounds a single page fetch.
	DefaultFetchTimeout = 30 * time.Second
)

// WebsiteCollector scrapes a competitor page and converts it to markdown.
// The markdown keeps paragraph breaks, which the chunker uses as cut
// points.
type WebsiteCollector struct {
	userAgent string
	timeout   time.Duration
	logger    *slog.Logger
}

// NewWebsiteCollector creates a WebsiteCollector. Empty or zero arguments
// select the defaults.
func NewWebsiteCollector(userAgent string, timeout time.Duration, logger *slog.Logger) *WebsiteCollector {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WebsiteCollector{
		userAgent: userAgent,
		timeout:   timeout,
		logger:    logger,
	}
}

// Collect fetches the page at pageURL and returns it as a single website
// document. Fetch and conversion failures are returned to the caller, who
// decides whether the run continues without website content.
func (w *WebsiteCollector) Collect(ctx context.Context, pageURL string) ([]storage.Document, error) {
	var (
		docs     []storage.Document
		fetchErr error
	)

	c := colly.NewCollector(
		colly.MaxDepth(1),
		colly.UserAgent(w.userAgent),
	)
	c.SetRequestTimeout(w.timeout)

	c.OnRequest(func(r *colly.Request) {
		select {
		case <-ctx.Done():
			fetchErr = ctx.Err()
			r.Abort()
		default:
		}
	})

	c.OnResponse(func(r *colly.Response) {
		page := string(r.Body)

		markdown, err := htmltomarkdown.ConvertString(page)
		if err != nil {
			fetchErr = fmt.Errorf("convert page to markdown: %w", err)
			return
		}
		markdown = strings.TrimSpace(markdown)
		if markdown == "" {
			w.logger.Warn("Page converted to empty markdown", "url", pageURL)
			return
		}

		docs = append(docs, storage.Document{
			Content: markdown,
			Metadata: storage.Metadata{
				Source:    storage.SourceWebsite,
				Title:     ExtractTitle(page),
				URL:       pageURL,
				FetchDate: time.Now().Format("2006-01-02"),
			},
		})
	})

	c.OnError(func(_ *colly.Response, err error) {
		fetchErr = fmt.Errorf("fetch %s: %w", pageURL, err)
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", pageURL, err)
	}
	if fetchErr != nil {
		return nil, fetchErr
	}

	w.logger.Info("Collected website page", "url", pageURL, "docs", len(docs))
	return docs, nil
}

// ExtractTitle returns the text of the page's first <title> element, or ""
// when the page has none or does not parse.
func ExtractTitle(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return true
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if walk(child) {
				return true
			}
		}
		return false
	}
	walk(doc)
	return title
}
