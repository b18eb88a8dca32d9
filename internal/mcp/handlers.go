package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rsteadman/rivalscope/internal/pipeline"
	"github.com/rsteadman/rivalscope/internal/storage"
)

// NewsCollector gathers recent articles about a competitor.
type NewsCollector interface {
	Collect(ctx context.Context, competitor string, daysBack int) ([]storage.Document, error)
}

// WebsiteCollector fetches a competitor page as a document.
type WebsiteCollector interface {
	Collect(ctx context.Context, pageURL string) ([]storage.Document, error)
}

// ReportPipeline turns collected documents into a context set.
type ReportPipeline interface {
	Run(ctx context.Context, docs []storage.Document, competitor string, daysBack int) (*pipeline.Result, error)
}

// Summarizer turns a context set into the final report text.
type Summarizer interface {
	Summarize(ctx context.Context, competitor string, contextSet []storage.Chunk) (string, error)
}

// Searcher answers scored similarity queries over the index.
type Searcher interface {
	Search(ctx context.Context, query string, k int, source string) ([]*storage.ScoredChunk, error)
}

// IndexStore reports on the backing collection.
type IndexStore interface {
	Count(ctx context.Context) (uint64, error)
	Collection() string
}

// makeReportHandler creates the competitor_report tool handler.
// Report flow:
// 1. Collect recent news articles (fatal on failure)
// 2. Optionally scrape the competitor website (best effort)
// 3. Run the pipeline: chunk, embed, index, retrieve, recency filter
// 4. Summarize the context set into the report
func makeReportHandler(deps *Deps) func(
	context.Context, *mcp.CallToolRequest, CompetitorReportInput,
) (*mcp.CallToolResult, CompetitorReportOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CompetitorReportInput) (
		*mcp.CallToolResult, CompetitorReportOutput, error,
	) {
		competitor := strings.TrimSpace(input.Competitor)
		if competitor == "" {
			return nil, CompetitorReportOutput{}, fmt.Errorf("competitor is required")
		}

		daysBack := deps.DaysBack
		if input.DaysBack != nil {
			daysBack = *input.DaysBack
		}
		if daysBack < 0 {
			daysBack = 0
		}

		docs, err := deps.News.Collect(ctx, competitor, daysBack)
		if err != nil {
			return nil, CompetitorReportOutput{}, fmt.Errorf("collect news: %w", err)
		}

		if input.WebsiteURL != "" {
			webDocs, err := deps.Website.Collect(ctx, input.WebsiteURL)
			if err != nil {
				deps.Logger.Warn("Website collection failed, continuing with news only",
					"url", input.WebsiteURL, "error", err)
			} else {
				docs = append(docs, webDocs...)
			}
		}

		result, err := deps.Pipeline.Run(ctx, docs, competitor, daysBack)
		if err != nil {
			return nil, CompetitorReportOutput{}, fmt.Errorf("pipeline: %w", err)
		}

		report, err := deps.Summarizer.Summarize(ctx, competitor, result.Context)
		if err != nil {
			return nil, CompetitorReportOutput{}, fmt.Errorf("summarize: %w", err)
		}

		return nil, CompetitorReportOutput{
			Report:        report,
			Competitor:    competitor,
			DaysBack:      daysBack,
			DocsCollected: result.DocsCollected,
			ChunksIndexed: result.ChunksIndexed,
			ContextChunks: len(result.Context),
		}, nil
	}
}

// makeSearchIndexHandler creates the search_index tool handler. It is a
// direct similarity search over everything indexed so far, with no recency
// filtering.
func makeSearchIndexHandler(deps *Deps) func(
	context.Context, *mcp.CallToolRequest, SearchIndexInput,
) (*mcp.CallToolResult, SearchIndexOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchIndexInput) (
		*mcp.CallToolResult, SearchIndexOutput, error,
	) {
		limit := input.Limit
		if limit <= 0 {
			limit = 5
		}

		if input.Source != "" && input.Source != storage.SourceNews && input.Source != storage.SourceWebsite {
			return nil, SearchIndexOutput{}, fmt.Errorf(
				"unknown source %q (use %q or %q)", input.Source, storage.SourceNews, storage.SourceWebsite)
		}

		scored, err := deps.Retriever.Search(ctx, input.Query, limit, input.Source)
		if err != nil {
			return nil, SearchIndexOutput{}, fmt.Errorf("search failed: %w", err)
		}

		results := make([]IndexMatch, 0, len(scored))
		for _, sc := range scored {
			meta := sc.Chunk.Metadata
			results = append(results, IndexMatch{
				Content:     sc.Chunk.Content,
				Score:       sc.Score,
				Source:      meta.Source,
				Competitor:  meta.Competitor,
				Title:       meta.Title,
				URL:         meta.URL,
				PublishDate: meta.PublishDate,
				FetchDate:   meta.FetchDate,
			})
		}

		if len(results) == 0 {
			return nil, SearchIndexOutput{
				Results: []IndexMatch{},
				Message: "No matching content found. Try broader terms, or run competitor_report to index fresh content.",
			}, nil
		}

		return nil, SearchIndexOutput{Results: results}, nil
	}
}

// makeStatusHandler creates the index_status tool handler.
func makeStatusHandler(deps *Deps) func(
	context.Context, *mcp.CallToolRequest, IndexStatusInput,
) (*mcp.CallToolResult, IndexStatusOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input IndexStatusInput) (
		*mcp.CallToolResult, IndexStatusOutput, error,
	) {
		count, err := deps.Store.Count(ctx)
		if err != nil {
			return nil, IndexStatusOutput{}, fmt.Errorf("count points: %w", err)
		}

		return nil, IndexStatusOutput{
			Collection:  deps.Store.Collection(),
			TotalChunks: int(count),
		}, nil
	}
}
