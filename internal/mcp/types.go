// Package mcp exposes the competitor intelligence pipeline over the Model
// Context Protocol.
package mcp

// CompetitorReportInput defines the input parameters for the
// competitor_report tool.
type CompetitorReportInput struct {
	// Competitor is the company to report on.
	Competitor string `json:"competitor" jsonschema:"Name of the competitor to analyze"`
	// DaysBack bounds how old included news may be. Nil selects the
	// configured default; 0 means today only.
	DaysBack *int `json:"days_back,omitempty" jsonschema:"How many days of news to include (default 7; 0 means today only)"`
	// WebsiteURL optionally adds the competitor's own page to the corpus.
	WebsiteURL string `json:"website_url,omitempty" jsonschema:"Competitor website URL to scrape alongside the news"`
}

// CompetitorReportOutput contains the generated report and run statistics.
type CompetitorReportOutput struct {
	// Report is the generated summary, or a fixed notice when nothing
	// recent was found.
	Report string `json:"report"`
	// Competitor echoes the analyzed company.
	Competitor string `json:"competitor"`
	// DaysBack is the window actually applied.
	DaysBack int `json:"days_back"`
	// DocsCollected counts raw documents gathered from news and website.
	DocsCollected int `json:"docs_collected"`
	// ChunksIndexed counts chunks written to the vector index this run.
	ChunksIndexed int `json:"chunks_indexed"`
	// ContextChunks counts chunks that reached the summarizer.
	ContextChunks int `json:"context_chunks"`
}

// SearchIndexInput defines the input parameters for the search_index tool.
type SearchIndexInput struct {
	// Query is the semantic search query.
	Query string `json:"query" jsonschema:"The semantic search query over indexed competitor content"`
	// Limit is the maximum number of chunks to return.
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of chunks to return"`
	// Source optionally restricts results to one source kind.
	Source string `json:"source,omitempty" jsonschema:"Restrict results to one source: newsapi or website"`
}

// SearchIndexOutput contains the scored matches.
type SearchIndexOutput struct {
	// Results is the list of matching chunks, best first.
	Results []IndexMatch `json:"results"`
	// Message provides context when there are no results.
	Message string `json:"message,omitempty"`
}

// IndexMatch is one scored chunk with its provenance.
type IndexMatch struct {
	// Content is the chunk text.
	Content string `json:"content"`
	// Score is the cosine similarity to the query.
	Score float64 `json:"score"`
	// Source is the collector that produced the chunk.
	Source string `json:"source"`
	// Competitor is set on news chunks.
	Competitor string `json:"competitor,omitempty"`
	// Title is the article or page title when known.
	Title string `json:"title,omitempty"`
	// URL is where the content came from.
	URL string `json:"url"`
	// PublishDate is set on news chunks.
	PublishDate string `json:"publish_date,omitempty"`
	// FetchDate is set on website chunks.
	FetchDate string `json:"fetch_date,omitempty"`
}

// IndexStatusInput defines the input for the index_status tool. The tool
// takes no parameters.
type IndexStatusInput struct{}

// IndexStatusOutput describes the vector index.
type IndexStatusOutput struct {
	// Collection is the Qdrant collection name.
	Collection string `json:"collection"`
	// TotalChunks is the number of stored points.
	TotalChunks int `json:"total_chunks"`
}
