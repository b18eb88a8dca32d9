package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Deps holds the components the tools are wired to.
type Deps struct {
	Store      IndexStore
	News       NewsCollector
	Website    WebsiteCollector
	Pipeline   ReportPipeline
	Retriever  Searcher
	Summarizer Summarizer
	// DaysBack is the report window applied when a caller does not pass
	// days_back.
	DaysBack int
	Logger   *slog.Logger
}

// Server wraps the MCP server with its registered tools.
type Server struct {
	server *mcp.Server
}

// NewServer creates a configured MCP server with tools registered.
func NewServer(deps *Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	impl := &mcp.Implementation{
		Name:    "rivalscope",
		Version: "v0.1.0",
	}

	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "competitor_report",
		Description: "Generate a competitive intelligence report for a competitor. Collects recent news (and optionally the competitor's website), indexes it, and summarizes the most relevant recent developments.",
	}, makeReportHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_index",
		Description: "Semantic search over all competitor content indexed so far. Returns scored chunks with source, URL, and dates. Run competitor_report first to index fresh content.",
	}, makeSearchIndexHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "index_status",
		Description: "Report the vector index status: collection name and total stored chunks.",
	}, makeStatusHandler(deps))

	return &Server{server: server}
}

// Run starts the server with stdio transport (blocks until the client
// disconnects).
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server instance for transport
// handlers that wrap it.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}
