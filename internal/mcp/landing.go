package mcp

import "net/http"

const landingHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Rivalscope MCP Server</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; background: #111827; color: #d1d5db; max-width: 640px; margin: 4rem auto; padding: 0 1.5rem; line-height: 1.6; }
  h1 { color: #f9fafb; font-size: 1.6rem; margin-bottom: 0.25rem; }
  h2 { color: #9ca3af; font-size: 0.8rem; text-transform: uppercase; letter-spacing: 0.08em; margin: 2rem 0 0.5rem; }
  a { color: #34d399; text-decoration: none; }
  a:hover { text-decoration: underline; }
  code { font-family: "SF Mono", Menlo, monospace; background: #1f2937; border-radius: 4px; padding: 0.15rem 0.4rem; font-size: 0.9em; }
  ul { padding-left: 1.25rem; }
</style>
</head>
<body>
<h1>Rivalscope MCP Server</h1>
<p>Competitive intelligence reports over the Model Context Protocol: recent news and website content about a competitor, vector-indexed and summarized.</p>

<h2>Endpoints</h2>
<ul>
  <li><a href="/mcp">/mcp</a> <code>MCP Streamable HTTP</code></li>
  <li><a href="/health">/health</a> <code>health check</code></li>
</ul>

<h2>Tools</h2>
<ul>
  <li><code>competitor_report</code> collect, index, and summarize recent developments</li>
  <li><code>search_index</code> semantic search over everything indexed so far</li>
  <li><code>index_status</code> collection name and stored chunk count</li>
</ul>
</body>
</html>`

// NewLandingHandler returns an HTTP handler that serves the landing page
// at /.
func NewLandingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(landingHTML))
	}
}
