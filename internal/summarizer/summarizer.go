// Package summarizer turns a retrieved context set into a competitor
// report with a single chat completion.
package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"

	"github.com/rsteadman/rivalscope/internal/storage"
)

// DefaultModel is the chat model used for report generation.
const DefaultModel = openai.ChatModelGPT4oMini

// DefaultTemperature keeps report generation close to the source text.
const DefaultTemperature = 0.3

// systemPrompt restricts the model to the supplied context.
const systemPrompt = `You are an AI assistant specialized in competitive intelligence analysis.
Your task is to provide a concise summary of the key news and developments about a competitor based *only* on the provided context from news articles and the competitor's website.
Focus on factual information like product launches, financial performance mentions, partnerships, leadership changes, website announcements, or significant market activities mentioned in the text.
Do not add any information not present in the context. Do not make assumptions or predictions. Clearly distinguish if information comes from news or the website if possible, otherwise synthesize concisely.`

// Summarizer generates competitor reports from retrieved context.
type Summarizer struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// New creates a Summarizer with the given OpenAI client. An empty model
// selects DefaultModel. If logger is nil, slog.Default() is used.
func New(client *openai.Client, model string, logger *slog.Logger) *Summarizer {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{
		client: client,
		model:  model,
		logger: logger,
	}
}

// Summarize produces the report for a competitor from its context set. An
// empty context set returns a fixed "no information found" message without
// calling the model, so callers can always hand the result to a user.
func (s *Summarizer) Summarize(ctx context.Context, competitor string, contextSet []storage.Chunk) (string, error) {
	if len(contextSet) == 0 {
		s.logger.Warn("Empty context set, skipping model call", "competitor", competitor)
		return fmt.Sprintf("No relevant news or website content found for %s in the specified timeframe to summarize.", competitor), nil
	}

	userPrompt := fmt.Sprintf("Competitor: %s\n\nContext Articles/Web Content:\n%s\n\nConcise Summary of Key Developments:",
		competitor, FormatContext(contextSet))

	s.logger.Info("Generating summary", "competitor", competitor, "context_chunks", len(contextSet))

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Model:       openai.ChatModel(s.model),
		Temperature: openai.Float(DefaultTemperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// FormatContext renders chunks as numbered, labeled blocks for the prompt.
// A missing source or publish date renders as N/A, which is the normal
// case for website chunks.
func FormatContext(chunks []storage.Chunk) string {
	blocks := make([]string, len(chunks))
	for i, chunk := range chunks {
		source := chunk.Metadata.Source
		if source == "" {
			source = "N/A"
		}
		date := chunk.Metadata.PublishDate
		if date == "" {
			date = "N/A"
		}
		blocks[i] = fmt.Sprintf("--- Document %d (Source: %s, Date: %s) ---\n%s\n---",
			i+1, source, date, chunk.Content)
	}
	return strings.Join(blocks, "\n")
}
