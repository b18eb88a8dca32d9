// Package recency applies the reporting time window to retrieved chunks.
// News chunks are kept only when their publish date falls inside the
// window; website and other non-news chunks carry no publication time and
// always pass through.
package recency

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rsteadman/rivalscope/internal/storage"
)

// Filter drops stale news chunks from a retrieval result. Chunks from
// other sources are never filtered.
type Filter struct {
	logger *slog.Logger
}

// NewFilter creates a Filter. If logger is nil, slog.Default() is used.
func NewFilter(logger *slog.Logger) *Filter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Filter{logger: logger}
}

// Apply partitions chunks into news and other sources, keeping only news
// published at or after cutoff. News chunks with a missing or unparsable
// publish date are dropped with a warning rather than failing the whole
// result. Relative input order is preserved within each returned slice.
func (f *Filter) Apply(chunks []storage.Chunk, cutoff time.Time) (news, other []storage.Chunk) {
	for _, chunk := range chunks {
		if chunk.Metadata.Source != storage.SourceNews {
			other = append(other, chunk)
			continue
		}

		if chunk.Metadata.PublishDate == "" {
			f.logger.Warn("Dropping news chunk without publish date",
				"url", chunk.Metadata.URL)
			continue
		}

		published, err := ParseDate(chunk.Metadata.PublishDate)
		if err != nil {
			f.logger.Warn("Dropping news chunk with unparsable publish date",
				"url", chunk.Metadata.URL,
				"publish_date", chunk.Metadata.PublishDate,
				"error", err)
			continue
		}

		if published.Before(cutoff) {
			f.logger.Debug("Dropping stale news chunk",
				"url", chunk.Metadata.URL,
				"publish_date", chunk.Metadata.PublishDate)
			continue
		}

		news = append(news, chunk)
	}
	return news, other
}

// Cutoff returns midnight UTC of the day daysBack days before now. A
// daysBack of 0 keeps only news published today.
func Cutoff(now time.Time, daysBack int) time.Time {
	day := now.UTC().AddDate(0, 0, -daysBack)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}

// timestamp layouts tried in order for dates containing a time component.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
}

// ParseDate parses a publish date as either a full timestamp or a plain
// YYYY-MM-DD date. Timestamps may carry a Z suffix, a numeric offset, or no
// zone at all. Zone information is discarded: the wall-clock components are
// kept and placed in UTC, so all cutoff comparisons are naive.
func ParseDate(value string) (time.Time, error) {
	if !strings.Contains(value, "T") {
		t, err := time.Parse("2006-01-02", value)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
		}
		return t, nil
	}

	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(),
			t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: no known layout", value)
}
