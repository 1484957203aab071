// Package sources holds the remote source adapters and the guard that isolates each of them.
package sources

import (
	"context"
	"strings"
	"time"

	"sentimental/internal/domain/sentiment"
)

// Source fetches raw items matching a query from one remote service.
// Implementations return at most limit items in the service's own order.
type Source interface {
	Name() string
	Platform() sentiment.Platform
	Fetch(ctx context.Context, query string, limit int) ([]sentiment.RawItem, error)
}

// Gated is implemented by sources that only serve some queries
type Gated interface {
	Accepts(query string) bool
}

// containsFold reports whether any of texts contains query, ignoring case
func containsFold(query string, texts ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, t := range texts {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

func capItems(items []sentiment.RawItem, limit int) []sentiment.RawItem {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// pageSize is the page size to request upstream; non-positive limits get the
// adapter's default
func pageSize(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}

// unixOr converts epoch seconds, using fallback when the upstream left the field unset
func unixOr(sec int64, fallback time.Time) time.Time {
	if sec <= 0 {
		return fallback
	}
	return time.Unix(sec, 0).UTC()
}

func floatPtr(v float64) *float64 {
	return &v
}
