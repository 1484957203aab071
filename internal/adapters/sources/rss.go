package sources

import (
	"bytes"
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"sentimental/internal/adapters/config"
	"sentimental/internal/domain/sentiment"
	"sentimental/pkg/errors"
	"sentimental/pkg/logger"
	"sentimental/pkg/textnorm"
)

const (
	rssEntriesPerFeed = 30
	rssParallelFeeds  = 4
)

// RSS searches a fixed set of syndication feeds for entries mentioning the query
type RSS struct {
	feeds []config.Feed
	http  httpDoer
	clock clockwork.Clock
	log   *logger.Logger
}

// NewRSS creates the feed adapter
func NewRSS(feeds []config.Feed, timeout time.Duration, userAgent string, clock clockwork.Clock) *RSS {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RSS{
		feeds: feeds,
		http:  newHTTPDoer(timeout, userAgent),
		clock: clock,
		log:   logger.Get().With("component", "source", "source", "rss"),
	}
}

func (r *RSS) Name() string { return "rss" }

func (r *RSS) Platform() sentiment.Platform { return sentiment.PlatformNews }

// Fetch polls every feed concurrently. A failing feed is skipped; the call
// fails only when every feed fails.
func (r *RSS) Fetch(ctx context.Context, query string, limit int) ([]sentiment.RawItem, error) {
	if len(r.feeds) == 0 {
		return nil, nil
	}

	perFeed := make([][]sentiment.RawItem, len(r.feeds))
	failed := make([]error, len(r.feeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rssParallelFeeds)
	for i, feed := range r.feeds {
		g.Go(func() error {
			items, err := r.fetchFeed(gctx, feed, query)
			if err != nil {
				r.log.Debugw("Feed failed", "feed", feed.Name, "error", err)
				failed[i] = errors.Wrapf(err, "feed %s", feed.Name)
				return nil
			}
			perFeed[i] = items
			return nil
		})
	}
	_ = g.Wait()

	var errs errors.MultiError
	for _, err := range failed {
		errs.Add(err)
	}
	if len(errs.Errors) == len(r.feeds) {
		return nil, errs.ToError()
	}

	var out []sentiment.RawItem
	for _, items := range perFeed {
		out = append(out, items...)
	}
	return capItems(out, limit), nil
}

func (r *RSS) fetchFeed(ctx context.Context, feed config.Feed, query string) ([]sentiment.RawItem, error) {
	body, err := r.http.get(ctx, feed.URL, nil)
	if err != nil {
		return nil, err
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "parse feed")
	}

	captured := r.clock.Now().UTC()
	entries := parsed.Items
	if len(entries) > rssEntriesPerFeed {
		entries = entries[:rssEntriesPerFeed]
	}

	items := make([]sentiment.RawItem, 0, len(entries))
	for _, entry := range entries {
		summary := entry.Description
		if summary == "" {
			summary = entry.Content
		}
		if !containsFold(query, entry.Title, summary) {
			continue
		}
		items = append(items, convertEntry(entry, summary, feed.Name, captured))
	}
	return items, nil
}

func convertEntry(entry *gofeed.Item, summary, feedName string, captured time.Time) sentiment.RawItem {
	created := captured
	if entry.PublishedParsed != nil {
		created = entry.PublishedParsed.UTC()
	} else if entry.UpdatedParsed != nil {
		created = entry.UpdatedParsed.UTC()
	}

	author := feedName + "_user"
	if entry.Author != nil && entry.Author.Name != "" {
		author = entry.Author.Name
	}

	return sentiment.RawItem{
		Text:      textnorm.Join(entry.Title, summary),
		Title:     entry.Title,
		Platform:  sentiment.PlatformNews,
		Origin:    feedName,
		Author:    author,
		CreatedAt: created,
		URL:       entry.Link,
	}
}
