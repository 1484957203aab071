package sources

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"sentimental/internal/adapters/ratelimit"
	"sentimental/internal/domain/sentiment"
	"sentimental/pkg/errors"
	"sentimental/pkg/logger"
	"sentimental/pkg/textnorm"
)

const (
	defaultRedditEndpoint  = "https://www.reddit.com"
	redditSubredditLimit   = 25
	redditGeneralLimit     = 50
	redditPermalinkBaseURL = "https://reddit.com"
)

// Reddit searches a list of subreddits plus the site-wide index
type Reddit struct {
	endpoint   string
	subreddits []string
	limiter    *ratelimit.Limiter
	http       httpDoer
	clock      clockwork.Clock
	log        *logger.Logger
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title      string   `json:"title"`
	Selftext   string   `json:"selftext"`
	Author     string   `json:"author"`
	CreatedUTC float64  `json:"created_utc"`
	Score      *float64 `json:"score"`
	Subreddit  string   `json:"subreddit"`
	Permalink  string   `json:"permalink"`
}

// NewReddit creates the adapter. limiter paces the individual search requests
// and may be nil.
func NewReddit(endpoint string, subreddits []string, limiter *ratelimit.Limiter, timeout time.Duration, userAgent string, clock clockwork.Clock) *Reddit {
	if endpoint == "" {
		endpoint = defaultRedditEndpoint
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Reddit{
		endpoint:   strings.TrimRight(endpoint, "/"),
		subreddits: subreddits,
		limiter:    limiter,
		http:       newHTTPDoer(timeout, userAgent),
		clock:      clock,
		log:        logger.Get().With("component", "source", "source", "reddit"),
	}
}

func (r *Reddit) Name() string { return "reddit" }

func (r *Reddit) Platform() sentiment.Platform { return sentiment.PlatformForum }

// Fetch runs one search per subreddit followed by a general search, then
// drops posts whose text was already seen. Failed searches are skipped; the
// call fails only when all of them fail.
func (r *Reddit) Fetch(ctx context.Context, query string, limit int) ([]sentiment.RawItem, error) {
	var (
		all  []sentiment.RawItem
		errs errors.MultiError
	)

	searches := len(r.subreddits) + 1
	for _, sub := range r.subreddits {
		items, err := r.search(ctx, "/r/"+url.PathEscape(sub)+"/search.json", query, redditSubredditLimit, "r/"+sub)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.log.Debugw("Subreddit search failed", "subreddit", sub, "error", err)
			errs.Add(errors.Wrapf(err, "r/%s", sub))
			continue
		}
		all = append(all, items...)
	}

	items, err := r.search(ctx, "/search.json", query, redditGeneralLimit, "")
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		errs.Add(errors.Wrap(err, "general search"))
	} else {
		all = append(all, items...)
	}

	if len(errs.Errors) == searches {
		return nil, errs.ToError()
	}

	return capItems(dedupByText(all), limit), nil
}

func (r *Reddit) search(ctx context.Context, path, query string, size int, origin string) ([]sentiment.RawItem, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", "hot")
	params.Set("t", "day")
	params.Set("limit", strconv.Itoa(size))

	var listing redditListing
	if err := r.http.getJSON(ctx, r.endpoint+path+"?"+params.Encode(), nil, &listing); err != nil {
		return nil, err
	}

	captured := r.clock.Now().UTC()
	items := make([]sentiment.RawItem, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		post := child.Data
		if !containsFold(query, post.Title, post.Selftext) {
			continue
		}

		postOrigin := origin
		if postOrigin == "" {
			postOrigin = "r/" + post.Subreddit
		}
		author := post.Author
		if author == "" {
			author = "anonymous"
		}

		items = append(items, sentiment.RawItem{
			Text:       textnorm.Join(post.Title, post.Selftext),
			Title:      post.Title,
			Platform:   sentiment.PlatformForum,
			Origin:     postOrigin,
			Author:     author,
			CreatedAt:  unixOr(int64(post.CreatedUTC), captured),
			Engagement: post.Score,
			URL:        redditPermalinkBaseURL + post.Permalink,
		})
	}
	return items, nil
}

func dedupByText(items []sentiment.RawItem) []sentiment.RawItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]sentiment.RawItem, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.Text]; ok {
			continue
		}
		seen[item.Text] = struct{}{}
		out = append(out, item)
	}
	return out
}
