package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"sentimental/internal/domain/sentiment"
	"sentimental/pkg/textnorm"
)

const (
	defaultHackerNewsEndpoint = "https://hn.algolia.com"
	hackerNewsPageSize        = 50
)

// HackerNews queries the Algolia search API for stories
type HackerNews struct {
	endpoint string
	http     httpDoer
	clock    clockwork.Clock
}

type hnResponse struct {
	Hits []hnHit `json:"hits"`
}

type hnHit struct {
	ObjectID   string   `json:"objectID"`
	Title      string   `json:"title"`
	StoryText  string   `json:"story_text"`
	Author     string   `json:"author"`
	CreatedAtI int64    `json:"created_at_i"`
	Points     *float64 `json:"points"`
	URL        string   `json:"url"`
}

func NewHackerNews(endpoint string, timeout time.Duration, userAgent string, clock clockwork.Clock) *HackerNews {
	if endpoint == "" {
		endpoint = defaultHackerNewsEndpoint
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &HackerNews{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     newHTTPDoer(timeout, userAgent),
		clock:    clock,
	}
}

func (h *HackerNews) Name() string { return "hackernews" }

func (h *HackerNews) Platform() sentiment.Platform { return sentiment.PlatformQnA }

func (h *HackerNews) Fetch(ctx context.Context, query string, limit int) ([]sentiment.RawItem, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("tags", "story")
	params.Set("hitsPerPage", strconv.Itoa(pageSize(limit, hackerNewsPageSize)))

	var resp hnResponse
	if err := h.http.getJSON(ctx, h.endpoint+"/api/v1/search?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	captured := h.clock.Now().UTC()
	items := make([]sentiment.RawItem, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		link := hit.URL
		if link == "" {
			link = fmt.Sprintf("https://news.ycombinator.com/item?id=%s", hit.ObjectID)
		}
		items = append(items, sentiment.RawItem{
			Text:       textnorm.Join(hit.Title, hit.StoryText),
			Title:      hit.Title,
			Platform:   sentiment.PlatformQnA,
			Origin:     "hackernews",
			Author:     hit.Author,
			CreatedAt:  unixOr(hit.CreatedAtI, captured),
			Engagement: hit.Points,
			URL:        link,
		})
	}
	return capItems(items, limit), nil
}
