package sources

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"sentimental/internal/domain/sentiment"
	"sentimental/pkg/errors"
	"sentimental/pkg/textnorm"
)

const (
	defaultNewsAPIEndpoint = "https://newsapi.org"
	newsAPITimeLayout      = "2006-01-02T15:04:05Z"
	newsAPIPageSize        = 100
)

// NewsAPI queries the NewsAPI everything endpoint
type NewsAPI struct {
	endpoint string
	apiKey   string
	http     httpDoer
	clock    clockwork.Clock
}

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Message  string           `json:"message"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

func NewNewsAPI(endpoint, apiKey string, timeout time.Duration, userAgent string, clock clockwork.Clock) *NewsAPI {
	if endpoint == "" {
		endpoint = defaultNewsAPIEndpoint
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &NewsAPI{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		http:     newHTTPDoer(timeout, userAgent),
		clock:    clock,
	}
}

func (n *NewsAPI) Name() string { return "newsapi" }

func (n *NewsAPI) Platform() sentiment.Platform { return sentiment.PlatformNews }

func (n *NewsAPI) Fetch(ctx context.Context, query string, limit int) ([]sentiment.RawItem, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("pageSize", strconv.Itoa(pageSize(limit, newsAPIPageSize)))

	var resp newsAPIResponse
	headers := map[string]string{"X-Api-Key": n.apiKey}
	if err := n.http.getJSON(ctx, n.endpoint+"/v2/everything?"+params.Encode(), headers, &resp); err != nil {
		return nil, err
	}
	if resp.Status == "error" {
		return nil, errors.Newf("newsapi: %s", resp.Message)
	}

	captured := n.clock.Now().UTC()
	items := make([]sentiment.RawItem, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		created := captured
		if t, err := time.Parse(newsAPITimeLayout, a.PublishedAt); err == nil {
			created = t.UTC()
		}

		origin := a.Source.Name
		if origin == "" {
			origin = "newsapi"
		}
		author := a.Author
		if author == "" {
			author = "newsapi"
		}

		items = append(items, sentiment.RawItem{
			Text:      textnorm.Join(a.Title, a.Description),
			Title:     a.Title,
			Platform:  sentiment.PlatformNews,
			Origin:    origin,
			Author:    author,
			CreatedAt: created,
			URL:       a.URL,
		})
	}
	return capItems(items, limit), nil
}
