package sources

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"sentimental/internal/domain/sentiment"
)

const (
	defaultGitHubEndpoint = "https://api.github.com"
	githubPageSize        = "50"
)

// GitHub searches repositories; when techOnly is set it only serves queries
// containing one of techTerms
type GitHub struct {
	endpoint  string
	token     string
	techOnly  bool
	techTerms []string
	http      httpDoer
	clock     clockwork.Clock
}

type githubSearch struct {
	Items []githubRepo `json:"items"`
}

type githubRepo struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Owner       struct {
		Login string `json:"login"`
	} `json:"owner"`
	Stars   float64 `json:"stargazers_count"`
	HTMLURL string  `json:"html_url"`
}

func NewGitHub(endpoint, token string, techOnly bool, techTerms []string, timeout time.Duration, userAgent string, clock clockwork.Clock) *GitHub {
	if endpoint == "" {
		endpoint = defaultGitHubEndpoint
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &GitHub{
		endpoint:  strings.TrimRight(endpoint, "/"),
		token:     token,
		techOnly:  techOnly,
		techTerms: techTerms,
		http:      newHTTPDoer(timeout, userAgent),
		clock:     clock,
	}
}

func (g *GitHub) Name() string { return "github" }

func (g *GitHub) Platform() sentiment.Platform { return sentiment.PlatformCode }

// Accepts reports whether query is technical enough to search code hosting
func (g *GitHub) Accepts(query string) bool {
	if !g.techOnly {
		return true
	}
	q := strings.ToLower(query)
	for _, term := range g.techTerms {
		if strings.Contains(q, term) {
			return true
		}
	}
	return false
}

func (g *GitHub) Fetch(ctx context.Context, query string, limit int) ([]sentiment.RawItem, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", "stars")
	params.Set("order", "desc")
	params.Set("per_page", githubPageSize)

	headers := map[string]string{"Accept": "application/vnd.github+json"}
	if g.token != "" {
		headers["Authorization"] = "Bearer " + g.token
	}

	var resp githubSearch
	if err := g.http.getJSON(ctx, g.endpoint+"/search/repositories?"+params.Encode(), headers, &resp); err != nil {
		return nil, err
	}

	captured := g.clock.Now().UTC()
	items := make([]sentiment.RawItem, 0, len(resp.Items))
	for _, repo := range resp.Items {
		items = append(items, sentiment.RawItem{
			Text:       repo.Name + ": " + repo.Description,
			Title:      repo.FullName,
			Platform:   sentiment.PlatformCode,
			Origin:     "github",
			Author:     repo.Owner.Login,
			CreatedAt:  captured,
			Engagement: floatPtr(repo.Stars),
			URL:        repo.HTMLURL,
		})
	}
	return capItems(items, limit), nil
}
