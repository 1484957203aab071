package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"sentimental/pkg/errors"
)

// Feed is one syndication feed polled by the rss adapter
type Feed struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Catalog lists the feeds and subreddits the adapters search
type Catalog struct {
	Feeds      []Feed   `yaml:"feeds"`
	Subreddits []string `yaml:"subreddits"`
	TechTerms  []string `yaml:"tech_terms"`
}

// DefaultCatalog returns the built-in catalog
func DefaultCatalog() *Catalog {
	return &Catalog{
		Feeds: []Feed{
			{Name: "cnn", URL: "https://rss.cnn.com/rss/edition.rss"},
			{Name: "bbc", URL: "http://feeds.bbci.co.uk/news/rss.xml"},
			{Name: "reuters", URL: "https://feeds.reuters.com/reuters/topNews"},
			{Name: "techcrunch", URL: "https://techcrunch.com/feed/"},
			{Name: "wired", URL: "https://www.wired.com/feed/rss"},
			{Name: "ars", URL: "https://feeds.arstechnica.com/arstechnica/index"},
			{Name: "business_insider", URL: "https://www.businessinsider.com/rss"},
			{Name: "bloomberg", URL: "https://feeds.bloomberg.com/markets/news.rss"},
			{Name: "npr", URL: "https://feeds.npr.org/1001/rss.xml"},
			{Name: "nytimes", URL: "https://rss.nytimes.com/services/xml/rss/nyt/Technology.xml"},
			{Name: "guardian", URL: "https://feeds.theguardian.com/theguardian/technology/rss"},
			{Name: "verge", URL: "https://www.theverge.com/rss/index.xml"},
			{Name: "engadget", URL: "https://www.engadget.com/rss.xml"},
			{Name: "mashable", URL: "https://feeds.mashable.com/mashable"},
		},
		Subreddits: []string{
			"technology", "programming", "science", "news",
			"worldnews", "politics", "sports", "entertainment",
		},
		TechTerms: []string{
			"tech", "software", "programming", "ai", "machine learning", "technology", "code",
		},
	}
}

// LoadCatalog reads a YAML catalog from path. An empty path yields the default catalog;
// sections missing from the file keep their defaults.
func LoadCatalog(path string) (*Catalog, error) {
	catalog := DefaultCatalog()
	if path == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read catalog %s", path)
	}

	var fromFile Catalog
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return nil, errors.Wrapf(err, "parse catalog %s", path)
	}

	if len(fromFile.Feeds) > 0 {
		catalog.Feeds = fromFile.Feeds
	}
	if len(fromFile.Subreddits) > 0 {
		catalog.Subreddits = fromFile.Subreddits
	}
	if len(fromFile.TechTerms) > 0 {
		catalog.TechTerms = fromFile.TechTerms
	}

	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}

// Validate checks every feed has a name and URL and every subreddit is non-empty
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Feeds))
	for i, f := range c.Feeds {
		if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.URL) == "" {
			return errors.Wrapf(errors.ErrInvalidInput, "feed #%d needs name and url", i)
		}
		if seen[f.Name] {
			return errors.Wrapf(errors.ErrInvalidInput, "duplicate feed %q", f.Name)
		}
		seen[f.Name] = true
	}
	for i, sub := range c.Subreddits {
		if strings.TrimSpace(sub) == "" {
			return errors.Wrapf(errors.ErrInvalidInput, "subreddit #%d is empty", i)
		}
	}
	return nil
}
