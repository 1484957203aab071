package sources

import (
	"github.com/jonboulle/clockwork"

	"sentimental/internal/adapters/config"
	"sentimental/internal/adapters/ratelimit"
	"sentimental/internal/adapters/retry"
	"sentimental/pkg/errors"
	"sentimental/pkg/logger"
)

// Build creates the guarded adapters enabled in cfg, in registration order:
// newsapi, hackernews, reddit, github, rss.
func Build(cfg config.SourcesConfig, catalog *config.Catalog, limiters *ratelimit.Registry, tracker errors.Tracker, clock clockwork.Clock) []*Guarded {
	log := logger.Get().With("component", "sources")
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	retries := -1
	if cfg.RetryMax > 0 {
		retries = cfg.RetryMax
	}
	policy := retry.New(retry.Config{MaxRetries: retries, InitialDelay: cfg.RetryDelay})

	guard := func(src Source, sc config.SourceConfig, limit bool) *Guarded {
		opts := GuardOptions{
			Timeout:         sc.Timeout,
			BreakerFailures: uint32(cfg.BreakerFailures),
			BreakerCooldown: cfg.BreakerCooldown,
			Retry:           policy,
			Tracker:         tracker,
		}
		if limit {
			opts.Limiter = limiters.Get(src.Name(), sc.RPM, sc.Burst)
		}
		return Isolate(src, opts)
	}

	var out []*Guarded

	if cfg.NewsAPI.Enabled && cfg.NewsAPIKey != "" {
		out = append(out, guard(NewNewsAPI(cfg.NewsAPI.Endpoint, cfg.NewsAPIKey, cfg.NewsAPI.Timeout, cfg.UserAgent, clock), cfg.NewsAPI, true))
	} else if cfg.NewsAPI.Enabled {
		log.Infow("NewsAPI disabled, no API key configured")
	}

	if cfg.HackerNews.Enabled {
		out = append(out, guard(NewHackerNews(cfg.HackerNews.Endpoint, cfg.HackerNews.Timeout, cfg.UserAgent, clock), cfg.HackerNews, true))
	}

	if cfg.Reddit.Enabled {
		// reddit paces each of its searches itself
		perRequest := limiters.Get("reddit", cfg.Reddit.RPM, cfg.Reddit.Burst)
		src := NewReddit(cfg.Reddit.Endpoint, catalog.Subreddits, perRequest, cfg.Reddit.Timeout, cfg.UserAgent, clock)
		out = append(out, guard(src, cfg.Reddit, false))
	}

	if cfg.GitHub.Enabled {
		src := NewGitHub(cfg.GitHub.Endpoint, cfg.GitHubToken, cfg.GitHubTechOnly, catalog.TechTerms, cfg.GitHub.Timeout, cfg.UserAgent, clock)
		out = append(out, guard(src, cfg.GitHub, true))
	}

	if cfg.RSS.Enabled && len(catalog.Feeds) > 0 {
		out = append(out, guard(NewRSS(catalog.Feeds, cfg.RSS.Timeout, cfg.UserAgent, clock), cfg.RSS, true))
	}

	names := make([]string, 0, len(out))
	for _, g := range out {
		names = append(names, g.Name())
	}
	log.Infow("Sources registered", "sources", names)

	return out
}
