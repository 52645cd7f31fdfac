package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/reliefscout/reliefscout/internal/cache"
	"github.com/reliefscout/reliefscout/internal/model"
	"github.com/reliefscout/reliefscout/internal/util"
)

// Fetcher retrieves page content for URL intake. Fetched bodies are
// cached so re-analyzing the same URL does not re-hit the origin.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker
	store      cache.Cache
	cacheTTL   time.Duration
}

// NewFetcher creates a fetcher from the HTTP configuration. A nil store
// disables caching; robots is nil when respect_robots is off.
func NewFetcher(cfg *model.HTTPConfig, store cache.Cache, cacheTTL time.Duration) *Fetcher {
	var robots *util.RobotsChecker
	if cfg.RespectRobots {
		robots = util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout)
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		robots:    robots,
		store:     store,
		cacheTTL:  cacheTTL,
	}
}

// FetchResult contains the fetched page and where it finally came from
type FetchResult struct {
	Body     string
	FinalURL string
	Cached   bool
}

// Fetch retrieves the page body for the given URL, honoring robots.txt
// when configured.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if f.store != nil {
		if body, ok := f.store.Get(cache.FetchKey(rawURL)); ok {
			return &FetchResult{Body: string(body), FinalURL: rawURL, Cached: true}, nil
		}
	}

	if f.robots != nil {
		allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
		if err == nil && !allowed {
			return nil, fmt.Errorf("fetch disallowed by robots.txt: %s", rawURL)
		}
		if crawlDelay > 0 && crawlDelay <= 10*time.Second {
			select {
			case <-time.After(crawlDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if f.store != nil {
		_ = f.store.Set(cache.FetchKey(rawURL), body, f.cacheTTL)
	}

	return &FetchResult{
		Body:     string(body),
		FinalURL: resp.Request.URL.String(),
	}, nil
}
