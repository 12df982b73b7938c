package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"medisupply/mobile/internal/config"
	"medisupply/mobile/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// Fetcher issues paginated catalog queries.
type Fetcher interface {
	// FetchPage returns the catalog page for the given filter. With force
	// set, the cache is bypassed and the result refetched.
	FetchPage(ctx context.Context, filter domain.Filter, force bool) (*domain.CatalogPage, error)
}

type httpClient struct {
	rl         ratelimit.Limiter
	config     config.CatalogConfig
	baseURL    string
	httpClient *resty.Client
	cache      PageCache
}

// NewHTTPClient builds the catalog HTTP client. cache may be nil.
func NewHTTPClient(cfg config.CatalogConfig, baseURL string, cache PageCache) Fetcher {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(time.Duration(cfg.Timeout) * time.Second).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	rps := cfg.MaxRequestsPerSecond
	if rps <= 0 {
		rps = 10
	}

	return &httpClient{
		rl:         ratelimit.New(rps),
		config:     cfg,
		baseURL:    baseURL,
		httpClient: client,
		cache:      cache,
	}
}

func (c *httpClient) FetchPage(ctx context.Context, filter domain.Filter, force bool) (*domain.CatalogPage, error) {
	key := filter.CacheKey()

	if !force && c.cache != nil {
		if page, ok := c.cache.Get(ctx, key); ok {
			log.Debugf("Cache hit for %s", key)
			return page, nil
		}
	}

	page, err := c.fetchWithRetry(ctx, filter)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(ctx, key, page, c.ttlFor(filter))
	}

	log.Debugf("Fetched catalog page %d with %d items (%d total)",
		page.Meta.Page, len(page.Items), page.Meta.Total)
	return page, nil
}

// fetchWithRetry performs the request with at most one retry after a fixed
// delay. Only failures that never reached the server and 5xx responses are
// retried; 4xx responses surface immediately.
func (c *httpClient) fetchWithRetry(ctx context.Context, filter domain.Filter) (*domain.CatalogPage, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(c.config.RetryDelayMs) * time.Millisecond):
			}
			log.Debugf("Retrying catalog fetch after error: %v", lastErr)
		}

		page, err := c.fetch(ctx, filter)
		if err == nil {
			return page, nil
		}
		lastErr = err
		if !retryable(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *httpClient) fetch(ctx context.Context, filter domain.Filter) (*domain.CatalogPage, error) {
	c.rl.Take()

	req := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("page", strconv.Itoa(filter.Page)).
		SetQueryParam("size", strconv.Itoa(filter.Size))
	if filter.Query != "" {
		req.SetQueryParam("q", filter.Query)
	}
	if filter.Category != "" {
		req.SetQueryParam("categoriaId", filter.Category.String())
	}

	resp, err := req.Get("/items")
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, &domain.NetworkError{Err: err}
	}

	if resp.IsError() {
		return nil, &domain.HTTPError{StatusCode: resp.StatusCode(), Status: resp.Status()}
	}

	var page domain.CatalogPage
	if err := json.Unmarshal([]byte(resp.String()), &page); err != nil {
		return nil, fmt.Errorf("failed to decode catalog page: %w", err)
	}
	return &page, nil
}

func (c *httpClient) ttlFor(filter domain.Filter) time.Duration {
	switch {
	case filter.IsSearch():
		return time.Duration(c.config.SearchTTL) * time.Second
	case filter.Category != "":
		return time.Duration(c.config.CategoryTTL) * time.Second
	default:
		return time.Duration(c.config.DefaultTTL) * time.Second
	}
}

func retryable(err error) bool {
	var httpErr *domain.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Retryable()
	}
	var netErr *domain.NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	return false
}
