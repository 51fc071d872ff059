// Package scrape fetches market data from the configured quote endpoints
// and persists it through the store.
package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const errKeyPrefix = "err:"

// Client is a rate-limited HTTP fetcher shared by all scrape sources.
// Successful responses are cached for the configured TTL so a manual
// re-run shortly after a scheduled scrape does not hammer the upstream,
// and failures are negatively cached for a minute.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	cache   *cache.Cache
	logger  *logrus.Logger
}

func NewClient(timeout, cacheTTL time.Duration, requestsPerSecond float64, logger *logrus.Logger) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 4
	}

	return &Client{
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		cache:   cache.New(cacheTTL, 10*time.Second),
		logger:  logger,
	}
}

// GetJSON fetches url and decodes the response body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	if cached, found := c.cache.Get(url); found {
		c.logger.Debugf("Using cached response for %s", url)
		return json.Unmarshal(cached.([]byte), out)
	}
	if cached, found := c.cache.Get(errKeyPrefix + url); found {
		return fmt.Errorf("cached failure: %s", cached.(string))
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "portfolio60/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.cache.Set(errKeyPrefix+url, err.Error(), time.Minute)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("HTTP request failed with status code: %d", resp.StatusCode)
		c.cache.Set(errKeyPrefix+url, err.Error(), time.Minute)
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	// Quote endpoints sometimes serve an HTML error page with status 200.
	if strings.HasPrefix(strings.TrimSpace(string(body)), "<") {
		err := fmt.Errorf("received HTML response instead of JSON")
		c.cache.Set(errKeyPrefix+url, err.Error(), time.Minute)
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	c.cache.Set(url, body, cache.DefaultExpiration)
	return nil
}

// getJSONFallback tries each URL in order and returns the first success.
// Empty entries are skipped so optional mirror URLs can stay unset.
func (c *Client) getJSONFallback(ctx context.Context, urls []string, out any) error {
	var lastErr error
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := c.GetJSON(ctx, url, out); err != nil {
			c.logger.Debugf("Fetch failed for %s: %v", url, err)
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no URLs configured")
	}
	return lastErr
}
