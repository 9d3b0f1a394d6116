package trends

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storefront/internal/pkg/logging"
)

const defaultTimeout = 30 * time.Second

// Client fetches external category-trend data. It is a read-only collaborator
// with no part in the fulfillment lifecycle.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// CategoryTrend fetches the trend payload for one category.
func (c *Client) CategoryTrend(ctx context.Context, category string) (string, error) {
	logger := logging.FromContext(ctx).With(
		zap.String("component", "trends_client"),
		zap.String("category", category),
	)

	requestURL := fmt.Sprintf("%s/trends?category=%s", c.baseURL, url.QueryEscape(category))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", fmt.Errorf("trends: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("trend_fetch_failed", zap.Error(err))
		return "", fmt.Errorf("trends: fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("trend_fetch_bad_status", zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("trends: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("trends: read body: %w", err)
	}

	logger.Debug("trend_fetched", zap.Int("bytes", len(body)))
	return string(body), nil
}

// CategoryTrends fetches several categories concurrently. The first failure
// cancels the remaining fetches; results keep the input order.
func (c *Client) CategoryTrends(ctx context.Context, categories ...string) ([]string, error) {
	results := make([]string, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, category := range categories {
		g.Go(func() error {
			body, err := c.CategoryTrend(gctx, category)
			if err != nil {
				return err
			}
			results[i] = body
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
