package platform

import (
	"context"
	"net/http"
)

// FetchPortfolio retrieves the user's executions and account summary.
func (c *Client) FetchPortfolio(ctx context.Context) (*Portfolio, error) {
	var portfolio Portfolio
	if err := c.do(ctx, "portfolio", http.MethodGet, "/api/v1/portfolio", nil, nil, &portfolio); err != nil {
		return nil, err
	}
	return &portfolio, nil
}

// FetchMetrics retrieves the platform-side performance summary.
func (c *Client) FetchMetrics(ctx context.Context) (*Metrics, error) {
	var metrics Metrics
	if err := c.do(ctx, "metrics", http.MethodGet, "/api/v1/metrics", nil, nil, &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}
