package platform

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// FetchOpportunities retrieves scanner candidates, optionally narrowed
// to one directed exchange pair. Zero results are a normal outcome.
func (c *Client) FetchOpportunities(ctx context.Context, q OpportunityQuery) ([]Opportunity, error) {
	params := url.Values{}
	if q.LongExchange != "" {
		params.Set("long_exchange", q.LongExchange)
	}
	if q.ShortExchange != "" {
		params.Set("short_exchange", q.ShortExchange)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.SortBy != "" {
		params.Set("sort_by", q.SortBy)
	}

	var resp struct {
		Opportunities []Opportunity `json:"opportunities"`
	}
	if err := c.do(ctx, "opportunities", http.MethodGet, "/api/v1/opportunities", params, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Opportunities, nil
}
