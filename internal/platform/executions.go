package platform

import (
	"context"
	"fmt"
	"net/http"
)

// ExecuteOpportunity asks the platform to open both legs of an
// opportunity with the given size in USDT.
func (c *Client) ExecuteOpportunity(ctx context.Context, req ExecuteRequest) (*Execution, error) {
	if req.OpportunityID == "" {
		return nil, fmt.Errorf("opportunity id is required")
	}
	if req.Size.IsZero() || req.Size.IsNegative() {
		return nil, fmt.Errorf("execution size must be positive, got %s", req.Size)
	}

	var exec Execution
	if err := c.do(ctx, "execute", http.MethodPost, "/api/v1/executions", nil, req, &exec); err != nil {
		return nil, err
	}
	return &exec, nil
}

// CloseExecution unwinds both legs of a running execution.
func (c *Client) CloseExecution(ctx context.Context, executionID string) (*CloseResult, error) {
	if executionID == "" {
		return nil, fmt.Errorf("execution id is required")
	}

	var result CloseResult
	path := "/api/v1/executions/" + executionID + "/close"
	if err := c.do(ctx, "close", http.MethodPost, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
