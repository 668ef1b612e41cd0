package shopsdk

import (
	"context"
	"net/http"
)

// GetPlans fetches the SIM plan catalog.
func (c *SDKClient) GetPlans(ctx context.Context) (*PlansResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/plans", nil)
	if err != nil {
		return nil, err
	}

	var plans PlansResponse
	if err := decodeJSON(resp, &plans, http.StatusOK); err != nil {
		return nil, err
	}
	return &plans, nil
}

// GetOrder fetches one completed order.
func (c *SDKClient) GetOrder(ctx context.Context, id string) (*OrderResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/orders/"+id, nil)
	if err != nil {
		return nil, err
	}

	var order OrderResponse
	if err := decodeJSON(resp, &order, http.StatusOK); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/livez", nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetReadiness checks if the service and its dependencies are ready.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/readyz", nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}
