package ticos

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"occupancy-server/api"
	"occupancy-server/models"
)

const gateCounterEndpoint = "/gates/counter"

// CounterApiClient embeds the common HTTPClient
type CounterApiClient struct {
	*api.HTTPClient
}

// NewCounterApiClient creates a new instance of CounterApiClient
func NewCounterApiClient(httpClient *api.HTTPClient) *CounterApiClient {
	return &CounterApiClient{
		HTTPClient: httpClient,
	}
}

// GetGateCounters returns the current person counts of one organization unit.
func (c *CounterApiClient) GetGateCounters(ctx context.Context, organizationUnitID int) ([]models.GateCounter, error) {
	query := url.Values{}
	query.Set("organizationUnitIds", strconv.Itoa(organizationUnitID))

	var response []models.GateCounter
	if err := c.Request(ctx, "GET", gateCounterEndpoint, query, nil, nil, &response); err != nil {
		return nil, fmt.Errorf("gate counters for unit %d: %w", organizationUnitID, err)
	}
	return response, nil
}
