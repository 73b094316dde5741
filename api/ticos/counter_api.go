package ticos

import (
	"context"

	"occupancy-server/models"
)

// CounterAPI defines the interface for reading gate counters of a facility.
type CounterAPI interface {
	GetGateCounters(ctx context.Context, organizationUnitID int) ([]models.GateCounter, error)
}
