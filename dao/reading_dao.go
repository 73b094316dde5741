package dao

import (
	"context"
	"errors"
	"time"

	"occupancy-server/engine"
	"occupancy-server/models/occupancy"
)

// ErrCacheMiss is returned by a BundleCache that holds no live entry.
var ErrCacheMiss = errors.New("bundle cache miss")

// ReadingDAO stores the occupancy readings of each facility, at most one per
// timestamp: appending a reading replaces the stored one with the same
// timestamp. GetReadings returns readings in ascending timestamp order.
type ReadingDAO interface {
	AppendReadings(ctx context.Context, facilityID string, readings ...occupancy.Reading) error
	GetReadings(ctx context.Context, facilityID string) ([]occupancy.Reading, error)
}

// BundleCache keeps built chart bundles until they expire or the facility
// receives new readings. Entries are scoped to the local day the bundle was
// built for, since default selection and trailing windows depend on it.
type BundleCache interface {
	GetBundle(facilityID, chart, day string) (engine.Bundle, error)
	SetBundle(facilityID, day string, bundle engine.Bundle, ttl time.Duration) error
	InvalidateFacility(facilityID string) error
}
