package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"occupancy-server/models/occupancy"
)

const createReadingsTable = `CREATE TABLE IF NOT EXISTS occupancy_readings (
    facility_id TEXT NOT NULL,
    ts TIMESTAMPTZ NOT NULL,
    occupancy DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (facility_id, ts)
)`

const insertReading = `INSERT INTO occupancy_readings (facility_id, ts, occupancy)
VALUES ($1, $2, $3)
ON CONFLICT (facility_id, ts) DO UPDATE
SET occupancy = EXCLUDED.occupancy`

const selectReadings = `SELECT ts, occupancy
FROM occupancy_readings
WHERE facility_id = $1
ORDER BY ts`

// Querier is the part of *pgxpool.Pool the DAO uses.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PostgresReadingDAO stores readings in one table keyed by facility and time.
type PostgresReadingDAO struct {
	pool Querier
}

func NewPostgresReadingDAO(pool Querier) *PostgresReadingDAO {
	return &PostgresReadingDAO{pool: pool}
}

// EnsureSchema creates the readings table if it does not exist.
func (dao *PostgresReadingDAO) EnsureSchema(ctx context.Context) error {
	if _, err := dao.pool.Exec(ctx, createReadingsTable); err != nil {
		return fmt.Errorf("failed to create occupancy_readings: %w", err)
	}
	return nil
}

// AppendReadings upserts readings in one batch.
func (dao *PostgresReadingDAO) AppendReadings(ctx context.Context, facilityID string, readings ...occupancy.Reading) error {
	if len(readings) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, r := range readings {
		batch.Queue(insertReading, facilityID, r.Timestamp, r.Occupancy)
	}

	res := dao.pool.SendBatch(ctx, batch)
	defer res.Close()

	for range readings {
		if _, err := res.Exec(); err != nil {
			return fmt.Errorf("failed to insert reading for %s: %w", facilityID, err)
		}
	}
	return nil
}

// GetReadings returns a facility's readings, oldest first.
func (dao *PostgresReadingDAO) GetReadings(ctx context.Context, facilityID string) ([]occupancy.Reading, error) {
	rows, err := dao.pool.Query(ctx, selectReadings, facilityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings for %s: %w", facilityID, err)
	}
	defer rows.Close()

	var readings []occupancy.Reading
	for rows.Next() {
		var ts time.Time
		var value float64
		if err := rows.Scan(&ts, &value); err != nil {
			return nil, err
		}
		readings = append(readings, occupancy.Reading{Timestamp: ts, Occupancy: value})
	}

	return readings, rows.Err()
}
