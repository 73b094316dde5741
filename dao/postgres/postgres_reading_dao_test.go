package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"occupancy-server/models/occupancy"
)

// Runs against a real database when TEST_DATABASE_URL is set.
func TestPostgresReadingDAO_Integration(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	readingDAO := NewPostgresReadingDAO(pool)
	require.NoError(t, readingDAO.EnsureSchema(ctx))
	facility := "test_" + time.Now().Format("150405.000000")
	defer pool.Exec(ctx, "DELETE FROM occupancy_readings WHERE facility_id = $1", facility)

	base := time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)
	require.NoError(t, readingDAO.AppendReadings(ctx, facility,
		occupancy.Reading{Timestamp: base.Add(time.Hour), Occupancy: 20},
		occupancy.Reading{Timestamp: base, Occupancy: 10},
		occupancy.Reading{Timestamp: base, Occupancy: 12},
	))

	readings, err := readingDAO.GetReadings(ctx, facility)

	require.NoError(t, err)
	require.Len(t, readings, 2)
	assert.True(t, readings[0].Timestamp.Equal(base))
	assert.Equal(t, 12.0, readings[0].Occupancy)
	assert.Equal(t, 20.0, readings[1].Occupancy)
}

func TestPostgresReadingDAO_AppendNothing(t *testing.T) {
	readingDAO := NewPostgresReadingDAO(nil)

	assert.NoError(t, readingDAO.AppendReadings(context.Background(), "south"))
}
