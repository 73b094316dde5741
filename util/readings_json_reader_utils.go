package util

import (
	"encoding/json"
	"fmt"
	"os"

	"occupancy-server/models"
	"occupancy-server/models/occupancy"
)

// ReadGateCountersFromJSON loads a gate counter response from JSON on disk.
func ReadGateCountersFromJSON(filePath string) ([]models.GateCounter, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var counters []models.GateCounter
	if err := json.Unmarshal(data, &counters); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gate counters: %w", err)
	}
	return counters, nil
}

// ReadSeedReadingsFromJSON loads readings keyed by facility ID, as used to
// seed a fresh store.
func ReadSeedReadingsFromJSON(filePath string) (map[string][]occupancy.Reading, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var readings map[string][]occupancy.Reading
	if err := json.Unmarshal(data, &readings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed readings: %w", err)
	}
	return readings, nil
}
