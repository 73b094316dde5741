package models

// GateCounter matches one element returned by GET /gates/counter.
type GateCounter struct {
	OrganizationUnitID int `json:"organizationUnitId"`
	PersonCount        int `json:"personCount"`
	MaxPersonCount     int `json:"maxPersonCount"`
}
