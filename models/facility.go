package models

// Facility is a monitored location whose occupancy is collected and charted.
type Facility struct {
	ID                 string `json:"id"`
	Label              string `json:"label"`
	OrganizationUnitID int    `json:"organization_unit_id"`
}
