package dto

type RecordResponse struct {
	TripCode          string `json:"trip_code"`
	Length            string `json:"length"`
	Time              string `json:"time"`
	Source            string `json:"source"`
	SourceCoords      string `json:"source_coords"`
	Destination       string `json:"destination"`
	DestinationCoords string `json:"destination_coords"`
}

type StatsResponse struct {
	Trips             int `json:"trips"`
	Locations         int `json:"locations"`
	LocationsResolved int `json:"locations_resolved"`
	LocationsFailed   int `json:"locations_failed"`
	Routes            int `json:"routes"`
	Skipped           int `json:"skipped"`
}

type ResolveResponse struct {
	RunID   string           `json:"run_id"`
	Records []RecordResponse `json:"records"`
	Skipped []string         `json:"skipped"`
	Stats   StatsResponse    `json:"stats"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	RunID string `json:"run_id,omitempty"`
}
