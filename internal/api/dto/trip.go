package dto

type TripRequest struct {
	TripCode    string `json:"trip_code"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// ResolveRequest carries the trips to resolve. When Trips is empty the
// server resolves the trips of its configured source instead.
type ResolveRequest struct {
	Trips []TripRequest `json:"trips"`
}

type TripResponse struct {
	TripCode    string `json:"trip_code"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

type ListTripsResponse struct {
	Trips []TripResponse `json:"trips"`
}
