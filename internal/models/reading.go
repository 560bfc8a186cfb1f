package models

import "time"

// Reading is a single sample delivered by a location source.
type Reading struct {
	Coordinates Coordinates `json:"coordinates"`
	Timestamp   time.Time   `json:"timestamp"`
}

// Suggestion is the outcome of one proximity evaluation.
// SpotID and DistanceKm are only meaningful when Available is true.
type Suggestion struct {
	Available  bool    `json:"available"`
	SpotID     string  `json:"spot_id,omitempty"`
	DistanceKm float64 `json:"distance_km,omitempty"`
}
