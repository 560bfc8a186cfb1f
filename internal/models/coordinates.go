package models

// Coordinates represents a geographical point defined by its latitude and longitude in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`  // Latitude of the geographical point.
	Longitude float64 `json:"longitude"` // Longitude of the geographical point.
}

// ReferencePoint is the fixed anchor location of a facility. It is used as the proximity gate.
type ReferencePoint struct {
	Name        string      `json:"name"`        // Name is a human readable label, e.g. "Lanseria Airport".
	Coordinates Coordinates `json:"coordinates"` // Coordinates of the anchor.
}
