package models

// ParkingSpot is a single bay inside a parking zone.
// Occupied only ever goes from false to true, after a user confirms a reservation.
type ParkingSpot struct {
	ID          string      `json:"id"`          // ID is the unique identifier of the spot.
	ZoneID      string      `json:"zone_id"`     // ZoneID references the owning ParkingZone.
	Coordinates Coordinates `json:"coordinates"` // Coordinates of the spot.
	Occupied    bool        `json:"occupied"`    // Occupied reports whether the spot has been reserved.
}

// ParkingZone groups spots of the same kind and price.
type ParkingZone struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Type           string  `json:"type"` // VIP, Accessible, Long Term, Short Term
	TotalSpots     int     `json:"total_spots"`
	AvailableSpots int     `json:"available_spots"`
	PricePerHour   float64 `json:"price_per_hour"` // in Rand
}
