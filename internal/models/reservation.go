package models

import (
	"time"

	"github.com/google/uuid"
)

// Reservation is issued once a user confirms a suggested spot.
type Reservation struct {
	ID          uuid.UUID `json:"id"`
	SpotID      string    `json:"spot_id"`
	ZoneID      string    `json:"zone_id"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}
