package repository

import "github.com/UnknownOlympus/skypark/internal/models"

// DefaultSpots returns a fresh copy of the Lanseria spot layout, all free.
func DefaultSpots() []models.ParkingSpot {
	return []models.ParkingSpot{
		{ID: "1", ZoneID: "1", Coordinates: models.Coordinates{Latitude: -26.133, Longitude: 27.938}},
		{ID: "2", ZoneID: "2", Coordinates: models.Coordinates{Latitude: -26.134, Longitude: 27.939}},
		{ID: "3", ZoneID: "3", Coordinates: models.Coordinates{Latitude: -26.135, Longitude: 27.940}},
		{ID: "4", ZoneID: "4", Coordinates: models.Coordinates{Latitude: -26.136, Longitude: 27.941}},
	}
}

// DefaultZones returns a fresh copy of the zone catalogue.
func DefaultZones() []models.ParkingZone {
	return []models.ParkingZone{
		{ID: "1", Name: "Zone A", Type: "VIP", TotalSpots: 50, AvailableSpots: 25, PricePerHour: 30},
		{ID: "2", Name: "Zone B", Type: "Accessible", TotalSpots: 30, AvailableSpots: 15, PricePerHour: 20},
		{ID: "3", Name: "Zone C", Type: "Long Term", TotalSpots: 100, AvailableSpots: 45, PricePerHour: 15},
		{ID: "4", Name: "Zone D", Type: "Short Term", TotalSpots: 80, AvailableSpots: 30, PricePerHour: 25},
	}
}
