package geo

import (
	"errors"
	"math"

	"github.com/UnknownOlympus/skypark/internal/models"
	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean Earth radius used when no other radius is configured.
const EarthRadiusKm = 6371.0

// ErrInvalidCoordinate is returned when a latitude or longitude is NaN or infinite.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Calculator computes great-circle distances on a sphere of the given radius.
type Calculator struct {
	radiusKm float64
}

// NewCalculator returns a Calculator for a sphere of radiusKm kilometers.
// A non-positive radius falls back to EarthRadiusKm.
func NewCalculator(radiusKm float64) Calculator {
	if radiusKm <= 0 || math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) {
		radiusKm = EarthRadiusKm
	}

	return Calculator{radiusKm: radiusKm}
}

// RadiusKm returns the sphere radius the calculator works with.
func (c Calculator) RadiusKm() float64 {
	return c.radiusKm
}

// DistanceKm returns the haversine distance between a and b in kilometers.
// s2.LatLng.Distance evaluates the haversine central angle, so the result is
// symmetric and exactly zero for identical points.
func (c Calculator) DistanceKm(a, b models.Coordinates) (float64, error) {
	if err := Validate(a); err != nil {
		return 0, err
	}
	if err := Validate(b); err != nil {
		return 0, err
	}

	p1 := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	p2 := s2.LatLngFromDegrees(b.Latitude, b.Longitude)

	return p1.Distance(p2).Radians() * c.radiusKm, nil
}

// DistanceKm is a shortcut for a Calculator with EarthRadiusKm.
func DistanceKm(a, b models.Coordinates) (float64, error) {
	return NewCalculator(EarthRadiusKm).DistanceKm(a, b)
}

// Validate reports ErrInvalidCoordinate when either component of c is not a finite number.
// Ranges are not checked.
func Validate(c models.Coordinates) error {
	if !finite(c.Latitude) || !finite(c.Longitude) {
		return ErrInvalidCoordinate
	}

	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
