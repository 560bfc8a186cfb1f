// Package proximity decides whether a position is close enough to a facility
// to receive a parking suggestion and picks the nearest free spot.
package proximity

import (
	"fmt"

	"github.com/UnknownOlympus/skypark/internal/geo"
	"github.com/UnknownOlympus/skypark/internal/models"
)

// DefaultGateRadiusKm is the gate radius observed at Lanseria.
const DefaultGateRadiusKm = 0.5

// Matcher holds the gate and the distance model used for every evaluation.
// It keeps no mutable state, so a single Matcher can serve concurrent readings.
type Matcher struct {
	calc         geo.Calculator
	gate         models.ReferencePoint
	gateRadiusKm float64
}

// NewMatcher creates a Matcher for the given gate and radius.
func NewMatcher(calc geo.Calculator, gate models.ReferencePoint, gateRadiusKm float64) *Matcher {
	return &Matcher{calc: calc, gate: gate, gateRadiusKm: gateRadiusKm}
}

// Gate returns the reference point the matcher gates on.
func (m *Matcher) Gate() models.ReferencePoint {
	return m.gate
}

// GateRadiusKm returns the configured gate radius.
func (m *Matcher) GateRadiusKm() float64 {
	return m.gateRadiusKm
}

// FindNearestSpot evaluates a single position against spots.
//
// The result is unavailable when the position is farther than the gate radius
// from the gate, or when every spot is occupied. Otherwise it carries the ID of
// the free spot closest to the position; on equal distances the first spot in
// input order wins. The only error is geo.ErrInvalidCoordinate.
func (m *Matcher) FindNearestSpot(position models.Coordinates, spots []models.ParkingSpot) (models.Suggestion, error) {
	toGate, err := m.calc.DistanceKm(position, m.gate.Coordinates)
	if err != nil {
		return models.Suggestion{}, fmt.Errorf("failed to measure distance to gate: %w", err)
	}
	if toGate > m.gateRadiusKm {
		return models.Suggestion{}, nil
	}

	var (
		best    models.Suggestion
		minDist float64
	)
	for _, spot := range spots {
		if spot.Occupied {
			continue
		}

		dist, errDist := m.calc.DistanceKm(position, spot.Coordinates)
		if errDist != nil {
			return models.Suggestion{}, fmt.Errorf("failed to measure distance to spot %s: %w", spot.ID, errDist)
		}

		if !best.Available || dist < minDist {
			best = models.Suggestion{Available: true, SpotID: spot.ID, DistanceKm: dist}
			minDist = dist
		}
	}

	return best, nil
}

// FindNearestSpot is the stateless form of Matcher.FindNearestSpot using the mean Earth radius.
// It returns the chosen spot ID and true, or "" and false when there is no suggestion.
func FindNearestSpot(
	position models.Coordinates,
	spots []models.ParkingSpot,
	gate models.ReferencePoint,
	gateRadiusKm float64,
) (string, bool, error) {
	suggestion, err := NewMatcher(geo.NewCalculator(geo.EarthRadiusKm), gate, gateRadiusKm).
		FindNearestSpot(position, spots)
	if err != nil {
		return "", false, err
	}

	return suggestion.SpotID, suggestion.Available, nil
}
