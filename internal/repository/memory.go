package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/UnknownOlympus/skypark/internal/models"
)

// Memory keeps spots in process memory. Each instance owns its own copy of the spots.
type Memory struct {
	mu    sync.RWMutex
	spots []models.ParkingSpot
}

// NewMemory creates an in-memory repository seeded with a copy of spots.
func NewMemory(spots []models.ParkingSpot) *Memory {
	return &Memory{spots: slices.Clone(spots)}
}

// ListSpots returns a snapshot of all spots in insertion order.
func (m *Memory) ListSpots(_ context.Context) ([]models.ParkingSpot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.spots), nil
}

// GetSpot returns the spot with the given ID.
func (m *Memory) GetSpot(_ context.Context, spotID string) (models.ParkingSpot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx := m.indexOf(spotID)
	if idx < 0 {
		return models.ParkingSpot{}, fmt.Errorf("failed to get spot %s: %w", spotID, ErrSpotNotFound)
	}

	return m.spots[idx], nil
}

// ConfirmReservation marks the spot occupied.
func (m *Memory) ConfirmReservation(_ context.Context, spotID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(spotID)
	if idx < 0 {
		return fmt.Errorf("failed to confirm spot %s: %w", spotID, ErrSpotNotFound)
	}
	if m.spots[idx].Occupied {
		return fmt.Errorf("failed to confirm spot %s: %w", spotID, ErrSpotOccupied)
	}
	m.spots[idx].Occupied = true

	return nil
}

func (m *Memory) indexOf(spotID string) int {
	return slices.IndexFunc(m.spots, func(s models.ParkingSpot) bool { return s.ID == spotID })
}
