package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/skypark/internal/geo"
	"github.com/UnknownOlympus/skypark/internal/location"
	"github.com/UnknownOlympus/skypark/internal/metrics"
	"github.com/UnknownOlympus/skypark/internal/models"
	"github.com/UnknownOlympus/skypark/internal/proximity"
	"github.com/UnknownOlympus/skypark/internal/repository"
	"github.com/google/uuid"
)

// State describes the lifecycle of the location subscription.
type State string

const (
	StateIdle        State = "idle"        // Run has not been called yet.
	StateWatching    State = "watching"    // Readings are being evaluated.
	StateUnavailable State = "unavailable" // Permission or subscription failed; no suggestions are offered.
	StateStopped     State = "stopped"     // The subscription was cancelled.
)

// Status is a snapshot of the service as seen by presentation code.
type Status struct {
	State       State             `json:"state"`
	Suggestion  models.Suggestion `json:"suggestion"`
	LastReading *models.Reading   `json:"last_reading,omitempty"`
	LastError   string            `json:"last_error,omitempty"`
	Reason      location.Reason   `json:"reason,omitempty"`
}

// ParkingService evaluates position readings against the gate and keeps the latest suggestion.
type ParkingService struct {
	log     *slog.Logger              // Logger for logging service activities
	repo    repository.SpotRepository // Owned collection of parking spots
	matcher *proximity.Matcher        // Gate and distance model
	source  location.Source           // Platform delivering readings
	metrics *metrics.Metrics          // Metrics for tracking service performance
	now     func() time.Time          // Clock used for reservations

	mu            sync.Mutex
	status        Status
	confirmations uint64 // bumped on every successful confirmation
}

// NewParkingService creates a new instance of ParkingService.
func NewParkingService(
	log *slog.Logger,
	repo repository.SpotRepository,
	matcher *proximity.Matcher,
	source location.Source,
	metrics *metrics.Metrics,
) *ParkingService {
	return &ParkingService{
		log:     log,
		repo:    repo,
		matcher: matcher,
		source:  source,
		metrics: metrics,
		now:     time.Now,
		status:  Status{State: StateIdle},
	}
}

// Run requests location permission, subscribes to readings and evaluates each of them
// until ctx is cancelled. Acquisition failures leave the service in StateUnavailable;
// they are not retried.
func (ps *ParkingService) Run(ctx context.Context) {
	ps.log.InfoContext(ctx, "Parking service started...")

	if err := ps.source.RequestPermission(ctx); err != nil {
		ps.markUnavailable(ctx, err)
		return
	}

	cancel, err := ps.source.Subscribe(ctx,
		func(reading models.Reading) {
			// Failures are recorded in the status by Evaluate.
			_, _ = ps.Evaluate(ctx, reading)
		},
		func(err error) {
			ps.recordLocationError(ctx, err)
		},
	)
	if err != nil {
		ps.markUnavailable(ctx, err)
		return
	}

	ps.setState(StateWatching)
	ps.log.InfoContext(ctx, "Watching position updates")

	<-ctx.Done()
	cancel()

	ps.setState(StateStopped)
	ps.log.InfoContext(ctx, "Parking service stopped.")
}

// maxEvaluationAttempts bounds how often Evaluate re-reads the spots after a
// confirmation landed while it was matching.
const maxEvaluationAttempts = 3

// Evaluate runs one synchronous proximity evaluation for reading and stores the result
// as the current suggestion. Readings are ordered by arrival: the latest call wins.
func (ps *ParkingService) Evaluate(ctx context.Context, reading models.Reading) (models.Suggestion, error) {
	startTime := time.Now()
	defer func() {
		ps.metrics.EvaluationSeconds.Observe(time.Since(startTime).Seconds())
	}()

	for attempt := 1; ; attempt++ {
		ps.mu.Lock()
		generation := ps.confirmations
		ps.mu.Unlock()

		spots, err := ps.repo.ListSpots(ctx)
		if err != nil {
			ps.metrics.Evaluations.WithLabelValues("error").Inc()
			ps.log.ErrorContext(ctx, "Failed to list parking spots", "error", err)
			ps.recordError(err)
			return models.Suggestion{}, fmt.Errorf("failed to list parking spots: %w", err)
		}

		suggestion, err := ps.matcher.FindNearestSpot(reading.Coordinates, spots)
		if err != nil {
			ps.metrics.Evaluations.WithLabelValues("invalid").Inc()
			ps.log.WarnContext(ctx, "Rejected position reading", "reading", reading, "error", err)

			ps.mu.Lock()
			ps.status.Suggestion = models.Suggestion{}
			ps.status.LastError = err.Error()
			ps.mu.Unlock()

			return models.Suggestion{}, err
		}

		ps.mu.Lock()
		if ps.confirmations != generation {
			if attempt < maxEvaluationAttempts {
				ps.mu.Unlock()
				continue
			}
			// The snapshot may point at a spot that was just taken.
			suggestion = models.Suggestion{}
		}
		ps.status.Suggestion = suggestion
		ps.status.LastReading = &reading
		ps.status.LastError = ""
		ps.status.Reason = ""
		ps.mu.Unlock()

		free := countFree(spots)
		ps.metrics.AvailableSpots.Set(float64(free))
		ps.metrics.Evaluations.WithLabelValues(evaluationResult(suggestion, free)).Inc()

		ps.log.DebugContext(ctx, "Position evaluated",
			"lat", reading.Coordinates.Latitude,
			"lng", reading.Coordinates.Longitude,
			"available", suggestion.Available,
			"spot", suggestion.SpotID)

		return suggestion, nil
	}
}

// ConfirmReservation marks spotID as occupied and issues a reservation.
// It is only ever called on explicit user confirmation.
func (ps *ParkingService) ConfirmReservation(ctx context.Context, spotID string) (models.Reservation, error) {
	spot, err := ps.repo.GetSpot(ctx, spotID)
	if err != nil {
		ps.metrics.Confirmations.WithLabelValues(confirmationStatus(err)).Inc()
		return models.Reservation{}, fmt.Errorf("failed to load spot: %w", err)
	}

	if err = ps.repo.ConfirmReservation(ctx, spotID); err != nil {
		ps.metrics.Confirmations.WithLabelValues(confirmationStatus(err)).Inc()
		ps.log.WarnContext(ctx, "Failed to confirm reservation", "spot", spotID, "error", err)
		return models.Reservation{}, fmt.Errorf("failed to confirm reservation: %w", err)
	}
	ps.metrics.Confirmations.WithLabelValues("confirmed").Inc()

	ps.mu.Lock()
	ps.confirmations++
	if ps.status.Suggestion.SpotID == spotID {
		ps.status.Suggestion = models.Suggestion{}
	}
	ps.mu.Unlock()

	reservation := models.Reservation{
		ID:          uuid.New(),
		SpotID:      spot.ID,
		ZoneID:      spot.ZoneID,
		ConfirmedAt: ps.now().UTC(),
	}
	ps.log.InfoContext(ctx, "Parking spot confirmed and marked as occupied",
		"spot", spot.ID, "zone", spot.ZoneID, "reservation", reservation.ID)

	return reservation, nil
}

// Status returns a copy of the current status.
func (ps *ParkingService) Status() Status {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	status := ps.status
	if status.LastReading != nil {
		reading := *status.LastReading
		status.LastReading = &reading
	}

	return status
}

func (ps *ParkingService) setState(state State) {
	ps.mu.Lock()
	ps.status.State = state
	ps.mu.Unlock()
}

func (ps *ParkingService) markUnavailable(ctx context.Context, err error) {
	ps.log.WarnContext(ctx, "Location is unavailable, proximity suggestions disabled", "error", err)
	ps.metrics.LocationErrors.WithLabelValues(reasonLabel(err)).Inc()

	ps.mu.Lock()
	ps.status.State = StateUnavailable
	ps.status.Suggestion = models.Suggestion{}
	ps.status.LastError = err.Error()
	ps.status.Reason = location.ReasonOf(err)
	ps.mu.Unlock()
}

func (ps *ParkingService) recordLocationError(ctx context.Context, err error) {
	ps.log.WarnContext(ctx, "Failed to get location", "error", err)
	ps.metrics.LocationErrors.WithLabelValues(reasonLabel(err)).Inc()

	ps.mu.Lock()
	ps.status.LastError = err.Error()
	ps.status.Reason = location.ReasonOf(err)
	ps.mu.Unlock()
}

func (ps *ParkingService) recordError(err error) {
	ps.mu.Lock()
	ps.status.LastError = err.Error()
	ps.mu.Unlock()
}

func countFree(spots []models.ParkingSpot) int {
	free := 0
	for _, spot := range spots {
		if !spot.Occupied {
			free++
		}
	}

	return free
}

// evaluationResult labels an evaluation. Inside the gate a free spot always
// matches, so no match with free spots means the position was outside the gate.
func evaluationResult(suggestion models.Suggestion, free int) string {
	switch {
	case suggestion.Available:
		return "match"
	case free == 0:
		return "no_free_spot"
	default:
		return "outside_gate"
	}
}

func confirmationStatus(err error) string {
	switch {
	case errors.Is(err, repository.ErrSpotNotFound):
		return "not_found"
	case errors.Is(err, repository.ErrSpotOccupied):
		return "occupied"
	default:
		return "error"
	}
}

func reasonLabel(err error) string {
	if reason := location.ReasonOf(err); reason != "" {
		return string(reason)
	}
	if errors.Is(err, geo.ErrInvalidCoordinate) {
		return "invalid_coordinate"
	}

	return "unknown"
}
