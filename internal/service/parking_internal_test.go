package service

import (
	"context"
	"log/slog"
	"math"
	"os"
	"testing"
	"time"

	"github.com/UnknownOlympus/skypark/internal/geo"
	"github.com/UnknownOlympus/skypark/internal/location"
	"github.com/UnknownOlympus/skypark/internal/metrics"
	"github.com/UnknownOlympus/skypark/internal/models"
	"github.com/UnknownOlympus/skypark/internal/proximity"
	"github.com/UnknownOlympus/skypark/internal/repository"
	"github.com/UnknownOlympus/skypark/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var gate = models.ReferencePoint{
	Name:        "Lanseria Airport",
	Coordinates: models.Coordinates{Latitude: -26.133, Longitude: 27.938},
}

func newTestService(t *testing.T, repo repository.SpotRepository, source location.Source) *ParkingService {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	matcher := proximity.NewMatcher(geo.NewCalculator(geo.EarthRadiusKm), gate, proximity.DefaultGateRadiusKm)

	return NewParkingService(logger, repo, matcher, source, metrics.NewMetrics(prometheus.NewRegistry()))
}

func readingAt(c models.Coordinates, ts int64) models.Reading {
	return models.Reading{Coordinates: c, Timestamp: time.Unix(ts, 0)}
}

func TestEvaluate(t *testing.T) {
	ctx := t.Context()

	t.Run("reading at the gate suggests the nearest spot", func(t *testing.T) {
		service := newTestService(t, repository.NewMemory(repository.DefaultSpots()), location.NewPushSource(slog.Default()))

		suggestion, err := service.Evaluate(ctx, readingAt(gate.Coordinates, 1))

		require.NoError(t, err)
		assert.True(t, suggestion.Available)
		assert.Equal(t, "1", suggestion.SpotID)
		assert.Equal(t, suggestion, service.Status().Suggestion)
		assert.InDelta(t, 1, testutil.ToFloat64(service.metrics.Evaluations.WithLabelValues("match")), 0)
		assert.InDelta(t, 4, testutil.ToFloat64(service.metrics.AvailableSpots), 0)
	})

	t.Run("reading far away clears the suggestion", func(t *testing.T) {
		service := newTestService(t, repository.NewMemory(repository.DefaultSpots()), location.NewPushSource(slog.Default()))
		far := models.Coordinates{Latitude: -26.043, Longitude: 27.938}

		_, err := service.Evaluate(ctx, readingAt(gate.Coordinates, 1))
		require.NoError(t, err)
		suggestion, err := service.Evaluate(ctx, readingAt(far, 2))

		require.NoError(t, err)
		assert.False(t, suggestion.Available)
		assert.False(t, service.Status().Suggestion.Available)
		assert.InDelta(t, 1, testutil.ToFloat64(service.metrics.Evaluations.WithLabelValues("outside_gate")), 0)
	})

	t.Run("later reading replaces one with a future timestamp", func(t *testing.T) {
		service := newTestService(t, repository.NewMemory(repository.DefaultSpots()), location.NewPushSource(slog.Default()))
		far := models.Coordinates{Latitude: -26.043, Longitude: 27.938}
		future := models.Reading{Coordinates: gate.Coordinates, Timestamp: time.Date(2999, 1, 1, 0, 0, 0, 0, time.UTC)}

		first, err := service.Evaluate(ctx, future)
		require.NoError(t, err)
		require.True(t, first.Available)
		latest, err := service.Evaluate(ctx, readingAt(far, 5))
		require.NoError(t, err)

		assert.False(t, latest.Available)
		status := service.Status()
		assert.False(t, status.Suggestion.Available, "no suggestion 10 km from the gate")
		require.NotNil(t, status.LastReading)
		assert.Equal(t, time.Unix(5, 0), status.LastReading.Timestamp)
	})

	t.Run("confirmation during matching is not overwritten", func(t *testing.T) {
		repo := &confirmingRepo{Memory: repository.NewMemory(repository.DefaultSpots()), spotID: "1"}
		service := newTestService(t, repo, location.NewPushSource(slog.Default()))
		repo.service = service

		suggestion, err := service.Evaluate(ctx, readingAt(gate.Coordinates, 1))

		require.NoError(t, err)
		assert.Equal(t, "2", suggestion.SpotID)
		assert.Equal(t, "2", service.Status().Suggestion.SpotID)
		assert.Equal(t, 2, repo.lists)
	})

	t.Run("invalid coordinate is reported and clears the suggestion", func(t *testing.T) {
		service := newTestService(t, repository.NewMemory(repository.DefaultSpots()), location.NewPushSource(slog.Default()))

		_, err := service.Evaluate(ctx, readingAt(gate.Coordinates, 1))
		require.NoError(t, err)
		_, err = service.Evaluate(ctx, readingAt(models.Coordinates{Latitude: math.NaN()}, 2))

		require.ErrorIs(t, err, geo.ErrInvalidCoordinate)
		status := service.Status()
		assert.False(t, status.Suggestion.Available)
		assert.Contains(t, status.LastError, "invalid coordinate")
		assert.InDelta(t, 1, testutil.ToFloat64(service.metrics.Evaluations.WithLabelValues("invalid")), 0)
	})

	t.Run("repository error is returned", func(t *testing.T) {
		repo := mocks.NewSpotRepository(t)
		service := newTestService(t, repo, location.NewPushSource(slog.Default()))
		repo.On("ListSpots", ctx).Return(nil, assert.AnError).Once()

		_, err := service.Evaluate(ctx, readingAt(gate.Coordinates, 1))

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to list parking spots")
		assert.NotEmpty(t, service.Status().LastError)
	})

	t.Run("all spots occupied gives no suggestion", func(t *testing.T) {
		spots := repository.DefaultSpots()
		for i := range spots {
			spots[i].Occupied = true
		}
		service := newTestService(t, repository.NewMemory(spots), location.NewPushSource(slog.Default()))

		suggestion, err := service.Evaluate(ctx, readingAt(gate.Coordinates, 1))

		require.NoError(t, err)
		assert.False(t, suggestion.Available)
		assert.InDelta(t, 1, testutil.ToFloat64(service.metrics.Evaluations.WithLabelValues("no_free_spot")), 0)
	})
}

func TestConfirmReservation(t *testing.T) {
	ctx := t.Context()

	t.Run("confirmed spot is excluded from the next evaluation", func(t *testing.T) {
		service := newTestService(t, repository.NewMemory(repository.DefaultSpots()), location.NewPushSource(slog.Default()))
		service.now = func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC) }

		first, err := service.Evaluate(ctx, readingAt(gate.Coordinates, 1))
		require.NoError(t, err)

		reservation, err := service.ConfirmReservation(ctx, first.SpotID)
		require.NoError(t, err)
		assert.Equal(t, "1", reservation.SpotID)
		assert.Equal(t, "1", reservation.ZoneID)
		assert.NotEmpty(t, reservation.ID.String())
		assert.Equal(t, time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC), reservation.ConfirmedAt)
		assert.False(t, service.Status().Suggestion.Available, "confirmed suggestion is withdrawn")

		second, err := service.Evaluate(ctx, readingAt(gate.Coordinates, 2))
		require.NoError(t, err)
		assert.True(t, second.Available)
		assert.NotEqual(t, first.SpotID, second.SpotID)
		assert.InDelta(t, 1, testutil.ToFloat64(service.metrics.Confirmations.WithLabelValues("confirmed")), 0)
	})

	t.Run("confirming an unrelated spot keeps the suggestion", func(t *testing.T) {
		service := newTestService(t, repository.NewMemory(repository.DefaultSpots()), location.NewPushSource(slog.Default()))

		_, err := service.Evaluate(ctx, readingAt(gate.Coordinates, 1))
		require.NoError(t, err)
		_, err = service.ConfirmReservation(ctx, "4")
		require.NoError(t, err)

		assert.Equal(t, "1", service.Status().Suggestion.SpotID)
	})

	t.Run("second confirmation of the same spot fails", func(t *testing.T) {
		service := newTestService(t, repository.NewMemory(repository.DefaultSpots()), location.NewPushSource(slog.Default()))

		_, err := service.ConfirmReservation(ctx, "2")
		require.NoError(t, err)
		_, err = service.ConfirmReservation(ctx, "2")

		require.ErrorIs(t, err, repository.ErrSpotOccupied)
		assert.InDelta(t, 1, testutil.ToFloat64(service.metrics.Confirmations.WithLabelValues("occupied")), 0)
	})

	t.Run("unknown spot", func(t *testing.T) {
		service := newTestService(t, repository.NewMemory(repository.DefaultSpots()), location.NewPushSource(slog.Default()))

		_, err := service.ConfirmReservation(ctx, "99")

		require.ErrorIs(t, err, repository.ErrSpotNotFound)
		assert.InDelta(t, 1, testutil.ToFloat64(service.metrics.Confirmations.WithLabelValues("not_found")), 0)
	})

	t.Run("repository update error", func(t *testing.T) {
		repo := mocks.NewSpotRepository(t)
		service := newTestService(t, repo, location.NewPushSource(slog.Default()))
		repo.On("GetSpot", ctx, "1").Return(repository.DefaultSpots()[0], nil).Once()
		repo.On("ConfirmReservation", ctx, "1").Return(assert.AnError).Once()

		_, err := service.ConfirmReservation(ctx, "1")

		require.ErrorIs(t, err, assert.AnError)
		assert.InDelta(t, 1, testutil.ToFloat64(service.metrics.Confirmations.WithLabelValues("error")), 0)
	})
}

func TestRun(t *testing.T) {
	t.Run("permission denied leaves the service unavailable", func(t *testing.T) {
		source := mocks.NewSource(t)
		service := newTestService(t, repository.NewMemory(repository.DefaultSpots()), source)
		denied := location.NewUnavailableError(location.ReasonPermissionDenied, nil)
		source.On("RequestPermission", mock.Anything).Return(denied).Once()

		service.Run(t.Context())

		status := service.Status()
		assert.Equal(t, StateUnavailable, status.State)
		assert.Equal(t, location.ReasonPermissionDenied, status.Reason)
		assert.False(t, status.Suggestion.Available)
		assert.InDelta(t, 1, testutil.ToFloat64(service.metrics.LocationErrors.WithLabelValues("permission_denied")), 0)
	})

	t.Run("unsupported source leaves the service unavailable", func(t *testing.T) {
		source := location.NewGoogleSource(nil, time.Second, time.Second, slog.Default())
		service := newTestService(t, repository.NewMemory(repository.DefaultSpots()), source)

		service.Run(t.Context())

		assert.Equal(t, StateUnavailable, service.Status().State)
		assert.Equal(t, location.ReasonUnsupported, service.Status().Reason)
	})

	t.Run("subscribe failure leaves the service unavailable", func(t *testing.T) {
		source := mocks.NewSource(t)
		service := newTestService(t, repository.NewMemory(repository.DefaultSpots()), source)
		source.On("RequestPermission", mock.Anything).Return(nil).Once()
		source.On("Subscribe", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, location.NewUnavailableError(location.ReasonTimeout, nil)).Once()

		service.Run(t.Context())

		assert.Equal(t, StateUnavailable, service.Status().State)
		assert.Equal(t, location.ReasonTimeout, service.Status().Reason)
	})

	t.Run("push readings are evaluated until cancelled", func(t *testing.T) {
		source := location.NewPushSource(slog.Default())
		service := newTestService(t, repository.NewMemory(repository.DefaultSpots()), source)
		ctx, cancel := context.WithCancel(t.Context())

		done := make(chan struct{})
		go func() {
			defer close(done)
			service.Run(ctx)
		}()

		require.Eventually(t, func() bool { return service.Status().State == StateWatching }, time.Second, time.Millisecond)

		assert.Equal(t, 1, source.Publish(readingAt(gate.Coordinates, 1)))
		assert.Equal(t, "1", service.Status().Suggestion.SpotID)

		source.Fail(location.NewUnavailableError(location.ReasonTimeout, nil))
		assert.Equal(t, location.ReasonTimeout, service.Status().Reason)
		assert.Equal(t, StateWatching, service.Status().State)

		cancel()
		<-done

		assert.Equal(t, StateStopped, service.Status().State)
		assert.Equal(t, 0, source.Publish(readingAt(gate.Coordinates, 2)), "subscription cancelled on stop")
	})

	t.Run("static source drives suggestions", func(t *testing.T) {
		source := location.NewStaticSource(gate.Coordinates, time.Millisecond, slog.Default())
		service := newTestService(t, repository.NewMemory(repository.DefaultSpots()), source)
		ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
		defer cancel()

		service.Run(ctx)

		status := service.Status()
		assert.Equal(t, StateStopped, status.State)
		assert.True(t, status.Suggestion.Available)
		assert.Equal(t, "1", status.Suggestion.SpotID)
	})
}

// confirmingRepo confirms spotID through the service right after the first
// ListSpots snapshot is taken, so the snapshot is stale when matching ends.
type confirmingRepo struct {
	*repository.Memory
	service *ParkingService
	spotID  string
	lists   int
}

func (r *confirmingRepo) ListSpots(ctx context.Context) ([]models.ParkingSpot, error) {
	spots, err := r.Memory.ListSpots(ctx)
	r.lists++
	if r.lists == 1 {
		if _, errConfirm := r.service.ConfirmReservation(ctx, r.spotID); errConfirm != nil {
			return nil, errConfirm
		}
	}

	return spots, err
}
