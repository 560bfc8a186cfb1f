package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/UnknownOlympus/skypark/internal/models"
	"golang.org/x/time/rate"
	"googlemaps.github.io/maps"
)

// Geolocator is the part of the Google Maps client used to locate the device.
type Geolocator interface {
	Geolocate(ctx context.Context, r *maps.GeolocationRequest) (*maps.GeolocationResult, error)
}

// GoogleSource polls the Google Maps Geolocation API.
type GoogleSource struct {
	client  Geolocator
	limiter *rate.Limiter
	timeout time.Duration
	log     *slog.Logger
	perm    permission
}

// Defaults used when NewGoogleSource gets a non-positive interval or timeout.
const (
	DefaultGoogleInterval = 10 * time.Second
	DefaultGoogleTimeout  = 5 * time.Second
)

// NewGoogleSource creates a source that asks client for a position at most once per interval.
// Each request is bounded by timeout.
func NewGoogleSource(client Geolocator, interval, timeout time.Duration, log *slog.Logger) *GoogleSource {
	if interval <= 0 {
		interval = DefaultGoogleInterval
	}
	if timeout <= 0 {
		timeout = DefaultGoogleTimeout
	}

	return &GoogleSource{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		timeout: timeout,
		log:     log,
	}
}

// RequestPermission performs one geolocation request to check access. A missing client means the capability is unsupported.
func (gs *GoogleSource) RequestPermission(ctx context.Context) error {
	if gs.client == nil {
		return NewUnavailableError(ReasonUnsupported, errors.New("geolocation client is not configured"))
	}

	if _, err := gs.locate(ctx); err != nil {
		return err
	}
	gs.perm.grant()

	return nil
}

// Subscribe starts polling. Failed polls are reported to onError and polling continues.
func (gs *GoogleSource) Subscribe(
	ctx context.Context,
	onUpdate func(models.Reading),
	onError func(error),
) (context.CancelFunc, error) {
	if err := gs.perm.check(); err != nil {
		return nil, err
	}

	return loop(ctx, func(ctx context.Context) {
		for {
			if err := gs.limiter.Wait(ctx); err != nil {
				return
			}

			reading, err := gs.locate(ctx)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				gs.log.WarnContext(ctx, "Failed to geolocate", "error", err)
				if onError != nil {
					onError(err)
				}
				continue
			}

			onUpdate(reading)
		}
	}), nil
}

func (gs *GoogleSource) locate(ctx context.Context) (models.Reading, error) {
	reqCtx, cancel := context.WithTimeout(ctx, gs.timeout)
	defer cancel()

	gs.log.DebugContext(ctx, "Geolocating using Google Maps")

	result, err := gs.client.Geolocate(reqCtx, &maps.GeolocationRequest{ConsiderIP: true})
	if err != nil {
		return models.Reading{}, classifyGoogleError(err)
	}
	if result == nil {
		return models.Reading{}, NewUnavailableError(ReasonPositionUnavailable, errors.New("empty geolocation response"))
	}

	return models.Reading{
		Coordinates: models.Coordinates{Latitude: result.Location.Lat, Longitude: result.Location.Lng},
		Timestamp:   time.Now(),
	}, nil
}

// classifyGoogleError maps client errors to acquisition failure reasons.
func classifyGoogleError(err error) *UnavailableError {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewUnavailableError(ReasonTimeout, err)
	}

	msg := err.Error()
	for _, marker := range []string{"REQUEST_DENIED", "PERMISSION_DENIED", "keyInvalid", "accessNotConfigured"} {
		if strings.Contains(msg, marker) {
			return NewUnavailableError(ReasonPermissionDenied, err)
		}
	}

	return NewUnavailableError(ReasonPositionUnavailable, fmt.Errorf("failed to geolocate: %w", err))
}
