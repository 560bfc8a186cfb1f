package location

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/skypark/internal/gmaps"
	"github.com/UnknownOlympus/skypark/internal/models"
)

// SourceType represents the kind of location source.
type SourceType string

const (
	// SourceTypeStatic simulates a user standing at a fixed position.
	SourceTypeStatic SourceType = "static"
	// SourceTypePush accepts readings published over the HTTP API.
	SourceTypePush SourceType = "push"
	// SourceTypeGoogle polls the Google Maps Geolocation API.
	SourceTypeGoogle SourceType = "google"
)

// SourceConfig holds configuration for creating a location source.
type SourceConfig struct {
	Type      SourceType         // Type of source to create
	Position  models.Coordinates // Simulated position (static source)
	Interval  time.Duration      // Emission or polling interval (static, google)
	Timeout   time.Duration      // Per-request timeout (google)
	APIKey    string             // API key (google)
	RateLimit int                // Client requests per second (google)
	Logger    *slog.Logger       // Logger for the source
}

// NewSource creates a location source based on the provided configuration.
//
// A google source without an API key is still created; its RequestPermission
// reports ReasonUnsupported so the service degrades instead of failing at start.
func NewSource(config SourceConfig) (Source, error) {
	switch config.Type {
	case SourceTypeStatic:
		return NewStaticSource(config.Position, config.Interval, config.Logger), nil
	case SourceTypePush:
		return NewPushSource(config.Logger), nil
	case SourceTypeGoogle:
		return newGoogleSource(config)
	default:
		return nil, fmt.Errorf("unsupported location source type: %s", config.Type)
	}
}

func newGoogleSource(config SourceConfig) (Source, error) {
	var client Geolocator
	if config.APIKey == "" {
		config.Logger.Warn("Google Maps API key not set, geolocation will be unsupported")
	} else {
		mapsClient, err := gmaps.NewClient(config.APIKey, config.RateLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to create geolocation client: %w", err)
		}
		client = mapsClient
	}

	return NewGoogleSource(client, config.Interval, config.Timeout, config.Logger), nil
}
