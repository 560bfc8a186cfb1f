// Package gmaps wraps the Google Maps client for gate resolution and directions links.
package gmaps

import (
	"errors"
	"fmt"

	"googlemaps.github.io/maps"
)

// ErrMissingAPIKey is returned when a Google Maps client is requested without a key.
var ErrMissingAPIKey = errors.New("API key is required for Google Maps")

// NewClient creates a Google Maps client with an optional per-second rate limit.
func NewClient(apiKey string, rateLimit int) (*maps.Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(apiKey),
	}

	if rateLimit > 0 {
		clientOpts = append(clientOpts, maps.WithRateLimit(rateLimit))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return client, nil
}
