package gmaps

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/skypark/internal/models"
	"googlemaps.github.io/maps"
)

// Geocoder is the part of the Google Maps client used to resolve addresses.
type Geocoder interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// ErrEmptyResponse is returned when the Google Maps API responds with an empty result.
var ErrEmptyResponse = errors.New("get empty response from Google Maps API")

// GateResolver turns a facility address into a reference point.
type GateResolver struct {
	client Geocoder
	log    *slog.Logger
}

// NewGateResolver creates a GateResolver over client.
func NewGateResolver(client Geocoder, log *slog.Logger) *GateResolver {
	return &GateResolver{client: client, log: log}
}

// Resolve geocodes address and returns the first match as a reference point named name.
func (gr *GateResolver) Resolve(ctx context.Context, name, address string) (models.ReferencePoint, error) {
	gr.log.DebugContext(ctx, "Resolving gate using Google Maps", "address", address)

	req := maps.GeocodingRequest{Address: address}
	geocodeResponse, err := gr.client.Geocode(ctx, &req)
	if err != nil {
		return models.ReferencePoint{}, fmt.Errorf("failed to geocode gate address: %w", err)
	}

	if len(geocodeResponse) == 0 {
		return models.ReferencePoint{}, ErrEmptyResponse
	}
	coords := geocodeResponse[0].Geometry.Location

	return models.ReferencePoint{
		Name:        name,
		Coordinates: models.Coordinates{Latitude: coords.Lat, Longitude: coords.Lng},
	}, nil
}
