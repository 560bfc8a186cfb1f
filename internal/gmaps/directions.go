package gmaps

import (
	"net/url"
	"strconv"

	"github.com/UnknownOlympus/skypark/internal/models"
)

// EmbedDirectionsURL is the Maps Embed API endpoint for driving directions.
const EmbedDirectionsURL = "https://www.google.com/maps/embed/v1/directions"

// DirectionsEmbedURL builds an embeddable driving-directions link from origin to destination.
func DirectionsEmbedURL(apiKey string, origin, destination models.Coordinates) string {
	query := url.Values{}
	query.Set("key", apiKey)
	query.Set("origin", formatLatLng(origin))
	query.Set("destination", formatLatLng(destination))
	query.Set("mode", "driving")

	return EmbedDirectionsURL + "?" + query.Encode()
}

func formatLatLng(c models.Coordinates) string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}
