package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/UnknownOlympus/skypark/internal/geo"
	"github.com/UnknownOlympus/skypark/internal/gmaps"
	"github.com/UnknownOlympus/skypark/internal/location"
	"github.com/UnknownOlympus/skypark/internal/models"
	"github.com/UnknownOlympus/skypark/internal/repository"
	"github.com/UnknownOlympus/skypark/internal/service"
	"github.com/gorilla/mux"
)

// ParkingService is the part of service.ParkingService the API depends on.
type ParkingService interface {
	Status() service.Status
	ConfirmReservation(ctx context.Context, spotID string) (models.Reservation, error)
}

// Handler serves the parking API.
type Handler struct {
	log     *slog.Logger
	parking ParkingService
	repo    repository.SpotRepository
	push    *location.PushSource // nil unless readings are pushed over HTTP
	zones   []models.ParkingZone
	gate    models.ReferencePoint
	mapsKey string
	now     func() time.Time

	// positionMu serializes publishing so each response carries its own evaluation.
	positionMu sync.Mutex
}

// maxClockSkew is how far ahead of server time a reported timestamp may be.
const maxClockSkew = time.Minute

// Options holds the dependencies of Handler.
type Options struct {
	Logger  *slog.Logger
	Parking ParkingService
	Repo    repository.SpotRepository
	Push    *location.PushSource
	Zones   []models.ParkingZone
	Gate    models.ReferencePoint
	MapsKey string
}

// NewHandler creates a Handler from opts.
func NewHandler(opts Options) *Handler {
	return &Handler{
		log:     opts.Logger,
		parking: opts.Parking,
		repo:    opts.Repo,
		push:    opts.Push,
		zones:   slices.Clone(opts.Zones),
		gate:    opts.Gate,
		mapsKey: opts.MapsKey,
		now:     time.Now,
	}
}

type positionRequest struct {
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error"` // reason reported by the client, e.g. "permission_denied"
}

type quoteResponse struct {
	ZoneID       string  `json:"zone_id"`
	Hours        int     `json:"hours"`
	PricePerHour float64 `json:"price_per_hour"`
	Total        float64 `json:"total"`
}

type directionsResponse struct {
	SpotID string `json:"spot_id"`
	URL    string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) getSuggestion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.parking.Status())
}

func (h *Handler) postPosition(w http.ResponseWriter, r *http.Request) {
	if h.push == nil {
		h.writeError(w, http.StatusConflict, "positions are not accepted by the configured location source")
		return
	}

	var req positionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "malformed position body")
		return
	}

	if req.Error != "" {
		reason, ok := location.ParseReason(req.Error)
		if !ok {
			h.writeError(w, http.StatusBadRequest, "unknown location error reason")
			return
		}

		h.positionMu.Lock()
		defer h.positionMu.Unlock()

		delivered := h.push.Fail(location.NewUnavailableError(reason, nil))
		if delivered == 0 {
			h.writeError(w, http.StatusServiceUnavailable, "no active position subscription")
			return
		}
		h.writeJSON(w, http.StatusAccepted, h.parking.Status())
		return
	}

	if req.Latitude == nil || req.Longitude == nil {
		h.writeError(w, http.StatusBadRequest, "latitude and longitude are required")
		return
	}
	coords := models.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
	if err := geo.Validate(coords); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := h.now()
	switch {
	case req.Timestamp.IsZero():
		req.Timestamp = now
	case req.Timestamp.After(now.Add(maxClockSkew)):
		h.writeError(w, http.StatusBadRequest, "timestamp is in the future")
		return
	}
	reading := models.Reading{Coordinates: coords, Timestamp: req.Timestamp}

	h.positionMu.Lock()
	defer h.positionMu.Unlock()

	if h.push.Publish(reading) == 0 {
		h.writeError(w, http.StatusServiceUnavailable, "no active position subscription")
		return
	}

	status := h.parking.Status()
	last := status.LastReading
	if last == nil || last.Coordinates != reading.Coordinates || !last.Timestamp.Equal(reading.Timestamp) {
		h.log.ErrorContext(r.Context(), "Position was not evaluated", "error", status.LastError)
		h.writeError(w, http.StatusInternalServerError, "failed to evaluate position")
		return
	}

	h.writeJSON(w, http.StatusOK, status)
}

func (h *Handler) confirmSpot(w http.ResponseWriter, r *http.Request) {
	spotID := mux.Vars(r)["id"]

	reservation, err := h.parking.ConfirmReservation(r.Context(), spotID)
	switch {
	case errors.Is(err, repository.ErrSpotNotFound):
		h.writeError(w, http.StatusNotFound, "parking spot not found")
	case errors.Is(err, repository.ErrSpotOccupied):
		h.writeError(w, http.StatusConflict, "parking spot is already occupied")
	case err != nil:
		h.log.ErrorContext(r.Context(), "Failed to confirm reservation", "spot", spotID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to confirm reservation")
	default:
		h.writeJSON(w, http.StatusCreated, reservation)
	}
}

func (h *Handler) listSpots(w http.ResponseWriter, r *http.Request) {
	spots, err := h.repo.ListSpots(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "Failed to list spots", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list parking spots")
		return
	}
	if spots == nil {
		spots = []models.ParkingSpot{}
	}

	h.writeJSON(w, http.StatusOK, spots)
}

func (h *Handler) spotDirections(w http.ResponseWriter, r *http.Request) {
	if h.mapsKey == "" {
		h.writeError(w, http.StatusServiceUnavailable, "directions require a Google Maps API key")
		return
	}

	spot, err := h.repo.GetSpot(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, repository.ErrSpotNotFound) {
		h.writeError(w, http.StatusNotFound, "parking spot not found")
		return
	}
	if err != nil {
		h.log.ErrorContext(r.Context(), "Failed to load spot", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load parking spot")
		return
	}

	h.writeJSON(w, http.StatusOK, directionsResponse{
		SpotID: spot.ID,
		URL:    gmaps.DirectionsEmbedURL(h.mapsKey, h.gate.Coordinates, spot.Coordinates),
	})
}

func (h *Handler) listZones(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.zones)
}

func (h *Handler) quoteZone(w http.ResponseWriter, r *http.Request) {
	zoneID := mux.Vars(r)["id"]
	idx := slices.IndexFunc(h.zones, func(z models.ParkingZone) bool { return z.ID == zoneID })
	if idx < 0 {
		h.writeError(w, http.StatusNotFound, "parking zone not found")
		return
	}

	hours := 1
	if raw := r.URL.Query().Get("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "hours must be a positive integer")
			return
		}
		hours = parsed
	}

	zone := h.zones[idx]
	h.writeJSON(w, http.StatusOK, quoteResponse{
		ZoneID:       zone.ID,
		Hours:        hours,
		PricePerHour: zone.PricePerHour,
		Total:        zone.PricePerHour * float64(hours),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("failed to write reply", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}
