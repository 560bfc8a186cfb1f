package geo_test

import (
	"math"
	"testing"

	"github.com/UnknownOlympus/skypark/internal/geo"
	"github.com/UnknownOlympus/skypark/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lanseria = models.Coordinates{Latitude: -26.133, Longitude: 27.938}

func TestDistanceKm(t *testing.T) {
	t.Parallel()

	t.Run("identical points are zero apart", func(t *testing.T) {
		t.Parallel()
		dist, err := geo.DistanceKm(lanseria, lanseria)

		require.NoError(t, err)
		assert.Zero(t, dist)
	})

	t.Run("distance is symmetric", func(t *testing.T) {
		t.Parallel()
		pairs := [][2]models.Coordinates{
			{lanseria, {Latitude: -26.136, Longitude: 27.941}},
			{{Latitude: 50.45, Longitude: 30.52}, {Latitude: 37.42, Longitude: -122.08}},
			{{Latitude: 0, Longitude: 179.9}, {Latitude: 0, Longitude: -179.9}},
			{{Latitude: 90, Longitude: 0}, {Latitude: -90, Longitude: 0}},
		}

		for _, pair := range pairs {
			ab, err := geo.DistanceKm(pair[0], pair[1])
			require.NoError(t, err)
			ba, err := geo.DistanceKm(pair[1], pair[0])
			require.NoError(t, err)

			assert.Equal(t, ab, ba)
			assert.Positive(t, ab)
		}
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		t.Parallel()
		dist, err := geo.DistanceKm(
			models.Coordinates{Latitude: 0, Longitude: 0},
			models.Coordinates{Latitude: 1, Longitude: 0},
		)

		require.NoError(t, err)
		assert.InDelta(t, geo.EarthRadiusKm*math.Pi/180, dist, 1e-9)
	})

	t.Run("pole to pole is half the circumference", func(t *testing.T) {
		t.Parallel()
		dist, err := geo.DistanceKm(
			models.Coordinates{Latitude: 90, Longitude: 0},
			models.Coordinates{Latitude: -90, Longitude: 0},
		)

		require.NoError(t, err)
		assert.InDelta(t, math.Pi*geo.EarthRadiusKm, dist, 1e-6)
	})

	t.Run("neighbouring spots at lanseria", func(t *testing.T) {
		t.Parallel()
		dist, err := geo.DistanceKm(lanseria, models.Coordinates{Latitude: -26.136, Longitude: 27.941})

		require.NoError(t, err)
		assert.InDelta(t, 0.45, dist, 0.01)
	})
}

func TestDistanceKm_InvalidCoordinate(t *testing.T) {
	t.Parallel()

	invalid := []models.Coordinates{
		{Latitude: math.NaN(), Longitude: 0},
		{Latitude: 0, Longitude: math.NaN()},
		{Latitude: math.Inf(1), Longitude: 0},
		{Latitude: 0, Longitude: math.Inf(-1)},
	}

	for _, coords := range invalid {
		_, err := geo.DistanceKm(coords, lanseria)
		require.ErrorIs(t, err, geo.ErrInvalidCoordinate)

		_, err = geo.DistanceKm(lanseria, coords)
		require.ErrorIs(t, err, geo.ErrInvalidCoordinate)
	}
}

func TestCalculator_Radius(t *testing.T) {
	t.Parallel()

	t.Run("custom radius scales distance", func(t *testing.T) {
		t.Parallel()
		a := models.Coordinates{Latitude: 0, Longitude: 0}
		b := models.Coordinates{Latitude: 0, Longitude: 1}

		earth, err := geo.NewCalculator(geo.EarthRadiusKm).DistanceKm(a, b)
		require.NoError(t, err)
		double, err := geo.NewCalculator(2 * geo.EarthRadiusKm).DistanceKm(a, b)
		require.NoError(t, err)

		assert.InDelta(t, 2*earth, double, 1e-9)
	})

	t.Run("non-positive radius falls back to earth", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, geo.EarthRadiusKm, geo.NewCalculator(0).RadiusKm(), 0)
		assert.InDelta(t, geo.EarthRadiusKm, geo.NewCalculator(-5).RadiusKm(), 0)
		assert.InDelta(t, geo.EarthRadiusKm, geo.NewCalculator(math.NaN()).RadiusKm(), 0)
	})
}
