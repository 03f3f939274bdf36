package geocoding_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/footprint/internal/geocoding"
	"github.com/UnknownOlympus/footprint/internal/models"
	"github.com/UnknownOlympus/footprint/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func TestGoogleReverse(t *testing.T) {
	mockClient := mocks.NewGoogleAPIClient(t)
	provider := geocoding.NewGoogleProvider(mockClient, slog.Default())
	ctx := t.Context()
	point := models.Coordinates{Longitude: -122.08, Latitude: 37.42}
	req := &maps.GeocodingRequest{LatLng: &maps.LatLng{Lat: 37.42, Lng: -122.08}}

	t.Run("api returns error", func(t *testing.T) {
		mockClient.On("ReverseGeocode", ctx, req).Return(nil, assert.AnError).Once()

		_, err := provider.Reverse(ctx, point)

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
		mockClient.AssertExpectations(t)
	})

	t.Run("api return empty response", func(t *testing.T) {
		mockClient.On("ReverseGeocode", ctx, req).Return(nil, nil).Once()

		address, err := provider.Reverse(ctx, point)

		require.Empty(t, address)
		require.ErrorIs(t, err, geocoding.ErrEmptyResponse)
		mockClient.AssertExpectations(t)
	})

	t.Run("successfull reverse geocoding", func(t *testing.T) {
		mockReponse := []maps.GeocodingResult{
			{FormattedAddress: "1600 Amphitheatre Pkwy, Mountain View, CA 94043, USA"},
			{FormattedAddress: "Mountain View, CA, USA"},
		}

		mockClient.On("ReverseGeocode", ctx, req).Return(mockReponse, nil).Once()

		address, err := provider.Reverse(ctx, point)

		require.NoError(t, err)
		assert.Equal(t, "1600 Amphitheatre Pkwy, Mountain View, CA 94043, USA", address)
		assert.Equal(t, "google", provider.Name())
		mockClient.AssertExpectations(t)
	})
}
