package geocoding

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"googlemaps.github.io/maps"
)

// ProviderType represents the type of geocoding provider.
type ProviderType string

const (
	// ProviderTypeNominatim represents a (self-hosted) OpenStreetMap Nominatim provider.
	ProviderTypeNominatim ProviderType = "nominatim"
	// ProviderTypeGoogle represents Google Maps reverse geocoding provider.
	ProviderTypeGoogle ProviderType = "google"
)

// ProviderConfig holds configuration for creating a geocoding provider.
type ProviderConfig struct {
	Type        ProviderType  // Type of provider to create
	BaseURL     string        // Base URL of the Nominatim service
	UserAgent   string        // User-Agent sent to Nominatim
	APIKey      string        // API key (used by Google provider)
	Connections int           // Maximum pooled connections per host (used by Nominatim provider)
	Timeout     time.Duration // Per-request timeout, zero means none
	Logger      *slog.Logger  // Logger for the provider
}

// NewProvider creates a geocoding provider based on the provided configuration.
// It applies the Factory pattern to decouple provider instantiation from business logic.
//
// Supported provider types:
// - "nominatim": Nominatim /reverse endpoint at BaseURL (default)
// - "google": Google Maps Reverse Geocoding API (requires API key)
//
// Returns an error if the provider type is unsupported or if provider creation fails.
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderTypeNominatim, "":
		return newNominatimProvider(config)
	case ProviderTypeGoogle:
		return newGoogleProvider(config)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

// newGoogleProvider creates a Google Maps reverse geocoding provider.
func newGoogleProvider(config ProviderConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for Google provider")
	}

	// Requests are issued all at once; the client must not throttle them.
	client, err := maps.NewClient(
		maps.WithAPIKey(config.APIKey),
		maps.WithRateLimit(0),
		maps.WithHTTPClient(NewHTTPClient(config.Connections, config.Timeout)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleProvider(client, config.Logger), nil
}

// newNominatimProvider creates a Nominatim reverse geocoding provider.
func newNominatimProvider(config ProviderConfig) (Provider, error) {
	client := NewHTTPClient(config.Connections, config.Timeout)

	return NewNominatimProviderWithClient(client, config.BaseURL, config.UserAgent, config.Logger), nil
}
