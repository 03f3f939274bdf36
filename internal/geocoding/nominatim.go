package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/UnknownOlympus/footprint/internal/models"
)

const (
	// DefaultNominatimURL is the base URL of a locally hosted Nominatim instance.
	DefaultNominatimURL = "http://localhost:8088"
	// DefaultUserAgent identifies the client to the Nominatim service.
	DefaultUserAgent = "Footprint-Reverse-Geocoder/1.0 (https://github.com/UnknownOlympus/footprint)"
	// DefaultConnections caps the pooled connections per host.
	DefaultConnections = 100

	// nominatimZoom is the most detailed zoom level, resolving to individual buildings.
	nominatimZoom = 18
)

// NominatimProvider implements the Provider interface using the Nominatim /reverse endpoint.
// It is meant to talk to a self-hosted instance, so no client-side rate limit is applied.
type NominatimProvider struct {
	client  HTTPClient   // HTTP client for making requests
	baseURL string       // Base URL for the Nominatim API, without the /reverse path
	log     *slog.Logger // Logger for logging operations
	// userAgent is required by Nominatim usage policy
	userAgent string
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// nominatimResponse represents the JSON response from the Nominatim reverse API.
type nominatimResponse struct {
	DisplayName string `json:"display_name"` // Full formatted address
	Error       string `json:"error"`        // Set instead of an address when nothing was found
}

// Common errors for Nominatim provider.
var (
	ErrNominatimUnableToGeocode    = errors.New("nominatim API was unable to geocode the point")
	ErrNominatimMissingDisplayName = errors.New("nominatim API response has no display_name")
)

// NewHTTPClient returns an HTTP client whose connection pool holds at most
// connections per host. A zero timeout disables the per-request deadline.
func NewHTTPClient(connections int, timeout time.Duration) *http.Client {
	if connections <= 0 {
		connections = DefaultConnections
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxConnsPerHost = connections
	transport.MaxIdleConnsPerHost = connections
	transport.MaxIdleConns = connections

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// NewNominatimProvider creates a new Nominatim reverse geocoding provider
// backed by a pooled HTTP client with no request timeout.
func NewNominatimProvider(baseURL, userAgent string, log *slog.Logger) *NominatimProvider {
	return NewNominatimProviderWithClient(NewHTTPClient(DefaultConnections, 0), baseURL, userAgent, log)
}

// NewNominatimProviderWithClient creates a Nominatim provider with a custom HTTP client.
// Useful for testing with mocked HTTP clients.
func NewNominatimProviderWithClient(client HTTPClient, baseURL, userAgent string, log *slog.Logger) *NominatimProvider {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &NominatimProvider{
		client:    client,
		baseURL:   baseURL,
		log:       log,
		userAgent: userAgent,
	}
}

// Name returns the provider name used for metrics labeling.
func (np *NominatimProvider) Name() string {
	return string(ProviderTypeNominatim)
}

// Reverse resolves coordinates to the display name of the closest building
// known to Nominatim. Any transport error, non-2xx status, undecodable body or
// missing display_name is returned as an error.
func (np *NominatimProvider) Reverse(ctx context.Context, coords models.Coordinates) (string, error) {
	reqURL, err := np.reverseURL(coords)
	if err != nil {
		return "", err
	}

	np.log.DebugContext(ctx, "Nominatim request URL", "url", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", np.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := np.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute reverse geocoding request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		np.log.ErrorContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", string(body))
		return "", fmt.Errorf("nominatim API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result nominatimResponse
	if err = json.Unmarshal(body, &result); err != nil {
		np.log.ErrorContext(ctx, "Failed to parse Nominatim response", "error", err, "body", string(body))
		return "", fmt.Errorf("failed to decode nominatim response: %w", err)
	}

	if result.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrNominatimUnableToGeocode, result.Error)
	}
	if result.DisplayName == "" {
		return "", ErrNominatimMissingDisplayName
	}

	np.log.DebugContext(ctx, "Nominatim resolved point",
		"lat", coords.Latitude, "lon", coords.Longitude, "display_name", result.DisplayName)

	return result.DisplayName, nil
}

// CloseIdleConnections releases pooled connections once a batch is done.
func (np *NominatimProvider) CloseIdleConnections() {
	if closer, ok := np.client.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}
}

func (np *NominatimProvider) reverseURL(coords models.Coordinates) (string, error) {
	endpoint, err := url.JoinPath(np.baseURL, "reverse")
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w", err)
	}

	reqURL, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("lat", models.FormatDegrees(coords.Latitude))
	query.Set("lon", models.FormatDegrees(coords.Longitude))
	query.Set("format", "json")
	query.Set("zoom", strconv.Itoa(nominatimZoom))
	reqURL.RawQuery = query.Encode()

	return reqURL.String(), nil
}
