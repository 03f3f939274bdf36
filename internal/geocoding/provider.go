package geocoding

import (
	"context"

	"github.com/UnknownOlympus/footprint/internal/models"
)

// Provider is an interface that defines a method for reverse geocoding a point.
// The Reverse method takes a context and coordinates as input,
// and returns the human-readable street address and an error if any occurs.
type Provider interface {
	Name() string
	Reverse(ctx context.Context, coords models.Coordinates) (string, error)
}
