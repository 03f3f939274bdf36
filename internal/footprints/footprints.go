// Package footprints extracts building coordinates and labels from a GeoJSON
// FeatureCollection.
package footprints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/UnknownOlympus/footprint/internal/models"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// LabelProperty is the feature property holding the building label.
const LabelProperty = "Label"

// Common errors for footprint loading.
var (
	ErrInputNotFound       = errors.New("input file not found")
	ErrUnsupportedGeometry = errors.New("feature geometry must be a point")
	ErrMissingLabel        = errors.New("feature has no label property")
)

// Load reads the GeoJSON file at path and returns one Building per feature,
// in file order. A missing file is reported as ErrInputNotFound.
func Load(path string) ([]models.Building, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q: %w", ErrInputNotFound, path, err)
		}
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return Decode(file)
}

// Decode parses a FeatureCollection from r. Each feature must carry a point
// geometry ([longitude, latitude]) and a Label property.
func Decode(r io.Reader) ([]models.Building, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read feature collection: %w", err)
	}

	var collection geojson.FeatureCollection
	if err = json.Unmarshal(data, &collection); err != nil {
		return nil, fmt.Errorf("failed to decode feature collection: %w", err)
	}

	buildings := make([]models.Building, 0, len(collection.Features))
	for idx, feature := range collection.Features {
		building, errFeature := toBuilding(feature)
		if errFeature != nil {
			return nil, fmt.Errorf("feature %d: %w", idx, errFeature)
		}
		buildings = append(buildings, building)
	}

	return buildings, nil
}

func toBuilding(feature *geojson.Feature) (models.Building, error) {
	if feature == nil {
		return models.Building{}, ErrUnsupportedGeometry
	}

	point, ok := feature.Geometry.(*geom.Point)
	if !ok || point == nil || point.Empty() {
		return models.Building{}, fmt.Errorf("%w: got %T", ErrUnsupportedGeometry, feature.Geometry)
	}

	raw, ok := feature.Properties[LabelProperty]
	if !ok || raw == nil {
		return models.Building{}, ErrMissingLabel
	}

	label, isString := raw.(string)
	if !isString {
		label = fmt.Sprint(raw)
	}

	return models.Building{
		Coordinates: models.Coordinates{Longitude: point.X(), Latitude: point.Y()},
		Label:       label,
	}, nil
}
