package export_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/UnknownOlympus/footprint/internal/export"
	"github.com/UnknownOlympus/footprint/internal/footprints"
	"github.com/UnknownOlympus/footprint/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBuildings() []models.ResolvedBuilding {
	return []models.ResolvedBuilding{
		{
			Coordinates:   models.Coordinates{Longitude: 30.5234, Latitude: 50.4501},
			StreetAddress: "123 Main St",
			Label:         "A-1",
		},
		{
			Coordinates:   models.Coordinates{Longitude: -0.000012345, Latitude: 51.50722222222222},
			StreetAddress: "456 Oak Ave, Springfield",
			Label:         `quoted "label"`,
		},
		{
			Coordinates:   models.Coordinates{Longitude: 179.99999999999997, Latitude: -89.1},
			StreetAddress: "456 Oak Ave, Springfield",
			Label:         "C",
		},
	}
}

func TestWrite(t *testing.T) {
	t.Run("header and rows in order", func(t *testing.T) {
		var buf bytes.Buffer

		require.NoError(t, export.Write(&buf, sampleBuildings()[:1]))

		assert.Equal(t, "Latitude,Longitude,Street Address,Label\n50.4501,30.5234,123 Main St,A-1\n", buf.String())
	})

	t.Run("empty batch writes only the header", func(t *testing.T) {
		var buf bytes.Buffer

		require.NoError(t, export.Write(&buf, nil))

		assert.Equal(t, strings.Join(export.Header, ",")+"\n", buf.String())
	})

	t.Run("quotes fields with separators", func(t *testing.T) {
		var buf bytes.Buffer

		require.NoError(t, export.Write(&buf, sampleBuildings()[1:2]))

		assert.Contains(t, buf.String(), `"456 Oak Ave, Springfield","quoted ""label"""`)
		assert.NotContains(t, buf.String(), "e-")
	})
}

func TestRoundTrip(t *testing.T) {
	buildings := sampleBuildings()
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, buildings))

	rows, err := export.Read(&buf)

	require.NoError(t, err)
	require.Len(t, rows, len(buildings))
	for i, row := range rows {
		assert.Equal(t, buildings[i].Latitude, float64(row.Latitude))
		assert.Equal(t, buildings[i].Longitude, float64(row.Longitude))
		assert.Equal(t, buildings[i].StreetAddress, row.StreetAddress)
		assert.Equal(t, buildings[i].Label, row.Label)
	}
}

func TestRoundTripFromGeoJSON(t *testing.T) {
	source, err := footprints.Load(filepath.Join("..", "footprints", "testdata", "buildings.geojson"))
	require.NoError(t, err)

	resolved := make([]models.ResolvedBuilding, len(source))
	for i, b := range source {
		resolved[i] = b.Resolve("somewhere")
	}

	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, resolved))
	rows, err := export.Read(&buf)
	require.NoError(t, err)

	require.Len(t, rows, len(source))
	for i := range rows {
		assert.Equal(t, source[i].Latitude, float64(rows[i].Latitude))
		assert.Equal(t, source[i].Longitude, float64(rows[i].Longitude))
	}
}

func TestCreate(t *testing.T) {
	t.Run("writes the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")

		require.NoError(t, export.Create(path, sampleBuildings()))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "Latitude,Longitude,Street Address,Label\n"))
		assert.Equal(t, 4, strings.Count(string(data), "\n"))
	})

	t.Run("unwritable path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "out.csv")

		err := export.Create(path, sampleBuildings())

		require.ErrorIs(t, err, export.ErrCreateOutput)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestRead(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		rows, err := export.Read(strings.NewReader(""))

		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("bad coordinate", func(t *testing.T) {
		_, err := export.Read(strings.NewReader("Latitude,Longitude,Street Address,Label\nnorth,1,a,b\n"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read row")
	})
}
