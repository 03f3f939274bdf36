// Package export writes resolved buildings as a CSV table.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/UnknownOlympus/footprint/internal/models"
	"github.com/jszwec/csvutil"
)

// ErrCreateOutput is returned when the output file cannot be created.
var ErrCreateOutput = errors.New("error creating output file")

// Degrees is a coordinate component written with the shortest decimal form
// that parses back to the same value.
type Degrees float64

// MarshalText implements encoding.TextMarshaler.
func (d Degrees) MarshalText() ([]byte, error) {
	return []byte(models.FormatDegrees(float64(d))), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Degrees) UnmarshalText(text []byte) error {
	v, err := strconv.ParseFloat(string(bytes.TrimSpace(text)), 64)
	if err != nil {
		return fmt.Errorf("invalid coordinate %q: %w", text, err)
	}
	*d = Degrees(v)

	return nil
}

// Row is one line of the output table.
type Row struct {
	Latitude      Degrees `csv:"Latitude"`
	Longitude     Degrees `csv:"Longitude"`
	StreetAddress string  `csv:"Street Address"`
	Label         string  `csv:"Label"`
}

// Header lists the output columns in order.
var Header = []string{"Latitude", "Longitude", "Street Address", "Label"}

// Create writes buildings to a new file at path, truncating an existing one.
func Create(path string, buildings []models.ResolvedBuilding) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreateOutput, err)
	}

	if err = Write(file, buildings); err != nil {
		_ = file.Close()
		return err
	}

	if err = file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	return nil
}

// Write encodes the header and one row per building, in order, to w.
func Write(w io.Writer, buildings []models.ResolvedBuilding) error {
	writer := csv.NewWriter(w)
	encoder := csvutil.NewEncoder(writer)

	if err := encoder.EncodeHeader(Row{}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, b := range buildings {
		row := Row{
			Latitude:      Degrees(b.Latitude),
			Longitude:     Degrees(b.Longitude),
			StreetAddress: b.StreetAddress,
			Label:         b.Label,
		}
		if err := encoder.Encode(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	return nil
}

// Read parses a table produced by Write.
func Read(r io.Reader) ([]Row, error) {
	decoder, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var rows []Row
	for {
		var row Row
		if err = decoder.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}
