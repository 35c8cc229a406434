package tripdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ErrMissingHeader is returned when a csv dataset has no header row.
var ErrMissingHeader = errors.New("csv dataset has no header row")

func decodeCSV(r io.Reader) ([]RawTrip, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingHeader
		}

		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns := make([]column, len(header))
	for i, name := range header {
		columns[i] = lookupColumn(name)
	}

	trips := make([]RawTrip, 0)
	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("read csv record %d: %w", len(trips)+1, readErr)
		}

		var trip RawTrip
		for i, value := range record {
			if i >= len(columns) || columns[i] == colUnknown {
				continue
			}

			trip.setText(columns[i], value)
		}

		trips = append(trips, trip)
	}

	return trips, nil
}
