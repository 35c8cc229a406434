package tripdata

import (
	"fmt"
	"io"
	"math"

	jsoniter "github.com/json-iterator/go"
)

// decodeJSON reads an array of flat objects, as served by the NYC open data API.
// Values may be numbers or strings.
func decodeJSON(r io.Reader) ([]RawTrip, error) {
	var records []map[string]any

	if err := jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode json dataset: %w", err)
	}

	trips := make([]RawTrip, 0, len(records))
	for _, record := range records {
		var trip RawTrip
		for name, value := range record {
			c := lookupColumn(name)
			if c == colUnknown {
				continue
			}

			switch v := value.(type) {
			case string:
				trip.setText(c, v)
			case float64:
				if !c.isTime() && !math.IsNaN(v) {
					trip.setNumber(c, v)
				}
			default:
			}
		}

		trips = append(trips, trip)
	}

	return trips, nil
}
