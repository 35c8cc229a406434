package tripdata

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// textTimeLayouts are tried in order for timestamps given as text.
var textTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"01/02/2006 03:04:05 PM",
}

func parseTextNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}

	return v, true
}

func parseTextTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range textTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}

// setText assigns a textual value to the trip field bound to c. Unparsable values stay missing.
func (t *RawTrip) setText(c column, s string) {
	if c.isTime() {
		if v, ok := parseTextTime(s); ok {
			t.setTime(c, v)
		}

		return
	}

	if v, ok := parseTextNumber(s); ok {
		t.setNumber(c, v)
	}
}
