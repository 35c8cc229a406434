package marketplace

const (
	// MinZoneID is the lowest valid NYC taxi zone id.
	MinZoneID = 1

	// MaxZoneID is the highest valid NYC taxi zone id.
	MaxZoneID = 265

	minManhattanZoneID = 4
	maxManhattanZoneID = 264
)

// ManhattanZones returns the zone ids treated as Manhattan.
// Live rides do not weight by it yet; zones are drawn uniformly from the full range.
func ManhattanZones() []int {
	zones := make([]int, 0, maxManhattanZoneID-minManhattanZoneID+1)
	for id := minManhattanZoneID; id <= maxManhattanZoneID; id++ {
		zones = append(zones, id)
	}

	return zones
}

// ValidZone reports whether id is a known taxi zone.
func ValidZone(id int) bool {
	return id >= MinZoneID && id <= MaxZoneID
}
