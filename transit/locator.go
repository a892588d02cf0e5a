package transit

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/geodesic"

	"daft-scraper/utils"
)

// NoDistance is reported when the supplied coordinate is missing or
// cannot be parsed.
const NoDistance = -1

// Coordinate is a WGS-84 latitude/longitude pair.
type Coordinate struct {
	Lat float64
	Lon float64
}

// ParseCoordinate parses "lat,lon". Surrounding whitespace on either
// component is ignored. It reports false unless there are exactly two
// numeric components.
func ParseCoordinate(s string) (Coordinate, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coordinate{}, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || math.IsNaN(lat) || math.IsInf(lat, 0) {
		return Coordinate{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return Coordinate{}, false
	}
	return Coordinate{Lat: lat, Lon: lon}, true
}

// Distance returns the geodesic distance on the WGS-84 ellipsoid between
// two points, in whole meters (truncated).
func Distance(from Coordinate, to Station) int {
	var meters float64
	geodesic.WGS84.Inverse(from.Lat, from.Lon, to.Lat, to.Lon, &meters, nil, nil)
	return int(meters)
}

// Locator finds the nearest station of a line to a property.
type Locator struct {
	logger *utils.Logger
}

// NewLocator creates a Locator. A nil logger disables logging.
func NewLocator(logger *utils.Logger) *Locator {
	return &Locator{logger: logger}
}

// Nearest returns the station in stations closest to coords and the
// distance to it in meters. When coords is empty or unparseable it returns
// the first station and NoDistance. Ties keep the earliest station.
func (l *Locator) Nearest(coords string, stations []Station) (Station, int) {
	if len(stations) == 0 {
		return Station{}, NoDistance
	}
	fallback := stations[0]

	if coords == "" {
		return fallback, NoDistance
	}

	from, ok := ParseCoordinate(coords)
	if !ok {
		if l.logger != nil {
			l.logger.Warn("[transit] Could not correctly parse the coords: '%s'", coords)
		}
		return fallback, NoDistance
	}

	closest := stations[0]
	closestDistance := Distance(from, closest)
	for _, s := range stations[1:] {
		d := Distance(from, s)
		if d < closestDistance {
			closest, closestDistance = s, d
		}
	}
	return closest, closestDistance
}
