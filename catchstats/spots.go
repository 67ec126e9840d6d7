package catchstats

import (
	"math"
	"strconv"
	"strings"

	"fishlog/models"
)

const earthRadiusMeters = 6371000.0

// ParseCoordinates parses a "lat,lng" string.
func ParseCoordinates(s string) (lat, lng float64, ok bool) {
	latStr, lngStr, found := strings.Cut(s, ",")
	if !found {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, false
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil || lng < -180 || lng > 180 {
		return 0, 0, false
	}
	return lat, lng, true
}

// HaversineMeters returns the great-circle distance between two points.
func HaversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

type point struct{ lat, lng float64 }

// UniqueSpotsByDistance counts spots per body of water that are at least
// minDistanceMeters from every previously accepted spot in the same water, and returns
// the largest count over all waters. The greedy pass depends on catch order.
func UniqueSpotsByDistance(catches []models.Catch, minDistanceMeters float64) int {
	groups := make(map[string][]point)
	for _, c := range catches {
		lat, lng, ok := ParseCoordinates(c.Location.Coordinates)
		if !ok {
			continue
		}
		water := c.Location.BodyOfWater
		accepted := groups[water]
		unique := true
		for _, p := range accepted {
			if HaversineMeters(p.lat, p.lng, lat, lng) < minDistanceMeters {
				unique = false
				break
			}
		}
		if unique {
			groups[water] = append(accepted, point{lat, lng})
		}
	}

	best := 0
	for _, pts := range groups {
		best = max(best, len(pts))
	}
	return best
}
