package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// GeoPoint is a parsed latitude/longitude pair
type GeoPoint struct {
	Lat float64
	Lon float64
}

const earthRadiusKm = 6371

// ParseCoordinates parses a stored coordinate string into a GeoPoint.
// Accepts a JSON object ({"lat":..,"lon":..} or {"latitude":..,"longitude":..})
// or a comma-separated pair ("9.3068,123.3054").
// Returns nil for any malformed input, it never fails loudly.
func ParseCoordinates(text string) *GeoPoint {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if strings.HasPrefix(text, "{") {
		var parsed struct {
			Lat       *float64 `json:"lat"`
			Lon       *float64 `json:"lon"`
			Latitude  *float64 `json:"latitude"`
			Longitude *float64 `json:"longitude"`
		}
		if err := json.Unmarshal([]byte(text), &parsed); err != nil {
			return nil
		}
		if parsed.Lat != nil && parsed.Lon != nil {
			return &GeoPoint{Lat: *parsed.Lat, Lon: *parsed.Lon}
		}
		if parsed.Latitude != nil && parsed.Longitude != nil {
			return &GeoPoint{Lat: *parsed.Latitude, Lon: *parsed.Longitude}
		}
		return nil
	}

	if strings.Contains(text, ",") {
		parts := strings.Split(text, ",")
		if len(parts) != 2 {
			return nil
		}
		lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lon, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err1 != nil || err2 != nil {
			return nil
		}
		return &GeoPoint{Lat: lat, Lon: lon}
	}

	return nil
}

// DistanceKm computes the great-circle distance between two points using
// the haversine formula
func DistanceKm(p1, p2 GeoPoint) float64 {
	dLat := toRadians(p2.Lat - p1.Lat)
	dLon := toRadians(p2.Lon - p1.Lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(p1.Lat))*math.Cos(toRadians(p2.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

// DistanceBetween computes the distance between two coordinate strings.
// Returns nil if either side is unparsable.
func DistanceBetween(text1, text2 string) *float64 {
	p1 := ParseCoordinates(text1)
	p2 := ParseCoordinates(text2)
	if p1 == nil || p2 == nil {
		return nil
	}
	d := DistanceKm(*p1, *p2)
	return &d
}

// FormatDistance renders a distance for display: meters below 1 km, one
// decimal place above, "N/A" when unknown.
func FormatDistance(km *float64) string {
	if km == nil {
		return "N/A"
	}
	if *km < 1 {
		return fmt.Sprintf("%d m", int(math.Round(*km*1000)))
	}
	return fmt.Sprintf("%.1f km", *km)
}
