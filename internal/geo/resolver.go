package geo

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/reliefscout/reliefscout/internal/model"
)

var coordPattern = regexp.MustCompile(`(-?\d{1,3}\.\d+)\s*,\s*(-?\d{1,3}\.\d+)`)

// Resolver turns the oracle's raw location mention into a structured
// location, asking the geocoder when no coordinates are stated. Geocoder
// failure degrades to text_only, never to an error.
type Resolver struct {
	geocoder Geocoder
}

// NewResolver creates a resolver. A nil geocoder disables the coordinate
// lookup; every textual location then resolves text_only.
func NewResolver(geocoder Geocoder) *Resolver {
	return &Resolver{geocoder: geocoder}
}

// Resolve produces the location record for a raw mention.
func (r *Resolver) Resolve(ctx context.Context, rawText string) model.ResolvedLocation {
	rawText = strings.TrimSpace(rawText)
	if rawText == "" {
		return model.ResolvedLocation{ResolutionState: model.ResolutionUnresolved}
	}

	loc := model.ResolvedLocation{
		RawText:         rawText,
		ResolutionState: model.ResolutionTextOnly,
	}
	loc.City, loc.Region, loc.Country = splitPlace(rawText)

	// Coordinates stated directly in the text win over the geocoder.
	if lat, lon, ok := parseCoordinates(rawText); ok {
		loc.Latitude, loc.Longitude = &lat, &lon
		loc.ResolutionState = model.ResolutionCoordinates
		return loc
	}

	if r.geocoder == nil {
		return loc
	}

	coords, err := r.geocoder.Geocode(ctx, rawText)
	if err != nil {
		// Not found and transport failure degrade the same way.
		return loc
	}

	loc.Latitude, loc.Longitude = &coords.Latitude, &coords.Longitude
	loc.ResolutionState = model.ResolutionCoordinates
	return loc
}

// splitPlace extracts city/region/country from a comma-separated place
// mention. "Miami, Florida, USA" fills all three; shorter mentions fill
// what they can.
func splitPlace(raw string) (city, region, country string) {
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch len(parts) {
	case 1:
		city = parts[0]
	case 2:
		city, country = parts[0], parts[1]
	default:
		city, region, country = parts[0], parts[1], parts[len(parts)-1]
	}

	// Street addresses are raw text, not a city.
	if looksLikeStreetAddress(city) {
		city = ""
	}
	return city, region, country
}

func looksLikeStreetAddress(s string) bool {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false
	}
	_, err := strconv.Atoi(fields[0])
	return err == nil
}

func parseCoordinates(raw string) (lat, lon float64, ok bool) {
	match := coordPattern.FindStringSubmatch(raw)
	if match == nil {
		return 0, 0, false
	}
	lat, err1 := strconv.ParseFloat(match[1], 64)
	lon, err2 := strconv.ParseFloat(match[2], 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, false
	}
	return lat, lon, true
}
