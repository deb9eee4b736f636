package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// positionLineRe matches "<latDeg> <latMin> <N|S> <lonDeg> <lonMin> <E|W>[, <description>]"
// with an optional "<idx>) " prefix. Minutes use a comma as decimal separator.
// The Danish hemisphere letters Ø (east) and V (west) are accepted as well.
var positionLineRe = regexp.MustCompile(
	`^(?:(\d+)\)\s*)?(\d{1,2})\s+(\d{1,2}(?:,\d+)?)\s*([NS])\s+(\d{1,3})\s+(\d{1,2}(?:,\d+)?)\s*([EWØV])(?:\s*,\s*(.*))?$`,
)

// ParsePositions parses a newline-joined Position field into points. A line
// that does not parse is reported and dropped; the rest still count. Without
// an explicit index a point is numbered by its line within the field.
func ParsePositions(text string, lang Language, diag *Diagnostics) []GeoPoint {
	var (
		points  []GeoPoint
		ordinal int
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ordinal++

		p, err := parsePositionLine(line, ordinal, lang)
		if err != nil {
			diag.Warn(line, err)
			continue
		}
		points = append(points, p)
	}
	return points
}

func parsePositionLine(line string, ordinal int, lang Language) (GeoPoint, error) {
	m := positionLineRe.FindStringSubmatch(strings.TrimSuffix(line, "."))
	if m == nil {
		return GeoPoint{}, fmt.Errorf("%w: %q", ErrMalformedPositionLine, line)
	}

	index := ordinal
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return GeoPoint{}, fmt.Errorf("%w: index %q: %w", ErrMalformedPositionLine, m[1], err)
		}
		index = n
	}

	lat, err := degreesMinutes(m[2], m[3], 90)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("%w: latitude in %q: %w", ErrMalformedPositionLine, line, err)
	}
	lon, err := degreesMinutes(m[5], m[6], 180)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("%w: longitude in %q: %w", ErrMalformedPositionLine, line, err)
	}
	if m[4] == "S" {
		lat = -lat
	}
	if m[7] == "W" || m[7] == "V" {
		lon = -lon
	}

	p := GeoPoint{Index: index, Lat: lat, Lon: lon}
	if desc := strings.TrimSpace(m[8]); desc != "" {
		p.Description.set(lang, desc)
	}
	return p, nil
}

// degreesMinutes converts degrees and comma-decimal minutes to decimal degrees.
func degreesMinutes(deg, mins string, limit float64) (float64, error) {
	d, err := strconv.Atoi(deg)
	if err != nil {
		return 0, err
	}
	m, err := strconv.ParseFloat(strings.Replace(mins, ",", ".", 1), 64)
	if err != nil {
		return 0, err
	}
	if m >= 60 {
		return 0, fmt.Errorf("minutes %s out of range", mins)
	}
	v := float64(d) + m/60
	if v > limit {
		return 0, fmt.Errorf("%g exceeds %g degrees", v, limit)
	}
	return v, nil
}
