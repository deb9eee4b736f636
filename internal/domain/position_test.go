package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePositions(t *testing.T) {
	t.Run("single point", func(t *testing.T) {
		points := ParsePositions("56 12,34 N 012 34,56 E", Local, nil)
		require.Len(t, points, 1)
		assert.Equal(t, 1, points[0].Index)
		assert.InDelta(t, 56.2057, points[0].Lat, 1e-3)
		assert.InDelta(t, 12.5760, points[0].Lon, 1e-3)
		assert.Empty(t, points[0].Description.Local)
	})

	t.Run("idempotent", func(t *testing.T) {
		text := "56 12,34 N 012 34,56 E"
		assert.Equal(t, ParsePositions(text, Local, nil), ParsePositions(text, Local, nil))
	})

	t.Run("explicit index and description", func(t *testing.T) {
		points := ParsePositions("2) 55 30,00 S 010 15,00 W, Vraget.", Local, nil)
		require.Len(t, points, 1)
		assert.Equal(t, 2, points[0].Index)
		assert.InDelta(t, -55.5, points[0].Lat, 1e-9)
		assert.InDelta(t, -10.25, points[0].Lon, 1e-9)
		assert.Equal(t, "Vraget", points[0].Description.Local)
	})

	t.Run("english description", func(t *testing.T) {
		points := ParsePositions("1) 55 20,00 N 010 58,00 E, western pier", English, nil)
		require.Len(t, points, 1)
		assert.Equal(t, "western pier", points[0].Description.English)
		assert.Empty(t, points[0].Description.Local)
	})

	t.Run("danish hemisphere letters", func(t *testing.T) {
		points := ParsePositions("55 30,00 N 010 15,00 V\n55 30,00 N 010 15,00 Ø", Local, nil)
		require.Len(t, points, 2)
		assert.InDelta(t, -10.25, points[0].Lon, 1e-9)
		assert.InDelta(t, 10.25, points[1].Lon, 1e-9)
	})

	t.Run("integer minutes", func(t *testing.T) {
		points := ParsePositions("57 30 N 010 15 E", Local, nil)
		require.Len(t, points, 1)
		assert.InDelta(t, 57.5, points[0].Lat, 1e-9)
	})

	t.Run("bad line is skipped and keeps its ordinal", func(t *testing.T) {
		diag := NewDiagnostics(discardLogger())
		text := "56 00,00 N 010 00,00 E\nukendt position\n\n57 00,00 N 011 00,00 E."

		points := ParsePositions(text, Local, diag)

		require.Len(t, points, 2)
		assert.Equal(t, 1, points[0].Index)
		assert.Equal(t, 3, points[1].Index)
		require.Len(t, diag.Warnings, 1)
		assert.ErrorIs(t, diag.Warnings[0].Err, ErrMalformedPositionLine)
		assert.Equal(t, "ukendt position", diag.Warnings[0].Line)
	})

	t.Run("out of range values", func(t *testing.T) {
		diag := NewDiagnostics(nil)
		text := "56 60,00 N 010 00,00 E\n91 00,00 N 010 00,00 E\n56 00,00 N 181 00,00 E"

		points := ParsePositions(text, Local, diag)

		assert.Empty(t, points)
		assert.Len(t, diag.Warnings, 3)
	})

	t.Run("period as decimal separator is rejected", func(t *testing.T) {
		points := ParsePositions("56 12.34 N 012 34.56 E", Local, nil)
		assert.Empty(t, points)
	})

	t.Run("empty field", func(t *testing.T) {
		assert.Empty(t, ParsePositions("", Local, nil))
	})
}

func TestNewLocation(t *testing.T) {
	p := GeoPoint{Index: 1, Lat: 56, Lon: 11}

	assert.Nil(t, NewLocation(nil))
	assert.Equal(t, ShapePoint, NewLocation([]GeoPoint{p}).Kind)
	assert.Equal(t, ShapePolyline, NewLocation([]GeoPoint{p, p}).Kind)
	assert.Equal(t, ShapePolygon, NewLocation([]GeoPoint{p, p, p}).Kind)
	assert.Equal(t, ShapePolygon, NewLocation([]GeoPoint{p, p, p, p}).Kind)
}
