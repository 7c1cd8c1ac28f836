package geo

import (
	"math"
	"testing"

	"github.com/LimHyeonGyu/wayferecicd/pkg/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLatLng(t *testing.T) {
	assert.NoError(t, ValidateLatLng(37.5665, 126.978))
	assert.NoError(t, ValidateLatLng(-90, 180))
	assert.NoError(t, ValidateLatLng(0, 0))

	assert.ErrorIs(t, ValidateLatLng(90.1, 0), ErrInvalidCoordinates)
	assert.ErrorIs(t, ValidateLatLng(0, -180.1), ErrInvalidCoordinates)
	assert.ErrorIs(t, ValidateLatLng(math.NaN(), 0), ErrInvalidCoordinates)
	assert.ErrorIs(t, ValidateLatLng(0, math.Inf(1)), ErrInvalidCoordinates)
}

func TestPointFrom4326(t *testing.T) {
	p := PointFrom4326(37.5665, 126.978)

	coord, ok := p.Coordinates()
	require.True(t, ok)
	assert.InDelta(t, 126.978, coord.X, 1e-9)
	assert.InDelta(t, 37.5665, coord.Y, 1e-9)
}

func TestPoint3857From4326(t *testing.T) {
	// Null island projects to the Web Mercator origin.
	p, err := Point3857From4326(0, 0)
	require.NoError(t, err)

	coord, ok := p.Coordinates()
	require.True(t, ok)
	assert.InDelta(t, 0, coord.X, 1e-6)
	assert.InDelta(t, 0, coord.Y, 1e-6)
}

func TestPoint3857From4326_KnownPoint(t *testing.T) {
	// Seoul city hall; reference values from proj.
	p, err := Point3857From4326(37.5665, 126.978)
	require.NoError(t, err)

	coord, ok := p.Coordinates()
	require.True(t, ok)
	assert.InDelta(t, 14135054.0, coord.X, 100.0)
	assert.InDelta(t, 4518590.0, coord.Y, 100.0)
}

func TestPoint3857From4326_Invalid(t *testing.T) {
	_, err := Point3857From4326(120, 300)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
}

func TestMarkerBounds_Empty(t *testing.T) {
	b, err := MarkerBounds(nil)
	require.NoError(t, err)
	assert.True(t, b.Empty)
}

func TestMarkerBounds(t *testing.T) {
	markers := []core.Marker{
		{Lat: 37.0, Lng: 126.0},
		{Lat: 38.0, Lng: 128.0},
		{Lat: 37.5, Lng: 127.0},
	}

	b, err := MarkerBounds(markers)
	require.NoError(t, err)

	assert.False(t, b.Empty)
	assert.Equal(t, 37.0, b.MinLat)
	assert.Equal(t, 38.0, b.MaxLat)
	assert.Equal(t, 126.0, b.MinLng)
	assert.Equal(t, 128.0, b.MaxLng)
	assert.Equal(t, 37.5, b.CenterLat)
	assert.Equal(t, 127.0, b.CenterLng)
	assert.NotZero(t, b.CenterX3857)
	assert.NotZero(t, b.CenterY3857)
}

func TestMarkerBounds_InvalidMarker(t *testing.T) {
	_, err := MarkerBounds([]core.Marker{{Lat: 91, Lng: 0}})
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
}
