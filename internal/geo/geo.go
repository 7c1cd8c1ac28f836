// Package geo provides coordinate validation and map-framing helpers for
// marker positions. Markers are stored as WGS84 (EPSG:4326) lat/lng pairs;
// the web map works in Web Mercator (EPSG:3857), so bounds carry both.
package geo

import (
	"errors"
	"math"

	"github.com/LimHyeonGyu/wayferecicd/pkg/core"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// ErrInvalidCoordinates is returned when a lat/lng pair is outside WGS84
// bounds or not a finite number.
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// ValidateLatLng checks that a coordinate pair is a finite WGS84 position.
func ValidateLatLng(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return ErrInvalidCoordinates
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

// PointFrom4326 builds a point from a WGS84 lat/lng pair. Points are XY with
// X = longitude, Y = latitude.
func PointFrom4326(lat, lng float64) geom.Point {
	return geom.NewPoint(
		geom.Coordinates{
			XY: geom.XY{X: lng, Y: lat},
		},
	)
}

// Point3857From4326 projects a WGS84 lat/lng pair into Web Mercator.
func Point3857From4326(lat, lng float64) (geom.Point, error) {
	if err := ValidateLatLng(lat, lng); err != nil {
		return geom.Point{}, err
	}
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ := f(lng, lat, 0)
	return geom.NewPoint(
		geom.Coordinates{
			XY: geom.XY{X: x, Y: y},
		},
	), nil
}

// Bounds frames a set of markers for the map view: the lat/lng envelope, its
// center, and the center projected to Web Mercator. Empty is set when there
// are no markers and all other fields are zero.
type Bounds struct {
	Empty bool `json:"empty"`

	MinLat float64 `json:"minLat"`
	MinLng float64 `json:"minLng"`
	MaxLat float64 `json:"maxLat"`
	MaxLng float64 `json:"maxLng"`

	CenterLat float64 `json:"centerLat"`
	CenterLng float64 `json:"centerLng"`

	CenterX3857 float64 `json:"centerX3857"`
	CenterY3857 float64 `json:"centerY3857"`
}

// MarkerBounds computes the framing bounds for a schedule's markers.
func MarkerBounds(markers []core.Marker) (Bounds, error) {
	if len(markers) == 0 {
		return Bounds{Empty: true}, nil
	}

	b := Bounds{
		MinLat: markers[0].Lat,
		MaxLat: markers[0].Lat,
		MinLng: markers[0].Lng,
		MaxLng: markers[0].Lng,
	}
	for _, m := range markers {
		if err := ValidateLatLng(m.Lat, m.Lng); err != nil {
			return Bounds{}, err
		}
		b.MinLat = math.Min(b.MinLat, m.Lat)
		b.MaxLat = math.Max(b.MaxLat, m.Lat)
		b.MinLng = math.Min(b.MinLng, m.Lng)
		b.MaxLng = math.Max(b.MaxLng, m.Lng)
	}

	b.CenterLat = (b.MinLat + b.MaxLat) / 2
	b.CenterLng = (b.MinLng + b.MaxLng) / 2

	center, err := Point3857From4326(b.CenterLat, b.CenterLng)
	if err != nil {
		return Bounds{}, err
	}
	coord, ok := center.Coordinates()
	if !ok {
		return Bounds{}, ErrInvalidCoordinates
	}
	b.CenterX3857 = coord.X
	b.CenterY3857 = coord.Y

	return b, nil
}
