// Package geometry converts trip locations between a longitude/latitude pair
// and the textual forms PostGIS reads and writes: GeoJSON and WKT.
package geometry

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Point is a WGS84 position. Longitude comes first, as in GeoJSON and WKT.
type Point struct {
	Lon float64
	Lat float64
}

// NewPoint parses textual coordinates as delivered by the trip-data API.
func NewPoint(lon, lat string) (Point, error) {
	x, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return Point{}, fmt.Errorf("parse longitude %q: %w", lon, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return Point{}, fmt.Errorf("parse latitude %q: %w", lat, err)
	}
	return Point{Lon: x, Lat: y}, nil
}

type geoJSONPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// MarshalJSON renders the point as a GeoJSON Point object.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(geoJSONPoint{Type: "Point", Coordinates: []float64{p.Lon, p.Lat}})
}

// UnmarshalJSON accepts a GeoJSON Point object.
func (p *Point) UnmarshalJSON(data []byte) error {
	var g geoJSONPoint
	if err := json.Unmarshal(data, &g); err != nil {
		return err
	}
	if g.Type != "Point" {
		return fmt.Errorf("geometry: unexpected GeoJSON type %q", g.Type)
	}
	if len(g.Coordinates) < 2 {
		return fmt.Errorf("geometry: point needs 2 coordinates, got %d", len(g.Coordinates))
	}
	p.Lon, p.Lat = g.Coordinates[0], g.Coordinates[1]
	return nil
}

// Codec is one storage strategy for point columns. Encoded text is always
// bound as a query parameter; InsertExpr and SelectExpr only wrap the
// placeholder or column name.
type Codec interface {
	Name() string
	Encode(p Point) (string, error)
	Decode(s string) (Point, error)
	// InsertExpr wraps a bound parameter such as "$6" into a geometry constructor.
	InsertExpr(placeholder string) string
	// SelectExpr renders a geometry column in the text form Decode accepts.
	SelectExpr(column string) string
}

const (
	EncodingGeoJSON = "geojson"
	EncodingWKT     = "wkt"
)

// ForEncoding returns the codec registered under name.
func ForEncoding(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", EncodingGeoJSON:
		return GeoJSON{}, nil
	case EncodingWKT:
		return WKT{}, nil
	default:
		return nil, fmt.Errorf("geometry: unsupported encoding %q", name)
	}
}

// GeoJSON stores points through ST_GeomFromGeoJSON and reads them with ST_AsGeoJSON.
type GeoJSON struct{}

func (GeoJSON) Name() string { return EncodingGeoJSON }

func (GeoJSON) Encode(p Point) (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (GeoJSON) Decode(s string) (Point, error) {
	var p Point
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return Point{}, fmt.Errorf("geometry: decode GeoJSON: %w", err)
	}
	return p, nil
}

func (GeoJSON) InsertExpr(placeholder string) string {
	return "ST_GeomFromGeoJSON(" + placeholder + ")"
}

func (GeoJSON) SelectExpr(column string) string {
	return "ST_AsGeoJSON(" + column + ")"
}

// WKT stores points as "POINT(lon lat)" text in SRID 4326.
type WKT struct{}

func (WKT) Name() string { return EncodingWKT }

func (WKT) Encode(p Point) (string, error) {
	return "POINT(" + strconv.FormatFloat(p.Lon, 'f', -1, 64) + " " +
		strconv.FormatFloat(p.Lat, 'f', -1, 64) + ")", nil
}

// Decode parses "POINT(lon lat)" as produced by ST_AsText.
func (WKT) Decode(s string) (Point, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "POINT(") || !strings.HasSuffix(s, ")") {
		return Point{}, fmt.Errorf("geometry: unexpected WKT format: %q", s)
	}

	inner := s[len("POINT(") : len(s)-1]
	parts := strings.Fields(inner)
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("geometry: unexpected WKT coordinates: %q", inner)
	}
	return NewPoint(parts[0], parts[1])
}

func (WKT) InsertExpr(placeholder string) string {
	return "ST_GeomFromText(" + placeholder + ", 4326)"
}

func (WKT) SelectExpr(column string) string {
	return "ST_AsText(" + column + ")"
}
