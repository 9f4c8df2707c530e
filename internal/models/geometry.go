package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/peterstace/simplefeatures/geom"
)

// Geometry wraps a simplefeatures geometry stored in a PostGIS column.
// Reads go through ST_AsGeoJSON, writes through ST_GeomFromText, so
// Scan parses GeoJSON and Value produces WKT.
type Geometry struct {
	G    geom.Geometry
	SRID int
}

// Scan implements sql.Scanner for reading geometry from the database.
// The column is expected to be serialized with ST_AsGeoJSON.
func (g *Geometry) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("failed to scan Geometry: expected []byte or string, got %T", value)
	}

	parsed, err := geom.UnmarshalGeoJSON(raw)
	if err != nil {
		return fmt.Errorf("failed to unmarshal geometry: %w", err)
	}

	g.G = parsed
	return nil
}

// Value implements driver.Valuer for writing geometry to the database.
// Returns WKT to be used with ST_GeomFromText in raw SQL queries.
func (g Geometry) Value() (driver.Value, error) {
	if g.G.IsEmpty() {
		return nil, nil
	}
	return g.G.AsText(), nil
}

// WKT returns the well-known text serialization of the geometry.
func (g Geometry) WKT() string {
	return g.G.AsText()
}
