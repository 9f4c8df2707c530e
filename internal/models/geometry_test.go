package models

import (
	"testing"

	"github.com/peterstace/simplefeatures/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeometry_Scan_Polygon(t *testing.T) {
	geoJSON := []byte(`{"type":"Polygon","coordinates":[[[0,0],[2,0],[2,2],[0,2],[0,0]]]}`)

	var g Geometry
	err := g.Scan(geoJSON)

	require.NoError(t, err)
	assert.InDelta(t, 4.0, g.G.Area(), 1e-9)
}

func TestGeometry_Scan_String(t *testing.T) {
	var g Geometry
	err := g.Scan(`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}`)

	require.NoError(t, err)
	assert.InDelta(t, 1.0, g.G.Area(), 1e-9)
}

func TestGeometry_Scan_Nil(t *testing.T) {
	var g Geometry
	err := g.Scan(nil)

	require.NoError(t, err)
	assert.True(t, g.G.IsEmpty())
}

func TestGeometry_Scan_InvalidType(t *testing.T) {
	var g Geometry
	err := g.Scan(12345)

	assert.Error(t, err)
}

func TestGeometry_Scan_InvalidJSON(t *testing.T) {
	var g Geometry
	err := g.Scan([]byte("not geojson"))

	assert.Error(t, err)
}

func TestGeometry_Value_WKT(t *testing.T) {
	parsed, err := geom.UnmarshalWKT("POLYGON((0 0,1 0,1 1,0 1,0 0))")
	require.NoError(t, err)
	g := Geometry{G: parsed}

	value, err := g.Value()
	require.NoError(t, err)

	wkt, ok := value.(string)
	require.True(t, ok)
	roundTripped, err := geom.UnmarshalWKT(wkt)
	require.NoError(t, err)
	assert.InDelta(t, parsed.Area(), roundTripped.Area(), 1e-9)
}

func TestGeometry_Value_Empty(t *testing.T) {
	var g Geometry

	value, err := g.Value()

	require.NoError(t, err)
	assert.Nil(t, value)
}
