package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeedsAxisSwap(t *testing.T) {
	wgs84 := CRS{Authority: "EPSG", Code: 4326, Name: "WGS 84", LatLonAxisOrder: true}
	lambert93 := CRS{Authority: "EPSG", Code: 2154, Name: "RGF93 / Lambert-93"}
	rgf93 := CRS{Authority: "EPSG", Code: 4171, Name: "RGF93", LatLonAxisOrder: true}

	// Exactly one side lat/lon-first: swap.
	assert.True(t, NeedsAxisSwap(wgs84, lambert93))
	assert.True(t, NeedsAxisSwap(lambert93, wgs84))

	// Same convention on both sides: no swap.
	assert.False(t, NeedsAxisSwap(wgs84, rgf93))
	assert.False(t, NeedsAxisSwap(lambert93, CRS{Authority: "EPSG", Code: 3857, Name: "WGS 84 / Pseudo-Mercator"}))
}

func TestTreatsAsLatLon_NameFallback(t *testing.T) {
	// No authority flag, but the name is on the known lat/lon list.
	byName := CRS{Authority: "EPSG", Code: 4326, Name: "WGS 84"}
	assert.True(t, byName.TreatsAsLatLon())

	// Unknown name and no flag: conservative default, not lat/lon.
	unknown := CRS{Authority: "EPSG", Code: 9999, Name: "Some Local Grid"}
	assert.False(t, unknown.TreatsAsLatLon())

	// No name at all.
	assert.False(t, CRS{Authority: "EPSG", Code: 9999}.TreatsAsLatLon())
}

func TestCRSEqual(t *testing.T) {
	a := CRS{Authority: "EPSG", Code: 2154, Name: "RGF93 / Lambert-93"}
	b := CRS{Authority: "EPSG", Code: 2154}
	c := CRS{Authority: "EPSG", Code: 4326}

	// Identity is authority:code; metadata differences do not matter.
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.Equal(t, "EPSG:2154", a.String())
}

func TestSRSNameFromWKT(t *testing.T) {
	cases := []struct {
		name   string
		srtext string
		want   string
	}{
		{
			name:   "geographic",
			srtext: `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]]]`,
			want:   "WGS 84",
		},
		{
			name:   "projected",
			srtext: `PROJCS["RGF93 / Lambert-93",GEOGCS["RGF93",DATUM["Reseau_Geodesique_Francais_1993"]]]`,
			want:   "RGF93 / Lambert-93",
		},
		{
			name:   "leading whitespace",
			srtext: `  PROJCS["NTF (Paris) / Lambert zone II"]`,
			want:   "NTF (Paris) / Lambert zone II",
		},
		{
			name:   "garbage",
			srtext: "not a definition",
			want:   "",
		},
		{
			name:   "empty",
			srtext: "",
			want:   "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SRSNameFromWKT(tc.srtext))
		})
	}
}

func TestFromSRID(t *testing.T) {
	// Known code: registry metadata wins, including the axis flag.
	crs := FromSRID(4326, "")
	assert.Equal(t, "WGS 84", crs.Name)
	assert.True(t, crs.LatLonAxisOrder)

	// Unknown code: name parsed from srtext, no axis flag.
	crs = FromSRID(32631, `PROJCS["WGS 84 / UTM zone 31N",GEOGCS["WGS 84"]]`)
	assert.Equal(t, 32631, crs.Code)
	assert.Equal(t, "WGS 84 / UTM zone 31N", crs.Name)
	assert.False(t, crs.LatLonAxisOrder)
}
