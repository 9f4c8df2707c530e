package geometry

import (
	"fmt"
	"regexp"
)

// CRS identifies a coordinate reference system by authority code and
// carries the axis-order metadata needed to reconcile layers. Two CRS
// values are compared by identifier, never by provider object identity.
type CRS struct {
	Authority string
	Code      int
	Name      string
	// LatLonAxisOrder is set when the authority definition itself
	// declares a latitude/longitude-first axis order.
	LatLonAxisOrder bool
}

// Equal reports whether two CRSs denote the same coordinate system.
func (c CRS) Equal(other CRS) bool {
	return c.Authority == other.Authority && c.Code == other.Code
}

// String renders the authority:code identifier, e.g. "EPSG:4326".
func (c CRS) String() string {
	return fmt.Sprintf("%s:%d", c.Authority, c.Code)
}

// Spatial reference names known to use lat/lon axis order even when the
// authority flag is not carried by the store.
var latLonNames = map[string]struct{}{
	"WGS 84": {},
}

// TreatsAsLatLon reports whether the CRS uses latitude/longitude-first
// axis order, either via its explicit authority flag or by exact name
// match. Unknown names with no flag are treated as not lat/lon.
func (c CRS) TreatsAsLatLon() bool {
	if c.LatLonAxisOrder {
		return true
	}
	_, ok := latLonNames[c.Name]
	return ok
}

// NeedsAxisSwap reports whether geometries moving between the two CRSs
// must have their X/Y order exchanged before reprojection. A swap is
// needed exactly when one side is lat/lon-first and the other is not.
func NeedsAxisSwap(a, b CRS) bool {
	return a.TreatsAsLatLon() != b.TreatsAsLatLon()
}

// knownCRS carries authority metadata for the spatial reference systems
// the pipelines commonly meet. Anything else is built from the store's
// srtext with conservative axis-order defaults.
var knownCRS = map[int]CRS{
	4326:  {Authority: "EPSG", Code: 4326, Name: "WGS 84", LatLonAxisOrder: true},
	4171:  {Authority: "EPSG", Code: 4171, Name: "RGF93", LatLonAxisOrder: true},
	2154:  {Authority: "EPSG", Code: 2154, Name: "RGF93 / Lambert-93"},
	3857:  {Authority: "EPSG", Code: 3857, Name: "WGS 84 / Pseudo-Mercator"},
	27572: {Authority: "EPSG", Code: 27572, Name: "NTF (Paris) / Lambert zone II"},
}

// srsNamePattern extracts the name of the root node of an OGC WKT
// spatial reference definition, e.g. `GEOGCS["WGS 84",...` -> "WGS 84".
var srsNamePattern = regexp.MustCompile(`^\s*[A-Z_]+\[\s*"([^"]*)"`)

// SRSNameFromWKT returns the spatial reference name embedded in an OGC
// WKT definition, or "" when none can be found.
func SRSNameFromWKT(srtext string) string {
	m := srsNamePattern.FindStringSubmatch(srtext)
	if m == nil {
		return ""
	}
	return m[1]
}

// FromSRID builds a CRS from a store-provided SRID and the matching
// spatial_ref_sys WKT definition. Known EPSG codes get their authority
// axis-order metadata; unknown codes fall back to the srtext name with
// no axis flag (no swap unless the name itself is a known lat/lon one).
func FromSRID(srid int, srtext string) CRS {
	if crs, ok := knownCRS[srid]; ok {
		return crs
	}
	return CRS{
		Authority: "EPSG",
		Code:      srid,
		Name:      SRSNameFromWKT(srtext),
	}
}
