package models

import (
	"time"
)

// Declaration is a self-reported photovoltaic installation dossier as
// seen by the resolution and pairing pipelines. Nullable columns use
// pointers to distinguish absent values from zero values.
type Declaration struct {
	// FarmFID is the stable numeric id of the declaration (farm_fid).
	FarmFID int64
	// Parcels is the ordered list of declared cadastral parcel
	// identifiers, split from the semicolon-joined num_parcelles
	// column. Only meaningful while Geom is nil.
	Parcels []string
	// InstallationDate is the declared effective installation date
	// (date_insta).
	InstallationDate *time.Time
	// Geom is the installation polygon in the declaration store's
	// native CRS; nil until resolved.
	Geom *Geometry
}

// HasGeometry reports whether the declaration already carries a polygon.
func (d *Declaration) HasGeometry() bool {
	return d.Geom != nil
}

// GeometryUpdate is a pending write-back of a resolved declaration
// geometry.
type GeometryUpdate struct {
	FarmFID int64
	WKT     string
}
