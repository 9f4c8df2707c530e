package models

// Detection is an independently observed installation footprint from the
// remote-sensing layer.
type Detection struct {
	// ID is the stable numeric id of the detection.
	ID int64
	// Millesime is the observation year.
	Millesime int
	// Geom is the detected footprint polygon in the detection layer's
	// native CRS.
	Geom Geometry
}

// CadastralParcel is one feature of the authoritative land-parcel layer.
// Several features may share an identifier by data error; each one is
// consumed independently.
type CadastralParcel struct {
	Identifier string
	Geom       Geometry
}

// PairingLink records that a declaration and a detection are believed to
// describe the same physical installation. At most one link exists per
// (declaration, detection) pair.
type PairingLink struct {
	DeclarationID int64
	DetectionID   int64
}
