package models

import (
	"time"
)

// DossierRecord is the flat declaration row produced by the import job
// from one accepted dossier of the declaration source API. All nullable
// columns use pointers to distinguish between zero values and NULL.
type DossierRecord struct {
	IDDossier    int64
	Porteur      *bool
	SiretPort    *string
	RefUrba      *string
	TypeProj     *string
	SurfSocle    *float64
	Etat         *string
	PuissMax     *int64
	DateDepot    *time.Time
	DateDeliv    *time.Time
	DateInsta    *time.Time
	DureeExp     *int64
	Adresse      *string
	NumParcelles *string
	SurfOccup    *float64
	SurfTerr     *float64
	Localisat    *string
	SolNature    *string
	SolDetail    *string
	UsageTerr    *string
	TypeAgri     *string
	AgriIni      *string
	AgriResid    *string
	Ancrage      *string
	Cloture      *string
	Revetement   *string
	HautPann     *float64
	Espacement   *float64
	NatPieux     *bool
	Transit      *bool
	Agrivolt     *bool
	ExDate       *bool
	ExAgriv      *bool
	ExTechniq    *bool
}

// dossierColumns is the fixed column order used for inserts and updates.
// The geometry column is deliberately absent: import never writes it,
// the geometry resolver does.
var dossierColumns = []string{
	"id_dossier",
	"porteur",
	"siret_port",
	"ref_urba",
	"type_proj",
	"surf_socle",
	"etat",
	"puiss_max",
	"date_depot",
	"date_deliv",
	"date_insta",
	"duree_exp",
	"adresse",
	"num_parcelles",
	"surf_occup",
	"surf_terr",
	"localisat",
	"sol_nature",
	"sol_detail",
	"usage_terr",
	"type_agri",
	"agri_ini",
	"agri_resid",
	"ancrage",
	"cloture",
	"revetement",
	"haut_pann",
	"espacement",
	"nat_pieux",
	"transit",
	"agrivolt",
	"ex_date",
	"ex_agriv",
	"ex_techniq",
}

// DossierColumns returns the column names written by the import job, in
// the same order as the values of Fields.
func DossierColumns() []string {
	out := make([]string, len(dossierColumns))
	copy(out, dossierColumns)
	return out
}

// Fields returns the record's values in DossierColumns order.
func (r *DossierRecord) Fields() []interface{} {
	return []interface{}{
		r.IDDossier,
		r.Porteur,
		r.SiretPort,
		r.RefUrba,
		r.TypeProj,
		r.SurfSocle,
		r.Etat,
		r.PuissMax,
		r.DateDepot,
		r.DateDeliv,
		r.DateInsta,
		r.DureeExp,
		r.Adresse,
		r.NumParcelles,
		r.SurfOccup,
		r.SurfTerr,
		r.Localisat,
		r.SolNature,
		r.SolDetail,
		r.UsageTerr,
		r.TypeAgri,
		r.AgriIni,
		r.AgriResid,
		r.Ancrage,
		r.Cloture,
		r.Revetement,
		r.HautPann,
		r.Espacement,
		r.NatPieux,
		r.Transit,
		r.Agrivolt,
		r.ExDate,
		r.ExAgriv,
		r.ExTechniq,
	}
}
