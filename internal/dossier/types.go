package dossier

// Response mirrors the declaration source API result shape.
type Response struct {
	Demarche Demarche `json:"demarche"`
}

// Demarche is the procedure holding the declaration dossiers.
type Demarche struct {
	Dossiers struct {
		Nodes []RawDossier `json:"nodes"`
	} `json:"dossiers"`
}

// RawDossier is one declaration dossier as returned by the source API,
// before field mapping.
type RawDossier struct {
	Number    int64      `json:"number"`
	Demandeur *Demandeur `json:"demandeur"`
	Champs    []Champ    `json:"champs"`
}

// Demandeur is the dossier's applicant.
type Demandeur struct {
	Siret string `json:"siret"`
}

// Champ is one answered form field. Which value carrier is populated
// depends on the champ type; the label is the only dispatch key.
type Champ struct {
	TypeName       string    `json:"__typename"`
	Label          string    `json:"label"`
	StringValue    *string   `json:"stringValue"`
	Checked        *bool     `json:"checked"`
	Date           *string   `json:"date"`
	IntegerNumber  *string   `json:"integerNumber"`
	DecimalNumber  *float64  `json:"decimalNumber"`
	PrimaryValue   *string   `json:"primaryValue"`
	SecondaryValue *string   `json:"secondaryValue"`
	GeoAreas       []GeoArea `json:"geoAreas"`
}

// GeoArea is one drawn or selected area of a map champ.
type GeoArea struct {
	Source  string `json:"source"`
	Commune string `json:"commune"`
	Prefixe string `json:"prefixe"`
	Section string `json:"section"`
	Numero  string `json:"numero"`
}
