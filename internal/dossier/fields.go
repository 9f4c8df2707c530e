package dossier

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"pvlink/internal/logger"
	"pvlink/internal/models"
)

// recordBuilder accumulates the state of one dossier conversion.
type recordBuilder struct {
	rec     models.DossierRecord
	parcels []string
	loc     *time.Location
}

// Champ value extraction helpers. Each returns an error when the champ
// does not carry the expected value kind, which the formatter logs and
// survives (the field stays NULL).

func (c *Champ) str() (string, error) {
	if c.StringValue == nil {
		return "", errors.New("missing stringValue")
	}
	return *c.StringValue, nil
}

func (c *Champ) boolChecked() (bool, error) {
	if c.Checked == nil {
		return false, errors.New("missing checked")
	}
	return *c.Checked, nil
}

func (c *Champ) dateIn(loc *time.Location) (time.Time, error) {
	if c.Date == nil {
		return time.Time{}, errors.New("missing date")
	}
	// Legacy exports use slashes.
	iso := strings.ReplaceAll(*c.Date, "/", "-")
	d, err := time.ParseInLocation("2006-01-02", iso, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", *c.Date, err)
	}
	return d, nil
}

func (c *Champ) integer() (int64, error) {
	if c.IntegerNumber == nil {
		return 0, errors.New("missing integerNumber")
	}
	n, err := strconv.ParseInt(*c.IntegerNumber, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q: %w", *c.IntegerNumber, err)
	}
	return n, nil
}

func (c *Champ) decimal() (float64, error) {
	if c.DecimalNumber == nil {
		return 0, errors.New("missing decimalNumber")
	}
	return *c.DecimalNumber, nil
}

// Pointer helpers keep the rule table terse.
func strPtr(v string) *string        { return &v }
func boolPtr(v bool) *bool           { return &v }
func intPtr(v int64) *int64          { return &v }
func floatPtr(v float64) *float64    { return &v }
func datePtr(v time.Time) *time.Time { return &v }

// fieldRule binds a champ label pattern to the setter of one declaration
// field. Rules are evaluated in table order and the first match wins;
// ordering therefore matters where patterns overlap (e.g. the pieux
// anchoring checkbox must be tried before the generic anchoring type).
type fieldRule struct {
	field string
	match func(c *Champ) bool
	apply func(b *recordBuilder, c *Champ) error
}

func labelMatch(pattern string) func(c *Champ) bool {
	re := regexp.MustCompile(pattern)
	return func(c *Champ) bool {
		return re.MatchString(c.Label)
	}
}

func setString(dst func(b *recordBuilder, v *string)) func(b *recordBuilder, c *Champ) error {
	return func(b *recordBuilder, c *Champ) error {
		v, err := c.str()
		if err != nil {
			return err
		}
		dst(b, strPtr(v))
		return nil
	}
}

func setChecked(dst func(b *recordBuilder, v *bool)) func(b *recordBuilder, c *Champ) error {
	return func(b *recordBuilder, c *Champ) error {
		v, err := c.boolChecked()
		if err != nil {
			return err
		}
		dst(b, boolPtr(v))
		return nil
	}
}

func setDate(dst func(b *recordBuilder, v *time.Time)) func(b *recordBuilder, c *Champ) error {
	return func(b *recordBuilder, c *Champ) error {
		v, err := c.dateIn(b.loc)
		if err != nil {
			return err
		}
		dst(b, datePtr(v))
		return nil
	}
}

func setInteger(dst func(b *recordBuilder, v *int64)) func(b *recordBuilder, c *Champ) error {
	return func(b *recordBuilder, c *Champ) error {
		v, err := c.integer()
		if err != nil {
			return err
		}
		dst(b, intPtr(v))
		return nil
	}
}

func setDecimal(dst func(b *recordBuilder, v *float64)) func(b *recordBuilder, c *Champ) error {
	return func(b *recordBuilder, c *Champ) error {
		v, err := c.decimal()
		if err != nil {
			return err
		}
		dst(b, floatPtr(v))
		return nil
	}
}

// fieldRules is the declarative label dispatch table. The source form
// identifies its questions by free-text label only, so conversion pins
// each known label pattern (French, as published) to its typed output
// field.
var fieldRules = []fieldRule{
	{
		field: "transit",
		match: labelMatch(`^Cas particulier des projets en période transitoire +:`),
		apply: setChecked(func(b *recordBuilder, v *bool) { b.rec.Transit = v }),
	},
	{
		field: "ex_date",
		match: labelMatch(`mon projet se situe dans la période des mesures transitoires et qu'il remplit l'ensemble des conditions`),
		apply: setChecked(func(b *recordBuilder, v *bool) { b.rec.ExDate = v }),
	},
	{
		field: "agrivolt",
		match: labelMatch(`^Cas particulier des projets agrivoltaïques +:`),
		apply: setChecked(func(b *recordBuilder, v *bool) { b.rec.Agrivolt = v }),
	},
	{
		field: "ex_agriv",
		match: labelMatch(`mon projet est une installation agrivoltaïque qui remplit l'ensemble de critères de la question précédente`),
		apply: setChecked(func(b *recordBuilder, v *bool) { b.rec.ExAgriv = v }),
	},
	{
		field: "porteur",
		match: labelMatch(`^Etes-vous le porteur de projet`),
		apply: setChecked(func(b *recordBuilder, v *bool) { b.rec.Porteur = v }),
	},
	{
		field: "siret_port",
		match: labelMatch(`SIRET du porteur`),
		apply: setString(func(b *recordBuilder, v *string) { b.rec.SiretPort = v }),
	},
	{
		field: "ref_urba",
		match: labelMatch(`référence de l'autorisation d'urbanisme`),
		apply: setString(func(b *recordBuilder, v *string) { b.rec.RefUrba = v }),
	},
	{
		field: "type_proj",
		match: labelMatch(`type de projet principal`),
		apply: setString(func(b *recordBuilder, v *string) { b.rec.TypeProj = v }),
	},
	{
		field: "surf_socle",
		match: labelMatch(`installations de type trackers.*surface du socle béton`),
		apply: setDecimal(func(b *recordBuilder, v *float64) { b.rec.SurfSocle = v }),
	},
	{
		field: "etat",
		match: labelMatch(`avancement du projet`),
		apply: setString(func(b *recordBuilder, v *string) { b.rec.Etat = v }),
	},
	{
		field: "puiss_max",
		match: labelMatch(`puissance crête maximum`),
		apply: setInteger(func(b *recordBuilder, v *int64) { b.rec.PuissMax = v }),
	},
	{
		field: "date_depot",
		match: labelMatch(`date du dépôt de la demande d'autorisation d'urbanisme`),
		apply: setDate(func(b *recordBuilder, v *time.Time) { b.rec.DateDepot = v }),
	},
	{
		field: "date_deliv",
		match: labelMatch(`date à laquelle l'autorisation d'urbanisme a été délivrée`),
		apply: setDate(func(b *recordBuilder, v *time.Time) { b.rec.DateDeliv = v }),
	},
	{
		field: "date_insta",
		match: labelMatch(`date d'installation effective`),
		apply: setDate(func(b *recordBuilder, v *time.Time) { b.rec.DateInsta = v }),
	},
	{
		field: "duree_exp",
		match: labelMatch(`durée initiale d'exploitation`),
		apply: setInteger(func(b *recordBuilder, v *int64) { b.rec.DureeExp = v }),
	},
	{
		field: "adresse",
		match: labelMatch(`adresse d’implantation du projet`),
		apply: setString(func(b *recordBuilder, v *string) { b.rec.Adresse = v }),
	},
	{
		field: "surf_occup",
		match: labelMatch(`surface occupée par l'installation`),
		apply: setDecimal(func(b *recordBuilder, v *float64) { b.rec.SurfOccup = v }),
	},
	{
		field: "surf_terr",
		match: labelMatch(`surface du terrain d’implantation`),
		apply: setDecimal(func(b *recordBuilder, v *float64) { b.rec.SurfTerr = v }),
	},
	{
		field: "localisat",
		match: labelMatch(`Le projet est-il situé en \?`),
		apply: setString(func(b *recordBuilder, v *string) { b.rec.Localisat = v }),
	},
	{
		field: "sol_nature",
		match: labelMatch(`nature principale du sol`),
		apply: func(b *recordBuilder, c *Champ) error {
			if c.PrimaryValue == nil {
				return errors.New("missing primaryValue")
			}
			b.rec.SolNature = strPtr(*c.PrimaryValue)
			if c.SecondaryValue != nil && *c.SecondaryValue != "" {
				b.rec.SolDetail = strPtr(*c.SecondaryValue)
			}
			return nil
		},
	},
	{
		field: "usage_terr",
		match: labelMatch(`type d’usage actuel du terrain d’implantation`),
		apply: setString(func(b *recordBuilder, v *string) { b.rec.UsageTerr = v }),
	},
	{
		field: "type_agri",
		match: labelMatch(`type d’activité agricole`),
		apply: setString(func(b *recordBuilder, v *string) { b.rec.TypeAgri = v }),
	},
	{
		field: "agri_ini",
		match: labelMatch(`production agricole initiale`),
		apply: setString(func(b *recordBuilder, v *string) { b.rec.AgriIni = v }),
	},
	{
		field: "agri_resid",
		match: labelMatch(`production agricole résiduelle`),
		apply: setString(func(b *recordBuilder, v *string) { b.rec.AgriResid = v }),
	},
	{
		field: "nat_pieux",
		match: labelMatch(`ancrage au sol.*avec des pieux en bois ou en métal`),
		apply: setChecked(func(b *recordBuilder, v *bool) { b.rec.NatPieux = v }),
	},
	{
		field: "ancrage",
		match: labelMatch(`type d'ancrage au sol`),
		apply: setString(func(b *recordBuilder, v *string) { b.rec.Ancrage = v }),
	},
	{
		field: "cloture",
		match: labelMatch(`type de clôture`),
		apply: setString(func(b *recordBuilder, v *string) { b.rec.Cloture = v }),
	},
	{
		field: "revetement",
		match: labelMatch(`type de revêtement`),
		apply: setString(func(b *recordBuilder, v *string) { b.rec.Revetement = v }),
	},
	{
		field: "haut_pann",
		match: labelMatch(`hauteur des panneaux`),
		apply: setDecimal(func(b *recordBuilder, v *float64) { b.rec.HautPann = v }),
	},
	{
		field: "espacement",
		match: labelMatch(`espacement entre deux rangées`),
		apply: setDecimal(func(b *recordBuilder, v *float64) { b.rec.Espacement = v }),
	},
	{
		field: "ex_techniq",
		match: labelMatch(`^Les caractéristiques techniques de mon installation ne répondent pas aux critères`),
		apply: func(b *recordBuilder, c *Champ) error {
			v, err := c.boolChecked()
			if err != nil {
				return err
			}
			b.rec.ExTechniq = boolPtr(!v)
			return nil
		},
	},
	{
		field: "ex_techniq",
		match: labelMatch(`^Les caractéristiques techniques de mon installation répondent aux critères`),
		apply: setChecked(func(b *recordBuilder, v *bool) { b.rec.ExTechniq = v }),
	},
	{
		field: "num_parcelles",
		match: func(c *Champ) bool {
			return c.TypeName == "CarteChamp" && strings.Contains(c.Label, "parcelles")
		},
		apply: applyParcelChamp,
	},
}

// applyParcelChamp converts the map champ's cadastre selections into
// parcel identifiers. A hand-drawn (non-cadastre) area cannot be
// resolved against the cadastral layer and is a mapping error, as is an
// empty selection.
func applyParcelChamp(b *recordBuilder, c *Champ) error {
	rawGeometry := false
	for _, area := range c.GeoAreas {
		if area.Source != "cadastre" {
			rawGeometry = true
			continue
		}
		b.parcels = append(b.parcels, ParcelIdentifier(area.Commune, area.Prefixe, area.Section, area.Numero))
	}
	if len(b.parcels) == 0 {
		return errors.New("selected parcels list must contain at least one element")
	}
	if rawGeometry {
		return errors.New("dossier contains raw geometries")
	}
	return nil
}

// padLeft left-pads s with zeros to the given width.
func padLeft(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// ParcelIdentifier builds the fixed-format cadastral key: commune code,
// section prefix, section letters zero-padded to 2, parcel number
// zero-padded to 4.
func ParcelIdentifier(commune, prefixe, section, numero string) string {
	return commune + prefixe + padLeft(section, 2) + padLeft(numero, 4)
}

// Formatter converts raw dossiers into flat declaration records. Dates
// are interpreted in the configured timezone.
type Formatter struct {
	loc *time.Location
	log *logger.Logger
}

// NewFormatter creates a Formatter.
func NewFormatter(loc *time.Location, log *logger.Logger) *Formatter {
	return &Formatter{loc: loc, log: log}
}

// Format converts one dossier. Champ-level mapping failures are logged
// and leave the field NULL; the dossier itself is still produced.
func (f *Formatter) Format(raw RawDossier) models.DossierRecord {
	b := &recordBuilder{
		rec: models.DossierRecord{IDDossier: raw.Number},
		loc: f.loc,
	}

	for i := range raw.Champs {
		champ := &raw.Champs[i]
		for _, rule := range fieldRules {
			if !rule.match(champ) {
				continue
			}
			if err := rule.apply(b, champ); err != nil {
				f.log.Warn("Champ mapping failed", map[string]interface{}{
					"dossier": raw.Number,
					"field":   rule.field,
					"label":   champ.Label,
					"reason":  err.Error(),
				})
			}
			break // first match wins
		}
	}

	// The applicant's SIRET stands in when the declarant is the project
	// holder.
	if b.rec.Porteur != nil && *b.rec.Porteur && raw.Demandeur != nil {
		b.rec.SiretPort = strPtr(raw.Demandeur.Siret)
	}
	// Outside the transitional period the date exemption cannot apply.
	if b.rec.Transit == nil || !*b.rec.Transit {
		b.rec.ExDate = boolPtr(false)
	}
	if len(b.parcels) > 0 {
		b.rec.NumParcelles = strPtr(strings.Join(b.parcels, ";"))
	}

	return b.rec
}

// FormatAll converts a dossier batch: duplicates (by dossier number) are
// dropped keeping the first occurrence, and the result is sorted by
// dossier id ascending.
func (f *Formatter) FormatAll(raws []RawDossier) []models.DossierRecord {
	seen := map[int64]struct{}{}
	records := []models.DossierRecord{}
	for i := range raws {
		if _, dup := seen[raws[i].Number]; dup {
			continue
		}
		seen[raws[i].Number] = struct{}{}
		records = append(records, f.Format(raws[i]))
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].IDDossier < records[j].IDDossier
	})
	return records
}
