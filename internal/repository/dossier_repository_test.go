package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"pvlink/internal/models"
)

func TestBuildInsertQuery(t *testing.T) {
	query := buildInsertQuery(`"pv"."declarations"`, []string{"id_dossier", "etat", "num_parcelles"})

	assert.Equal(t,
		`INSERT INTO "pv"."declarations" ("id_dossier", "etat", "num_parcelles") VALUES ($1, $2, $3)`,
		query,
	)
}

func TestBuildInsertQuery_AllDossierColumns(t *testing.T) {
	columns := models.DossierColumns()
	query := buildInsertQuery(`"pv"."declarations"`, columns)

	// One placeholder per column, ending with the last index.
	assert.Equal(t, len(columns), strings.Count(query, "$"))
	assert.Contains(t, query, "$34")
	assert.Equal(t, len(columns), len((&models.DossierRecord{}).Fields()))
}

func TestBuildUpdateQuery(t *testing.T) {
	query := buildUpdateQuery(`"pv"."declarations"`, []string{"id_dossier", "etat", "num_parcelles"})

	assert.Equal(t,
		`UPDATE "pv"."declarations" SET "etat" = $1, "num_parcelles" = $2 WHERE id_dossier = $3`,
		query,
	)
}

func TestBuildUpdateQuery_IdNeverAssigned(t *testing.T) {
	query := buildUpdateQuery(`"pv"."declarations"`, models.DossierColumns())

	assert.NotContains(t, query, `"id_dossier" =`)
	assert.Contains(t, query, "WHERE id_dossier = $34")
}
