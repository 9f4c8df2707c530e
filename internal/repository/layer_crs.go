package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pvlink/internal/database"
	apperrors "pvlink/internal/errors"
	"pvlink/internal/geometry"
)

// layerCRS resolves the spatial reference of a PostGIS layer from the
// geometry_columns registration and the spatial_ref_sys definition.
// A layer without a usable SRID is unrecoverable for the pipelines.
func layerCRS(ctx context.Context, db *database.Database, schema, table string) (geometry.CRS, error) {
	query := `
		SELECT gc.srid, COALESCE(srs.srtext, '')
		FROM geometry_columns gc
		LEFT JOIN spatial_ref_sys srs ON srs.srid = gc.srid
		WHERE gc.f_table_schema = $1 AND gc.f_table_name = $2
		LIMIT 1
	`

	var srid int
	var srtext string
	err := db.Pool.QueryRow(ctx, query, schema, table).Scan(&srid, &srtext)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return geometry.CRS{}, &apperrors.MissingSpatialReferenceError{Layer: schema + "." + table}
		}
		return geometry.CRS{}, fmt.Errorf("failed to query spatial reference of %s.%s: %w", schema, table, err)
	}
	if srid == 0 {
		return geometry.CRS{}, &apperrors.MissingSpatialReferenceError{Layer: schema + "." + table}
	}

	return geometry.FromSRID(srid, srtext), nil
}
