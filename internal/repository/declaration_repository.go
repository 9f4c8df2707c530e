package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"pvlink/internal/database"
	apperrors "pvlink/internal/errors"
	"pvlink/internal/geometry"
	"pvlink/internal/models"
)

// DeclarationRepository reads and writes the declaration table of the
// main store.
type DeclarationRepository interface {
	// LayerCRS returns the spatial reference of the declaration layer.
	LayerCRS(ctx context.Context) (geometry.CRS, error)

	// ListUngeoreferenced returns declarations whose geometry column is
	// NULL, with their declared parcel identifier lists. Declarations
	// that already carry a geometry are never candidates for
	// re-derivation and are excluded here.
	ListUngeoreferenced(ctx context.Context) ([]models.Declaration, error)

	// ListGeoreferenced returns declarations carrying both a geometry
	// and an installation date: the candidate pool for pairing.
	ListGeoreferenced(ctx context.Context) ([]models.Declaration, error)

	// UpdateGeometries writes resolved geometries back, one transaction
	// for the whole batch. Any failure rolls back every update.
	UpdateGeometries(ctx context.Context, updates []models.GeometryUpdate, srid int) error
}

// declarationRepository is the concrete implementation of
// DeclarationRepository.
type declarationRepository struct {
	db     *database.Database
	schema string
	table  string
}

// NewDeclarationRepository creates a new instance of
// DeclarationRepository for the configured declaration table.
func NewDeclarationRepository(db *database.Database, schema, table string) DeclarationRepository {
	return &declarationRepository{
		db:     db,
		schema: schema,
		table:  table,
	}
}

// LayerCRS resolves the declaration layer's spatial reference.
func (r *declarationRepository) LayerCRS(ctx context.Context) (geometry.CRS, error) {
	return layerCRS(ctx, r.db, r.schema, r.table)
}

// splitParcels converts the semicolon-joined num_parcelles column into
// an ordered identifier list. A NULL or blank column yields nil.
func splitParcels(raw *string) []string {
	if raw == nil {
		return nil
	}
	parts := strings.Split(*raw, ";")
	parcels := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			parcels = append(parcels, trimmed)
		}
	}
	if len(parcels) == 0 {
		return nil
	}
	return parcels
}

// ListUngeoreferenced returns geometry-less declarations ordered by id.
func (r *declarationRepository) ListUngeoreferenced(ctx context.Context) ([]models.Declaration, error) {
	query := fmt.Sprintf(`
		SELECT farm_fid, num_parcelles
		FROM %s
		WHERE geom IS NULL
		ORDER BY farm_fid
	`, pgx.Identifier{r.schema, r.table}.Sanitize())

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ungeoreferenced declarations: %w", err)
	}
	defer rows.Close()

	declarations := []models.Declaration{}
	for rows.Next() {
		var decl models.Declaration
		var rawParcels *string

		if err := rows.Scan(&decl.FarmFID, &rawParcels); err != nil {
			return nil, fmt.Errorf("failed to scan declaration row: %w", err)
		}
		decl.Parcels = splitParcels(rawParcels)

		declarations = append(declarations, decl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating declaration rows: %w", err)
	}

	return declarations, nil
}

// ListGeoreferenced returns the pairing candidate pool: declarations
// with a non-null geometry and a non-null installation date.
func (r *declarationRepository) ListGeoreferenced(ctx context.Context) ([]models.Declaration, error) {
	query := fmt.Sprintf(`
		SELECT farm_fid, date_insta, ST_AsGeoJSON(geom)
		FROM %s
		WHERE geom IS NOT NULL AND date_insta IS NOT NULL
		ORDER BY farm_fid
	`, pgx.Identifier{r.schema, r.table}.Sanitize())

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query georeferenced declarations: %w", err)
	}
	defer rows.Close()

	declarations := []models.Declaration{}
	for rows.Next() {
		var decl models.Declaration
		var installed time.Time
		var geomJSON []byte

		if err := rows.Scan(&decl.FarmFID, &installed, &geomJSON); err != nil {
			return nil, fmt.Errorf("failed to scan declaration row: %w", err)
		}
		decl.InstallationDate = &installed

		var geo models.Geometry
		if err := geo.Scan(geomJSON); err != nil {
			return nil, fmt.Errorf("failed to parse geometry for declaration %d: %w", decl.FarmFID, err)
		}
		decl.Geom = &geo

		declarations = append(declarations, decl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating declaration rows: %w", err)
	}

	return declarations, nil
}

// UpdateGeometries writes resolved geometries in a single transaction.
// The SRID is passed explicitly so typed geometry columns accept the
// WKT payload.
func (r *declarationRepository) UpdateGeometries(ctx context.Context, updates []models.GeometryUpdate, srid int) error {
	if len(updates) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE %s SET geom = ST_GeomFromText($1, $2) WHERE farm_fid = $3
	`, pgx.Identifier{r.schema, r.table}.Sanitize())

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return &apperrors.StoreWriteError{Op: "update declaration geometries", Err: err}
	}
	defer tx.Rollback(ctx)

	for _, update := range updates {
		if _, err := tx.Exec(ctx, query, update.WKT, srid, update.FarmFID); err != nil {
			return &apperrors.StoreWriteError{
				Op:  fmt.Sprintf("update geometry of declaration %d", update.FarmFID),
				Err: err,
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &apperrors.StoreWriteError{Op: "commit declaration geometries", Err: err}
	}

	return nil
}
