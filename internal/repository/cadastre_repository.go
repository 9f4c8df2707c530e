package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pvlink/internal/database"
	"pvlink/internal/geometry"
	"pvlink/internal/models"
)

// CadastreRepository reads the authoritative land-parcel layer.
type CadastreRepository interface {
	// LayerCRS returns the spatial reference of the cadastral layer.
	LayerCRS(ctx context.Context) (geometry.CRS, error)

	// FindByIdentifier returns every cadastral feature whose identifier
	// exactly equals idu. Returns an empty slice when nothing matches
	// (not an error; the caller decides whether that is fatal for its
	// declaration). Returns error only for actual database failures.
	FindByIdentifier(ctx context.Context, idu string) ([]models.CadastralParcel, error)
}

// cadastreRepository is the concrete implementation of CadastreRepository.
type cadastreRepository struct {
	db     *database.Database
	schema string
	table  string
}

// NewCadastreRepository creates a new instance of CadastreRepository for
// the configured cadastral table.
func NewCadastreRepository(db *database.Database, schema, table string) CadastreRepository {
	return &cadastreRepository{
		db:     db,
		schema: schema,
		table:  table,
	}
}

// LayerCRS resolves the cadastral layer's spatial reference.
func (r *cadastreRepository) LayerCRS(ctx context.Context) (geometry.CRS, error) {
	return layerCRS(ctx, r.db, r.schema, r.table)
}

// FindByIdentifier looks up parcels by exact identifier equality. The
// idu column is the fixed-format cadastral key (commune + section +
// number); several features may carry the same key by data error and
// all of them are returned.
func (r *cadastreRepository) FindByIdentifier(ctx context.Context, idu string) ([]models.CadastralParcel, error) {
	query := fmt.Sprintf(`
		SELECT idu, ST_AsGeoJSON(geom)
		FROM %s
		WHERE idu = $1
	`, pgx.Identifier{r.schema, r.table}.Sanitize())

	rows, err := r.db.Pool.Query(ctx, query, idu)
	if err != nil {
		return nil, fmt.Errorf("failed to query cadastral parcels for %q: %w", idu, err)
	}
	defer rows.Close()

	parcels := []models.CadastralParcel{}
	for rows.Next() {
		var parcel models.CadastralParcel
		var geomJSON []byte

		if err := rows.Scan(&parcel.Identifier, &geomJSON); err != nil {
			return nil, fmt.Errorf("failed to scan cadastral parcel row: %w", err)
		}
		if err := parcel.Geom.Scan(geomJSON); err != nil {
			return nil, fmt.Errorf("failed to parse geometry for parcel %q: %w", parcel.Identifier, err)
		}

		parcels = append(parcels, parcel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cadastral parcel rows: %w", err)
	}

	return parcels, nil
}
