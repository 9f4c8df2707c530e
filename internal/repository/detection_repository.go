package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pvlink/internal/database"
	"pvlink/internal/geometry"
	"pvlink/internal/models"
)

// DetectionRepository reads the remote-sensing detection layer.
type DetectionRepository interface {
	// LayerCRS returns the spatial reference of the detection layer.
	LayerCRS(ctx context.Context) (geometry.CRS, error)

	// ListAll returns every detection carrying both a footprint and an
	// observation year. Rows missing either cannot take part in
	// pairing and are excluded at read time.
	ListAll(ctx context.Context) ([]models.Detection, error)
}

// detectionRepository is the concrete implementation of
// DetectionRepository.
type detectionRepository struct {
	db     *database.Database
	schema string
	table  string
}

// NewDetectionRepository creates a new instance of DetectionRepository
// for the configured detection table.
func NewDetectionRepository(db *database.Database, schema, table string) DetectionRepository {
	return &detectionRepository{
		db:     db,
		schema: schema,
		table:  table,
	}
}

// LayerCRS resolves the detection layer's spatial reference.
func (r *detectionRepository) LayerCRS(ctx context.Context) (geometry.CRS, error) {
	return layerCRS(ctx, r.db, r.schema, r.table)
}

// ListAll returns detections ordered by id.
func (r *detectionRepository) ListAll(ctx context.Context) ([]models.Detection, error) {
	query := fmt.Sprintf(`
		SELECT fid, millesime, ST_AsGeoJSON(geom)
		FROM %s
		WHERE geom IS NOT NULL AND millesime IS NOT NULL
		ORDER BY fid
	`, pgx.Identifier{r.schema, r.table}.Sanitize())

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query detections: %w", err)
	}
	defer rows.Close()

	detections := []models.Detection{}
	for rows.Next() {
		var det models.Detection
		var geomJSON []byte

		if err := rows.Scan(&det.ID, &det.Millesime, &geomJSON); err != nil {
			return nil, fmt.Errorf("failed to scan detection row: %w", err)
		}
		if err := det.Geom.Scan(geomJSON); err != nil {
			return nil, fmt.Errorf("failed to parse geometry for detection %d: %w", det.ID, err)
		}

		detections = append(detections, det)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating detection rows: %w", err)
	}

	return detections, nil
}
