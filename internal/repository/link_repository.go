package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pvlink/internal/database"
	apperrors "pvlink/internal/errors"
	"pvlink/internal/models"
)

// LinkRepository persists pairing links between declarations and
// detections. Writes are logically idempotent: a link that already
// exists is left alone, never duplicated and never updated.
type LinkRepository interface {
	// WriteLinks persists every link that does not already exist. The
	// whole batch runs in one transaction; a single failure rolls back
	// all writes of the invocation.
	WriteLinks(ctx context.Context, links []models.PairingLink) error
}

// linkRepository is the concrete implementation of LinkRepository.
type linkRepository struct {
	db     *database.Database
	schema string
	table  string
}

// NewLinkRepository creates a new instance of LinkRepository for the
// configured link table.
func NewLinkRepository(db *database.Database, schema, table string) LinkRepository {
	return &linkRepository{
		db:     db,
		schema: schema,
		table:  table,
	}
}

// WriteLinks checks each candidate pair by exact
// (declaration_id, detection_id) match and inserts only on absence.
func (r *linkRepository) WriteLinks(ctx context.Context, links []models.PairingLink) error {
	if len(links) == 0 {
		return nil
	}

	table := pgx.Identifier{r.schema, r.table}.Sanitize()
	selectQuery := fmt.Sprintf(`
		SELECT 1 FROM %s WHERE declaration_id = $1 AND detection_id = $2
	`, table)
	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (declaration_id, detection_id) VALUES ($1, $2)
	`, table)

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return &apperrors.StoreWriteError{Op: "write pairing links", Err: err}
	}
	defer tx.Rollback(ctx)

	for _, link := range links {
		var one int
		err := tx.QueryRow(ctx, selectQuery, link.DeclarationID, link.DetectionID).Scan(&one)
		switch {
		case err == nil:
			// Already persisted: inserting again would violate
			// uniqueness, and the contract says this is a no-op.
			continue
		case errors.Is(err, pgx.ErrNoRows):
			if _, err := tx.Exec(ctx, insertQuery, link.DeclarationID, link.DetectionID); err != nil {
				return &apperrors.StoreWriteError{
					Op:  fmt.Sprintf("insert link (%d, %d)", link.DeclarationID, link.DetectionID),
					Err: err,
				}
			}
		default:
			return &apperrors.StoreWriteError{
				Op:  fmt.Sprintf("check link (%d, %d)", link.DeclarationID, link.DetectionID),
				Err: err,
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &apperrors.StoreWriteError{Op: "commit pairing links", Err: err}
	}

	return nil
}
