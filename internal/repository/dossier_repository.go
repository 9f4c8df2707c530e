package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"pvlink/internal/database"
	apperrors "pvlink/internal/errors"
	"pvlink/internal/models"
)

// DossierRepository persists imported declaration dossiers.
type DossierRepository interface {
	// UpsertAll inserts new dossiers and updates existing ones, keyed
	// by id_dossier, in one transaction. Finding the same id more than
	// once in the store is a data corruption and aborts the batch.
	UpsertAll(ctx context.Context, records []models.DossierRecord) error
}

// dossierRepository is the concrete implementation of DossierRepository.
type dossierRepository struct {
	db     *database.Database
	schema string
	table  string
}

// NewDossierRepository creates a new instance of DossierRepository for
// the configured declaration table.
func NewDossierRepository(db *database.Database, schema, table string) DossierRepository {
	return &dossierRepository{
		db:     db,
		schema: schema,
		table:  table,
	}
}

// buildInsertQuery renders the INSERT statement for all dossier columns.
func buildInsertQuery(table string, columns []string) string {
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = pgx.Identifier{col}.Sanitize()
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)
}

// buildUpdateQuery renders the UPDATE statement for all dossier columns
// except the id, which becomes the WHERE condition (last placeholder).
func buildUpdateQuery(table string, columns []string) string {
	assignments := make([]string, 0, len(columns)-1)
	n := 0
	for _, col := range columns {
		if col == "id_dossier" {
			continue
		}
		n++
		assignments = append(assignments, fmt.Sprintf("%s = $%d", pgx.Identifier{col}.Sanitize(), n))
	}
	return fmt.Sprintf(
		"UPDATE %s SET %s WHERE id_dossier = $%d",
		table,
		strings.Join(assignments, ", "),
		n+1,
	)
}

// UpsertAll counts each dossier by id, inserting unseen ones and
// updating known ones field by field.
func (r *dossierRepository) UpsertAll(ctx context.Context, records []models.DossierRecord) error {
	if len(records) == 0 {
		return nil
	}

	table := pgx.Identifier{r.schema, r.table}.Sanitize()
	columns := models.DossierColumns()
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE id_dossier = $1", table)
	insertQuery := buildInsertQuery(table, columns)
	updateQuery := buildUpdateQuery(table, columns)

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return &apperrors.StoreWriteError{Op: "upsert dossiers", Err: err}
	}
	defer tx.Rollback(ctx)

	for i := range records {
		record := &records[i]

		var count int
		if err := tx.QueryRow(ctx, countQuery, record.IDDossier).Scan(&count); err != nil {
			return &apperrors.StoreWriteError{
				Op:  fmt.Sprintf("count dossier %d", record.IDDossier),
				Err: err,
			}
		}

		values := record.Fields()
		switch count {
		case 0:
			if _, err := tx.Exec(ctx, insertQuery, values...); err != nil {
				return &apperrors.StoreWriteError{
					Op:  fmt.Sprintf("insert dossier %d", record.IDDossier),
					Err: err,
				}
			}
		case 1:
			// Shift the id from first value to the WHERE placeholder.
			args := append(values[1:], record.IDDossier)
			if _, err := tx.Exec(ctx, updateQuery, args...); err != nil {
				return &apperrors.StoreWriteError{
					Op:  fmt.Sprintf("update dossier %d", record.IDDossier),
					Err: err,
				}
			}
		default:
			return &apperrors.StoreWriteError{
				Op:  "upsert dossiers",
				Err: fmt.Errorf("too many declarations with id_dossier=%d: %d entries found", record.IDDossier, count),
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &apperrors.StoreWriteError{Op: "commit dossiers", Err: err}
	}

	return nil
}
