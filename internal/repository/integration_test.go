package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pvlink/internal/config"
	"pvlink/internal/database"
	"pvlink/internal/models"
)

// setupTestDatabase connects to the database named by PVLINK_TEST_DB_*
// variables. Integration tests are skipped entirely when no test
// database is configured or in short mode.
func setupTestDatabase(t *testing.T) *database.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	host := os.Getenv("PVLINK_TEST_DB_HOST")
	if host == "" {
		t.Skip("Skipping integration test: PVLINK_TEST_DB_HOST not set")
	}

	cfg := config.DatabaseConfig{
		Host:     host,
		Port:     getEnvOrDefault("PVLINK_TEST_DB_PORT", "5432"),
		Name:     getEnvOrDefault("PVLINK_TEST_DB_NAME", "pvlink_test"),
		User:     getEnvOrDefault("PVLINK_TEST_DB_USER", "postgres"),
		Password: getEnvOrDefault("PVLINK_TEST_DB_PASSWORD", "postgres"),
		Schema:   getEnvOrDefault("PVLINK_TEST_DB_SCHEMA", "public"),
		SSLMode:  "disable",
		PoolMin:  1,
		PoolMax:  2,
	}

	db, err := database.NewPostgresPool(context.Background(), cfg)
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(db.Close)
	return db
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func TestDeclarationRepository_LayerCRS(t *testing.T) {
	// Arrange
	db := setupTestDatabase(t)
	repo := NewDeclarationRepository(db, getEnvOrDefault("PVLINK_TEST_DB_SCHEMA", "public"), "declarations")

	// Act
	crs, err := repo.LayerCRS(context.Background())

	// Assert
	require.NoError(t, err)
	assert.NotZero(t, crs.Code)
	assert.NotEmpty(t, crs.Authority)
}

func TestLinkRepository_WriteLinks_Idempotent(t *testing.T) {
	// Arrange
	db := setupTestDatabase(t)
	ctx := context.Background()
	schema := getEnvOrDefault("PVLINK_TEST_DB_SCHEMA", "public")
	repo := NewLinkRepository(db, schema, "declaration_detection_links")

	links := []models.PairingLink{
		{DeclarationID: 900001, DetectionID: 900001},
	}
	t.Cleanup(func() {
		_, _ = db.Pool.Exec(ctx,
			"DELETE FROM declaration_detection_links WHERE declaration_id = $1 AND detection_id = $2",
			links[0].DeclarationID, links[0].DetectionID)
	})

	// Act: write the same link twice.
	require.NoError(t, repo.WriteLinks(ctx, links))
	require.NoError(t, repo.WriteLinks(ctx, links))

	// Assert: exactly one row.
	var count int
	err := db.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM declaration_detection_links WHERE declaration_id = $1 AND detection_id = $2",
		links[0].DeclarationID, links[0].DetectionID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
