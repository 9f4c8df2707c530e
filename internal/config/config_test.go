package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "pvlink/internal/errors"
)

const validConfig = `
timezone: Europe/Paris
log:
  env: development
main_database:
  host: localhost
  name: pvlink
  user: pvlink
  password: secret
  schema: pv
cadastre_database:
  host: cadastre.local
  name: cadastre
  user: reader
  password: secret
  table: parcelles
import:
  api_url: https://api.example.org/graphql
  auth_token: token-123
  demarche_id: 42
`

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeConfigFile(t, validConfig)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.MainDatabase.Host != "localhost" {
		t.Errorf("expected main host localhost, got %s", cfg.MainDatabase.Host)
	}
	if cfg.MainDatabase.Port != "5432" {
		t.Errorf("expected default port 5432, got %s", cfg.MainDatabase.Port)
	}
	if cfg.MainDatabase.Tables.Links != "declaration_detection_links" {
		t.Errorf("expected default links table, got %s", cfg.MainDatabase.Tables.Links)
	}
	if cfg.CadastreDatabase.Table != "parcelles" {
		t.Errorf("expected cadastre table parcelles, got %s", cfg.CadastreDatabase.Table)
	}
	if cfg.Timezone != "Europe/Paris" {
		t.Errorf("expected timezone Europe/Paris, got %s", cfg.Timezone)
	}
	if cfg.Location().String() != "Europe/Paris" {
		t.Errorf("expected location Europe/Paris, got %s", cfg.Location())
	}
}

func TestLoad_MissingRequiredField(t *testing.T) {
	// No main database password at all.
	path := writeConfigFile(t, `
log:
  env: production
main_database:
  host: localhost
  name: pvlink
  user: pvlink
cadastre_database:
  host: cadastre.local
  name: cadastre
  user: reader
  password: secret
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected a configuration error, got nil")
	}
	var cfgErr *apperrors.ConfigurationError
	if !stderrors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %T: %v", err, err)
	}
}

func TestLoad_InvalidTimezone(t *testing.T) {
	path := writeConfigFile(t, validConfig+"\ntimezone: Mars/Olympus\n")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected a configuration error for unknown timezone")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected a configuration error for missing file")
	}
	var cfgErr *apperrors.ConfigurationError
	if !stderrors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %T: %v", err, err)
	}
}

func TestValidateImport(t *testing.T) {
	cases := []struct {
		name    string
		cfg     ImportConfig
		wantErr bool
	}{
		{
			name: "complete",
			cfg:  ImportConfig{APIURL: "https://api.example.org/graphql", AuthToken: "t", DemarcheID: 1},
		},
		{
			name:    "missing token",
			cfg:     ImportConfig{APIURL: "https://api.example.org/graphql", DemarcheID: 1},
			wantErr: true,
		},
		{
			name:    "missing demarche id",
			cfg:     ImportConfig{APIURL: "https://api.example.org/graphql", AuthToken: "t"},
			wantErr: true,
		},
		{
			name: "valid updated-since filter",
			cfg: ImportConfig{
				APIURL: "https://api.example.org/graphql", AuthToken: "t", DemarcheID: 1,
				MinUpdateDatetime: "2026-01-02T15:04:05Z",
			},
		},
		{
			name: "invalid updated-since filter",
			cfg: ImportConfig{
				APIURL: "https://api.example.org/graphql", AuthToken: "t", DemarcheID: 1,
				MinUpdateDatetime: "02/01/2026",
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.ValidateImport()
			if tc.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
