package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	apperrors "pvlink/internal/errors"
)

// Config holds the configuration for all pvlink batch jobs.
type Config struct {
	Timezone         string         `mapstructure:"timezone" validate:"required"`
	Log              LogConfig      `mapstructure:"log"`
	MainDatabase     MainDatabase   `mapstructure:"main_database"`
	CadastreDatabase CadastreSource `mapstructure:"cadastre_database"`
	Import           ImportConfig   `mapstructure:"import"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Env string `mapstructure:"env" validate:"required,oneof=development production test"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     string `mapstructure:"port" validate:"required"`
	Name     string `mapstructure:"name" validate:"required"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
	Schema   string `mapstructure:"schema" validate:"required"`
	SSLMode  string `mapstructure:"sslmode" validate:"required"`
	PoolMin  int    `mapstructure:"pool_min" validate:"gte=0"`
	PoolMax  int    `mapstructure:"pool_max" validate:"gte=1"`
}

// MainDatabase is the declaration store: declarations, detections and
// pairing links all live there.
type MainDatabase struct {
	DatabaseConfig `mapstructure:",squash"`
	Tables         MainTables `mapstructure:"tables"`
}

// MainTables names the tables of the main store.
type MainTables struct {
	Declarations string `mapstructure:"declarations" validate:"required"`
	Detections   string `mapstructure:"detections" validate:"required"`
	Links        string `mapstructure:"links" validate:"required"`
}

// CadastreSource is the read-only cadastral reference store.
type CadastreSource struct {
	DatabaseConfig `mapstructure:",squash"`
	Table          string `mapstructure:"table" validate:"required"`
}

// ImportConfig holds access to the declaration source API. It is only
// required by the import job, so its fields are validated lazily.
type ImportConfig struct {
	APIURL            string `mapstructure:"api_url" validate:"omitempty,url"`
	AuthToken         string `mapstructure:"auth_token"`
	DemarcheID        int    `mapstructure:"demarche_id"`
	MinUpdateDatetime string `mapstructure:"min_update_datetime"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Defaults: everything an operator usually leaves alone.
	v.SetDefault("timezone", "Europe/Paris")
	v.SetDefault("log.env", "production")
	for _, section := range []string{"main_database", "cadastre_database"} {
		v.SetDefault(section+".port", "5432")
		v.SetDefault(section+".schema", "public")
		v.SetDefault(section+".sslmode", "disable")
		v.SetDefault(section+".pool_min", 2)
		v.SetDefault(section+".pool_max", 10)
	}
	v.SetDefault("main_database.tables.declarations", "declarations")
	v.SetDefault("main_database.tables.detections", "detections")
	v.SetDefault("main_database.tables.links", "declaration_detection_links")
	v.SetDefault("cadastre_database.table", "parcelles")

	if err := v.ReadInConfig(); err != nil {
		return nil, &apperrors.ConfigurationError{Err: err}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &apperrors.ConfigurationError{Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, &apperrors.ConfigurationError{Err: err}
	}

	return &cfg, nil
}

// Validate checks structural constraints on the loaded configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.MainDatabase.PoolMin > c.MainDatabase.PoolMax {
		return fmt.Errorf("main_database: pool_min must be less than or equal to pool_max")
	}
	if c.CadastreDatabase.PoolMin > c.CadastreDatabase.PoolMax {
		return fmt.Errorf("cadastre_database: pool_min must be less than or equal to pool_max")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	return nil
}

// ValidateImport checks the fields only the import job needs.
func (c *ImportConfig) ValidateImport() error {
	if c.APIURL == "" {
		return &apperrors.ConfigurationError{Err: fmt.Errorf("import.api_url is required")}
	}
	if c.AuthToken == "" {
		return &apperrors.ConfigurationError{Err: fmt.Errorf("import.auth_token is required")}
	}
	if c.DemarcheID <= 0 {
		return &apperrors.ConfigurationError{Err: fmt.Errorf("import.demarche_id is required")}
	}
	if c.MinUpdateDatetime != "" {
		if _, err := time.Parse(time.RFC3339, c.MinUpdateDatetime); err != nil {
			return &apperrors.ConfigurationError{Err: fmt.Errorf("import.min_update_datetime: %w", err)}
		}
	}
	return nil
}

// Location returns the configured timezone. Validate has already checked
// that the name parses.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
