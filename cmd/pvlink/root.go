package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pvlink/internal/config"
	"pvlink/internal/database"
	"pvlink/internal/logger"
)

// rootCommand creates and returns the root command with every batch job
// registered as a subcommand.
func rootCommand() *cobra.Command {
	var configPath string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "pvlink",
		Short:         "Photovoltaic declaration reconciliation jobs",
		Long:          "pvlink imports photovoltaic installation declarations, derives their geometries from the cadastral layer and pairs them with remote-sensing detections.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level regardless of the configured environment")

	rootCmd.AddCommand(
		importCommand(&configPath, &verbose),
		geometrizeCommand(&configPath, &verbose),
		pairCommand(&configPath, &verbose),
	)

	return rootCmd
}

// runtime carries the pieces every job needs before doing real work.
type runtime struct {
	cfg *config.Config
	log *logger.Logger
}

// newRuntime loads the configuration and builds a logger tagged with a
// fresh run id, so every line of one batch execution can be correlated.
func newRuntime(configPath string, verbose bool) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	env := cfg.Log.Env
	if verbose {
		env = "development"
	}
	log := logger.New(env).WithRunID(uuid.NewString())

	return &runtime{cfg: cfg, log: log}, nil
}

// openMainDatabase connects to the declaration store.
func (r *runtime) openMainDatabase(ctx context.Context) (*database.Database, error) {
	db, err := database.NewPostgresPool(ctx, r.cfg.MainDatabase.DatabaseConfig)
	if err != nil {
		return nil, err
	}
	r.log.Info("Main database connection established", map[string]interface{}{
		"host": r.cfg.MainDatabase.Host,
		"name": r.cfg.MainDatabase.Name,
	})
	return db, nil
}

// openCadastreDatabase connects to the cadastral reference store.
func (r *runtime) openCadastreDatabase(ctx context.Context) (*database.Database, error) {
	db, err := database.NewPostgresPool(ctx, r.cfg.CadastreDatabase.DatabaseConfig)
	if err != nil {
		return nil, err
	}
	r.log.Info("Cadastre database connection established", map[string]interface{}{
		"host": r.cfg.CadastreDatabase.Host,
		"name": r.cfg.CadastreDatabase.Name,
	})
	return db, nil
}
