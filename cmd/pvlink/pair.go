package main

import (
	"github.com/spf13/cobra"

	"pvlink/internal/geometry"
	"pvlink/internal/repository"
	"pvlink/internal/services"
)

// pairCommand creates the declaration/detection pairing subcommand.
func pairCommand(configPath *string, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "pair",
		Short: "Pair georeferenced declarations with remote-sensing detections",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, err := newRuntime(*configPath, *verbose)
			if err != nil {
				return err
			}

			mainDB, err := rt.openMainDatabase(ctx)
			if err != nil {
				return err
			}
			defer mainDB.Close()

			schema := rt.cfg.MainDatabase.Schema
			tables := rt.cfg.MainDatabase.Tables
			declarations := repository.NewDeclarationRepository(mainDB, schema, tables.Declarations)
			detections := repository.NewDetectionRepository(mainDB, schema, tables.Detections)
			links := repository.NewLinkRepository(mainDB, schema, tables.Links)
			engine := geometry.NewEngine(geometry.NewEPSGTransformer())

			service := services.NewPairingService(declarations, detections, links, engine, rt.log)
			_, err = service.Run(ctx)
			return err
		},
	}
}
