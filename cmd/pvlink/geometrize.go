package main

import (
	"github.com/spf13/cobra"

	"pvlink/internal/geometry"
	"pvlink/internal/repository"
	"pvlink/internal/services"
)

// geometrizeCommand creates the geometry resolution subcommand.
func geometrizeCommand(configPath *string, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "geometrize",
		Short: "Derive missing declaration geometries from the cadastral layer",
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

			cadastreDB, err := rt.openCadastreDatabase(ctx)
			if err != nil {
				return err
			}
			defer cadastreDB.Close()

			declarations := repository.NewDeclarationRepository(
				mainDB,
				rt.cfg.MainDatabase.Schema,
				rt.cfg.MainDatabase.Tables.Declarations,
			)
			cadastre := repository.NewCadastreRepository(
				cadastreDB,
				rt.cfg.CadastreDatabase.Schema,
				rt.cfg.CadastreDatabase.Table,
			)
			engine := geometry.NewEngine(geometry.NewEPSGTransformer())

			service := services.NewGeometrizeService(declarations, cadastre, engine, rt.log)
			_, err = service.Run(ctx)
			return err
		},
	}
}
