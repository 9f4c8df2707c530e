package main

import (
	"github.com/spf13/cobra"

	"pvlink/internal/dossier"
	"pvlink/internal/repository"
	"pvlink/internal/services"
)

// importCommand creates the declaration import subcommand.
func importCommand(configPath *string, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import accepted declaration dossiers from the source API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, err := newRuntime(*configPath, *verbose)
			if err != nil {
				return err
			}
			if err := rt.cfg.Import.ValidateImport(); err != nil {
				return err
			}

			mainDB, err := rt.openMainDatabase(ctx)
			if err != nil {
				return err
			}
			defer mainDB.Close()

			dossiers := repository.NewDossierRepository(
				mainDB,
				rt.cfg.MainDatabase.Schema,
				rt.cfg.MainDatabase.Tables.Declarations,
			)
			source := dossier.NewGraphQLSource(rt.cfg.Import)
			formatter := dossier.NewFormatter(rt.cfg.Location(), rt.log)

			service := services.NewImportService(source, dossiers, formatter, rt.log)
			_, err = service.Run(ctx)
			return err
		},
	}
}
