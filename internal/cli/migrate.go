package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"docprocessor/internal/database/migration"
	"docprocessor/internal/repository/postgres"
)

var (
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create the dps_dbo.documents schema if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := migration.EnsureMigrated(cmd.Context(), db, cfg.Database.Host); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migration complete")
			return nil
		},
	}

	schemaCmd = &cobra.Command{
		Use:   "schema",
		Short: "Schema related commands",
	}

	schemaVerifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Check dps_dbo.documents against the document column mapping",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.VerifySchema(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema ok")
			return nil
		},
	}
)

func registerMigrateCommands() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.AddCommand(schemaVerifyCmd)
}
