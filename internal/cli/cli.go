// Package cli contains the docprocessor command line.
package cli

import (
	"database/sql"

	"github.com/spf13/cobra"

	"docprocessor/internal/config"
	"docprocessor/internal/database"
	"docprocessor/internal/logger"
)

var (
	rootCmd = &cobra.Command{
		Use:           "docprocessor",
		Short:         "Document record store and HTTP API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// openDB is swapped in tests.
	openDB = database.NewPostgres
)

func init() {
	registerServeCommand()
	registerMigrateCommands()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// bootstrap loads configuration, installs the logger and opens the database pool.
func bootstrap() (*config.AppConfig, *sql.DB, error) {
	cfg := config.Load()
	logger.Init(cfg.Log)

	db, err := openDB(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
