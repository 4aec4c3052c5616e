package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"docprocessor/internal/logger"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_schema_dps_dbo",
		SQL:  `CREATE SCHEMA IF NOT EXISTS dps_dbo;`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS dps_dbo.documents (
  id               BIGSERIAL PRIMARY KEY,
  filename         TEXT      NOT NULL,
  originalfilename TEXT      NOT NULL,
  fileextension    TEXT      NOT NULL DEFAULT '',
  filesize         BIGINT    NOT NULL CHECK (filesize >= 0),
  contenttype      TEXT      NOT NULL,
  storagepath      TEXT      NOT NULL,
  status           INTEGER   NOT NULL DEFAULT 0,
  summary          TEXT      NULL,
  uploadedby       TEXT      NOT NULL DEFAULT '',
  isdeleted        INTEGER   NOT NULL DEFAULT 0 CHECK (isdeleted IN (0, 1))
);`,
	},
	{
		Name: "create_index_documents_isdeleted",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_isdeleted ON dps_dbo.documents (isdeleted);`,
	},
	{
		Name: "create_index_documents_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_status ON dps_dbo.documents (status);`,
	},
	{
		Name: "create_index_documents_uploadedby",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_uploadedby ON dps_dbo.documents (uploadedby);`,
	},
}

// EnsureMigrated checks whether dps_dbo.documents exists and creates the schema if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, dbHost string) error {
	start := time.Now()
	log := logger.Component("database").With().Str("db_host", dbHost).Logger()

	log.Info().Str("event", "db_migration_check").Msg("checking schema")

	var exists bool
	const query = "SELECT to_regclass('dps_dbo.documents') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error().Err(err).
			Str("event", "db_migration_failed").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info().
			Str("event", "db_migration_skip").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	log.Info().Str("event", "db_migration_start").Int("steps", len(steps)).Msg("applying migration")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error().Err(err).
				Str("event", "db_migration_failed").
				Str("migration_step", step.Name).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Msg("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Debug().
			Str("event", "db_migration_step").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Msg("migration step applied")
	}

	log.Info().
		Str("event", "db_migration_success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("migration complete")

	return nil
}
