package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"docprocessor/internal/database/migration"
	"docprocessor/internal/http/handler"
	"docprocessor/internal/http/middleware"
	"docprocessor/internal/logger"
	appotel "docprocessor/internal/otel"
	"docprocessor/internal/repository/postgres"
	"docprocessor/internal/service"
	"docprocessor/internal/storage"
)

var (
	servePort    string
	serveMigrate bool

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
)

func registerServeCommand() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "create the documents schema when it is missing")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, db, err := bootstrap()
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	if servePort != "" {
		cfg.Port = servePort
	}
	log := logger.Component("serve")

	shutdownTracing, err := appotel.Init(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()

	if serveMigrate {
		if err := migration.EnsureMigrated(ctx, db, cfg.Database.Host); err != nil {
			return err
		}
	}
	// A mapping that does not match the table is fatal.
	if err := postgres.VerifySchema(ctx, db); err != nil {
		return err
	}

	dbInfo := service.NewDatabaseInfo()
	dbInfo.ApplyConfig(cfg.DatabaseInfo)

	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	docSvc := service.NewDocumentService(objStore, postgres.NewDocumentPostgres(db))

	promMw, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handler.ErrorHandler(),
		DisableStartupMessage: true,
	})
	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(promMw.Handler())

	handler.RegisterRoutes(app, db, docSvc, dbInfo, prometheus.DefaultGatherer)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() { errCh <- app.Listen(addr) }()
	log.Info().
		Str("addr", addr).
		Str("database_type", dbInfo.DatabaseType).
		Str("database_host", dbInfo.HostAddress).
		Msg("server started")

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
