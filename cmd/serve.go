package main

import (
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mloptapang/primero/internal/controller"
	"github.com/mloptapang/primero/internal/db"
	httpserver "github.com/mloptapang/primero/internal/http"
	"github.com/mloptapang/primero/internal/registry"
	"github.com/mloptapang/primero/internal/repository"
	"github.com/mloptapang/primero/internal/routes"
	"github.com/mloptapang/primero/internal/service"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the record index worker",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cfg, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	log := zerolog.Ctx(ctx)

	reg, err := registry.Load(cfg.RegistryPath)
	if err != nil {
		return err
	}

	conn, err := db.NewConnection(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "connect clickhouse")
	}
	defer conn.Close()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "connect postgres")
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, conn, pool); err != nil {
		return errors.Wrap(err, "migrate")
	}

	recordRepo := repository.NewRecordRepository(conn)
	reportRepo := repository.NewReportRepository(pool)

	worker := service.NewBatchRecordWorker(recordRepo, *log, cfg.WorkerBufferSize, cfg.WorkerBatchSize, cfg.WorkerFlushEvery)
	defer worker.Shutdown()

	server := httpserver.NewServer(cfg, *log, routes.Controllers{
		Records:    controller.NewRecordController(service.NewRecordService(worker)),
		Reports:    controller.NewReportController(service.NewReportService(reportRepo, recordRepo, reg)),
		Indicators: controller.NewIndicatorController(service.NewIndicatorService(recordRepo, cfg.BucketConcurrency)),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPPort).Msg("starting server")
		errCh <- server.Listen(cfg.HTTPPort)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "server stopped")
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		return server.Shutdown()
	}
}
