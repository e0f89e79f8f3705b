package main

import (
	"context"
	"fmt"
	"io"

	"github.com/MKhiriev/go-expense-tracker/internal/config"
	"github.com/MKhiriev/go-expense-tracker/internal/handler"
	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/internal/mail"
	"github.com/MKhiriev/go-expense-tracker/internal/server"
	"github.com/MKhiriev/go-expense-tracker/internal/service"
	"github.com/MKhiriev/go-expense-tracker/internal/store"
	"github.com/MKhiriev/go-expense-tracker/internal/telemetry"
	"github.com/MKhiriev/go-expense-tracker/models"
)

const role = "expense-server"

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	fmt.Print(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))

	log := logger.NewLogger(role)
	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// run wires the application and serves until a termination signal. Deferred
// cleanup runs before the error reaches main.
func run(log *logger.Logger) error {
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		return fmt.Errorf("error getting configs: %w", err)
	}
	if err = logger.SetLevel(cfg.App.LogLevel); err != nil {
		return fmt.Errorf("error setting log level: %w", err)
	}

	log.Debug().
		Str("driver", cfg.Storage.DB.Driver).
		Str("http_address", cfg.Server.HTTPAddress).
		Str("grpc_address", cfg.Server.GRPCAddress).
		Str("mail_driver", cfg.Mail.Driver).
		Msg("received configs")

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry, cfg.App.Version, log)
	if err != nil {
		return fmt.Errorf("error setting up tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Err(err).Msg("error flushing traces")
		}
	}()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("error creating storages: %w", err)
	}
	defer storages.Close()

	mailer, err := mail.NewSender(cfg.Mail, log)
	if err != nil {
		return fmt.Errorf("error creating mail sender: %w", err)
	}
	if closer, ok := mailer.(io.Closer); ok {
		defer closer.Close()
	}

	services, err := service.NewServices(storages, mailer, cfg, log, logger.NewFallbackLogger(role))
	if err != nil {
		return fmt.Errorf("error creating services: %w", err)
	}

	handlers, err := handler.NewHandlers(services, storages, cfg.Server, log)
	if err != nil {
		return fmt.Errorf("error creating handlers: %w", err)
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	return srv.RunServer()
}
