package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/takanori-w/lifeplan-navigator/pkg/audit"
	"github.com/takanori-w/lifeplan-navigator/pkg/config"
	handlers "github.com/takanori-w/lifeplan-navigator/pkg/handlers/http"
	"github.com/takanori-w/lifeplan-navigator/pkg/infra/database"
	infraLogger "github.com/takanori-w/lifeplan-navigator/pkg/infra/logger"
	"github.com/takanori-w/lifeplan-navigator/pkg/infra/repository"
	"github.com/takanori-w/lifeplan-navigator/pkg/infra/sink"
	"github.com/takanori-w/lifeplan-navigator/pkg/middleware"
	"github.com/takanori-w/lifeplan-navigator/pkg/server"
)

const shutdownTimeout = 30 * time.Second

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger()

	cfg, err := config.Load("./config")
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Database is optional; without a DSN the repository runs in mock mode
	// and persists nothing.
	var db *database.DB
	if cfg.Database.DSN != "" {
		db, err = database.NewDB(logger, cfg.Database.DSN)
		if err != nil {
			logger.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		if err := repository.Migrate(db.DB); err != nil {
			logger.Fatalf("Failed to run audit log migration: %v", err)
		}
	} else {
		logger.Warn("DATABASE_DSN not set, audit logs will not be persisted")
	}

	repo := newRepository(db, logger)

	pipeline, err := buildPipeline(cfg, repo, logger)
	if err != nil {
		logger.Fatalf("Failed to build audit pipeline: %v", err)
	}

	pipeline.LogSystemEvent(context.Background(), audit.CodeSystemStartup,
		audit.RequestInput{Method: "SYSTEM", Path: "/startup"},
		audit.ResponseInput{StatusCode: 200},
		map[string]interface{}{"environment": cfg.Audit.Environment},
	)

	handlerTransport := handlers.HandlerTransport{
		SearchAuditLogsHandler:    handlers.NewSearchAuditLogsHandler(logger, repo),
		GetResourceTrailHandler:   handlers.NewGetResourceTrailHandler(logger, repo),
		ListSecurityEventsHandler: handlers.NewListSecurityEventsHandler(logger, repo),
		HealthHandler:             handlers.NewHealthHandler(logger, pipeline),
	}

	srv := server.NewAppServer(server.AppServerDI{
		HandlerTransport:       handlerTransport,
		PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(logger),
		AuditAccessMiddleware: middleware.NewAuditMiddleware(logger, pipeline, middleware.AuditOptions{
			EventCode: audit.CodeAdminAuditAccess,
			EventType: audit.EventTypeAdmin,
		}),
		Config: cfg,
		Logger: logger,
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	if err := srv.Shutdown(); err != nil {
		logger.WithError(err).Error("error shutting down server")
	}

	pipeline.LogSystemEvent(context.Background(), audit.CodeSystemShutdown,
		audit.RequestInput{Method: "SYSTEM", Path: "/shutdown"},
		audit.ResponseInput{StatusCode: 200},
		nil,
	)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	pipeline.Shutdown(ctx)
	logger.Info("server gracefully stopped")
}

func newRepository(db *database.DB, logger *logrus.Logger) audit.Repository {
	if db == nil {
		return repository.NewAuditRepository(nil, logger)
	}
	return repository.NewAuditRepository(db.DB, logger)
}

func buildPipeline(cfg *config.Config, repo audit.Repository, logger *logrus.Logger) (*audit.Pipeline, error) {
	redactor := audit.NewRedactor(cfg.Audit.PIIFieldList())
	builder := audit.NewBuilder(audit.BuilderConfig{
		ServiceName: cfg.Audit.ServiceName,
		Version:     cfg.Audit.Version,
		Environment: cfg.Audit.Environment,
	}, redactor)

	locator := sink.NewLocator(
		sink.WithSink(sink.ConsoleSinkName, sink.NewConsoleSink(logger)),
		sink.WithSink(sink.DatabaseSinkName, sink.NewDatabaseSink(repo, logger)),
		sink.WithSink(sink.RemoteSinkName, sink.NewRemoteSink(logger)),
	)

	var specs []sink.Spec
	if cfg.Audit.EnableConsoleOutput {
		specs = append(specs, sink.Spec{Name: sink.ConsoleSinkName})
	}
	if cfg.Audit.EnableDatabase {
		specs = append(specs, sink.Spec{Name: sink.DatabaseSinkName})
	}
	if cfg.Audit.EnableRemote {
		specs = append(specs, sink.Spec{
			Name: sink.RemoteSinkName,
			Settings: map[string]interface{}{
				"endpoint":   cfg.Audit.RemoteEndpoint,
				"timeout_ms": cfg.Audit.RemoteTimeoutMS,
			},
		})
	}

	sinks := make([]audit.Sink, 0, len(specs))
	for _, spec := range specs {
		s, err := locator.GetSink(spec)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}

	return audit.NewPipeline(audit.PipelineConfig{
		AsyncLogging:  cfg.Audit.AsyncLogging,
		BatchSize:     cfg.Audit.BatchSize,
		FlushInterval: cfg.Audit.FlushInterval(),
	}, builder, sinks, logger), nil
}
