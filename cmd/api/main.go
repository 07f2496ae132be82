package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docscan/internal/ai"
	"docscan/internal/config"
	"docscan/internal/convert"
	"docscan/internal/database"
	"docscan/internal/database/migration"
	"docscan/internal/drive"
	handlers "docscan/internal/http/handler"
	"docscan/internal/http/middleware"
	"docscan/internal/otel"
	"docscan/internal/repository/postgres"
	"docscan/internal/service"
	"docscan/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	loc := time.UTC

	ctx := context.Background()

	// Tracing is a no-op unless an OTLP endpoint is configured
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Object storage is optional; without it analyzed images stay inline
	var objStore storage.Storage
	if cfg.MinIO.Endpoint != "" {
		objStore, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.Fatalf("failed to initialize object storage: %v", err)
		}
	}

	renderer, err := convert.NewRodRenderer(cfg.Convert.BrowserURL, logger)
	if err != nil {
		log.Fatalf("failed to start renderer: %v", err)
	}
	defer renderer.Close()

	source := drive.NewClient(cfg.Drive, &http.Client{}, logger)
	analyzer := ai.NewGroqClient(cfg.AI, &http.Client{}, logger)
	converter := convert.NewConverter(cfg.Convert, renderer, logger)

	docRepo := postgres.NewDocumentPostgres(db)
	entityRepo := postgres.NewEntityPostgres(db)
	reconciler := service.NewEntityReconciler(entityRepo, logger)
	docSvc := service.NewDocumentService(
		source, converter, analyzer, reconciler, docRepo, entityRepo, objStore, logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMW, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, db, docSvc)

	addr := ":" + cfg.Port
	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
