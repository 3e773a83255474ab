package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gudang/internal/config"
	"gudang/internal/handlers"
	"gudang/internal/models"
	"gudang/internal/repositories"
	"gudang/internal/seed"
	"gudang/internal/services"
	"gudang/pkg/rabbitmq"
)

func main() {
	// .env is optional; deployments configure through the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer zapLogger.Sync()

	// --- Storage ---
	repo := buildRepository(cfg, zapLogger)
	defer repo.Close(context.Background())

	seeds := loadSeeds(cfg, zapLogger)
	prepareStore(cfg, repo, seeds, zapLogger)

	// --- RabbitMQ (optional) ---
	mqClient := buildPublisher(cfg, zapLogger)
	var publisher services.Publisher
	if mqClient != nil {
		defer mqClient.Close()
		startAuditConsumer(mqClient, zapLogger)
		publisher = mqClient
	}

	// --- Services and handlers ---
	inventoryService := services.NewInventoryService(repo, publisher, seeds, zapLogger)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, zapLogger)

	app := newApp(inventoryHandler)

	zapLogger.Info("starting server",
		zap.String("port", cfg.AppPort),
		zap.String("storage_driver", cfg.StorageDriver),
	)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			zapLogger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("shutting down server")

	if err := app.Shutdown(); err != nil {
		zapLogger.Error("error during shutdown", zap.Error(err))
	}
	zapLogger.Info("server gracefully stopped")
}

// newApp assembles the Fiber application: request logging middleware, the
// health check, and the inventory routes under /api/v1.
func newApp(inventoryHandler *handlers.InventoryHandler) *fiber.App {
	app := fiber.New()

	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	inventoryHandler.RegisterRoutes(apiV1)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app
}

// buildRepository selects the storage backend from configuration. When the
// backend cannot be opened the server still comes up: requests are answered
// by an UnavailableRepository that surfaces the startup failure per call.
func buildRepository(cfg config.Config, zapLogger *zap.Logger) repositories.InventoryRepository {
	repo, err := openRepository(cfg)
	if err != nil {
		zapLogger.Error("storage unavailable, serving in degraded mode",
			zap.String("storage_driver", cfg.StorageDriver),
			zap.Error(err),
		)
		return repositories.NewUnavailableRepository(err)
	}
	return repo
}

func openRepository(cfg config.Config) (repositories.InventoryRepository, error) {
	switch cfg.StorageDriver {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database %s: %w", cfg.SQLitePath, err)
		}
		return repositories.NewGORMInventoryRepository(db), nil
	case "postgres":
		if cfg.DatabaseDSN == "" {
			return nil, errors.New("DATABASE_DSN is required when STORAGE_DRIVER=postgres")
		}
		db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return repositories.NewGORMInventoryRepository(db), nil
	case "mongo":
		return repositories.NewMongoInventoryRepository(context.Background(), cfg.MongoURI, cfg.MongoDB)
	case "memory":
		return repositories.NewMemoryInventoryRepository(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func loadSeeds(cfg config.Config, zapLogger *zap.Logger) []models.SeedItem {
	if cfg.SeedFile == "" {
		return nil
	}
	seeds, err := seed.LoadFile(cfg.SeedFile)
	if err != nil {
		zapLogger.Warn("failed to load seed data",
			zap.String("seed_file", cfg.SeedFile),
			zap.Error(err),
		)
		return nil
	}
	zapLogger.Info("seed data loaded",
		zap.String("seed_file", cfg.SeedFile),
		zap.Int("records", len(seeds)),
	)
	return seeds
}

// prepareStore runs the startup half of initialization: schema creation plus
// eager seeding, or a full reseed when FORCE_RESEED is set. Failures are
// logged and non-fatal; listing retries seeding lazily on first use.
func prepareStore(cfg config.Config, repo repositories.InventoryRepository, seeds []models.SeedItem, zapLogger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := repo.EnsureSchema(ctx); err != nil {
		zapLogger.Error("failed to prepare storage schema", zap.Error(err))
		return
	}

	if cfg.ForceReseed {
		if err := repo.Reseed(ctx, seeds); err != nil {
			zapLogger.Error("forced reseed failed", zap.Error(err))
			return
		}
		zapLogger.Info("store reseeded", zap.Int("records", len(seeds)))
		return
	}

	if err := repo.SeedIfEmpty(ctx, seeds); err != nil {
		zapLogger.Error("startup seeding failed", zap.Error(err))
	}
}

func buildPublisher(cfg config.Config, zapLogger *zap.Logger) *rabbitmq.Client {
	if cfg.RabbitMQURL == "" {
		zapLogger.Info("RABBITMQ_URL not set, inventory events disabled")
		return nil
	}
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, zapLogger)
	if err != nil {
		zapLogger.Warn("failed to initialize RabbitMQ client, inventory events disabled", zap.Error(err))
		return nil
	}
	return mqClient
}

// startAuditConsumer writes every event landing on the inventory queue to the
// log, giving a running audit trail of catalog changes.
func startAuditConsumer(mqClient *rabbitmq.Client, zapLogger *zap.Logger) {
	handler := func(msg amqp.Delivery) error {
		zapLogger.Info("inventory event", zap.ByteString("body", msg.Body))
		return nil
	}
	if err := mqClient.ConsumeInventoryEvents(handler); err != nil {
		zapLogger.Warn("failed to start inventory events consumer", zap.Error(err))
	}
}
