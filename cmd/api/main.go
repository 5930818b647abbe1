package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dfcamargo/trastienda-api/internal/application/fulfillment"
	"github.com/dfcamargo/trastienda-api/internal/application/ledger"
	"github.com/dfcamargo/trastienda-api/internal/infrastructure/cache"
	"github.com/dfcamargo/trastienda-api/internal/infrastructure/postgres"
	httpRouter "github.com/dfcamargo/trastienda-api/internal/interfaces/http"
	"github.com/dfcamargo/trastienda-api/pkg/config"
	"github.com/dfcamargo/trastienda-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)

	// Caché opcional de lecturas calientes (stock bajo). Sin REDIS_ADDR las
	// consultas van directo a la BD.
	var cacheStore ledger.CacheStore
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisCache.Close()
		cacheStore = redisCache
		log.Info().Str("addr", cfg.Redis.Addr).Msg("caché Redis habilitada")
	}

	engine := ledger.NewEngine(txRunner)
	transferUC := ledger.NewTransferUseCase(txRunner)
	reversalUC := ledger.NewReversalUseCase(txRunner)
	queryUC := ledger.NewQueryUseCase(txRunner, cacheStore)
	replenishmentUC := ledger.NewReplenishmentUseCase(txRunner)
	orderUC := fulfillment.NewOrderUseCase(txRunner)
	supplierReturnUC := fulfillment.NewSupplierReturnUseCase(txRunner)

	inventoryHandler := httpRouter.NewInventoryHandler(
		engine, transferUC, reversalUC, queryUC, replenishmentUC, log,
	)
	fulfillmentHandler := httpRouter.NewFulfillmentHandler(orderUC, supplierReturnUC, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Trastienda API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		JWTSecret:   cfg.JWT.Secret,
		Inventory:   inventoryHandler,
		Fulfillment: fulfillmentHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
