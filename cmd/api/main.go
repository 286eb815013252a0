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
	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/PuntoVenta-api/internal/application/checkout"
	"github.com/jhoicas/PuntoVenta-api/internal/application/stockview"
	"github.com/jhoicas/PuntoVenta-api/internal/application/transfer"
	"github.com/jhoicas/PuntoVenta-api/internal/application/warehouse"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
	infradiscount "github.com/jhoicas/PuntoVenta-api/internal/infrastructure/discount"
	"github.com/jhoicas/PuntoVenta-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/PuntoVenta-api/internal/infrastructure/pdf"
	"github.com/jhoicas/PuntoVenta-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/PuntoVenta-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/PuntoVenta-api/internal/interfaces/http"
	"github.com/jhoicas/PuntoVenta-api/pkg/config"
	"github.com/jhoicas/PuntoVenta-api/pkg/logger"
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

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// Repositorios sobre el pool (lecturas fuera de transacción)
	itemRepo := postgres.NewItemRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	whStockRepo := postgres.NewWarehouseStockRepository(pool)
	shelfStockRepo := postgres.NewShelfStockRepository(pool)
	webInvRepo := postgres.NewWebInventoryRepository(pool)
	webOrderRepo := postgres.NewWebOrderRepository(pool)
	trxRepo := postgres.NewTransactionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Colaboradores de infraestructura
	cartStore := infraredis.NewCartStore(rdb, time.Duration(cfg.Redis.CartTTLMin)*time.Minute)
	sessionStore := memory.NewPOSSessionStore()
	discountSvc := infradiscount.NewExpiryDiscountService(batchRepo)
	receiptGen := infrapdf.NewMarotoReceiptGenerator(cfg.POS.StoreName)

	// Casos de uso
	warehouseUC := warehouse.NewUseCase(txRunner, itemRepo)
	transferUC := transfer.NewCoordinator(txRunner, itemRepo)
	ceiling, err := valueobject.MoneyFromInt(int64(cfg.POS.PersonalLimit))
	if err != nil {
		log.Fatal().Err(err).Msg("tope de compra personal inválido")
	}
	posUC := checkout.NewPOSCheckout(txRunner, itemRepo, shelfStockRepo, discountSvc, sessionStore, ceiling)
	webUC := checkout.NewWebCheckout(txRunner, itemRepo, webInvRepo, webOrderRepo, cartStore)
	stockViewUC := stockview.NewUseCase(whStockRepo, shelfStockRepo, webInvRepo)

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
		Title:    "PuntoVenta API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		WarehouseUC: warehouseUC,
		TransferUC:  transferUC,
		POSUC:       posUC,
		WebUC:       webUC,
		StockViewUC: stockViewUC,
		TrxRepo:     trxRepo,
		Receipts:    receiptGen,
		JWTSecret:   cfg.JWT.Secret,
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
