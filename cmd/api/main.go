package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/logfarma/armazem-api/internal/application/admission"
	"github.com/logfarma/armazem-api/internal/application/auth"
	"github.com/logfarma/armazem-api/internal/application/cart"
	"github.com/logfarma/armazem-api/internal/application/storage"
	"github.com/logfarma/armazem-api/internal/infrastructure/postgres"
	infraredis "github.com/logfarma/armazem-api/internal/infrastructure/redis"
	httpRouter "github.com/logfarma/armazem-api/internal/interfaces/http"
	"github.com/logfarma/armazem-api/pkg/config"
	"github.com/logfarma/armazem-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao PostgreSQL")
	}
	defer pool.Close()

	redisClient, err := infraredis.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao Redis")
	}
	defer redisClient.Close()

	userRepo := postgres.NewUserRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	positionRepo := postgres.NewPositionRepository(pool)
	palletRepo := postgres.NewPalletRepository(pool)
	loadRepo := postgres.NewLoadRepository(pool)
	receivingRegistry := postgres.NewReceivingRegistry(pool)
	cartTxRunner := postgres.NewTxRunner(pool)
	storageTxRunner := postgres.NewStorageTxRunner(pool)

	ledger := infraredis.NewAdmissionLedger(redisClient)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	admitUC := admission.NewAdmitScanUseCase(cartRepo, receivingRegistry, ledger, log)
	lifecycleUC := cart.NewLifecycleUseCase(cartTxRunner, cartRepo, ledger, log)
	reviewUC := cart.NewReviewUseCase(cartTxRunner, reviewRepo, log)
	ledgerUC := storage.NewLedgerUseCase(storageTxRunner, positionRepo, palletRepo, loadRepo, log)
	suggestions := postgres.NewSuggestionProvider(positionRepo, loadRepo)
	confirmationSvc := storage.NewConfirmationService(ledgerUC, positionRepo, palletRepo, suggestions, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		LifecycleUC:  lifecycleUC,
		AdmitUC:      admitUC,
		ReviewUC:     reviewUC,
		LedgerUC:     ledgerUC,
		Confirmation: confirmationSvc,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("encerramento do servidor")
	}

	log.Info().Msg("aplicação encerrada")
}
