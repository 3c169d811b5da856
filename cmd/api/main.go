package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/almoxsys/almoxarifado-api/internal/application/auth"
	"github.com/almoxsys/almoxarifado-api/internal/application/estoque"
	"github.com/almoxsys/almoxarifado-api/internal/application/usecase"
	"github.com/almoxsys/almoxarifado-api/internal/infrastructure/ops"
	"github.com/almoxsys/almoxarifado-api/internal/infrastructure/postgres"
	httpRouter "github.com/almoxsys/almoxarifado-api/internal/interfaces/http"
	"github.com/almoxsys/almoxarifado-api/migrations"
	"github.com/almoxsys/almoxarifado-api/pkg/config"
	"github.com/almoxsys/almoxarifado-api/pkg/logger"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	goose.SetBaseFS(migrations.FS)
	return goose.Up(sqlDB, ".")
}

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

	if err := runMigrations(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("aplicar migrações")
	}
	log.Info().Msg("migrações aplicadas")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUsuarioRepository(pool)
	materialRepo := postgres.NewMaterialRepository(pool)
	movRepo := postgres.NewMovimentacaoRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	applyUC := estoque.NewApplyMovementUseCase(txRunner)
	approvalUC := estoque.NewApprovalUseCase(txRunner, movRepo, materialRepo)
	ledgerUC := estoque.NewLedgerUseCase(movRepo, materialRepo)
	materialUC := usecase.NewMaterialUseCase(materialRepo, txRunner)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		MaterialUC: materialUC,
		ApplyUC:    applyUC,
		ApprovalUC: approvalUC,
		LedgerUC:   ledgerUC,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	// Listener operacional separado: /health e /metrics
	opsSrv := ops.New(cfg.Ops.Addr, cfg.Ops.MetricsEnabled)
	go func() {
		if err := opsSrv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error().Err(err).Msg("servidor operacional")
		}
	}()
	log.Info().Str("addr", cfg.Ops.Addr).Msg("servidor operacional iniciado")

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Fatal().Err(err).Msg("servidor HTTP")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("API iniciada")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("encerrando aplicação")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown da API")
	}
	if err := opsSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown do servidor operacional")
	}
}
