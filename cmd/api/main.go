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

	_ "github.com/jhoicas/facturx-api/docs"
	"github.com/jhoicas/facturx-api/internal/application/billing"
	"github.com/jhoicas/facturx-api/internal/infrastructure/export"
	infrafacturx "github.com/jhoicas/facturx-api/internal/infrastructure/facturx"
	infrapdf "github.com/jhoicas/facturx-api/internal/infrastructure/pdf"
	"github.com/jhoicas/facturx-api/internal/infrastructure/pdp"
	"github.com/jhoicas/facturx-api/internal/infrastructure/postgres"
	"github.com/jhoicas/facturx-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/facturx-api/internal/interfaces/http"
	"github.com/jhoicas/facturx-api/pkg/config"
	"github.com/jhoicas/facturx-api/pkg/logger"
)

// @title        Factur-X API
// @version      1.0
// @description  Emisión de facturas Factur-X (CII D16B), directorio de clientes y envío a la plataforma de desmaterialización.
// @host         localhost:8080
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("profile", cfg.Facturx.Profile).
		Bool("pdp_production", cfg.PDP.IsProduction()).
		Msg("iniciando aplicación")

	emitterCfg, err := config.LoadEmitter(cfg.Facturx.EmitterFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.Facturx.EmitterFile).Msg("datos del emisor")
	}
	emitter := billing.EmitterParty(emitterCfg)

	profile, err := infrafacturx.ParseProfile(cfg.Facturx.Profile)
	if err != nil {
		log.Fatal().Err(err).Msg("FACTURX_PROFILE")
	}

	if err := postgres.MigrateUp(cfg.DB); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	archive, err := storage.New(ctx, cfg.Archive)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Archive.Driver).Msg("archivo de artefactos")
	}

	txRunner := postgres.NewTxRunner(pool)
	clientRepo := postgres.NewClientRepository(pool)
	invoiceRepo := postgres.NewSentInvoiceRepository(pool)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	generateUC := billing.NewGenerateInvoiceUseCase(
		txRunner, clientRepo, infrafacturx.NewXMLBuilderService(), pdfGenerator, archive,
		emitter, billing.GenerateConfig{DefaultProfile: profile, NumberPrefix: cfg.Facturx.NumberPrefix}, log,
	)
	queryUC := billing.NewInvoiceQueryUseCase(invoiceRepo, export.NewLedgerExporter())
	artifactsUC := billing.NewArtifactsUseCase(invoiceRepo, pdfGenerator, archive, emitter, log)
	sendOrchestrator := billing.NewSendOrchestrator(invoiceRepo, pdp.NewSubmitter(cfg.PDP, log), log)
	clientUC := billing.NewClientUseCase(clientRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Factur-X API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:   cfg.App.Name,
		Generator: generateUC,
		Query:     queryUC,
		Artifacts: artifactsUC,
		Sender:    sendOrchestrator,
		Clients:   clientUC,
		Log:       log,
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

	// Los envíos en curso terminan dejando un estado final en la DB.
	sendOrchestrator.Wait()

	log.Info().Msg("aplicación detenida")
}
