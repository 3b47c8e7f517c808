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

	"github.com/Alakh11/bizztrack-api/internal/application/billing"
	"github.com/Alakh11/bizztrack-api/internal/infrastructure/email"
	"github.com/Alakh11/bizztrack-api/internal/infrastructure/postgres"
	httpRouter "github.com/Alakh11/bizztrack-api/internal/interfaces/http"
	"github.com/Alakh11/bizztrack-api/pkg/config"
	"github.com/Alakh11/bizztrack-api/pkg/logger"
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

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Sender nil = envío de correo deshabilitado (SMTP_HOST vacío)
	sender := email.NewGomailSender(cfg.SMTP, log)
	if sender == nil {
		log.Warn().Msg("SMTP sin configurar, el envío de facturas por correo queda deshabilitado")
	}

	invoiceUC := billing.NewInvoiceUseCase(invoiceRepo, clientRepo, profileRepo, txRunner, log)
	clientUC := billing.NewClientUseCase(clientRepo)

	var docSender billing.EmailSender
	if sender != nil {
		docSender = sender
	}
	documentUC := billing.NewDocumentUseCase(invoiceRepo, profileRepo, docSender, log)

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
		Title:    "BizzTrack API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		InvoiceUC:  invoiceUC,
		DocumentUC: documentUC,
		ClientUC:   clientUC,
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
