package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/inventario-ti/docs"
	"github.com/jhoicas/inventario-ti/internal/application/analytics"
	"github.com/jhoicas/inventario-ti/internal/application/auth"
	"github.com/jhoicas/inventario-ti/internal/application/inventory"
	"github.com/jhoicas/inventario-ti/internal/application/usecase"
	"github.com/jhoicas/inventario-ti/internal/infrastructure/filestore"
	"github.com/jhoicas/inventario-ti/internal/infrastructure/mail"
	"github.com/jhoicas/inventario-ti/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/inventario-ti/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-ti/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ti/internal/infrastructure/session"
	httpRouter "github.com/jhoicas/inventario-ti/internal/interfaces/http"
	"github.com/jhoicas/inventario-ti/pkg/config"
	"github.com/jhoicas/inventario-ti/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
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

	if cfg.App.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("applied", applied).Msg("migraciones al día")
	}

	itemRepo := postgres.NewItemRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if cfg.App.AutoCreateAdmin {
		created, err := authUC.EnsureAdmin(ctx, cfg.App.AdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("crear usuario admin")
		}
		if created {
			log.Warn().Str("username", auth.AdminUsername).Msg("usuario admin creado; cambie la contraseña")
		}
	}

	promMetrics := metrics.New(nil)

	// Correo opcional: sin SMTP los comprobantes solo quedan en disco
	var notifier inventory.ReceiptNotifier
	if cfg.SMTP.Enabled() {
		notifier = mail.NewNotifier(cfg.SMTP, cfg.App.OrgName)
	}

	checkoutUC := inventory.NewCheckoutUseCase(txRunner, promMetrics, log)
	receiptUC := inventory.NewReceiptUseCase(
		movementRepo, itemRepo,
		infrapdf.NewMarotoReceiptGenerator(cfg.App.OrgName),
		filestore.NewOSReceiptStore(cfg.Receipts.Dir),
		notifier, promMetrics, log,
	).WithArchiver(filestore.ZipArchiver{})
	itemUC := usecase.NewItemUseCase(itemRepo, movementRepo, txRunner, log)
	movementUC := usecase.NewMovementUseCase(movementRepo, itemRepo)
	dashboardUC := analytics.NewDashboardUseCase(itemRepo)

	// Sesiones: Redis si está configurado, si no memoria del proceso
	var sessionStorage fiber.Storage
	if cfg.Redis.Enabled() {
		redisStorage, err := session.NewRedisStorage(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisStorage.Close()
		sessionStorage = redisStorage
	}
	sessions := httpRouter.NewSessionStore(sessionStorage, cfg.Session)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    8 * 1024 * 1024, // firmas en data URL
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http"), promMetrics))

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Title = cfg.App.Name
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario TI API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ItemUC:       itemUC,
		MovementUC:   movementUC,
		CheckoutUC:   checkoutUC,
		ReceiptUC:    receiptUC,
		DashboardUC:  dashboardUC,
		ItemLookup:   itemRepo,
		Sessions:     sessions,
		JWTSecret:    cfg.JWT.Secret,
		SecureCookie: cfg.Session.Secure,
		Log:          log,
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
