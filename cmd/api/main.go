package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go-medspa-inventory/config"
	"go-medspa-inventory/internal/audit"
	"go-medspa-inventory/internal/handler"
	"go-medspa-inventory/internal/job"
	"go-medspa-inventory/internal/model"
	"go-medspa-inventory/internal/repository"
	"go-medspa-inventory/internal/service"
	"go-medspa-inventory/internal/ws"
	"go-medspa-inventory/pkg/crypt"
	"go-medspa-inventory/pkg/database"
	"go-medspa-inventory/pkg/jwt"
	"go-medspa-inventory/pkg/logger"
	"go-medspa-inventory/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()

	zlog, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	jwt.SetSecretKey(cfg.JWT.SecretKey)
	if cfg.Crypt.Key == "" {
		zlog.Warn("APP_KEY not set, client medical history cannot be stored")
	}
	crypt.SetKey(cfg.Crypt.Key)

	// 2. Setup Database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		zlog.Fatal("connect database", zap.Error(err))
	}
	// Use a migration tool in production; AutoMigrate keeps local setups simple.
	if err := db.AutoMigrate(model.Tables...); err != nil {
		zlog.Fatal("migrate database", zap.Error(err))
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(zlog)
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	adjustmentRepo := repository.NewAdjustmentRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	treatmentRepo := repository.NewTreatmentRepo(db)
	clientRepo := repository.NewClientRepo(db)
	dashboardRepo := repository.NewDashboardRepo(db)

	recorder := audit.NewRecorder(auditRepo)
	notificationService := service.NewNotificationService(notificationRepo, productRepo, db, wsHub, zlog)
	invService := service.NewInventoryService(productRepo, adjustmentRepo, notificationService, recorder, db, wsHub, zlog)
	auditService := service.NewAuditService(auditRepo)
	treatmentService := service.NewTreatmentService(treatmentRepo, clientRepo, recorder, db)
	clientService := service.NewClientService(clientRepo)
	dashService := service.NewDashboardService(dashboardRepo)

	handlers := &handler.Handlers{
		Inventory:     handler.NewInventoryHandler(invService),
		Notifications: handler.NewNotificationHandler(notificationService),
		Audit:         handler.NewAuditHandler(auditService),
		Treatments:    handler.NewTreatmentHandler(treatmentService),
		Clients:       handler.NewClientHandler(clientService),
		Dashboard:     handler.NewDashboardHandler(dashService),
	}

	// 5. Background jobs
	scheduler := job.NewScheduler(notificationService, zlog)
	if err := scheduler.Setup(cfg.Jobs); err != nil {
		zlog.Fatal("setup jobs", zap.Error(err))
	}
	scheduler.Start()

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.Server.AppName,
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: strings.Join(cfg.Server.CORSOrigins, ",")}))
	app.Use(metrics.Middleware())

	// 7. Routes
	app.Get("/healthz", healthz(db))
	app.Get("/metrics", metrics.Handler())
	handlers.Register(app)

	// WebSocket Route
	app.Use("/ws", ws.Upgrade())
	app.Get("/ws", wsHub.Handler())

	// 8. Graceful Shutdown
	go func() {
		zlog.Info("listening", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.AppEnv))
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			zlog.Panic("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	scheduler.Stop()
	if err := app.Shutdown(); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}
	wsHub.Stop()
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	zlog.Info("server exited")
}

func healthz(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
