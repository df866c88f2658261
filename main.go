package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/HSouheill/tellerdesk_backend/config"
	"github.com/HSouheill/tellerdesk_backend/controllers"
	"github.com/HSouheill/tellerdesk_backend/middleware"
	"github.com/HSouheill/tellerdesk_backend/repositories"
	"github.com/HSouheill/tellerdesk_backend/routes"
	"github.com/HSouheill/tellerdesk_backend/scheduler"
	"github.com/HSouheill/tellerdesk_backend/services"
	"github.com/HSouheill/tellerdesk_backend/utils"
	"github.com/HSouheill/tellerdesk_backend/websocket"
)

func main() {
	log := config.GetLogger()
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			log.Fatal("JWT_SECRET environment variable is required")
		}
		log.Warn("JWT_SECRET not set, using development secret")
		cfg.JWTSecret = "tellerdesk-dev-secret"
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	firebaseApp := config.InitFirebase(cfg)
	rdb := config.ConnectRedis(cfg)
	client := config.ConnectDB(cfg)
	db := client.Database(cfg.DBName)

	// Create WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Repositories
	settingsRepo := repositories.NewSettingsRepository(db)
	userRepo := repositories.NewUserRepository(db)
	payrollRepo := repositories.NewPayrollRepository(db)
	capitalRepo := repositories.NewCapitalRepository(db)
	shiftRepo := repositories.NewShiftRepository(db)
	reportRepo := repositories.NewTellerReportRepository(db)
	shortRepo := repositories.NewShortPaymentRepository(db)
	withdrawalRepo := repositories.NewWithdrawalRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	notifier := utils.NewNotifier(db, userRepo, firebaseApp, cfg)

	// Services
	settingsService := services.NewSettingsService(settingsRepo, userRepo, wsHub, rdb)
	settings, err := settingsService.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load system settings: %v", err)
	}
	go settingsService.Subscribe(ctx)

	shortService := services.NewShortPaymentService(shortRepo, payrollRepo, wsHub)
	payrollService := services.NewPayrollService(payrollRepo, withdrawalRepo, shortService, wsHub, notifier)
	capitalService := services.NewCapitalService(capitalRepo, userRepo, settingsService, wsHub)
	shiftService := services.NewShiftService(shiftRepo, userRepo, capitalRepo, settingsService, payrollService, wsHub)
	reportService := services.NewTellerReportService(reportRepo, shiftRepo, userRepo, capitalRepo, settingsService, payrollService, wsHub)
	reconcileService := services.NewReconcileService(payrollRepo, settingsService, wsHub)
	exportService := services.NewExportService(payrollRepo, userRepo)
	payslipService := services.NewPayslipService(payrollRepo, userRepo)

	// Cron jobs follow the settings document
	sched := scheduler.New(userRepo, shortService, wsHub, notifier)
	if err := sched.Start(settings); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	settingsService.OnChange(sched.OnSettingsChange)

	// Create a new Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = controllers.NewValidator()

	rateLimiter := middleware.NewRateLimiter()

	e.Use(middleware.RequestID())
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS(cfg.CORSAllowedOrigins))
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfig{
		AllowedDomains: cfg.CORSAllowedOrigins,
		AllowInlineJS:  false,
	}))

	routes.SetupRoutes(e, cfg.JWTSecret, wsHub, routes.Controllers{
		Settings:      controllers.NewSettingsController(settingsService, sched),
		Payroll:       controllers.NewPayrollController(payrollService, exportService, payslipService, reconcileService, notifier),
		Capital:       controllers.NewCapitalController(capitalService),
		Shift:         controllers.NewShiftController(shiftService),
		TellerReport:  controllers.NewTellerReportController(reportService),
		ShortPayment:  controllers.NewShortPaymentController(shortService),
		Notifications: controllers.NewNotificationController(notificationRepo, userRepo),
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP shutdown failed")
	}
	sched.Stop()
	wsHub.Stop()
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.WithError(err).Error("MongoDB disconnect failed")
	}
}
