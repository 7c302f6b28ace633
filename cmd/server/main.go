package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"vendoprint/internal/app"
	"vendoprint/internal/audio"
	"vendoprint/internal/config"
	"vendoprint/internal/fileproc"
	"vendoprint/internal/handler"
	"vendoprint/internal/hardware"
	"vendoprint/internal/printer"
	internalRedis "vendoprint/internal/redis"
	"vendoprint/internal/repository/postgres"
	"vendoprint/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		log.Fatalf("failed to create upload dir: %v", err)
	}

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server, jobService, cups := wireServer(db, redisClient, nrApp, cfg)

	// Check the printer once at startup; a missing printer is reported,
	// not fatal.
	cups.Initialize(ctx)

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// Start the coin acceptor loop if a pulse line is configured. A
	// hardware failure degrades the kiosk to manual credits.
	if cfg.Coins.Device != "" {
		acceptor := hardware.NewAcceptor(&hardware.LineSource{Device: cfg.Coins.Device}, jobService.Ledger())
		go func() {
			if err := acceptor.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("coin acceptor stopped: %v (manual credits still available)", err)
			}
		}()
		log.Printf("Coin acceptor reading pulses from %s", cfg.Coins.Device)
	} else {
		log.Println("No coin device configured; manual credits only")
	}

	// Start the captive-portal redirect listener. Port 80 needs
	// privileges; failing to bind is a warning, not a crash.
	redirectServer := app.NewRedirectServer(cfg.Portal.RedirectPort, cfg.Portal.BaseURL)
	go func() {
		log.Printf("HTTP redirect server on port %s", cfg.Portal.RedirectPort)
		if err := redirectServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("redirect server unavailable: %v (set up an iptables redirect instead)", err)
		}
	}()

	// Start server in goroutine.
	go func() {
		log.Printf("Starting portal on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	_ = redirectServer.Shutdown(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server along
// with the services the acceptor loop and startup checks need.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, *service.JobService, *printer.CUPS) {
	// Initialize Redis stores.
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	printLogRepo := postgres.NewPrintLogRepository(db)
	paymentLogRepo := postgres.NewPaymentLogRepository(db)
	errorLogRepo := postgres.NewErrorLogRepository(db)

	// Initialize collaborators.
	cups := printer.New(cfg.Printer.Name, cfg.Printer.JobTimeout, printer.ExecRunner{})
	sounds := audio.New("static/sounds")
	processor := fileproc.New(cfg.Upload.Extensions, cfg.Upload.MaxBytes)

	// Initialize services.
	notificationService := service.NewNotificationService(cfg.Notify)
	jobService := service.NewJobService(cfg, cups, printLogRepo, paymentLogRepo, errorLogRepo, notificationService, sounds, cacheStore)
	statsService := service.NewStatsService(printLogRepo, paymentLogRepo, errorLogRepo, cacheStore)

	// Initialize handlers.
	uploadHandler := handler.NewUploadHandler(jobService, processor, cfg.Upload.Dir)
	jobHandler := handler.NewJobHandler(jobService)
	paymentHandler := handler.NewPaymentHandler(jobService)
	dashboardHandler := handler.NewDashboardHandler(statsService, errorLogRepo)
	printerHandler := handler.NewPrinterHandler(cups, cacheStore)
	portalHandler := handler.NewPortalHandler()

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		UploadHandler:    uploadHandler,
		JobHandler:       jobHandler,
		PaymentHandler:   paymentHandler,
		DashboardHandler: dashboardHandler,
		PrinterHandler:   printerHandler,
		PortalHandler:    portalHandler,
		RedisClient:      redisClient,
		NewRelicApp:      nrApp,
		ConfirmMode:      cfg.Coins.ConfirmMode,
		StaticDir:        "static",
	})
	router.MaxMultipartMemory = cfg.Upload.MaxBytes

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, jobService, cups
}
