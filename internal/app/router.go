package app

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"vendoprint/internal/handler"
	"vendoprint/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UploadHandler    *handler.UploadHandler
	JobHandler       *handler.JobHandler
	PaymentHandler   *handler.PaymentHandler
	DashboardHandler *handler.DashboardHandler
	PrinterHandler   *handler.PrinterHandler
	PortalHandler    *handler.PortalHandler
	RedisClient      *redis.Client
	NewRelicApp      *newrelic.Application
	ConfirmMode      bool
	StaticDir        string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Portal UI. The captive portal probes below bounce here, so the
	// root must actually serve something.
	staticDir := deps.StaticDir
	if staticDir == "" {
		staticDir = "static"
	}
	router.StaticFile("/", filepath.Join(staticDir, "index.html"))
	router.Static("/static", staticDir)

	// Captive portal detection probes.
	router.GET("/generate_204", deps.PortalHandler.Generate204)
	router.GET("/gen_204", deps.PortalHandler.Generate204)
	for _, probe := range []string{
		"/hotspot-detect.html",
		"/connectivity-check.html",
		"/check_network_status.txt",
		"/ncsi.txt",
		"/success.txt",
		"/redirect",
	} {
		router.GET(probe, deps.PortalHandler.Detect)
	}

	// Kiosk API.
	api := router.Group("/api")
	{
		api.POST("/upload", deps.UploadHandler.Upload)
		api.GET("/preview", deps.UploadHandler.Preview)

		api.POST("/calculate-cost", deps.JobHandler.CalculateCost)
		api.POST("/start-print", deps.JobHandler.StartPrint)
		api.GET("/print-status", deps.JobHandler.PrintStatus)

		api.GET("/payment-status", deps.PaymentHandler.Status)
		api.POST("/coin-inserted", deps.PaymentHandler.InsertCoin)
		if deps.ConfirmMode {
			api.POST("/coin-confirm", deps.PaymentHandler.ConfirmCoin)
		}

		api.GET("/printer-status", deps.PrinterHandler.Status)

		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/stats", deps.DashboardHandler.Stats)
			dashboard.GET("/logs", deps.DashboardHandler.Logs)
			dashboard.POST("/errors/:id/resolve", deps.DashboardHandler.ResolveError)
		}
	}

	return router
}
