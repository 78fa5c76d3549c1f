package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	budgetapp "github.com/chantier/backend/internal/application/budget"
	catalogapp "github.com/chantier/backend/internal/application/catalog"
	quoteapp "github.com/chantier/backend/internal/application/quote"
	"github.com/chantier/backend/internal/domain/quote"
	"github.com/chantier/backend/internal/infrastructure/config"
	"github.com/chantier/backend/internal/infrastructure/event"
	"github.com/chantier/backend/internal/infrastructure/logger"
	"github.com/chantier/backend/internal/infrastructure/persistence"
	"github.com/chantier/backend/internal/infrastructure/printing"
	"github.com/chantier/backend/internal/interfaces/http/handler"
	"github.com/chantier/backend/internal/interfaces/http/middleware"
	"github.com/chantier/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Chantier Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	articleRepo := persistence.NewGormArticleRepository(db.DB)
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	budgetRepo := persistence.NewGormBudgetRepository(db.DB)
	costLineRepo := persistence.NewGormCostLineRepository(db.DB)
	journalRepo := persistence.NewGormJournalRepository(db.DB)

	// Workflow guard carries the amount gate for quote validation
	guard := quote.NewWorkflowGuardWithThreshold(cfg.Workflow.ValidationThresholdHT)

	budgetapp.DefaultAlertThresholdPct = cfg.Workflow.DefaultAlertThresholdPct

	// Initialize application services
	articleService := catalogapp.NewArticleService(articleRepo)
	quoteService := quoteapp.NewQuoteService(quoteRepo, journalRepo, guard)
	dashboardService := quoteapp.NewDashboardService(quoteRepo)
	budgetService := budgetapp.NewBudgetService(budgetRepo, journalRepo)
	costLineService := budgetapp.NewCostLineService(costLineRepo)

	// Devis PDF rendering (requires a Chrome/Chromium binary)
	if cfg.Printing.Enabled {
		chromeRenderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
			RemoteURL: cfg.Printing.ChromeURL,
			NoSandbox: cfg.Printing.NoSandbox,
			Logger:    log,
		})
		if err != nil {
			log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
		}
		defer func() {
			if err := chromeRenderer.Close(); err != nil {
				log.Error("Error closing PDF renderer", zap.Error(err))
			}
		}()

		devisRenderer, err := printing.NewDevisPDFRenderer(chromeRenderer)
		if err != nil {
			log.Fatal("Failed to initialize devis renderer", zap.Error(err))
		}
		quoteService.SetPDFRenderer(devisRenderer)
		log.Info("Devis PDF rendering enabled",
			zap.String("chrome_url", cfg.Printing.ChromeURL))
	}

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	alertRaisedHandler := budgetapp.NewAlertRaisedHandler(log)
	eventBus.Subscribe(alertRaisedHandler)

	log.Info("Event handlers registered",
		zap.Strings("budget_alert_events", alertRaisedHandler.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	articleService.SetEventPublisher(eventBus)
	quoteService.SetEventPublisher(eventBus)
	budgetService.SetEventPublisher(eventBus)

	// Initialize HTTP handlers
	articleHandler := handler.NewArticleHandler(articleService)
	quoteHandler := handler.NewQuoteHandler(quoteService, dashboardService)
	budgetHandler := handler.NewBudgetHandler(budgetService, costLineService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(quoteHandler).
		Register(budgetHandler).
		Register(articleHandler).
		Register(systemHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
