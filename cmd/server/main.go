package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	bankingapp "github.com/bookkeep/backend/internal/application/banking"
	ledgerapp "github.com/bookkeep/backend/internal/application/ledger"
	"github.com/bookkeep/backend/internal/domain/banking"
	"github.com/bookkeep/backend/internal/infrastructure/config"
	"github.com/bookkeep/backend/internal/infrastructure/event"
	"github.com/bookkeep/backend/internal/infrastructure/logger"
	"github.com/bookkeep/backend/internal/infrastructure/persistence"
	"github.com/bookkeep/backend/internal/interfaces/http/handler"
	"github.com/bookkeep/backend/internal/interfaces/http/middleware"
	"github.com/bookkeep/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting bookkeeping backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := persistence.Migrate(db.DB); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	log.Info("Database connected")

	// Repositories
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	taxRateRepo := persistence.NewGormTaxRateRepository(db.DB)
	periodRepo := persistence.NewGormAccountingPeriodRepository(db.DB)
	journalRepo := persistence.NewGormJournalRepository(db.DB)
	openInvoiceRepo := persistence.NewGormOpenInvoiceRepository(db.DB)
	openBillRepo := persistence.NewGormOpenBillRepository(db.DB)
	statementRepo := persistence.NewGormBankStatementRepository(db.DB)
	bankRowRepo := persistence.NewGormBankRowRepository(db.DB)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Application services
	accountService := ledgerapp.NewAccountService(accountRepo, eventBus)
	taxRateService := ledgerapp.NewTaxRateService(taxRateRepo)
	periodService := ledgerapp.NewPeriodService(periodRepo)
	journalService := ledgerapp.NewJournalService(journalRepo, accountRepo, periodRepo, eventBus)

	matcher := banking.NewMatcher(banking.ScoringWeights{
		ExactAmount:             cfg.Matching.ExactAmountPoints,
		NameMatch:               cfg.Matching.NameMatchPoints,
		DateProximityMax:        cfg.Matching.DateProximityMaxPoints,
		DateProximityDecay:      cfg.Matching.DateProximityDecay,
		DateWindowDays:          cfg.Matching.DateWindowDays,
		HighConfidenceThreshold: cfg.Matching.HighConfidenceThreshold,
	})
	importService := bankingapp.NewStatementImportService(statementRepo, bankRowRepo, bankingapp.ImportOptions{
		MaxErrorSamples: cfg.Import.MaxErrorSamples,
		MaxRows:         cfg.Import.MaxRows,
	}, log)
	statementQueryService := bankingapp.NewStatementQueryService(statementRepo, bankRowRepo)
	reconciliationService := bankingapp.NewReconciliationService(
		statementRepo, bankRowRepo, openInvoiceRepo, openBillRepo,
		accountRepo, journalService, matcher, log,
	)

	// Journal generation handlers for billing lifecycle events
	invoiceSentHandler := ledgerapp.NewInvoiceSentHandler(journalService, journalRepo, accountRepo, openInvoiceRepo, log)
	eventBus.Subscribe(invoiceSentHandler)

	invoicePaidHandler := ledgerapp.NewInvoicePaidHandler(journalService, journalRepo, accountRepo, openInvoiceRepo, log)
	eventBus.Subscribe(invoicePaidHandler)

	expenseHandler := ledgerapp.NewExpenseReimbursedHandler(journalService, journalRepo, accountRepo, cfg.Features.ExpenseJournals, log)
	eventBus.Subscribe(expenseHandler)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	log.Info("Event handlers registered",
		zap.Strings("invoice_sent_events", invoiceSentHandler.EventTypes()),
		zap.Strings("invoice_paid_events", invoicePaidHandler.EventTypes()),
		zap.Strings("expense_reimbursed_events", expenseHandler.EventTypes()),
		zap.Bool("expense_journals_enabled", cfg.Features.ExpenseJournals),
	)

	// HTTP handlers
	accountHandler := handler.NewAccountHandler(accountService)
	taxRateHandler := handler.NewTaxRateHandler(taxRateService)
	periodHandler := handler.NewPeriodHandler(periodService)
	journalHandler := handler.NewJournalHandler(journalService)
	statementHandler := handler.NewStatementHandler(importService, statementQueryService)
	reconciliationHandler := handler.NewReconciliationHandler(reconciliationService)
	systemHandler := handler.NewSystemHandler(db, cfg.App.Name, cfg.App.Env)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health endpoints sit outside API versioning and tenant scoping
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.TenantMiddleware())

	ledgerRoutes := router.NewDomainGroup("/ledger")
	ledgerRoutes.POST("/accounts", accountHandler.Create)
	ledgerRoutes.GET("/accounts", accountHandler.List)
	ledgerRoutes.GET("/accounts/:id", accountHandler.GetByID)
	ledgerRoutes.PUT("/accounts/:id/name", accountHandler.Rename)
	ledgerRoutes.POST("/accounts/:id/deactivate", accountHandler.Deactivate)

	ledgerRoutes.POST("/tax-rates", taxRateHandler.Create)
	ledgerRoutes.GET("/tax-rates", taxRateHandler.List)
	ledgerRoutes.GET("/tax-rates/:id", taxRateHandler.GetByID)
	ledgerRoutes.POST("/tax-rates/:id/deactivate", taxRateHandler.Deactivate)

	ledgerRoutes.POST("/periods", periodHandler.Create)
	ledgerRoutes.GET("/periods", periodHandler.List)
	ledgerRoutes.GET("/periods/:id", periodHandler.GetByID)
	ledgerRoutes.POST("/periods/:id/close", periodHandler.Close)
	ledgerRoutes.POST("/periods/:id/lock", periodHandler.Lock)

	ledgerRoutes.POST("/journals", journalHandler.Create)
	ledgerRoutes.GET("/journals", journalHandler.List)
	ledgerRoutes.GET("/journals/:id", journalHandler.GetByID)
	ledgerRoutes.PUT("/journals/:id", journalHandler.Update)
	ledgerRoutes.DELETE("/journals/:id", journalHandler.Delete)
	ledgerRoutes.POST("/journals/:id/approve", journalHandler.Approve)
	r.Register(ledgerRoutes)

	bankingRoutes := router.NewDomainGroup("/banking")
	bankingRoutes.POST("/statements", statementHandler.Import)
	bankingRoutes.GET("/statements", statementHandler.List)
	bankingRoutes.GET("/statements/:id", statementHandler.GetByID)
	bankingRoutes.GET("/statements/:id/rows", statementHandler.Rows)
	bankingRoutes.GET("/statements/:id/candidates", reconciliationHandler.Candidates)
	bankingRoutes.POST("/matches", reconciliationHandler.ConfirmMatch)
	r.Register(bankingRoutes)

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
