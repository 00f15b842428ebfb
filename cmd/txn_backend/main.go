package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"

	"github.com/dachury1/wallet-project/internal/core/services"
	"github.com/dachury1/wallet-project/internal/gateways/ledger"
	"github.com/dachury1/wallet-project/internal/handlers"
	"github.com/dachury1/wallet-project/internal/middleware"
	"github.com/dachury1/wallet-project/internal/repositories/database/pgsql"
	"github.com/dachury1/wallet-project/pkg/config"
	"github.com/dachury1/wallet-project/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	portsgw "github.com/dachury1/wallet-project/internal/core/ports/gateways"
	limiter "github.com/ulule/limiter/v3"
	limiterstore "github.com/ulule/limiter/v3/drivers/store/memory"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database connection pool for application use
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wallet ledger collaborator. The fake ledger keeps local development
	// working without a running wallet service.
	var ledgerClient portsgw.LedgerClient
	if cfg.UseFakeLedger {
		logger.Warn("Using in-memory fake ledger; movements are not durable")
		fake := ledger.NewFakeLedgerClient()
		fake.SeedWallet("00000000-0000-0000-0000-000000000001", decimal.NewFromInt(1000))
		ledgerClient = fake
	} else {
		ledgerClient = ledger.NewHTTPLedgerClient(cfg.WalletServiceURL, &http.Client{Timeout: cfg.LedgerRPCTimeout})
	}
	walletGateway := ledger.NewGateway(ledgerClient)

	txnRepo := pgsql.NewTransactionRepository(dbPool)
	txnService := services.NewTransactionService(txnRepo, walletGateway)

	// Recovery sweep: one goroutine, independent of the request pool. This
	// service assumes a single instance; a second sweeper would duplicate work.
	recoveryService := services.NewRecoveryService(txnRepo, walletGateway, logger, cfg.RecoveryThreshold, cfg.RecoveryBatchSize)
	recoveryCtx, stopRecovery := context.WithCancel(context.Background())
	defer stopRecovery()
	go services.RunRecoveryLoop(recoveryCtx, recoveryService, cfg.RecoveryInterval, logger)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogging(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	r.GET("/health", handlers.GetHealth)

	limiterInstance := limiter.New(limiterstore.NewStore(), limiter.Rate{
		Period: cfg.RateLimitPeriod,
		Limit:  cfg.RateLimitRequests,
	})

	v1 := r.Group("/api/v1")
	handlers.RegisterTransactionRoutes(v1, txnService, limiterInstance)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations over a temporary
// database/sql connection using the pgx stdlib driver.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
