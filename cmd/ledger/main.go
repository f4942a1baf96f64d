package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eaglebank/ledger-service/internal/cache"
	"github.com/eaglebank/ledger-service/internal/command"
	"github.com/eaglebank/ledger-service/internal/config"
	"github.com/eaglebank/ledger-service/internal/events"
	"github.com/eaglebank/ledger-service/internal/gateway"
	"github.com/eaglebank/ledger-service/internal/handler"
	"github.com/eaglebank/ledger-service/internal/metrics"
	"github.com/eaglebank/ledger-service/internal/middleware"
	"github.com/eaglebank/ledger-service/internal/query"
	"github.com/eaglebank/ledger-service/internal/repository"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := setupLogger(cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Error("Ledger service stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}

func setupLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func run(cfg *config.Config, logger *slog.Logger) error {
	// Ledger store (Postgres in production, SQLite for local runs)
	db, dialect, err := repository.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.EnsureSchema(context.Background(), db, dialect, repository.SchemaOptions{
		UniqueOwner: cfg.SingleAccountPerOwner,
	}); err != nil {
		return err
	}

	// Redis (read cache + event stream)
	var rdb *goredis.Client
	if cfg.UsesRedis() {
		rdb, err = cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
	}

	var store cache.Store = cache.NewMemoryStore(nil)
	if cfg.CacheBackend == config.CacheRedis {
		store = cache.NewRedisStore(rdb)
	}

	var publisher command.EventPublisher = events.Discard{}
	if cfg.EventsEnabled {
		publisher = events.NewPublisher(rdb)
	}

	// --- CQRS wiring ---
	collector := metrics.NewCollector()
	paymentGateway := gateway.NewMockGateway(cfg.GatewayDelay, logger)

	commandSvc, err := command.NewAccountCommandService(command.Dependencies{
		Store:       repository.NewAccountWriteRepository(db, dialect),
		Invalidator: cache.NewInvalidator(store, logger, collector),
		Publisher:   publisher,
		Gateway:     paymentGateway,
		Verifier:    paymentGateway,
		Recorder:    collector,
		Logger:      logger,
	}, command.Options{
		SingleAccountPerOwner: cfg.SingleAccountPerOwner,
		VerifyWithdrawals:     cfg.VerifyWithdrawals,
		VerifyDeposits:        cfg.VerifyDeposits,
	})
	if err != nil {
		return err
	}
	querySvc := query.NewAccountQueryService(
		repository.NewAccountReadRepository(db, dialect),
		store,
		query.Config{AccountTTL: cfg.AccountCacheTTL, HistoryTTL: cfg.HistoryCacheTTL},
		logger,
		collector,
	)

	router := newRouter(
		handler.NewAccountHandler(commandSvc, querySvc),
		handler.NewTransactionHandler(commandSvc),
		collector,
		[]byte(cfg.JWTSecret),
		logger,
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Ledger service starting", slog.String("addr", server.Addr), slog.String("database", dialect.Name))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-stop:
		logger.Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

func newRouter(
	accounts *handler.AccountHandler,
	transactions *handler.TransactionHandler,
	collector *metrics.Collector,
	jwtSecret []byte,
	logger *slog.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.LoggingMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(collector.Handler()))

	v1 := router.Group("/v1", middleware.AuthMiddleware(jwtSecret))
	{
		v1.POST("/accounts", accounts.CreateAccount)
		v1.GET("/accounts", accounts.ListAccounts)
		v1.GET("/accounts/:accountId", accounts.GetAccount)
		v1.GET("/accounts/:accountId/transactions", accounts.GetTransactionHistory)
		v1.GET("/account-numbers/:accountNumber", accounts.GetAccountByNumber)

		v1.POST("/transactions/deposit", transactions.Deposit)
		v1.POST("/transactions/withdraw", transactions.Withdraw)
		v1.POST("/transactions/transfer", transactions.Transfer)
	}

	return router
}
