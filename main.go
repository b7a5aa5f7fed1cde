package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finzo/config"
	"finzo/cron"
	"finzo/database"
	notificationRepo "finzo/database/repository/notification"
	transactionRepo "finzo/database/repository/transaction"
	"finzo/handlers"
	"finzo/middleware"
	"finzo/routes"
	"finzo/services/audit"
	"finzo/services/notification"
	"finzo/services/transaction"
	"finzo/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// stores bundles the repositories for the configured backend.
type stores struct {
	notifications notificationRepo.NotificationRepository
	transactions  transactionRepo.TransactionRepository
	pingers       map[string]utils.Pinger
	close         func(ctx context.Context) error
}

func openStores(ctx context.Context, logger *zap.Logger) (*stores, error) {
	switch backend := config.AppConfig.StoreBackend; backend {
	case config.BackendMemory, "":
		logger.Warn("using in-memory store; data is lost on restart")
		return &stores{
			notifications: notificationRepo.NewMemoryNotificationRepo(),
			transactions:  transactionRepo.NewMemoryTransactionRepo(),
			pingers:       map[string]utils.Pinger{},
			close:         func(context.Context) error { return nil },
		}, nil

	case config.BackendSQLite:
		db, err := database.OpenSQLite(config.AppConfig.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("using sqlite store", zap.String("path", config.AppConfig.SQLitePath))
		return &stores{
			notifications: notificationRepo.NewSQLiteNotificationRepo(db),
			transactions:  transactionRepo.NewSQLiteTransactionRepo(db),
			pingers:       map[string]utils.Pinger{"sqlite": database.SQLitePinger{DB: db}},
			close:         func(context.Context) error { return db.Close() },
		}, nil

	case config.BackendMongo:
		db, err := database.InitDB()
		if err != nil {
			return nil, err
		}
		if err := notificationRepo.EnsureIndexes(ctx, db); err != nil {
			return nil, fmt.Errorf("notification indexes: %w", err)
		}
		if err := transactionRepo.EnsureIndexes(ctx, db); err != nil {
			return nil, fmt.Errorf("transaction indexes: %w", err)
		}
		logger.Info("using mongo store", zap.String("database", config.AppConfig.DatabaseName))
		return &stores{
			notifications: notificationRepo.NewMongoNotificationRepo(db),
			transactions:  transactionRepo.NewMongoTransactionRepo(db),
			pingers:       map[string]utils.Pinger{"mongo": database.MongoPinger{Client: database.MongoClient}},
			close:         database.CloseDB,
		}, nil

	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", backend)
	}
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	appCtx, stop := context.WithCancel(context.Background())
	defer stop()

	st, err := openStores(appCtx, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to open store: %v", err)
	}

	// Optional notification list cache.
	var listCache notification.ListCache
	if config.AppConfig.NotificationCacheEnabled {
		if err := utils.InitCache(); err != nil {
			logger.Warn("main: notification cache disabled", zap.Error(err))
		} else {
			client := utils.GetCacheClient()
			listCache = notification.NewRedisListCache(client, utils.NotificationCacheKey, config.AppConfig.NotificationCacheTTL)
			st.pingers["redis"] = utils.RedisPinger{Client: client}
		}
	}

	notificationService, err := notification.NewDefaultNotificationService(st.notifications, listCache, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	// Emission strategy.
	var (
		emitter notification.Emitter
		worker  *cron.NotificationWorker
		queue   *asynq.Client
	)
	switch config.AppConfig.NotificationEmitter {
	case config.EmitterQueue:
		redisOpt := utils.QueueRedisOpt()
		queue = asynq.NewClient(redisOpt)
		emitter = notification.NewQueueEmitter(queue, logger)

		worker = cron.NewNotificationWorker(redisOpt, notificationService, logger)
		worker.Start()

		queueRedis := redis.NewClient(&redis.Options{Addr: redisOpt.Addr, Password: redisOpt.Password, DB: redisOpt.DB})
		defer queueRedis.Close()
		st.pingers["queue"] = utils.RedisPinger{Client: queueRedis}
		go cron.MonitorRedisConnection(appCtx, queueRedis, logger)
		logger.Info("notifications are emitted through the queue")
	default:
		emitter = notification.NewInlineEmitter(notificationService, logger)
	}

	transactionService, err := transaction.NewDefaultTransactionService(st.transactions, emitter, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	resolver := audit.NewResolver(notificationService, transactionService, logger)

	utils.StartHealthMonitor(appCtx, st.pingers, 30*time.Second)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewNotificationHandler(notificationService, resolver),
		handlers.NewTransactionHandler(transactionService),
		[]byte(config.AppConfig.JWTSecret),
	)
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	stop()
	if worker != nil {
		worker.Shutdown()
	}
	if queue != nil {
		if err := queue.Close(); err != nil {
			logger.Warn("main: closing queue client", zap.Error(err))
		}
	}
	if err := st.close(ctx); err != nil {
		logger.Warn("main: closing store", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
