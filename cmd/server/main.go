package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"school-attendance/config"
	"school-attendance/internal/api/handler"
	"school-attendance/internal/api/router"
	"school-attendance/internal/event"
	"school-attendance/internal/repository"
	"school-attendance/internal/service"
	"school-attendance/pkg/database"
	"school-attendance/pkg/jwt"
	applogger "school-attendance/pkg/logger"
	"school-attendance/pkg/mongo"
	"school-attendance/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ./config/config.yaml)")
	flag.Parse()

	// 1. load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("storage_primary", cfg.Storage.Primary),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. primary store; on failure the JSON files carry everything
	opts := repository.Options{DataDir: cfg.Storage.DataDir, Logger: logger}
	closeStore := func() {}
	switch cfg.Storage.Primary {
	case config.PrimaryMongo:
		mc, err := mongo.NewClient(&cfg.Mongo, logger)
		if err != nil {
			logger.Warn("mongo unavailable, using JSON files only", zap.Error(err))
			break
		}
		opts.Mongo = mc.DB
		closeStore = func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mc.Close(ctx)
		}
	case config.PrimaryPostgres:
		db, err := openPostgres(cfg, logger)
		if err != nil {
			logger.Warn("postgres unavailable, using JSON files only", zap.Error(err))
			break
		}
		opts.DB = db
		closeStore = func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
	}
	defer closeStore()

	// 4. Redis (optional: locks, event relay, rate limit, token blacklist)
	var (
		relay   event.Relay
		guards  router.Guards
		revoker handler.TokenRevoker
	)
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, running single-instance", zap.Error(err))
		opts.Locker = repository.NewLocalLocker(cfg.Storage.LockWait)
	} else {
		defer rdb.Close()
		opts.Locker = repository.NewRedisLocker(rdb, cfg.Storage.LockTTL, cfg.Storage.LockWait, logger)
		relay = rdb
		guards = router.Guards{Tokens: rdb, Limiter: rdb}
		revoker = rdb
	}

	// 5. events
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	broker := event.NewBroker(relay, cfg.Server.EventBacklog, logger)
	go func() {
		if err := broker.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("event relay stopped", zap.Error(err))
		}
	}()

	// 6. Repository → Service → Handler
	repo := repository.NewRepository(opts)
	svc := service.NewService(cfg, repo, broker, logger)
	h := handler.NewHandler(svc, broker, revoker, cfg.Server.CORS.AllowOrigins, logger)

	// 7. router
	jwtMgr := jwt.NewManager(&cfg.Auth)
	engine, err := router.Setup(cfg, h, jwtMgr, guards, logger)
	if err != nil {
		logger.Fatal("router setup failed", zap.Error(err))
	}

	// 8. HTTP server with graceful shutdown. No WriteTimeout: the event
	// websocket is long-lived.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 9. wait for a signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped")
}

// openPostgres connects and applies migrations
func openPostgres(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
