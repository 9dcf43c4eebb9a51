package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"school-attendance/config"
	"school-attendance/internal/repository"
	"school-attendance/internal/service"
	"school-attendance/pkg/database"
	"school-attendance/pkg/jwt"
	applogger "school-attendance/pkg/logger"
	"school-attendance/pkg/mongo"
)

func main() {
	cfg, err := config.Load(os.Getenv("SCHOOL_CONFIG"))
	errAndDie(err)

	logger, err := applogger.NewLogger(&cfg.Log)
	errAndDie(err)
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// same store selection as the server, without Redis: the CLI is
	// expected to run while the service is stopped or idle
	opts := repository.Options{DataDir: cfg.Storage.DataDir, Logger: logger, Locker: repository.NewLocalLocker(cfg.Storage.LockWait)}
	switch cfg.Storage.Primary {
	case config.PrimaryMongo:
		if mc, err := mongo.NewClient(&cfg.Mongo, logger); err != nil {
			logger.Warn("mongo unavailable, using JSON files only", zap.Error(err))
		} else {
			defer mc.Close(context.Background())
			opts.Mongo = mc.DB
		}
	case config.PrimaryPostgres:
		if db, err := database.NewDB(&cfg.Database, logger); err != nil {
			logger.Warn("postgres unavailable, using JSON files only", zap.Error(err))
		} else {
			opts.DB = db
		}
	}

	repo := repository.NewRepository(opts)
	cli := commandLine{
		users:  service.NewUserService(repo, nil, logger),
		tokens: jwt.NewManager(&cfg.Auth),
		out:    os.Stdout,
	}
	if err := cli.run(ctx, os.Args); err != nil {
		if err != errHelp && err != flag.ErrHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
