package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/say-dao/dao-analytics/internal/app"
	jobmetrics "github.com/say-dao/dao-analytics/internal/jobs"
	"github.com/say-dao/dao-analytics/internal/platform/cache"
	"github.com/say-dao/dao-analytics/internal/platform/db"
	"github.com/say-dao/dao-analytics/internal/report"
	"github.com/say-dao/dao-analytics/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	anchor := report.Anchor{Month: time.Month(cfg.SeasonAnchorMonth), Day: cfg.SeasonAnchorDay}
	reportCache := report.NewCache(redisClient, cfg.CacheTTL)
	reportRepo := report.NewRepository(pool)
	reportService := report.NewService(reportRepo, reportCache, logger, anchor)

	// Keep the worker's cache version in step with admin bumps.
	go func() {
		if err := reportCache.ListenForInvalidation(ctx, ""); err != nil && ctx.Err() == nil {
			logger.Warn("cache invalidation listener", slog.Any("error", err))
		}
	}()

	metrics := jobmetrics.NewMetrics(nil)
	warmupJob := jobs.NewReportWarmupJob(reportService, logger, metrics)

	warmupTask, err := jobs.NewReportWarmupTask(jobs.ReportWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReportWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "@every 6h", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
