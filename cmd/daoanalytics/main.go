package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/say-dao/dao-analytics/internal/app"
	"github.com/say-dao/dao-analytics/internal/family"
	familyhttp "github.com/say-dao/dao-analytics/internal/family/http"
	"github.com/say-dao/dao-analytics/internal/needs"
	needhttp "github.com/say-dao/dao-analytics/internal/needs/http"
	"github.com/say-dao/dao-analytics/internal/network"
	networkhttp "github.com/say-dao/dao-analytics/internal/network/http"
	"github.com/say-dao/dao-analytics/internal/observability"
	"github.com/say-dao/dao-analytics/internal/payments"
	paymenthttp "github.com/say-dao/dao-analytics/internal/payments/http"
	"github.com/say-dao/dao-analytics/internal/platform/cache"
	"github.com/say-dao/dao-analytics/internal/platform/db"
	"github.com/say-dao/dao-analytics/internal/report"
	reporthttp "github.com/say-dao/dao-analytics/internal/report/http"
	"github.com/say-dao/dao-analytics/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

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

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("connect job queue", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	anchor := report.Anchor{Month: time.Month(cfg.SeasonAnchorMonth), Day: cfg.SeasonAnchorDay}
	reportCache := report.NewCache(redisClient, cfg.CacheTTL)
	reportRepo := report.NewRepository(dbpool)
	reportService := report.NewService(reportRepo, reportCache, logger, anchor)
	reportHandler := reporthttp.NewHandler(logger, reportService, reportCache, jobClient, cfg.AdminToken)

	go func() {
		if err := reportCache.ListenForInvalidation(ctx, ""); err != nil && ctx.Err() == nil {
			logger.Warn("cache invalidation listener", slog.Any("error", err))
		}
	}()

	needsRepo := needs.NewRepository(dbpool)
	needsService := needs.NewService(needsRepo, logger)
	needsHandler := needhttp.NewHandler(logger, needsService)

	paymentsRepo := payments.NewRepository(dbpool)
	paymentsService := payments.NewService(paymentsRepo, logger, cfg.OrgUserID)
	paymentsHandler := paymenthttp.NewHandler(logger, paymentsService)

	graphConfig := network.DefaultConfig()
	graphConfig.ChildDistance = cfg.GraphChildDistance
	graphConfig.MemberDistance = cfg.GraphMemberDistance
	networkRepo := network.NewRepository(dbpool)
	networkService := network.NewService(networkRepo, logger, graphConfig)
	networkHandler := networkhttp.NewHandler(logger, networkService)

	familyRepo := family.NewRepository(dbpool)
	familyService := family.NewService(familyRepo, logger)
	familyHandler := familyhttp.NewHandler(logger, familyService)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		ReportHandler:   reportHandler,
		NeedsHandler:    needsHandler,
		PaymentsHandler: paymentsHandler,
		NetworkHandler:  networkHandler,
		FamilyHandler:   familyHandler,
		JobsHandler:     jobsHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
