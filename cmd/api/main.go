package main

import (
	"context"
	"database/sql"
	"flag"
	"net/http"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/A25-CS046/back-end/api"
	"github.com/A25-CS046/back-end/config"
	"github.com/A25-CS046/back-end/metrics"
	"github.com/A25-CS046/back-end/recommend"
	"github.com/A25-CS046/back-end/store"
	"github.com/A25-CS046/back-end/telemetry"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config file")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to open postgres connection", zap.Error(err))
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("failed to ping postgres", zap.Error(err))
	}
	logger.Info("connected to postgres")

	storeMetrics := metrics.NewStoreMetrics(prometheus.DefaultRegisterer)
	thresholds := telemetry.Thresholds{
		WarningRUL:  cfg.Thresholds.WarningRUL,
		CriticalRUL: cfg.Thresholds.CriticalRUL,
	}
	st := store.NewPostgres(db, thresholds, storeMetrics)
	rec := recommend.NewClient(cfg.ML.BaseURL, cfg.ML.Timeout())
	srv := api.NewServer(st, rec, logger)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info("starting metrics endpoint", zap.String("addr", cfg.Metrics.Addr))
		if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
			logger.Error("metrics server exited", zap.Error(err))
		}
	}()

	logger.Info("starting HTTP API", zap.String("addr", cfg.HTTP.Addr))
	if err := http.ListenAndServe(cfg.HTTP.Addr, srv); err != nil {
		logger.Fatal("http server exited", zap.Error(err))
	}
}
