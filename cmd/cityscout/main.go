package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cityscout/internal/config"
	"github.com/kailas-cloud/cityscout/internal/db"
	"github.com/kailas-cloud/cityscout/internal/db/memory"
	dbRedis "github.com/kailas-cloud/cityscout/internal/db/redis"
	logpkg "github.com/kailas-cloud/cityscout/internal/logger"
	"github.com/kailas-cloud/cityscout/internal/metrics"
	"github.com/kailas-cloud/cityscout/internal/repository/dataset"
	sessionrepo "github.com/kailas-cloud/cityscout/internal/repository/session"
	chiTransport "github.com/kailas-cloud/cityscout/internal/transport/chi"
	clusteruc "github.com/kailas-cloud/cityscout/internal/usecase/cluster"
	exploreuc "github.com/kailas-cloud/cityscout/internal/usecase/explore"
	healthuc "github.com/kailas-cloud/cityscout/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/cityscout/internal/usecase/recommend"
	reduceuc "github.com/kailas-cloud/cityscout/internal/usecase/reduce"
	scoreuc "github.com/kailas-cloud/cityscout/internal/usecase/score"
	sessionuc "github.com/kailas-cloud/cityscout/internal/usecase/session"
	similaruc "github.com/kailas-cloud/cityscout/internal/usecase/similar"
	"github.com/kailas-cloud/cityscout/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting cityscout API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("dataset", cfg.Dataset.Path),
		zap.String("session_driver", cfg.Session.Driver),
	)

	ctx := logpkg.ContextWithLogger(context.Background(), logger)

	table, err := dataset.LoadFile(ctx, cfg.Dataset.Path)
	if err != nil {
		logger.Fatal("Failed to load dataset", zap.Error(err))
	}
	provider := dataset.NewProvider(table)

	store, err := newStore(ctx, cfg.Session)
	if err != nil {
		logger.Fatal("Failed to create session store", zap.Error(err))
	}
	defer store.Close()

	metrics.RegisterAnalysisMetrics()

	analysis := cfg.Analysis.Domain()
	clusterSvc := clusteruc.New(analysis)
	similarSvc := similaruc.New()
	sessions := sessionuc.New(sessionrepo.New(store, cfg.Session.KeyPrefix), cfg.Session.TTL())

	server := chiTransport.NewServer(chiTransport.Services{
		Dataset:   provider,
		Reduce:    reduceuc.New(analysis.VarianceThreshold),
		Cluster:   clusterSvc,
		Similar:   similarSvc,
		Recommend: recommenduc.New(scoreuc.New(), similarSvc, clusterSvc),
		Explore:   exploreuc.New(),
		Sessions:  sessions,
		Health:    healthuc.New(store, provider),
	}, chiTransport.Limits{DefaultTopN: analysis.DefaultTopN, MaxTopN: analysis.MaxTopN})

	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		APIKeys:         cfg.Auth.APIKeys,
		RateLimitPerMin: cfg.HTTP.RateLimitPerMin,
		CORSOrigins:     cfg.HTTP.CORSAllowOrigins,
		Logger:          logger,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

wait:
	for {
		select {
		case <-reload:
			// The previous table keeps serving when the new file is unusable.
			t, err := dataset.LoadFile(ctx, cfg.Dataset.Path)
			if err != nil {
				logger.Error("Dataset reload failed", zap.Error(err))
				continue
			}
			provider.Set(t)
			logger.Info("Dataset reloaded", zap.Int("rows", t.Len()))
		case <-quit:
			break wait
		}
	}
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// newStore opens the session store for the configured driver. Redis and
// Valkey share the rueidis client.
func newStore(ctx context.Context, cfg config.SessionConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		return memory.New(), nil
	case config.DriverRedis, config.DriverValkey:
		s, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.Addrs, Password: cfg.Password})
		if err != nil {
			return nil, err
		}
		if err := s.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
			s.Close()
			return nil, err
		}
		logpkg.FromContext(ctx).Info("Connected to session store", zap.Strings("addrs", cfg.Addrs))
		return s, nil
	default:
		return nil, fmt.Errorf("unknown session driver %q", cfg.Driver)
	}
}
