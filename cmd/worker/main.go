package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mateuseller4-oss/celestial-register/internal/attendance"
	"github.com/mateuseller4-oss/celestial-register/internal/config"
	"github.com/mateuseller4-oss/celestial-register/internal/notify"
	"github.com/mateuseller4-oss/celestial-register/internal/queue"
	"github.com/mateuseller4-oss/celestial-register/internal/store"
)

// Worker delivers queued notifications out-of-band. Only useful with the
// redis queue backend; memory queues are drained in-process by the API.
func main() {
	cfg := config.Load()

	logger := newLogger(cfg.Env)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	if cfg.QueueBackend != "redis" {
		logger.Fatal("worker requires QUEUE_BACKEND=redis")
	}

	redisClient := store.NewRedis(cfg.RedisAddr)
	q := queue.NewRedisQueue(redisClient.Client, "chamada:dispatch")

	dispatcher := newDispatcher(cfg, logger)
	logger.Info("notification channel", zap.String("channel", dispatcher.Name()))

	if err := notify.RunWorker(ctx, q, dispatcher, logger); err != nil {
		logger.Fatal("worker failed", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	if env == "production" || env == "prod" {
		logger, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return logger
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return logger
}

func newDispatcher(cfg config.App, logger *zap.Logger) attendance.Dispatcher {
	switch cfg.NotifyChannel {
	case "proxy":
		return notify.NewProxy(cfg.NotifyProxyURL, cfg.DispatchTimeout, logger)
	case "deeplink":
		return notify.NewDeepLink(cfg.DeepLinkBaseURL)
	default:
		return notify.NewEmail(notify.EmailConfig{
			BaseURL: cfg.EmailAPIBaseURL,
			APIKey:  cfg.EmailAPIKey,
			From:    cfg.EmailFrom,
			To:      cfg.EmailTo,
			Timeout: cfg.DispatchTimeout,
		}, logger)
	}
}
