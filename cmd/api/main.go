package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mateuseller4-oss/celestial-register/internal/attendance"
	"github.com/mateuseller4-oss/celestial-register/internal/config"
	"github.com/mateuseller4-oss/celestial-register/internal/geocode"
	"github.com/mateuseller4-oss/celestial-register/internal/handler"
	"github.com/mateuseller4-oss/celestial-register/internal/httpmiddleware"
	"github.com/mateuseller4-oss/celestial-register/internal/notify"
	"github.com/mateuseller4-oss/celestial-register/internal/queue"
	"github.com/mateuseller4-oss/celestial-register/internal/roster"
	"github.com/mateuseller4-oss/celestial-register/internal/session"
	"github.com/mateuseller4-oss/celestial-register/internal/store"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.Env)
	defer func() { _ = logger.Sync() }()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg, logger); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
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

func runHTTP(cfg config.App, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessions := session.NewManager(cfg.SessionSigningKey, cfg.SessionIssuer, cfg.SessionTTL)

	var redisClient *store.Redis
	if cfg.RosterBackend == "redis" || (cfg.DispatchMode == "queue" && cfg.QueueBackend == "redis") {
		redisClient = store.NewRedis(cfg.RedisAddr)
	}

	var rosterStore attendance.Roster
	if cfg.RosterBackend == "redis" {
		rosterStore = roster.NewRedis(redisClient.Client, sessions.TTL())
		logger.Info("roster backend: redis", zap.String("addr", cfg.RedisAddr))
	} else {
		mem := roster.NewMemory(sessions.TTL())
		mem.Start(ctx)
		rosterStore = mem
		logger.Info("roster backend: memory")
	}

	var gate *attendance.Gate
	if cfg.GeofenceEnabled {
		if cfg.AllowedPostalCode == "" {
			logger.Warn("geofence enabled without ALLOWED_POSTAL_CODE; gate disabled")
		} else {
			geocoder := geocode.New(cfg.GeocodeBaseURL, cfg.GeocodeTimeout)
			gate = attendance.NewGate(geocoder, cfg.AllowedPostalCode, cfg.GeocodeTimeout, logger)
			logger.Info("location gate enabled",
				zap.String("allowed_code", attendance.NormalizePostalCode(cfg.AllowedPostalCode)))
		}
	}

	dispatcher := newDispatcher(cfg, logger)
	logger.Info("notification channel", zap.String("channel", dispatcher.Name()))

	var enqueuer attendance.Enqueuer
	if cfg.DispatchMode == "queue" {
		if cfg.QueueBackend == "redis" {
			enqueuer = queue.NewRedisQueue(redisClient.Client, "chamada:dispatch")
			logger.Info("dispatch mode: queue (redis); run cmd/worker for delivery")
		} else {
			q := queue.NewInMemory(64)
			enqueuer = q
			// Memory queues have no external worker; deliver in-process.
			go func() {
				if err := notify.RunWorker(ctx, q, dispatcher, logger); err != nil {
					logger.Error("in-process dispatch worker failed", zap.Error(err))
				}
			}()
			logger.Info("dispatch mode: queue (memory, in-process worker)")
		}
	}

	svc := attendance.NewService(rosterStore, gate, dispatcher, enqueuer, logger)
	h := handler.New(svc, sessions, redisClient, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(httpmiddleware.CORS())
	r.Use(httpmiddleware.SecurityHeaders())
	limiter := httpmiddleware.NewIPRateLimiter(cfg.RateLimitPerMin)
	limiter.Start(ctx, time.Hour)
	r.Use(limiter.GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", h.Healthz)
	r.GET("/v1/catalog", h.Catalog)
	r.POST("/v1/sessions", h.CreateSession)

	authed := r.Group("/v1", sessions.Middleware())
	authed.POST("/attendance", h.Submit)
	authed.GET("/attendance", h.List)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")
	cancel()

	// Give outstanding requests 10 seconds to complete.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server forced shutdown", zap.Error(err))
	}

	logger.Info("server exited")
	return nil
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
