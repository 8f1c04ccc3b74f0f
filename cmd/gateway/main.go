package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-campus/config"
	"github.com/oksasatya/go-ddd-campus/internal/container"
	"github.com/oksasatya/go-ddd-campus/internal/gateway"
	"github.com/oksasatya/go-ddd-campus/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-campus/pkg/helpers"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-gateway", cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	upstreams, err := gateway.ParseUpstreams(cfg.GatewayUpstreams)
	if err != nil {
		log.Fatalf("GATEWAY_UPSTREAMS: %v", err)
	}

	container.SetConfig(cfg)
	container.SetLogger(logger)
	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		container.SetRedis(rdb)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := gateway.NewMetrics()
	monitor := gateway.NewMonitor(upstreams, gateway.MonitorOptions{
		Timeout: cfg.HealthTimeout,
		Redis:   container.GetRedis(),
		TTL:     cfg.HealthKeyTTL,
		Metrics: metrics,
		Logger:  logger,
	})
	if err := monitor.Restore(ctx); err != nil {
		logger.WithError(err).Warn("restore health snapshot failed")
	}
	if err := monitor.Start(ctx, cfg.HealthSchedule); err != nil {
		log.Fatalf("health monitor: %v", err)
	}
	defer monitor.Stop()

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: 32,
		IdleConnTimeout:     90 * time.Second,
	}
	proxy := gateway.NewProxy(upstreams, transport, metrics, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: len(cfg.CORSOrigins()) == 0,
		AllowOrigins:    cfg.CORSOrigins(),
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:   []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:          12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}
	gateway.Register(r, monitor, proxy, metrics)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("gateway starting on :%s with %d upstreams", cfg.Port, len(upstreams))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down gateway")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("gateway forced to shutdown: %v", err)
	}
}
