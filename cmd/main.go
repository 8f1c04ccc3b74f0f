package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-campus/config"
	"github.com/oksasatya/go-ddd-campus/internal/container"
	"github.com/oksasatya/go-ddd-campus/internal/infrastructure/openai"
	"github.com/oksasatya/go-ddd-campus/internal/infrastructure/persistence"
	"github.com/oksasatya/go-ddd-campus/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-campus/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-campus/internal/router"
	"github.com/oksasatya/go-ddd-campus/pkg/helpers"
	"github.com/oksasatya/go-ddd-campus/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-"+cfg.ServiceName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	db, err := container.OpenDatabase(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open %s database: %v", cfg.DBDriver, err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := db.Migrate(logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetStore(persistence.NewStore(db.DB, logger))

	closers := initOptional(ctx, cfg, logger)
	defer func() {
		for _, c := range closers {
			c()
		}
	}()

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.WithFields(logrus.Fields{"service": cfg.ServiceName, "driver": cfg.DBDriver}).Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// initOptional connects the side services that are configured. A failure
// is logged and the feature stays off.
func initOptional(ctx context.Context, cfg *config.Config, logger *logrus.Logger) []func() {
	var closers []func()

	if cfg.Serves(config.ServiceIdentity) && cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Warn("gcs disabled")
		} else {
			container.SetGCS(gcsClient)
			closers = append(closers, func() { _ = gcsClient.Close() })
		}
	}

	if cfg.Serves(config.ServiceIdentity) && len(cfg.ESAddrs()) > 0 {
		es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch disabled")
		} else {
			c, cancel := context.WithTimeout(ctx, 5*time.Second)
			if err := search.NewUserIndex(es, cfg.ESUsersIndex).EnsureIndex(c); err != nil {
				logger.WithError(err).WithField("index", cfg.ESUsersIndex).Warn("ensure index failed")
			}
			cancel()
			container.SetES(es)
		}
	}

	if cfg.MailSendEnabled && cfg.RabbitMQURL != "" && (cfg.Serves(config.ServiceIdentity) || cfg.Serves(config.ServiceCourse)) {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq disabled; emails will not be queued")
		} else {
			container.SetRabbitPub(pub)
			closers = append(closers, pub.Close)
		}
	}

	if cfg.Serves(config.ServiceChatbot) && cfg.OpenAIAPIKey != "" {
		container.SetCompleter(openai.NewCompleter(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel))
	}

	return closers
}
