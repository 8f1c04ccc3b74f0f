package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-campus/config"
	"github.com/oksasatya/go-ddd-campus/internal/application"
	"github.com/oksasatya/go-ddd-campus/internal/infrastructure/persistence"
	"github.com/oksasatya/go-ddd-campus/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	store       *persistence.Store
	redisClient *redis.Client
	gcsClient   *storage.Client

	rabbitPub *helpers.RabbitPublisher
	esClient  *elasticsearch.Client
	completer application.Completer
)

func SetConfig(c *config.Config)           { cfg = c }
func GetConfig() *config.Config            { return cfg }
func SetLogger(l *logrus.Logger)           { logger = l }
func GetLogger() *logrus.Logger            { return logger }
func SetStore(s *persistence.Store)        { store = s }
func GetStore() *persistence.Store         { return store }
func SetRedis(r *redis.Client)             { redisClient = r }
func GetRedis() *redis.Client              { return redisClient }
func SetGCS(s *storage.Client)             { gcsClient = s }
func GetGCS() *storage.Client              { return gcsClient }
func SetES(c *elasticsearch.Client)        { esClient = c }
func GetES() *elasticsearch.Client         { return esClient }
func SetCompleter(c application.Completer) { completer = c }
func GetCompleter() application.Completer  { return completer }

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }

// GetJobPublisher returns the rabbit publisher, or nil when none is set so
// services skip publishing.
func GetJobPublisher() application.JobPublisher {
	if rabbitPub == nil {
		return nil
	}
	return rabbitPub
}
