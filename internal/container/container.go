package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/profolio/config"
	"github.com/oksasatya/profolio/pkg/helpers"
	"github.com/oksasatya/profolio/pkg/mailer"
)

// app-level container to share constructed components across packages
// Router modules and the seed command build their services from these.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	mongoDB     *mongo.Database
	redisClient *redis.Client
	gcsClient   *storage.Client

	jwtManager *helpers.JWTManager

	mailSender mailer.Sender
	esClient   *elasticsearch.Client
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetMongo(db *mongo.Database)  { mongoDB = db }
func GetMongo() *mongo.Database    { return mongoDB }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetGCS(s *storage.Client)     { gcsClient = s }
func GetGCS() *storage.Client      { return gcsClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }

// GetJWT falls back to a manager built from the loaded config.
func GetJWT() *helpers.JWTManager {
	if jwtManager == nil && cfg != nil {
		jwtManager = helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)
	}
	return jwtManager
}

func GetLogger() *logrus.Logger {
	if logger == nil {
		return logrus.StandardLogger()
	}
	return logger
}

func SetMailSender(s mailer.Sender)  { mailSender = s }
func SetES(c *elasticsearch.Client)  { esClient = c }
func GetES() *elasticsearch.Client   { return esClient }

// GetMailSender returns the configured sender, or one that only logs.
func GetMailSender() mailer.Sender {
	if mailSender != nil {
		return mailSender
	}
	return mailer.NoopSender{Logger: GetLogger()}
}

// GetLocker returns a Redis lock when Redis is configured and an in-process
// one otherwise.
func GetLocker() helpers.Locker {
	if redisClient == nil {
		return helpers.NewLocalLocker()
	}
	ttl := defaultLockTTL
	if cfg != nil && cfg.LockTTL > 0 {
		ttl = cfg.LockTTL
	}
	return helpers.NewRedisLocker(redisClient, ttl)
}
