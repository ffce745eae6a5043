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
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/profolio/config"
	"github.com/oksasatya/profolio/internal/container"
	"github.com/oksasatya/profolio/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/profolio/internal/infrastructure/postgres"
	"github.com/oksasatya/profolio/internal/interface/middleware"
	"github.com/oksasatya/profolio/internal/router"
	"github.com/oksasatya/profolio/pkg/helpers"
	"github.com/oksasatya/profolio/pkg/mailer"
	"github.com/oksasatya/profolio/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	container.SetConfig(cfg)
	container.SetLogger(logger)

	if cfg.StoreDriver == config.StoreMongo {
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.AppName, cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		container.SetPGPool(pool)

		mc, err := mongodb.Connect(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatalf("failed to connect to mongo: %v", err)
		}
		defer func() { _ = mc.Disconnect(context.Background()) }()
		db := mc.Database(cfg.MongoDB)
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			log.Fatalf("failed to create mongo indexes: %v", err)
		}
		container.SetMongo(db)
	} else {
		logger.Warn("STORE_DRIVER=memory; data is lost on restart")
	}

	// Redis backs sessions, locks, rate limits and the theme cache.
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := rdb.Ping(ctx).Err(); err != nil {
		if cfg.StoreDriver == config.StoreMongo {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		logger.WithError(err).Warn("redis unavailable; using in-process locks and no sessions store")
		_ = rdb.Close()
		rdb = nil
	} else {
		defer func() { _ = rdb.Close() }()
		container.SetRedis(rdb)
	}

	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		container.SetGCS(gcsClient)
	}

	if cfg.ElasticsearchEnabled {
		es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			log.Fatalf("failed to init elasticsearch client: %v", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := helpers.PingES(pingCtx, es); err != nil {
			logger.WithError(err).Warn("elasticsearch unreachable; portfolio search disabled")
		} else {
			container.SetES(es)
		}
		cancel()
	}

	if pub := setupMail(cfg, logger); pub != nil {
		defer pub.Close()
	}

	container.SetJWT(helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL))

	r := newEngine(cfg, rdb)
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.WithField("store", cfg.StoreDriver).Infof("server starting on :%s", cfg.Port)
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
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

func newEngine(cfg *config.Config, rdb *redis.Client) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RealIP())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}
	// generous global ceiling; routes add tighter limits
	r.Use(middleware.RateLimit(rdb, 600, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()))
	return r
}

// setupMail picks the contact-mail route: disabled, queued for the email
// worker, or sent directly through Mailgun.
func setupMail(cfg *config.Config, logger *logrus.Logger) *helpers.RabbitPublisher {
	switch {
	case !cfg.MailSendEnabled:
		logger.Info("MAIL_SEND_ENABLED=false; contact emails are logged only")
	case cfg.MailDelivery == config.DeliveryQueue:
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		container.SetMailSender(mailer.NewQueueSender(pub))
		return pub
	case cfg.MailgunConfigured():
		container.SetMailSender(mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender))
	default:
		logger.Warn("Mailgun not configured; contact emails are logged only")
	}
	return nil
}
